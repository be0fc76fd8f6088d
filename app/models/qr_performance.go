package models

import (
	"time"
)

const (
	LEVEL_BRONZE   = "bronze"
	LEVEL_SILVER   = "silver"
	LEVEL_GOLD     = "gold"
	LEVEL_PLATINUM = "platinum"
)

// QRPerformance is the derived one-to-one snapshot per QR code. It is created
// zeroed when the QR code is registered and recomputed in full on every new
// feedback; only the share counter is incremented independently.
type QRPerformance struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	QRID             uint      `gorm:"uniqueIndex;not null" json:"qr_id"`
	QRCode           QRCode    `gorm:"foreignKey:QRID;constraint:OnDelete:CASCADE" json:"qr_code,omitempty"`
	ResponseRate     float64   `gorm:"default:0" json:"response_rate"`
	SatisfactionRate float64   `gorm:"default:0" json:"satisfaction_rate"`
	ShareCount       int       `gorm:"default:0" json:"share_count"`
	Level            string    `gorm:"type:varchar(20);default:'bronze'" json:"level"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// LevelFor assigns the performance tier, highest first.
func LevelFor(responseRate, satisfactionRate float64) string {
	switch {
	case responseRate >= 80 && satisfactionRate >= 90:
		return LEVEL_PLATINUM
	case responseRate >= 60 && satisfactionRate >= 75:
		return LEVEL_GOLD
	case responseRate >= 40 && satisfactionRate >= 50:
		return LEVEL_SILVER
	default:
		return LEVEL_BRONZE
	}
}
