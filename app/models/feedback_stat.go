package models

import (
	"time"
)

// FeedbackStat is the daily rollup per QR code. Average and satisfaction are
// recomputed from the feedback table on every submission instead of being
// maintained as running values; the write is more expensive but cannot drift.
type FeedbackStat struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	QRID             uint      `gorm:"index:idx_feedback_stats_qr_date,unique;not null" json:"qr_id"`
	QRCode           QRCode    `gorm:"foreignKey:QRID;constraint:OnDelete:CASCADE" json:"-"`
	Date             string    `gorm:"type:varchar(10);index:idx_feedback_stats_qr_date,unique;not null" json:"date"`
	TotalFeedbacks   int       `gorm:"default:0" json:"total_feedbacks"`
	AvgRating        float64   `gorm:"default:0" json:"avg_rating"`
	SatisfactionRate float64   `gorm:"default:0" json:"satisfaction_rate"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// StatsDateFormat is the calendar-date key used by the daily rollup.
const StatsDateFormat = "2006-01-02"
