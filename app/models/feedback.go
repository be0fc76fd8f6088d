package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is one customer submission against a QR code. A row is written once
// and never mutated afterwards, except for the helpful-vote counter.
type Feedback struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         string    `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	QRID         uint      `gorm:"index;not null" json:"qr_id"`
	QRCode       QRCode    `gorm:"foreignKey:QRID" json:"qr_code,omitempty"`
	Rating       int       `gorm:"not null" json:"rating" validate:"required,min=1,max=5"`
	Comment      *string   `gorm:"type:varchar(500)" json:"comment" validate:"omitempty,max=500"`
	IsUrgent     bool      `gorm:"default:false;index" json:"is_urgent"`
	ReviewerID   *uint     `gorm:"index" json:"reviewer_id"`
	Reviewer     *Reviewer `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	HelpfulVotes int       `gorm:"default:0" json:"helpful_votes"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// UrgencyThreshold: ratings below this raise an alert for the tenant.
const UrgencyThreshold = 3

// IsUrgentRating reports whether a rating flags the submission for alerts.
// The flag is fixed at creation time and never recomputed.
func IsUrgentRating(rating int) bool {
	return rating < UrgencyThreshold
}

// HasComment reports whether the feedback carries a non-empty comment.
func (f *Feedback) HasComment() bool {
	return f.Comment != nil && *f.Comment != ""
}

// BeforeCreate assigns the public UUID when none is set.
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == "" {
		f.UUID = uuid.New().String()
	}
	return nil
}
