package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/internal/pkg/shortener"
)

// QRCode represents a physical touch-point (table, counter, room) a tenant
// registers. Customers reach the feedback form through the public Slug.
// Deletion is a hard delete: feedback and derived rows cascade via foreign
// keys, so tenant aggregates never count an orphaned touch point.
type QRCode struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name       string     `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	Location   *string    `gorm:"type:varchar(255)" json:"location"`
	Slug       string     `gorm:"type:varchar(32);uniqueIndex" json:"slug"`
	ScansCount int        `gorm:"default:0" json:"scans_count"`
	Feedbacks  []Feedback `gorm:"foreignKey:QRID;constraint:OnDelete:CASCADE" json:"feedbacks,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the public slug when none is set.
func (q *QRCode) BeforeCreate(tx *gorm.DB) error {
	if q.Slug == "" {
		slug, err := shortener.GenerateSecureSlug(shortener.SlugLength)
		if err != nil {
			return err
		}
		q.Slug = slug
	}
	return nil
}

// FindQRCodeBySlug resolves a public slug to its QR code.
func FindQRCodeBySlug(db *gorm.DB, slug string) (*QRCode, error) {
	var qr QRCode
	result := db.Where("slug = ?", slug).First(&qr)
	if result.Error != nil {
		return nil, result.Error
	}
	return &qr, nil
}
