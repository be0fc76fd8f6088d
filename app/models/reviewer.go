package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

const (
	BADGE_NEW     = "new"
	BADGE_TRUSTED = "trusted"
	BADGE_EXPERT  = "expert"
)

// Reviewer is an optional identity attached to feedback. Identity is keyed by
// email only; name-only submissions always create a fresh reviewer.
type Reviewer struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	DisplayName     string     `gorm:"type:varchar(100);not null" json:"display_name" validate:"required,min=1,max=100"`
	Email           *string    `gorm:"type:varchar(255);uniqueIndex" json:"email" validate:"omitempty,email"`
	AvatarURL       string     `gorm:"type:varchar(255)" json:"avatar_url"`
	TotalReviews    int        `gorm:"default:0" json:"total_reviews"`
	AvgRatingGiven  float64    `gorm:"default:0" json:"avg_rating_given"`
	EngagementScore int        `gorm:"default:0" json:"engagement_score"`
	Badge           string     `gorm:"type:varchar(20);default:'new';index" json:"badge"`
	LastReviewAt    *time.Time `json:"last_review_at"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// EngagementScoreFor rewards volume, quality and willingness to elaborate.
func EngagementScoreFor(totalReviews int, avgRating float64, hasComment bool) int {
	score := totalReviews*10 + int(math.Round(avgRating*5))
	if hasComment {
		score += 20
	}
	return score
}

// BadgeFor assigns the badge tier. Evaluated top-down, first match wins; the
// tier is always computed fresh, never carried over from the stored value.
func BadgeFor(totalReviews, engagementScore int) string {
	switch {
	case totalReviews >= 50 && engagementScore >= 500:
		return BADGE_EXPERT
	case totalReviews >= 10 && engagementScore >= 100:
		return BADGE_TRUSTED
	default:
		return BADGE_NEW
	}
}

// FindReviewerByEmail resolves a reviewer by their identity key.
func FindReviewerByEmail(db *gorm.DB, email string) (*Reviewer, error) {
	var reviewer Reviewer
	result := db.Where("email = ?", email).First(&reviewer)
	if result.Error != nil {
		return nil, result.Error
	}
	return &reviewer, nil
}
