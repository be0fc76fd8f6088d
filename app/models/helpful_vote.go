package models

import (
	"time"
)

// HelpfulVote records one voter marking one feedback as helpful. The unique
// index over (feedback_id, voter_key) is what makes vote registration
// idempotent per voter.
type HelpfulVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FeedbackID uint      `gorm:"index:idx_helpful_votes_feedback_voter,unique;not null" json:"feedback_id"`
	Feedback   Feedback  `gorm:"foreignKey:FeedbackID;constraint:OnDelete:CASCADE" json:"feedback,omitempty"`
	VoterKey   string    `gorm:"type:varchar(64);index:idx_helpful_votes_feedback_voter,unique;not null" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
