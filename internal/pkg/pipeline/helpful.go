package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
)

// VoterKeyFromIP derives the anonymous voter identity used for helpful-vote
// deduplication. Only the hash is stored, never the address itself.
func VoterKeyFromIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// RegisterHelpfulVote records one voter marking one feedback as helpful.
// Idempotent per (feedback, voter): the unique index over that pair is the
// arbiter, so two racing first votes still produce exactly one row and one
// counter increment, the loser gets ErrAlreadyVoted.
func RegisterHelpfulVote(db *gorm.DB, feedbackID uint, voterKey string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var feedback models.Feedback
		if err := tx.First(&feedback, feedbackID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFeedbackNotFound
			}
			return err
		}

		vote := models.HelpfulVote{FeedbackID: feedbackID, VoterKey: voterKey}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return err
		}

		return tx.Model(&models.Feedback{}).Where("id = ?", feedbackID).
			UpdateColumn("helpful_votes", gorm.Expr("helpful_votes + 1")).Error
	})
}
