// Package pipeline implements the feedback ingestion path: a submission is
// validated, the reviewer identity resolved, the feedback row persisted, and
// the reviewer reputation and QR performance snapshots recomputed, all inside
// one transaction, so a failing step leaves no partial state behind.
package pipeline

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
	"github.com/feedbackqr/feedbackqr/internal/pkg/utils"
)

// MaxCommentLength matches the stored-field limit of the feedback comment,
// counted in characters like the VARCHAR(500) column, not bytes.
const MaxCommentLength = 500

var (
	// ErrInvalidRating rejects ratings outside the 1..5 star scale.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrCommentTooLong rejects comments above the stored-field limit.
	ErrCommentTooLong = errors.New("comment exceeds maximum length")
	// ErrQRNotFound means the submitted slug resolves to no QR code.
	ErrQRNotFound = errors.New("qr code not found")
	// ErrFeedbackNotFound means a vote referenced a missing feedback row.
	ErrFeedbackNotFound = errors.New("feedback not found")
	// ErrAlreadyVoted means this voter already marked the feedback helpful.
	ErrAlreadyVoted = errors.New("already voted")
)

// SubmitInput is one raw customer submission.
type SubmitInput struct {
	Rating        int
	Comment       string
	ReviewerName  string
	ReviewerEmail string
}

// Pipeline orchestrates feedback ingestion against an injected store handle.
type Pipeline struct {
	db *gorm.DB
}

// New creates a pipeline bound to the given database handle.
func New(db *gorm.DB) *Pipeline {
	return &Pipeline{db: db}
}

// Submit validates and persists one submission against the QR code behind
// slug and returns the new feedback ID. All writes, including the derived
// reviewer and performance updates, commit or roll back together.
func (p *Pipeline) Submit(slug string, input SubmitInput) (uint, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return 0, ErrInvalidRating
	}
	if utf8.RuneCountInString(input.Comment) > MaxCommentLength {
		return 0, ErrCommentTooLong
	}

	qr, err := models.FindQRCodeBySlug(p.db, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrQRNotFound
		}
		return 0, err
	}

	var feedbackID uint
	err = p.db.Transaction(func(tx *gorm.DB) error {
		reviewerID, err := resolveReviewer(tx, input.ReviewerName, input.ReviewerEmail)
		if err != nil {
			return err
		}

		feedback := models.Feedback{
			QRID:       qr.ID,
			Rating:     input.Rating,
			IsUrgent:   models.IsUrgentRating(input.Rating),
			ReviewerID: reviewerID,
		}
		if input.Comment != "" {
			comment := input.Comment
			feedback.Comment = &comment
		}
		if err := tx.Create(&feedback).Error; err != nil {
			return err
		}
		feedbackID = feedback.ID

		if err := tx.Model(&models.QRCode{}).Where("id = ?", qr.ID).
			UpdateColumn("scans_count", gorm.Expr("scans_count + 1")).Error; err != nil {
			return err
		}

		if err := upsertDailyStat(tx, qr.ID); err != nil {
			return err
		}

		if reviewerID != nil {
			if err := UpdateReviewerStats(tx, *reviewerID, input.Rating, input.Comment != ""); err != nil {
				return err
			}
		}

		return RecomputeQRPerformance(tx, qr.ID)
	})
	if err != nil {
		return 0, err
	}

	return feedbackID, nil
}

// resolveReviewer maps the optional identity fields to a reviewer row. Email
// is the only identity key honored: name-only submissions always create a
// fresh reviewer, which keeps anonymous participants unlinkable. Emails are
// lowercased so the same person resolves to one identity regardless of how
// they typed it or which entry point they used.
func resolveReviewer(tx *gorm.DB, name, email string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		existing, err := models.FindReviewerByEmail(tx, email)
		if err == nil {
			return &existing.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	reviewer := models.Reviewer{
		DisplayName: name,
		AvatarURL:   utils.GetInitialsAvatarURL(name),
		Badge:       models.BADGE_NEW,
	}
	if email != "" {
		reviewer.Email = &email
	}
	if err := tx.Create(&reviewer).Error; err != nil {
		return nil, err
	}
	return &reviewer.ID, nil
}

// upsertDailyStat maintains the per-day rollup for a QR code. Average and
// satisfaction are recomputed from the feedback rows of that calendar day
// rather than folded incrementally, so concurrent writers cannot drift the
// stored values.
func upsertDailyStat(tx *gorm.DB, qrID uint) error {
	today := time.Now().Format(models.StatsDateFormat)

	var agg struct {
		Total        int64
		AvgRating    float64
		Satisfaction float64
	}
	err := tx.Model(&models.Feedback{}).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS avg_rating, "+
			"COALESCE(SUM(CASE WHEN rating >= 4 THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 0) AS satisfaction").
		Where("qr_id = ? AND DATE(created_at) = ?", qrID, today).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	var stat models.FeedbackStat
	err = tx.Where("qr_id = ? AND date = ?", qrID, today).First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stat = models.FeedbackStat{
			QRID:             qrID,
			Date:             today,
			TotalFeedbacks:   int(agg.Total),
			AvgRating:        agg.AvgRating,
			SatisfactionRate: agg.Satisfaction,
		}
		return tx.Create(&stat).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&stat).Updates(map[string]interface{}{
		"total_feedbacks":   agg.Total,
		"avg_rating":        agg.AvgRating,
		"satisfaction_rate": agg.Satisfaction,
	}).Error
}
