package pipeline

import (
	"time"

	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
)

// UpdateReviewerStats recomputes a reviewer's aggregates after their latest
// feedback row has been persisted. Count and average come fresh from the
// feedback table rather than the cached reviewer fields; with the new row
// already attributed, that query yields exactly the weighted fold
// (oldAvg*oldCount + rating) / newCount without a second arithmetic step.
func UpdateReviewerStats(tx *gorm.DB, reviewerID uint, rating int, hasComment bool) error {
	var agg struct {
		Total     int64
		AvgRating float64
	}
	err := tx.Model(&models.Feedback{}).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS avg_rating").
		Where("reviewer_id = ?", reviewerID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	score := models.EngagementScoreFor(int(agg.Total), agg.AvgRating, hasComment)
	// Badge is recomputed every time; the formula is monotonic today but the
	// inputs could be edited externally.
	badge := models.BadgeFor(int(agg.Total), score)

	return tx.Model(&models.Reviewer{}).
		Where("id = ?", reviewerID).
		Updates(map[string]interface{}{
			"total_reviews":    agg.Total,
			"avg_rating_given": agg.AvgRating,
			"engagement_score": score,
			"badge":            badge,
			"last_review_at":   time.Now(),
		}).Error
}
