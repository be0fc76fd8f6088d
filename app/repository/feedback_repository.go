package repository

import (
	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
)

// Top-feedback list categories offered to tenants.
const (
	TopCategoryBest     = "best"
	TopCategoryHelpful  = "helpful"
	TopCategoryRecent   = "recent"
	TopCategoryDetailed = "detailed"
	TopCategoryCritical = "critical"
)

// feedbackRepository implements the FeedbackRepository interface
type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository instance
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// GetByID retrieves a feedback row by its ID
func (r *feedbackRepository) GetByID(id uint) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.db.First(&feedback, id).Error
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

// ListByQR retrieves the latest feedback for one QR code, newest first
func (r *feedbackRepository) ListByQR(qrID uint, limit int) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := r.db.Where("qr_id = ?", qrID).
		Order("created_at DESC").
		Limit(limit).
		Find(&feedbacks).Error
	return feedbacks, err
}

// ListUrgentByUser retrieves urgent feedback across all of a tenant's QR
// codes, newest first.
func (r *feedbackRepository) ListUrgentByUser(userID uint, limit int) ([]FeedbackWithQR, error) {
	var rows []FeedbackWithQR
	err := r.db.Model(&models.Feedback{}).
		Select("feedbacks.*, qr_codes.name AS qr_name, qr_codes.location AS qr_location").
		Joins("JOIN qr_codes ON qr_codes.id = feedbacks.qr_id").
		Where("qr_codes.user_id = ? AND feedbacks.is_urgent = ?", userID, true).
		Order("feedbacks.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// TopByUser retrieves tenant feedback ranked by the given category strategy.
func (r *feedbackRepository) TopByUser(userID uint, category string, limit int) ([]FeedbackWithContext, error) {
	query := r.db.Model(&models.Feedback{}).
		Select("feedbacks.*, qr_codes.name AS qr_name, qr_codes.location AS qr_location, "+
			"reviewers.display_name AS reviewer_name, reviewers.avatar_url AS reviewer_avatar, "+
			"reviewers.badge AS reviewer_badge, reviewers.total_reviews AS reviewer_reviews, "+
			"reviewers.engagement_score AS reviewer_score").
		Joins("JOIN qr_codes ON qr_codes.id = feedbacks.qr_id").
		Joins("LEFT JOIN reviewers ON reviewers.id = feedbacks.reviewer_id").
		Where("qr_codes.user_id = ?", userID)

	switch category {
	case TopCategoryBest:
		query = query.Where("feedbacks.rating >= 4 AND feedbacks.comment IS NOT NULL AND feedbacks.comment != ''").
			Order("feedbacks.rating DESC, feedbacks.helpful_votes DESC, feedbacks.created_at DESC")
	case TopCategoryHelpful:
		query = query.Where("feedbacks.helpful_votes > 0").
			Order("feedbacks.helpful_votes DESC, feedbacks.rating DESC")
	case TopCategoryDetailed:
		query = query.Where("feedbacks.comment IS NOT NULL AND LENGTH(feedbacks.comment) > 50").
			Order("LENGTH(feedbacks.comment) DESC, feedbacks.rating DESC")
	case TopCategoryCritical:
		query = query.Where("feedbacks.rating <= 2 AND feedbacks.comment IS NOT NULL").
			Order("feedbacks.created_at DESC")
	default: // recent
		query = query.Order("feedbacks.created_at DESC")
	}

	var rows []FeedbackWithContext
	err := query.Limit(limit).Scan(&rows).Error
	return rows, err
}

// OverviewByUser summarizes all feedback across a tenant's QR codes
func (r *feedbackRepository) OverviewByUser(userID uint) (*FeedbackOverview, error) {
	var overview FeedbackOverview
	err := r.db.Model(&models.Feedback{}).
		Select("COUNT(*) AS total, "+
			"COUNT(CASE WHEN feedbacks.rating >= 4 THEN 1 END) AS positive, "+
			"COUNT(CASE WHEN feedbacks.rating <= 2 THEN 1 END) AS negative, "+
			"COUNT(CASE WHEN feedbacks.comment IS NOT NULL AND feedbacks.comment != '' THEN 1 END) AS with_comments, "+
			"COALESCE(AVG(feedbacks.rating), 0) AS avg_rating").
		Joins("JOIN qr_codes ON qr_codes.id = feedbacks.qr_id").
		Where("qr_codes.user_id = ?", userID).
		Scan(&overview).Error
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

// PublicWallByQR retrieves the commented feedback shown on the public QR
// page: most helpful first, then best rated, then newest.
func (r *feedbackRepository) PublicWallByQR(qrID uint, limit int) ([]FeedbackWithContext, error) {
	var rows []FeedbackWithContext
	err := r.db.Model(&models.Feedback{}).
		Select("feedbacks.*, reviewers.display_name AS reviewer_name, "+
			"reviewers.avatar_url AS reviewer_avatar, reviewers.badge AS reviewer_badge").
		Joins("LEFT JOIN reviewers ON reviewers.id = feedbacks.reviewer_id").
		Where("feedbacks.qr_id = ? AND feedbacks.comment IS NOT NULL AND feedbacks.comment != ''", qrID).
		Order("feedbacks.helpful_votes DESC, feedbacks.rating DESC, feedbacks.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// DistributionByQR returns the rating histogram for one QR code
func (r *feedbackRepository) DistributionByQR(qrID uint) ([]RatingBucket, error) {
	var buckets []RatingBucket
	err := r.db.Model(&models.Feedback{}).
		Select("rating, COUNT(*) AS count").
		Where("qr_id = ?", qrID).
		Group("rating").
		Order("rating DESC").
		Scan(&buckets).Error
	return buckets, err
}
