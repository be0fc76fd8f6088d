package repository

import (
	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
)

// reviewerRepository implements the ReviewerRepository interface
type reviewerRepository struct {
	db *gorm.DB
}

// NewReviewerRepository creates a new reviewer repository instance
func NewReviewerRepository(db *gorm.DB) ReviewerRepository {
	return &reviewerRepository{db: db}
}

// Create creates a new reviewer in the database
func (r *reviewerRepository) Create(reviewer *models.Reviewer) error {
	return r.db.Create(reviewer).Error
}

// GetByID retrieves a reviewer by their ID
func (r *reviewerRepository) GetByID(id uint) (*models.Reviewer, error) {
	var reviewer models.Reviewer
	err := r.db.First(&reviewer, id).Error
	if err != nil {
		return nil, err
	}
	return &reviewer, nil
}

// GetByEmail retrieves a reviewer by their identity key
func (r *reviewerRepository) GetByEmail(email string) (*models.Reviewer, error) {
	var reviewer models.Reviewer
	err := r.db.Where("email = ?", email).First(&reviewer).Error
	if err != nil {
		return nil, err
	}
	return &reviewer, nil
}

// reviewerSortColumns maps public sort keys to ORDER BY clauses. Unknown keys
// fall back to engagement.
var reviewerSortColumns = map[string]string{
	"engagement_score": "engagement_score DESC",
	"total_reviews":    "total_reviews DESC",
	"recent":           "last_review_at DESC",
	"avg_rating":       "avg_rating_given DESC",
}

// List retrieves reviewers globally, optionally filtered by badge
func (r *reviewerRepository) List(badge, sortBy string, limit, offset int) ([]models.Reviewer, error) {
	order, ok := reviewerSortColumns[sortBy]
	if !ok {
		order = reviewerSortColumns["engagement_score"]
	}

	query := r.db.Model(&models.Reviewer{})
	if badge == models.BADGE_NEW || badge == models.BADGE_TRUSTED || badge == models.BADGE_EXPERT {
		query = query.Where("badge = ?", badge)
	}

	var reviewers []models.Reviewer
	err := query.Order(order).Limit(limit).Offset(offset).Find(&reviewers).Error
	return reviewers, err
}

// Count returns the total number of reviewers
func (r *reviewerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Reviewer{}).Count(&count).Error
	return count, err
}

var rankingSortColumns = map[string]string{
	"engagement": "reviewers.engagement_score DESC",
	"reviews":    "reviewers.total_reviews DESC",
	"recent":     "reviewers.last_review_at DESC",
	"rating":     "reviewers.avg_rating_given DESC",
}

// RankingsByUser retrieves the reviewers who reviewed this tenant's QR codes,
// ranked for the gamified leaderboard.
func (r *reviewerRepository) RankingsByUser(userID uint, badge, sortBy string, limit int) ([]ReviewerRanking, error) {
	order, ok := rankingSortColumns[sortBy]
	if !ok {
		order = rankingSortColumns["engagement"]
	}

	query := r.db.Model(&models.Reviewer{}).
		Select("reviewers.*, COUNT(DISTINCT feedbacks.qr_id) AS qr_codes_reviewed, "+
			"COUNT(CASE WHEN feedbacks.comment IS NOT NULL AND feedbacks.comment != '' THEN 1 END) AS comments_count").
		Joins("JOIN feedbacks ON feedbacks.reviewer_id = reviewers.id").
		Joins("JOIN qr_codes ON qr_codes.id = feedbacks.qr_id").
		Where("qr_codes.user_id = ?", userID)

	if badge == models.BADGE_NEW || badge == models.BADGE_TRUSTED || badge == models.BADGE_EXPERT {
		query = query.Where("reviewers.badge = ?", badge)
	}

	var rankings []ReviewerRanking
	err := query.Group("reviewers.id").Order(order).Limit(limit).Scan(&rankings).Error
	if err != nil {
		return nil, err
	}

	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings, nil
}
