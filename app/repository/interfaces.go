package repository

import (
	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
)

// UserRepository defines the interface for tenant-account database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
}

// QRCodeRepository defines the interface for QR-code database operations
type QRCodeRepository interface {
	Create(qr *models.QRCode) error
	GetByID(id uint) (*models.QRCode, error)
	GetByIDForUser(id, userID uint) (*models.QRCode, error)
	GetBySlug(slug string) (*models.QRCode, error)
	GetWithStats(id, userID uint) (*QRCodeWithStats, error)
	ListByUser(userID uint) ([]QRCodeWithStats, error)
	CountByUser(userID uint) (int64, error)
	Update(qr *models.QRCode) error
	Delete(id uint) error
}

// FeedbackRepository defines the interface for feedback reads. Writes go
// through the ingestion pipeline, never through this interface.
type FeedbackRepository interface {
	GetByID(id uint) (*models.Feedback, error)
	ListByQR(qrID uint, limit int) ([]models.Feedback, error)
	ListUrgentByUser(userID uint, limit int) ([]FeedbackWithQR, error)
	TopByUser(userID uint, category string, limit int) ([]FeedbackWithContext, error)
	OverviewByUser(userID uint) (*FeedbackOverview, error)
	PublicWallByQR(qrID uint, limit int) ([]FeedbackWithContext, error)
	DistributionByQR(qrID uint) ([]RatingBucket, error)
}

// ReviewerRepository defines the interface for reviewer-related operations
type ReviewerRepository interface {
	Create(reviewer *models.Reviewer) error
	GetByID(id uint) (*models.Reviewer, error)
	GetByEmail(email string) (*models.Reviewer, error)
	List(badge, sortBy string, limit, offset int) ([]models.Reviewer, error)
	Count() (int64, error)
	RankingsByUser(userID uint, badge, sortBy string, limit int) ([]ReviewerRanking, error)
}

// PerformanceRepository defines the interface for the per-QR derived snapshot
type PerformanceRepository interface {
	EnsureForQR(qrID uint) error
	GetByQR(qrID uint) (*models.QRPerformance, error)
	IncrementShareCount(qrID uint) error
}

// QRCodeWithStats is a QR code together with its lifetime feedback aggregates.
type QRCodeWithStats struct {
	models.QRCode
	FeedbackCount int64   `json:"feedback_count"`
	AvgRating     float64 `json:"avg_rating"`
}

// FeedbackWithQR is a feedback row joined with its touch-point context.
type FeedbackWithQR struct {
	models.Feedback
	QRName     string  `json:"qr_name"`
	QRLocation *string `json:"qr_location"`
}

// FeedbackWithContext additionally carries the reviewer's public identity.
type FeedbackWithContext struct {
	models.Feedback
	QRName          string  `json:"qr_name,omitempty"`
	QRLocation      *string `json:"qr_location,omitempty"`
	ReviewerName    *string `json:"reviewer_name,omitempty"`
	ReviewerAvatar  *string `json:"reviewer_avatar,omitempty"`
	ReviewerBadge   *string `json:"reviewer_badge,omitempty"`
	ReviewerReviews *int    `json:"reviewer_total_reviews,omitempty"`
	ReviewerScore   *int    `json:"reviewer_engagement_score,omitempty"`
}

// FeedbackOverview summarizes all feedback across one tenant's QR codes.
type FeedbackOverview struct {
	Total        int64   `json:"total"`
	Positive     int64   `json:"positive"`
	Negative     int64   `json:"negative"`
	WithComments int64   `json:"with_comments"`
	AvgRating    float64 `json:"avg_rating"`
}

// RatingBucket is one row of a rating distribution histogram.
type RatingBucket struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// ReviewerRanking is a reviewer row enriched for the tenant rankings view.
type ReviewerRanking struct {
	models.Reviewer
	QRCodesReviewed int64 `json:"qr_codes_reviewed"`
	CommentsCount   int64 `json:"comments_count"`
	Rank            int   `json:"rank"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	User        UserRepository
	QRCode      QRCodeRepository
	Feedback    FeedbackRepository
	Reviewer    ReviewerRepository
	Performance PerformanceRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		QRCode:      NewQRCodeRepository(db),
		Feedback:    NewFeedbackRepository(db),
		Reviewer:    NewReviewerRepository(db),
		Performance: NewPerformanceRepository(db),
	}
}
