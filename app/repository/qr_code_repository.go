package repository

import (
	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
)

// qrCodeRepository implements the QRCodeRepository interface
type qrCodeRepository struct {
	db *gorm.DB
}

// NewQRCodeRepository creates a new QR-code repository instance
func NewQRCodeRepository(db *gorm.DB) QRCodeRepository {
	return &qrCodeRepository{db: db}
}

// Create creates a new QR code in the database
func (r *qrCodeRepository) Create(qr *models.QRCode) error {
	return r.db.Create(qr).Error
}

// GetByID retrieves a QR code by its ID
func (r *qrCodeRepository) GetByID(id uint) (*models.QRCode, error) {
	var qr models.QRCode
	err := r.db.First(&qr, id).Error
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

// GetByIDForUser retrieves a QR code only if it belongs to the given tenant.
// A foreign QR code is indistinguishable from a missing one.
func (r *qrCodeRepository) GetByIDForUser(id, userID uint) (*models.QRCode, error) {
	var qr models.QRCode
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&qr).Error
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

// GetBySlug retrieves a QR code by its public slug
func (r *qrCodeRepository) GetBySlug(slug string) (*models.QRCode, error) {
	var qr models.QRCode
	err := r.db.Where("slug = ?", slug).First(&qr).Error
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

// GetWithStats retrieves one owned QR code with lifetime feedback aggregates
func (r *qrCodeRepository) GetWithStats(id, userID uint) (*QRCodeWithStats, error) {
	qr, err := r.GetByIDForUser(id, userID)
	if err != nil {
		return nil, err
	}

	stats := QRCodeWithStats{QRCode: *qr}
	err = r.db.Model(&models.Feedback{}).Where("qr_id = ?", qr.ID).Count(&stats.FeedbackCount).Error
	if err != nil {
		return nil, err
	}
	if stats.FeedbackCount > 0 {
		err = r.db.Model(&models.Feedback{}).Where("qr_id = ?", qr.ID).
			Select("AVG(rating)").Scan(&stats.AvgRating).Error
		if err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

// ListByUser retrieves all of a tenant's QR codes with feedback aggregates,
// newest first.
func (r *qrCodeRepository) ListByUser(userID uint) ([]QRCodeWithStats, error) {
	var qrs []models.QRCode
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&qrs).Error
	if err != nil {
		return nil, err
	}

	result := make([]QRCodeWithStats, 0, len(qrs))
	for _, qr := range qrs {
		entry := QRCodeWithStats{QRCode: qr}
		if err := r.db.Model(&models.Feedback{}).Where("qr_id = ?", qr.ID).Count(&entry.FeedbackCount).Error; err != nil {
			return nil, err
		}
		if entry.FeedbackCount > 0 {
			if err := r.db.Model(&models.Feedback{}).Where("qr_id = ?", qr.ID).
				Select("AVG(rating)").Scan(&entry.AvgRating).Error; err != nil {
				return nil, err
			}
		}
		result = append(result, entry)
	}
	return result, nil
}

// CountByUser returns how many QR codes a tenant currently owns
func (r *qrCodeRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.QRCode{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Update updates an existing QR code in the database
func (r *qrCodeRepository) Update(qr *models.QRCode) error {
	return r.db.Save(qr).Error
}

// Delete removes a QR code for good. Feedback, votes, daily stats and the
// performance snapshot cascade via foreign keys, so no aggregate can keep
// counting a deleted touch point.
func (r *qrCodeRepository) Delete(id uint) error {
	return r.db.Delete(&models.QRCode{}, id).Error
}
