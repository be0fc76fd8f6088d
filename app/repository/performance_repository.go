package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
)

// performanceRepository implements the PerformanceRepository interface
type performanceRepository struct {
	db *gorm.DB
}

// NewPerformanceRepository creates a new performance repository instance
func NewPerformanceRepository(db *gorm.DB) PerformanceRepository {
	return &performanceRepository{db: db}
}

// EnsureForQR creates the zeroed snapshot row for a freshly registered QR
// code. Idempotent: an existing row is left untouched.
func (r *performanceRepository) EnsureForQR(qrID uint) error {
	var perf models.QRPerformance
	err := r.db.Where("qr_id = ?", qrID).First(&perf).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	perf = models.QRPerformance{
		QRID:  qrID,
		Level: models.LEVEL_BRONZE,
	}
	return r.db.Create(&perf).Error
}

// GetByQR retrieves the snapshot for one QR code
func (r *performanceRepository) GetByQR(qrID uint) (*models.QRPerformance, error) {
	var perf models.QRPerformance
	err := r.db.Where("qr_id = ?", qrID).First(&perf).Error
	if err != nil {
		return nil, err
	}
	return &perf, nil
}

// IncrementShareCount bumps the share counter without touching the rates the
// tier engine owns.
func (r *performanceRepository) IncrementShareCount(qrID uint) error {
	return r.db.Model(&models.QRPerformance{}).
		Where("qr_id = ?", qrID).
		Updates(map[string]interface{}{
			"share_count": gorm.Expr("share_count + 1"),
			"updated_at":  time.Now(),
		}).Error
}
