package pipeline

import (
	"errors"

	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
)

// RecomputeQRPerformance rebuilds the derived snapshot for one QR code from
// its full feedback history. The share counter belongs to the share-tracking
// operation and is never written here.
func RecomputeQRPerformance(tx *gorm.DB, qrID uint) error {
	var qr models.QRCode
	if err := tx.Select("id", "scans_count").First(&qr, qrID).Error; err != nil {
		return err
	}

	var agg struct {
		Total        int64
		Satisfaction float64
	}
	err := tx.Model(&models.Feedback{}).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN rating >= 4 THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 0) AS satisfaction").
		Where("qr_id = ?", qrID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	// The +1 is a smoothing constant so a QR code with zero recorded scans
	// still gets a defined rate.
	responseRate := float64(agg.Total) / float64(qr.ScansCount+1) * 100
	level := models.LevelFor(responseRate, agg.Satisfaction)

	updates := map[string]interface{}{
		"response_rate":     responseRate,
		"satisfaction_rate": agg.Satisfaction,
		"level":             level,
	}

	var perf models.QRPerformance
	err = tx.Where("qr_id = ?", qrID).First(&perf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		perf = models.QRPerformance{
			QRID:             qrID,
			ResponseRate:     responseRate,
			SatisfactionRate: agg.Satisfaction,
			Level:            level,
		}
		return tx.Create(&perf).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&perf).Updates(updates).Error
}
