package repository

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
)

// newTestDB opens a throwaway sqlite store with foreign keys switched on so
// delete cascades behave like the production MySQL schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.QRCode{},
		&models.Feedback{},
		&models.Reviewer{},
		&models.QRPerformance{},
		&models.FeedbackStat{},
		&models.HelpfulVote{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user, err := models.CreateUser("owner@cafe.example", "secret-password", "Cafe Aroma")
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestQRCodeRepository_DeleteCascadesToDerivedRows(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)

	qrRepo := NewQRCodeRepository(db)
	qr := &models.QRCode{UserID: user.ID, Name: "Table 1"}
	require.NoError(t, qrRepo.Create(qr))

	feedback := &models.Feedback{QRID: qr.ID, Rating: 5}
	require.NoError(t, db.Create(feedback).Error)
	require.NoError(t, db.Create(&models.HelpfulVote{
		FeedbackID: feedback.ID,
		VoterKey:   "aaaa",
	}).Error)
	require.NoError(t, db.Create(&models.FeedbackStat{
		QRID:           qr.ID,
		Date:           "2026-08-29",
		TotalFeedbacks: 1,
		AvgRating:      5,
	}).Error)
	require.NoError(t, NewPerformanceRepository(db).EnsureForQR(qr.ID))

	require.NoError(t, qrRepo.Delete(qr.ID))

	// The row itself is gone, not soft-deleted
	var total int64
	require.NoError(t, db.Unscoped().Model(&models.QRCode{}).Count(&total).Error)
	assert.Zero(t, total)

	for name, model := range map[string]interface{}{
		"feedbacks":       &models.Feedback{},
		"helpful votes":   &models.HelpfulVote{},
		"feedback stats":  &models.FeedbackStat{},
		"qr performances": &models.QRPerformance{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%s must cascade away with their QR code", name)
	}

	// Tenant aggregates no longer count the deleted touch point
	overview, err := NewFeedbackRepository(db).OverviewByUser(user.ID)
	require.NoError(t, err)
	assert.Zero(t, overview.Total)
}
