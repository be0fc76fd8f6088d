package pipeline

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
)

// newTestDB opens a throwaway sqlite store with the full schema. Foreign keys
// are switched on so cascades behave like production MySQL, and error
// translation is enabled like in the production gorm config.
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

func seedQRCode(t *testing.T, db *gorm.DB) *models.QRCode {
	t.Helper()

	user, err := models.CreateUser("owner@cafe.example", "secret-password", "Cafe Aroma")
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error)

	qr := &models.QRCode{UserID: user.ID, Name: "Table 1"}
	require.NoError(t, db.Create(qr).Error)
	return qr
}

func TestSubmit_ReviewerAverageAcrossSubmissions(t *testing.T) {
	db := newTestDB(t)
	qr := seedQRCode(t, db)
	p := New(db)

	for _, rating := range []int{5, 3, 4} {
		_, err := p.Submit(qr.Slug, SubmitInput{
			Rating:        rating,
			ReviewerName:  "Ana",
			ReviewerEmail: "ana@example.com",
		})
		require.NoError(t, err)
	}

	var reviewers []models.Reviewer
	require.NoError(t, db.Find(&reviewers).Error)
	require.Len(t, reviewers, 1)

	r := reviewers[0]
	assert.Equal(t, 3, r.TotalReviews)
	assert.InDelta(t, 4.0, r.AvgRatingGiven, 0.001)
	// 3 reviews * 10 + round(4.0 * 5), no comments
	assert.Equal(t, 50, r.EngagementScore)
	assert.Equal(t, models.BADGE_NEW, r.Badge)
	assert.NotNil(t, r.LastReviewAt)
}

func TestSubmit_UnknownSlugLeavesNoSideEffects(t *testing.T) {
	db := newTestDB(t)
	seedQRCode(t, db)
	p := New(db)

	id, err := p.Submit("no-such-slug", SubmitInput{
		Rating:        5,
		Comment:       "great",
		ReviewerName:  "Ana",
		ReviewerEmail: "ana@example.com",
	})
	assert.ErrorIs(t, err, ErrQRNotFound)
	assert.Zero(t, id)

	for name, model := range map[string]interface{}{
		"feedbacks":      &models.Feedback{},
		"reviewers":      &models.Reviewer{},
		"feedback stats": &models.FeedbackStat{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "no %s may be written for an unknown slug", name)
	}
}

func TestSubmit_LowRatingIsUrgentAndBronze(t *testing.T) {
	db := newTestDB(t)
	qr := seedQRCode(t, db)
	p := New(db)

	id, err := p.Submit(qr.Slug, SubmitInput{Rating: 2, Comment: "cold coffee"})
	require.NoError(t, err)

	var feedback models.Feedback
	require.NoError(t, db.First(&feedback, id).Error)
	assert.True(t, feedback.IsUrgent)

	var perf models.QRPerformance
	require.NoError(t, db.Where("qr_id = ?", qr.ID).First(&perf).Error)
	assert.Equal(t, models.LEVEL_BRONZE, perf.Level)
	assert.Zero(t, perf.SatisfactionRate)
}

func TestSubmit_AcceptsMaxLengthMultibyteComment(t *testing.T) {
	db := newTestDB(t)
	qr := seedQRCode(t, db)
	p := New(db)

	// 500 two-byte runes: exactly the character limit, twice as many bytes
	comment := strings.Repeat("é", MaxCommentLength)
	id, err := p.Submit(qr.Slug, SubmitInput{Rating: 4, Comment: comment})
	require.NoError(t, err)

	var feedback models.Feedback
	require.NoError(t, db.First(&feedback, id).Error)
	require.NotNil(t, feedback.Comment)
	assert.Equal(t, comment, *feedback.Comment)
}

func TestSubmit_EmailIdentityIgnoresCase(t *testing.T) {
	db := newTestDB(t)
	qr := seedQRCode(t, db)
	p := New(db)

	_, err := p.Submit(qr.Slug, SubmitInput{Rating: 5, ReviewerName: "Ana", ReviewerEmail: "Ana@Example.COM"})
	require.NoError(t, err)
	_, err = p.Submit(qr.Slug, SubmitInput{Rating: 4, ReviewerName: "Ana", ReviewerEmail: "ana@example.com"})
	require.NoError(t, err)

	var reviewers []models.Reviewer
	require.NoError(t, db.Find(&reviewers).Error)
	require.Len(t, reviewers, 1)
	assert.Equal(t, 2, reviewers[0].TotalReviews)
}

func TestRegisterHelpfulVote_DuplicateCountsOnce(t *testing.T) {
	db := newTestDB(t)
	qr := seedQRCode(t, db)
	p := New(db)

	id, err := p.Submit(qr.Slug, SubmitInput{Rating: 5, Comment: "lovely"})
	require.NoError(t, err)

	key := VoterKeyFromIP("203.0.113.7")
	require.NoError(t, RegisterHelpfulVote(db, id, key))
	assert.ErrorIs(t, RegisterHelpfulVote(db, id, key), ErrAlreadyVoted)

	var feedback models.Feedback
	require.NoError(t, db.First(&feedback, id).Error)
	assert.Equal(t, 1, feedback.HelpfulVotes)

	var votes int64
	require.NoError(t, db.Model(&models.HelpfulVote{}).Count(&votes).Error)
	assert.EqualValues(t, 1, votes)

	// A different voter still counts
	require.NoError(t, RegisterHelpfulVote(db, id, VoterKeyFromIP("203.0.113.8")))
	require.NoError(t, db.First(&feedback, id).Error)
	assert.Equal(t, 2, feedback.HelpfulVotes)
}

func TestRegisterHelpfulVote_MissingFeedback(t *testing.T) {
	db := newTestDB(t)

	err := RegisterHelpfulVote(db, 9999, VoterKeyFromIP("203.0.113.7"))
	assert.ErrorIs(t, err, ErrFeedbackNotFound)
}
