package statistics

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/feedbackqr/feedbackqr/app/models"
	"github.com/feedbackqr/feedbackqr/app/repository"
	"github.com/feedbackqr/feedbackqr/internal/pkg/cache"
	"github.com/feedbackqr/feedbackqr/internal/pkg/database"
)

const (
	CacheKeyFeedbacksTotal = "statistics:feedbacks:total"
	CacheKeyFeedbacksDaily = "statistics:feedbacks:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyQRCodes        = "statistics:qrcodes:total"
	CacheKeyTenants        = "statistics:tenants:total"
	CacheExpiration        = 30 * time.Minute
)

// PlatformStats holds the public landing-page counters.
type PlatformStats struct {
	TotalFeedbacks int `json:"total_feedbacks"`
	TodayFeedbacks int `json:"today_feedbacks"`
	TotalQRCodes   int `json:"total_qr_codes"`
	TotalTenants   int `json:"total_tenants"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the platform counters are due a refresh
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached counters when the interval expired
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// UpdateStatisticsCache recounts the platform totals and stores them in redis
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalFeedbacks int64
	if err := db.Model(&models.Feedback{}).Count(&totalFeedbacks).Error; err != nil {
		log.Printf("Error counting total feedbacks: %v", err)
		return err
	}

	today := time.Now().Format(models.StatsDateFormat)
	todayStart, _ := time.Parse(models.StatsDateFormat, today)
	todayEnd := todayStart.Add(24 * time.Hour)

	var todayFeedbacks int64
	if err := db.Model(&models.Feedback{}).
		Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).
		Count(&todayFeedbacks).Error; err != nil {
		log.Printf("Error counting today's feedbacks: %v", err)
		return err
	}

	var totalQRCodes int64
	if err := db.Model(&models.QRCode{}).Count(&totalQRCodes).Error; err != nil {
		log.Printf("Error counting QR codes: %v", err)
		return err
	}

	var totalTenants int64
	if err := db.Model(&models.User{}).Count(&totalTenants).Error; err != nil {
		log.Printf("Error counting tenants: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyFeedbacksTotal, strconv.FormatInt(totalFeedbacks, 10), CacheExpiration); err != nil {
		return err
	}
	dailyKey := fmt.Sprintf(CacheKeyFeedbacksDaily, today)
	if err := cache.Set(dailyKey, strconv.FormatInt(todayFeedbacks, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyQRCodes, strconv.FormatInt(totalQRCodes, 10), CacheExpiration); err != nil {
		return err
	}
	return cache.Set(CacheKeyTenants, strconv.FormatInt(totalTenants, 10), CacheExpiration)
}

// GetPlatformStats returns the public counters, served from cache when warm
func GetPlatformStats() PlatformStats {
	return PlatformStats{
		TotalFeedbacks: cachedCount(CacheKeyFeedbacksTotal, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Feedback{})
		}),
		TodayFeedbacks: cachedCount(fmt.Sprintf(CacheKeyFeedbacksDaily, time.Now().Format(models.StatsDateFormat)), todayFeedbackQuery),
		TotalQRCodes: cachedCount(CacheKeyQRCodes, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.QRCode{})
		}),
		TotalTenants: cachedCount(CacheKeyTenants, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.User{})
		}),
	}
}

func todayFeedbackQuery(db *gorm.DB) *gorm.DB {
	today := time.Now().Format(models.StatsDateFormat)
	todayStart, _ := time.Parse(models.StatsDateFormat, today)
	return db.Model(&models.Feedback{}).Where("created_at BETWEEN ? AND ?", todayStart, todayStart.Add(24*time.Hour))
}

// cachedCount reads a counter from cache, falling back to the database and
// re-warming the cache on a miss.
func cachedCount(key string, scope func(*gorm.DB) *gorm.DB) int {
	val, err := cache.Get(key)
	if err == nil {
		if count, err := strconv.ParseInt(val, 10, 64); err == nil {
			return int(count)
		}
		return 0
	}

	var count int64
	if err := scope(database.GetDB()).Count(&count).Error; err != nil {
		log.Printf("Error counting for %s: %v", key, err)
		return 0
	}
	if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching %s: %v", key, err)
	}
	return int(count)
}

// DailyTrend is one day of the dashboard trend chart.
type DailyTrend struct {
	Date           string  `json:"date"`
	TotalFeedbacks int64   `json:"total_feedbacks"`
	AvgRating      float64 `json:"avg_rating"`
}

// DashboardData aggregates everything the tenant dashboard shows.
type DashboardData struct {
	TotalFeedbacks  int64                       `json:"total_feedbacks"`
	AvgRating       float64                     `json:"avg_rating"`
	NPS             int                         `json:"nps"`
	ActiveQRs       int64                       `json:"active_qrs"`
	RecentFeedbacks []repository.FeedbackWithQR `json:"recent_feedbacks"`
	WeeklyStats     []DailyTrend                `json:"weekly_stats"`
	UrgentAlerts    []repository.FeedbackWithQR `json:"urgent_alerts"`
}

// BuildDashboard computes the dashboard rollup for one tenant. Queries run
// fresh every time: the numbers drive business decisions and must not lag.
func BuildDashboard(db *gorm.DB, userID uint) (*DashboardData, error) {
	data := &DashboardData{
		RecentFeedbacks: []repository.FeedbackWithQR{},
		WeeklyStats:     []DailyTrend{},
		UrgentAlerts:    []repository.FeedbackWithQR{},
	}

	if err := db.Model(&models.QRCode{}).Where("user_id = ?", userID).Count(&data.ActiveQRs).Error; err != nil {
		return nil, err
	}
	if data.ActiveQRs == 0 {
		return data, nil
	}

	tenantFeedbacks := func() *gorm.DB {
		return db.Model(&models.Feedback{}).
			Joins("JOIN qr_codes ON qr_codes.id = feedbacks.qr_id").
			Where("qr_codes.user_id = ?", userID)
	}

	if err := tenantFeedbacks().Count(&data.TotalFeedbacks).Error; err != nil {
		return nil, err
	}

	if data.TotalFeedbacks > 0 {
		var avg float64
		if err := tenantFeedbacks().Select("AVG(feedbacks.rating)").Scan(&avg).Error; err != nil {
			return nil, err
		}
		data.AvgRating = math.Round(avg*100) / 100

		// NPS = % promoters (rating >= 4) minus % detractors (rating <= 2)
		var nps struct {
			Promoters  float64
			Detractors float64
		}
		if err := tenantFeedbacks().
			Select("SUM(CASE WHEN feedbacks.rating >= 4 THEN 1 ELSE 0 END) * 100.0 / COUNT(*) AS promoters, " +
				"SUM(CASE WHEN feedbacks.rating <= 2 THEN 1 ELSE 0 END) * 100.0 / COUNT(*) AS detractors").
			Scan(&nps).Error; err != nil {
			return nil, err
		}
		data.NPS = int(math.Round(nps.Promoters - nps.Detractors))
	}

	if err := db.Model(&models.Feedback{}).
		Select("feedbacks.*, qr_codes.name AS qr_name, qr_codes.location AS qr_location").
		Joins("JOIN qr_codes ON qr_codes.id = feedbacks.qr_id").
		Where("qr_codes.user_id = ?", userID).
		Order("feedbacks.created_at DESC").
		Limit(10).
		Scan(&data.RecentFeedbacks).Error; err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	if err := db.Model(&models.Feedback{}).
		Select("DATE(feedbacks.created_at) AS date, COUNT(*) AS total_feedbacks, AVG(feedbacks.rating) AS avg_rating").
		Joins("JOIN qr_codes ON qr_codes.id = feedbacks.qr_id").
		Where("qr_codes.user_id = ? AND feedbacks.created_at >= ?", userID, weekAgo).
		Group("DATE(feedbacks.created_at)").
		Order("date ASC").
		Scan(&data.WeeklyStats).Error; err != nil {
		return nil, err
	}

	dayAgo := time.Now().Add(-24 * time.Hour)
	if err := db.Model(&models.Feedback{}).
		Select("feedbacks.*, qr_codes.name AS qr_name, qr_codes.location AS qr_location").
		Joins("JOIN qr_codes ON qr_codes.id = feedbacks.qr_id").
		Where("qr_codes.user_id = ? AND feedbacks.is_urgent = ? AND feedbacks.created_at >= ?", userID, true, dayAgo).
		Order("feedbacks.created_at DESC").
		Limit(5).
		Scan(&data.UrgentAlerts).Error; err != nil {
		return nil, err
	}

	return data, nil
}
