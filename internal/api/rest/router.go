package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domain "github.com/sinawise/sinawise-server/internal/domain/emergency"
	airrepo "github.com/sinawise/sinawise-server/internal/repository/airquality"
	"github.com/sinawise/sinawise-server/internal/repository/shelter"
	"github.com/sinawise/sinawise-server/internal/repository/video"
	"github.com/sinawise/sinawise-server/internal/security"
	"github.com/sinawise/sinawise-server/internal/service/emergency"
)

// EmergencyService abstracts the alert operations the transport layer depends on.
type EmergencyService interface {
	Trigger(ctx context.Context, level, message string) (*domain.Alert, emergency.Outcome, error)
	Clear(ctx context.Context, message string) (*domain.Alert, emergency.Outcome, error)
	Status(ctx context.Context) (*domain.Alert, error)
}

// AirQualityService abstracts air-quality ingestion and reads.
type AirQualityService interface {
	Ingest(ctx context.Context, pm25 float64, pm10, pm1 *float64, deviceID string) (*airrepo.Reading, error)
	Latest(ctx context.Context) (*airrepo.Reading, error)
}

// RouterOptions carries every collaborator the HTTP surface needs.
type RouterOptions struct {
	// Emergency serves alert status, trigger and clear.
	Emergency EmergencyService
	// AirQuality serves sensor ingestion and the latest reading.
	AirQuality AirQualityService
	// Shelters and Videos back the public lists and admin CRUD.
	Shelters shelter.Repository
	Videos   video.Repository
	// Tokens issues and verifies admin session tokens.
	Tokens *security.TokenManager
	// Credentials verifies admin logins.
	Credentials security.Credentials
	// IoTAPIKey guards sensor ingestion. Empty disables the check.
	IoTAPIKey string
}

// NewRouter builds the HTTP surface: public reads, admin-guarded mutations,
// sensor ingestion, health and metrics.
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), requestMetrics())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-IOT-KEY")
	router.Use(cors.New(corsConfig))

	h := &handlers{opts: opts}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC().Format(time.RFC3339)})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public surface, no auth.
	router.GET("/emergency/status", h.emergencyStatus)
	router.GET("/evacuation/posts", h.listShelters)
	router.GET("/education/videos", h.listVideos)
	router.GET("/iot/air/latest", h.airLatest)

	// Sensor ingestion, guarded by a shared key when configured.
	router.POST("/iot/air", h.iotGuard, h.airIngest)

	router.POST("/admin/login", h.login)

	admin := router.Group("/admin", h.adminGuard)
	{
		admin.POST("/emergency/trigger", h.emergencyTrigger)
		// Alias kept for backward client compatibility.
		admin.POST("/emergency/activate", h.emergencyTrigger)
		admin.POST("/emergency/clear", h.emergencyClear)

		admin.GET("/posts", h.listShelters)
		admin.POST("/posts", h.createShelter)
		admin.PUT("/posts/:id", h.updateShelter)
		admin.DELETE("/posts/:id", h.deleteShelter)

		admin.GET("/videos", h.listVideos)
		admin.POST("/videos", h.createVideo)
		admin.PUT("/videos/:id", h.updateVideo)
		admin.DELETE("/videos/:id", h.deleteVideo)
	}

	return router
}

// handlers groups the route implementations around their collaborators.
type handlers struct {
	opts RouterOptions
}
