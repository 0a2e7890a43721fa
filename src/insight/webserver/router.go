package webserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/eipsight/eipsight/src/insight/config"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client) {
	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
	}))
	r.Use(RequestIDMiddleware())

	limiter := NewRateLimiter(120, time.Minute)
	r.Use(RateLimitMiddleware(limiter))

	tlH := NewTimeline(db)
	gvH := NewGovernance(db, cfg)
	trH := NewTrending(db, rdb, cfg)
	rpH := NewReports(db, cfg)

	v1 := r.Group("/v1")
	{
		repos := v1.Group("/repos/:repo")
		repos.GET("/proposals/:num/timeline", tlH.Get)
		repos.GET("/prs/:num/state", gvH.State)
		repos.GET("/snapshots/:year/:month", rpH.Snapshot)
		repos.GET("/funnel", rpH.Funnel)

		v1.GET("/trending", trH.List)
		v1.GET("/governance/buckets", rpH.Buckets)
	}

	r.GET("/healthz", func(c *gin.Context) {
		if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"err": "redis unavailable"})
			return
		}
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"err": "mysql unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
