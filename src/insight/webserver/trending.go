package webserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/eipsight/eipsight/src/insight/config"
	"github.com/eipsight/eipsight/src/insight/data"
	"github.com/eipsight/eipsight/src/insight/reports"
	"github.com/eipsight/eipsight/src/insight/trending"
)

// Trending responses are memoized briefly; the ranking itself is always
// derived, never stored as authoritative.
const trendingCacheTTL = 60 * time.Second

type Trending struct {
	db         *gorm.DB
	rdb        *redis.Client
	windowDays int
}

func NewTrending(db *gorm.DB, rdb *redis.Client, cfg config.Config) Trending {
	return Trending{db: db, rdb: rdb, windowDays: cfg.TrendingWindowDays}
}

// List returns proposals ranked by recent activity.
func (t Trending) List(c *gin.Context) {
	limit := queryInt(c, "limit", 20, 100)
	windowDays := queryInt(c, "window", t.windowDays, 90)
	window := time.Duration(windowDays) * 24 * time.Hour

	cacheKey := fmt.Sprintf("trending:%d:%d", limit, windowDays)
	if cached := data.CacheGet(c.Request.Context(), t.rdb, cacheKey); cached != "" {
		var scores []trending.Score
		if err := json.Unmarshal([]byte(cached), &scores); err == nil {
			c.JSON(http.StatusOK, gin.H{"trending": scores, "windowDays": windowDays})
			return
		}
	}

	scores, err := reports.TrendingProposals(t.db, time.Now().UTC(), window, limit)
	if err != nil {
		writeErr(c, err, "no data")
		return
	}

	if payload, err := json.Marshal(scores); err == nil {
		data.CacheSet(c.Request.Context(), t.rdb, cacheKey, string(payload), trendingCacheTTL)
	}

	c.JSON(http.StatusOK, gin.H{"trending": scores, "windowDays": windowDays})
}

func queryInt(c *gin.Context, name string, def, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
