package webserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eipsight/eipsight/src/insight/config"
	"github.com/eipsight/eipsight/src/insight/data"
	"github.com/eipsight/eipsight/src/insight/reports"
)

type Reports struct {
	db        *gorm.DB
	threshold time.Duration
}

func NewReports(db *gorm.DB, cfg config.Config) Reports {
	return Reports{
		db:        db,
		threshold: time.Duration(cfg.StallThresholdDays) * 24 * time.Hour,
	}
}

// Buckets returns waiting-time rollups keyed by governance state, optionally
// scoped to one repo via ?repo=.
func (r Reports) Buckets(c *gin.Context) {
	var repoID *uint8
	if name := c.Query("repo"); name != "" {
		repo, err := data.RepoByName(r.db, name)
		if err != nil {
			writeErr(c, err, "unknown repo "+name)
			return
		}
		repoID = &repo.ID
	}

	buckets, err := reports.WaitingBuckets(c.Request.Context(), r.db, repoID, time.Now().UTC(), r.threshold)
	if err != nil {
		writeErr(c, err, "no data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"buckets": buckets})
}

// Snapshot returns the calendar-month activity rollup for one repo.
func (r Reports) Snapshot(c *gin.Context) {
	repo, ok := repoParam(c, r.db)
	if !ok {
		return
	}
	year, err1 := strconv.Atoi(c.Param("year"))
	month, err2 := strconv.Atoi(c.Param("month"))
	if err1 != nil || err2 != nil || year < 2015 || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid year/month"})
		return
	}

	snap, err := reports.Snapshot(r.db, repo, year, month)
	if err != nil {
		writeErr(c, err, "no data")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Funnel returns lifecycle funnel counts for one repo over [from, to).
func (r Reports) Funnel(c *gin.Context) {
	repo, ok := repoParam(c, r.db)
	if !ok {
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, -1, 0)
	if raw := c.Query("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "from must be RFC3339"})
			return
		}
		from = ts.UTC()
	}
	if raw := c.Query("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "to must be RFC3339"})
			return
		}
		to = ts.UTC()
	}
	if !from.Before(to) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "from must precede to"})
		return
	}

	funnel, err := reports.LifecycleFunnel(r.db, repo, from, to)
	if err != nil {
		writeErr(c, err, "no data")
		return
	}
	c.JSON(http.StatusOK, funnel)
}
