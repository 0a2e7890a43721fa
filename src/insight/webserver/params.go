package webserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eipsight/eipsight/src/insight/data"
	"github.com/eipsight/eipsight/src/insight/types"
)

// repoParam resolves the :repo path segment. On failure it writes the error
// response and reports false.
func repoParam(c *gin.Context, db *gorm.DB) (types.Repo, bool) {
	name := c.Param("repo")
	repo, err := data.RepoByName(db, name)
	if err != nil {
		writeErr(c, err, "unknown repo "+name)
		return types.Repo{}, false
	}
	return repo, true
}

func numParam(c *gin.Context, name string) (uint32, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid " + name})
		return 0, false
	}
	return uint32(n), true
}

// asOfParam reads an optional RFC3339 asOf query value, defaulting to now.
// Core functions always receive asOf explicitly; the default lives only here
// at the API boundary.
func asOfParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("asOf")
	if raw == "" {
		return time.Now().UTC(), true
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "asOf must be RFC3339"})
		return time.Time{}, false
	}
	return ts.UTC(), true
}

// writeErr maps taxonomy errors to HTTP statuses: not-found is final,
// upstream failures are retryable by the caller.
func writeErr(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, data.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": notFoundMsg})
	case errors.Is(err, data.ErrUpstream):
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "event store unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
	}
}
