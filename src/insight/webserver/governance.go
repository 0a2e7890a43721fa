package webserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eipsight/eipsight/src/insight/config"
	"github.com/eipsight/eipsight/src/insight/data"
	"github.com/eipsight/eipsight/src/insight/governance"
)

type Governance struct {
	db        *gorm.DB
	threshold time.Duration
}

func NewGovernance(db *gorm.DB, cfg config.Config) Governance {
	return Governance{
		db:        db,
		threshold: time.Duration(cfg.StallThresholdDays) * 24 * time.Hour,
	}
}

// State classifies one pull request as of an optional query time.
func (g Governance) State(c *gin.Context) {
	repo, ok := repoParam(c, g.db)
	if !ok {
		return
	}
	num, ok := numParam(c, "num")
	if !ok {
		return
	}
	asOf, ok := asOfParam(c)
	if !ok {
		return
	}

	events, err := data.LoadPREvents(g.db, repo.ID, num)
	if err != nil {
		writeErr(c, err, "pull request not found")
		return
	}

	state := governance.Classify(events, asOf, g.threshold)

	resp := gin.H{
		"repo":  repo.Name,
		"pr":    num,
		"asOf":  asOf.Format(time.RFC3339),
		"state": state,
	}
	if last, found := governance.LastQualifyingAction(events, asOf); found {
		resp["lastActivity"] = last.OccurredAt.UTC().Format(time.RFC3339)
		resp["waitingDays"] = int(asOf.Sub(last.OccurredAt).Hours() / 24)
	}
	c.JSON(http.StatusOK, resp)
}
