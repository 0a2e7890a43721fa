package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eipsight/eipsight/src/insight/data"
	"github.com/eipsight/eipsight/src/insight/timeline"
)

type Timeline struct{ db *gorm.DB }

func NewTimeline(db *gorm.DB) Timeline { return Timeline{db: db} }

// Get returns the unified lifecycle timeline for one proposal.
func (t Timeline) Get(c *gin.Context) {
	repo, ok := repoParam(c, t.db)
	if !ok {
		return
	}
	num, ok := numParam(c, "num")
	if !ok {
		return
	}

	input, err := data.LoadTimelineInput(t.db, repo.ID, num)
	if err != nil {
		writeErr(c, err, "proposal not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"repo":     repo.Name,
		"proposal": num,
		"timeline": timeline.Merge(input),
	})
}
