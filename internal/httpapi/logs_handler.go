package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studentadmin/internal/activity"
)

type logsHandler struct {
	logs LogLister
}

// logLimit is how many recent entries the API exposes.
const logLimit = 50

func (h *logsHandler) list(c *gin.Context) {
	entries, err := h.logs.ListRecent(c.Request.Context(), logLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error", "error": err.Error()})
		return
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}
