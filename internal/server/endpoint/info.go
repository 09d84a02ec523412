package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/data2csv/internal/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// SessionCounter reports the number of active protocol sessions.
type SessionCounter func() int

// Info returns a handler that reports service version, build information,
// and the active session count.
func Info(serviceName string, sessions SessionCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.GetVersionInfo()
		body := gin.H{
			"service":    serviceName,
			"version":    v.Version,
			"git_commit": v.GitCommit,
			"build_time": v.BuildTime,
			"go_version": v.GoVersion,
			"is_release": v.IsRelease,
			"is_dirty":   v.IsDirty,
			"uptime":     time.Since(startTime).String(),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		}
		if sessions != nil {
			body["active_sessions"] = sessions()
		}
		c.JSON(http.StatusOK, body)
	}
}
