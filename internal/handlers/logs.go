package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"library_api/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"

	errLoadLogs = "failed to load logs"
)

var errBadTime = errors.New("use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'")

// logQuery is the raw query string of GET /api/v1/logs.
type logQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
	Type string `form:"type"`
}

// filter parses the time bounds. A date-only "to" covers that whole day.
// Range order and event type are checked by the service.
func (q logQuery) filter() (service.LogFilter, error) {
	f := service.LogFilter{Type: q.Type}
	if q.From != "" {
		t, _, err := parseQueryTime(q.From)
		if err != nil {
			return f, &service.ValidationError{Field: "from", Value: q.From, Reason: err.Error()}
		}
		f.From = t
	}
	if q.To != "" {
		t, dateOnly, err := parseQueryTime(q.To)
		if err != nil {
			return f, &service.ValidationError{Field: "to", Value: q.To, Reason: err.Error()}
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = t
	}
	return f, nil
}

func parseQueryTime(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), layout == layoutDate, nil
		}
	}
	return time.Time{}, false, errBadTime
}

// @Summary      List activity log
// @Description  Filter activity events by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). A date-only 'to' is inclusive of the whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2025-08-01)
// @Param        to    query   string  false  "End of range"  example(2025-08-31)
// @Param        type  query   string  false  "Event type"  Enums(USER_ADDED,LOGIN,LOGIN_FAILED,AUTHOR_ADDED,BOOK_ADDED,AUTHOR_EDITED)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	var q logQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := q.filter()
	if err != nil {
		h.respondBadFilter(c, err)
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			h.respondBadFilter(c, err)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLogs, "logs_list_failed", err, "filter", q)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

func (h *Handler) respondBadFilter(c *gin.Context, err error) {
	resp := gin.H{"error": err.Error()}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		resp["field"] = ve.Field
	}
	c.JSON(http.StatusBadRequest, resp)
}
