package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"library_api/internal/models"
	"library_api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000

	msgStats = "stats"
	msgError = "error"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// statsStream pushes library counts to one client. A tick whose counts
// equal the last pushed ones sends nothing.
type statsStream struct {
	conn    *websocket.Conn
	monitor service.Monitoring
	last    *models.LibraryStats
}

func sameCounts(a, b models.LibraryStats) bool {
	return a.Books == b.Books && a.Authors == b.Authors && a.Users == b.Users
}

// poll fetches the counts and writes them if they changed. A failed fetch
// is reported to the client before the error is returned.
func (s *statsStream) poll(ctx context.Context) (bool, error) {
	st, err := s.monitor.GetStats(ctx)
	if err != nil {
		_ = s.write(wsEnvelope{Type: msgError, Error: errGetStats})
		return false, err
	}
	if s.last != nil && sameCounts(*s.last, st) {
		return false, nil
	}
	if err := s.write(wsEnvelope{Type: msgStats, Data: st}); err != nil {
		return false, err
	}
	s.last = &st
	return true, nil
}

func (s *statsStream) ping() error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

func (s *statsStream) write(env wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

// @Summary      Stats stream
// @Description  Upgrades to a WebSocket that sends {"type":"stats","data":{...}} on connect and again whenever the counts change, checking every interval (default 1s, max 10s).
// @Tags         stats
// @Param        interval     query  string  false  "Go duration, e.g. 2s"
// @Param        interval_ms  query  int     false  "Interval in milliseconds"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws [get]
// @Security     BearerAuth
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ctx := c.Request.Context()
	stream := &statsStream{conn: conn, monitor: h.services.Monitoring}
	if _, err := stream.poll(ctx); err != nil {
		h.logStreamEnd("ws_initial_stats_failed", err)
		return
	}

	ticker := time.NewTicker(interval)
	keepalive := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		keepalive.Stop()
	}()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-keepalive.C:
			if err := stream.ping(); err != nil {
				h.logStreamEnd("ws_ping_failed", err)
				return
			}
		case <-ticker.C:
			if _, err := stream.poll(ctx); err != nil {
				h.logStreamEnd("ws_stats_failed", err)
				return
			}
		}
	}
}

func (h *Handler) logStreamEnd(key string, err error) {
	if h.log != nil {
		h.log.Infow(key, "err", err)
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000; out-of-range
// values fall back to the default.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}

// startReader drains client frames so pongs and closes are processed.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.logStreamEnd("ws_read_closed", err)
			return
		}
	}
}
