package mirror

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/germanamz/terrarium/pkg/events"
	"github.com/germanamz/terrarium/pkg/poller"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	subBuffer  = 32
)

// Envelope frames every websocket message.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Handler wires the HTTP surface to the synchronizer and event bus.
type Handler struct {
	sync *poller.Synchronizer
	bus  *events.Bus
	log  *zap.SugaredLogger
}

// NewHandler constructs the mirror HTTP handler.
func NewHandler(s *poller.Synchronizer, bus *events.Bus, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{sync: s, bus: bus, log: log}
}

// InitRoutes builds the gin router.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLog)

	router.GET("/healthz", h.health)
	router.GET("/snapshot", h.snapshot)
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Debugw("http_request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

func (h *Handler) health(c *gin.Context) {
	snap := SnapshotOf(h.sync)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "online": snap.Online, "polling": h.sync.Running()})
}

func (h *Handler) snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, SnapshotOf(h.sync))
}

func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_accept_failed", "err", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	// Clients only listen; CloseRead handles control frames and cancels ctx
	// on disconnect.
	ctx := conn.CloseRead(c.Request.Context())

	sub := h.bus.Subscribe(subBuffer)
	defer h.bus.Unsubscribe(sub)

	if err := h.write(ctx, conn, Envelope{Type: "snapshot", Data: SnapshotOf(h.sync)}); err != nil {
		h.log.Infow("ws_write_failed_initial", "err", err)
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case e, ok := <-sub.C:
			if !ok {
				return
			}
			if err := h.write(ctx, conn, Envelope{Type: string(e.Kind), Data: e.Data}); err != nil {
				h.log.Infow("ws_write_failed", "err", err)
				return
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		}
	}
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, v Envelope) error {
	wctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return wsjson.Write(wctx, conn, v)
}
