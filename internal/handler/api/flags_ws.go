package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"MarketBoard/internal/domain/models"
	xlogger "MarketBoard/pkg/logger"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// FlagsMessage is the frame pushed to /ws/flags clients.
type FlagsMessage struct {
	Type string              `json:"type"`
	Data models.FlagSnapshot `json:"data"`
}

// FlagsWSHandler pushes the flag snapshot on connect and after every change.
type FlagsWSHandler struct {
	logger   *xlogger.Logger
	flags    FlagSource
	upgrader websocket.Upgrader
}

// NewFlagsWSHandler creates the handler. An origin list containing "*" or
// nothing accepts any origin.
func NewFlagsWSHandler(logger *xlogger.Logger, flags FlagSource, allowOrigins []string) *FlagsWSHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &FlagsWSHandler{
		logger: logger,
		flags:  flags,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowOrigins),
		},
	}
}

func (h *FlagsWSHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		h.logger.Debug("ws upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	updates := make(chan models.FlagSnapshot, 1)
	unsubscribe := h.flags.Subscribe(func(s models.FlagSnapshot) {
		// keep only the newest snapshot for slow clients
		select {
		case updates <- s:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- s:
			default:
			}
		}
	})
	defer unsubscribe()

	if err := h.write(conn, h.flags.Snapshot()); err != nil {
		return nil
	}

	closed := make(chan struct{})
	go h.readLoop(conn, closed)

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	ctx := c.Request().Context()
	for {
		select {
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		case s := <-updates:
			if err := h.write(conn, s); err != nil {
				h.logger.Debug("ws write failed", xlogger.Error(err))
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

// readLoop drains client frames so pongs and close frames are processed.
func (h *FlagsWSHandler) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *FlagsWSHandler) write(conn *websocket.Conn, s models.FlagSnapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(FlagsMessage{Type: "flags", Data: s})
}

func originChecker(allow []string) func(*http.Request) bool {
	if len(allow) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allow))
	for _, o := range allow {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
