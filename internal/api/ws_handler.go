package api

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/heimdex/heimdex-editor/internal/events"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 30 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || isAllowedOrigin(origin)
	},
}

// wsHandler streams hub events to a client. The first frame is always a full
// timeline snapshot so late joiners can render immediately.
func wsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Hub == nil {
			WriteError(w, http.StatusServiceUnavailable, "event stream unavailable", "UNAVAILABLE")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			cfg.Logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		sub := cfg.Hub.Subscribe(events.DefaultBuffer)
		defer cfg.Hub.Unsubscribe(sub)

		logger := cfg.Logger.With("remote", r.RemoteAddr)
		logger.Info("websocket client connected", "subscribers", cfg.Hub.Len())

		first, err := sonic.Marshal(events.Event{Type: events.TypeTimeline, At: time.Now(), Data: cfg.Model.Snapshot()})
		if err != nil {
			logger.Error("failed to encode snapshot", "error", err)
			return
		}
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, first); err != nil {
			return
		}

		closed := make(chan struct{})
		go readPump(conn, closed)

		ping := time.NewTicker(wsPingPeriod)
		defer ping.Stop()

		for {
			select {
			case <-closed:
				logger.Info("websocket client disconnected")
				return
			case frame, ok := <-sub.C():
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if !ok {
					conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			case <-ping.C:
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

// readPump discards client frames and signals when the connection drops.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
