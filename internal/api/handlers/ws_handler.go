package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/tripwise/prompt-svc/internal/api/middleware"
	"github.com/tripwise/prompt-svc/internal/providers/llm"
	"github.com/tripwise/prompt-svc/internal/services"
	"github.com/tripwise/prompt-svc/internal/utils"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// WSHandler serves trip chat over a websocket. Each text frame is one chat
// turn with the same semantics as the HTTP trip chat route.
type WSHandler struct {
	trips      services.TripService
	log        logrus.FieldLogger
	upgrader   websocket.Upgrader
	pingPeriod time.Duration
}

func NewWSHandler(trips services.TripService, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		trips: trips,
		log:   log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		pingPeriod: wsPingPeriod,
	}
}

type wsClientMsg struct {
	Message string `json:"message"`
}

type wsServerMsg struct {
	Type     string `json:"type"` // reply|error
	TripID   int64  `json:"trip_id"`
	Messages string `json:"messages,omitempty"`
	Error    string `json:"error,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// keepAlive pings until done closes or a ping fails.
func (w *wsConn) keepAlive(period time.Duration, done <-chan struct{}) {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := w.ping(); err != nil {
				return
			}
		}
	}
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteJSON(v)
}

// TripChat upgrades after checking the caller owns the trip.
func (h *WSHandler) TripChat(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("trip_id"), 10, 64)
	if err != nil {
		badRequest(c)
		return
	}
	if _, err := h.trips.Get(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		writeError(c, err, nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrader already answered the client
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx := c.Request.Context()
	log := h.log.WithFields(logrus.Fields{"trip_id": id, "request_id": utils.RequestID(ctx)})

	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go wc.keepAlive(h.pingPeriod, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("ws read failed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil || msg.Message == "" {
			_ = wc.writeJSON(wsServerMsg{Type: "error", TripID: id, Error: msgInvalidBody})
			continue
		}

		reply, err := h.trips.Chat(ctx, id, msg.Message)
		if err != nil {
			log.WithError(err).Warn("ws chat turn failed")
			if werr := wc.writeJSON(wsServerMsg{Type: "error", TripID: id, Error: wsErrorText(err)}); werr != nil {
				return
			}
			continue
		}
		if err := wc.writeJSON(wsServerMsg{Type: "reply", TripID: id, Messages: reply}); err != nil {
			return
		}
	}
}

func wsErrorText(err error) string {
	var pe *llm.ProviderError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	var ae *utils.AppError
	if (utils.IsCode(err, utils.CodeNotFound) || utils.IsCode(err, utils.CodeUnauthorized)) && errors.As(err, &ae) {
		return ae.Message
	}
	return services.MsgDatabase
}
