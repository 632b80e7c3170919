package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ecostudy/internal/models"
	"ecostudy/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 14 // 16 KB
)

const (
	wsTypeAnswer = "answer"
	wsTypeError  = "error"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// voiceQuestion is one recognised utterance sent by the audio page.
type voiceQuestion struct {
	Question string `json:"question"`
}

type voiceAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// inbound is a decoded client frame or the reason it could not be decoded.
type inbound struct {
	msg voiceQuestion
	err error
}

// Origins are enforced by the CORS policy on the HTTP routes; the token
// check happens before the upgrade.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Voice chat channel
// @Description  Websocket. Send {"question":"..."}; receive {"type":"answer","data":{"question","answer"}} or {"type":"error","error":"..."}. Token via Authorization header or ?token=.
// @Tags         chat
// @Param        token  query  string  false  "access token when no Authorization header can be sent"
// @Success      101  {string}  string  "switching protocols"
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/chat/ws [get]
func (h *Handler) voiceChat(c *gin.Context) {
	uid := userID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	questions := make(chan inbound)
	done := make(chan struct{})
	go h.startReader(conn, questions, done, ctx.Done())

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case in := <-questions:
			if err := h.answerVoice(ctx, conn, uid, in); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// startReader decodes client frames and hands them to the writer loop. It
// closes done when the connection fails or closes.
func (h *Handler) startReader(conn *websocket.Conn, out chan<- inbound, done chan<- struct{}, stop <-chan struct{}) {
	defer close(done)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var in inbound
		if err := json.Unmarshal(raw, &in.msg); err != nil {
			in.err = errors.New("message must be JSON like {\"question\":\"...\"}")
		}
		select {
		case out <- in:
		case <-stop:
			return
		}
	}
}

// answerVoice runs one audio chat round-trip and writes the reply. Only
// write failures are returned; chat errors are reported to the client.
func (h *Handler) answerVoice(ctx context.Context, conn *websocket.Conn, uid string, in inbound) error {
	if in.err != nil {
		return writeEnvelope(conn, wsEnvelope{Type: wsTypeError, Error: in.err.Error()})
	}

	chat, err := h.services.Ask(ctx, uid, in.msg.Question, models.KindAudio)
	if err != nil {
		msg := errChatFailed
		if errors.Is(err, service.ErrInvalidInput) {
			msg = err.Error()
		} else if h.log != nil {
			h.log.Errorw("chat_persist_failed", "user_id", uid, "kind", string(models.KindAudio), "err", err)
		}
		return writeEnvelope(conn, wsEnvelope{Type: wsTypeError, Error: msg})
	}

	return writeEnvelope(conn, wsEnvelope{
		Type: wsTypeAnswer,
		Data: voiceAnswer{Question: chat.Question, Answer: chat.Answer},
	})
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
