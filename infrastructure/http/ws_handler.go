package http

import (
	"log/slog"
	"net/http"
	"time"

	"givelink/auth"
	"givelink/domain/event"
	"givelink/observability"
	"givelink/services"
	"givelink/sink"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type WSHandler struct {
	log            *slog.Logger
	chat           services.IChatService
	monitor        *observability.Monitor
	bufferSize     int
	allowAnyOrigin bool
}

func NewWSHandler(log *slog.Logger, chatService services.IChatService,
	monitor *observability.Monitor, bufferSize int, allowAnyOrigin bool) *WSHandler {
	return &WSHandler{
		log:            log,
		chat:           chatService,
		monitor:        monitor,
		bufferSize:     bufferSize,
		allowAnyOrigin: allowAnyOrigin,
	}
}

type wireEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func toWireEvent(e event.DomainEvent, viewerID string) wireEvent {
	switch evt := e.(type) {
	case event.MessageSent:
		return wireEvent{Type: "message:new", Data: messageView{
			ID:             evt.ID.String(),
			ConversationID: evt.Conversation,
			SenderID:       evt.SenderID,
			Text:           evt.Text,
			SentAt:         evt.At.Format(time.RFC3339Nano),
		}}
	case event.ConversationStarted:
		return wireEvent{Type: "conversation:new", Data: toConversationView(evt.Conversation, viewerID)}
	}
	return wireEvent{Type: "unknown"}
}

// Handle upgrades the request to a WebSocket subscription on one
// conversation. Browsers cannot set an Authorization header on the native
// WebSocket API, so the token travels as a query param.
// The connection is push-only: messages are posted over HTTP, the socket
// only streams events back.
func (h *WSHandler) Handle(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}
	claims, err := auth.ValidateToken(tokenStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}

	conversationID := c.Query("conversation")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing conversation"})
		return
	}

	connectionSink := sink.NewConnectionSink(h.bufferSize)
	if err := h.chat.Join(claims.UserID, conversationID, connectionSink); err != nil {
		writeError(c, err)
		return
	}
	defer h.chat.Leave(claims.UserID, conversationID)

	opts := &websocket.AcceptOptions{}
	// Accept rejects cross-origin by default, which breaks local frontend
	// dev servers. Gate the bypass behind configuration.
	if h.allowAnyOrigin {
		opts.InsecureSkipVerify = true
	}
	conn, err := websocket.Accept(c.Writer, c.Request, opts)
	if err != nil {
		return // Accept already wrote the error response
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	// Push-only socket: still read so control frames (close/ping) are
	// processed, and get a context that ends on disconnect.
	ctx := conn.CloseRead(c.Request.Context())

	h.monitor.ConnectionOpened()
	defer h.monitor.ConnectionClosed()
	h.log.Debug("Subscription opened", "user", claims.UserID, "conversation", conversationID)

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-connectionSink.Events:
			if err := wsjson.Write(ctx, conn, toWireEvent(evt, claims.UserID)); err != nil {
				h.log.Debug("Subscriber write failed, closing", "user", claims.UserID, "error", err)
				return
			}
		}
	}
}
