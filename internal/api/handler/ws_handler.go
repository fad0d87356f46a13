package handler

import (
	"context"
	log "log/slog"
	"net/http"
	"strconv"

	"courtyard/internal/pkg/logger"
	"courtyard/internal/pkg/security"
	"courtyard/internal/service"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// chatFrame is the inbound duplex wire shape. The sender field is ignored
// on receipt; the authenticated connection identity is authoritative.
type chatFrame struct {
	Data   string `json:"data"`
	Sender uint64 `json:"sender"`
}

// parseChatFrame extracts the message body from one inbound frame.
func parseChatFrame(data []byte) (string, bool) {
	var frame chatFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return "", false
	}
	if frame.Data == "" {
		return "", false
	}
	return frame.Data, true
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct {
	chatSvc *service.ChatService
}

func NewWsHandler(chatSvc *service.ChatService) *WsHandler {
	return &WsHandler{chatSvc: chatSvc}
}

// Connect joins a participant's live connection to a conversation. The
// socket is always upgraded first, then authorized: a join that fails any
// check is accepted and immediately dropped, so a probing client learns
// nothing beyond "closed".
func (s *WsHandler) Connect(c *gin.Context) {
	chatID := c.Param("chat_id")
	token := c.Query("token")
	claimedID, idErr := strconv.ParseUint(c.Query("user_id"), 10, 64)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", "err", err)
		return
	}

	ctx := context.WithValue(context.Background(), logger.TraceIDKey, "ws-"+uuid.NewString())

	claims, tokenErr := security.ValidateToken(token)
	if idErr != nil || tokenErr != nil || claims.UserID != claimedID {
		log.WarnContext(ctx, "websocket join rejected", "chat_id", chatID)
		_ = conn.Close()
		return
	}
	if _, err := s.chatSvc.Authorize(ctx, chatID, claims.UserID); err != nil {
		log.WarnContext(ctx, "websocket join rejected", "chat_id", chatID, "user_id", claims.UserID)
		_ = conn.Close()
		return
	}

	userID := claims.UserID
	s.chatSvc.AttachEndpoint(chatID, userID, conn)
	log.InfoContext(ctx, "websocket joined", "chat_id", chatID, "user_id", userID)

	defer func() {
		s.chatSvc.DetachEndpoint(chatID, conn)
		_ = conn.Close()
		log.InfoContext(ctx, "websocket left", "chat_id", chatID, "user_id", userID)
	}()

	// Read loop. Every text frame carries one {data, sender} message;
	// its body runs through the full moderation and persistence
	// pipeline, and delivery to the peer is the broadcast at the end of
	// that pipeline.
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage || len(data) == 0 {
			continue
		}
		body, ok := parseChatFrame(data)
		if !ok {
			log.WarnContext(ctx, "websocket frame malformed", "chat_id", chatID)
			continue
		}
		if _, err := s.chatSvc.SendMessage(ctx, chatID, userID, body); err != nil {
			log.WarnContext(ctx, "websocket message rejected", "chat_id", chatID, "err", err)
		}
	}
}
