package handler

import (
	"io"

	"courtyard/internal/pkg/response"
	"courtyard/internal/service"

	"github.com/gin-gonic/gin"
)

type NotifyHandler struct {
	notifySvc *service.NotifyService
}

func NewNotifyHandler(notifySvc *service.NotifyService) *NotifyHandler {
	return &NotifyHandler{notifySvc: notifySvc}
}

// Stream is the server-sent-events feed of unread-chat notifications. Each
// event's payload is one chat token with fresh unread messages; events
// flow until the client disconnects.
func (s *NotifyHandler) Stream(c *gin.Context) {
	userID := currentUserID(c)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	_ = s.notifySvc.Stream(c.Request.Context(), userID, func(chatID string) error {
		if _, err := io.WriteString(c.Writer, "event: notifications\ndata: "+chatID+"\n\n"); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
}

// Unread is the one-shot poll for clients that cannot hold a stream open.
func (s *NotifyHandler) Unread(c *gin.Context) {
	chatIDs, err := s.notifySvc.Unread(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, service.ErrPersistence)
		return
	}
	response.Success(c, chatIDs)
}
