package handler

import (
	"courtyard/internal/api/dto"
	"courtyard/internal/pkg/response"
	"courtyard/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatSvc *service.ChatService
}

func NewChatHandler(chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// Start opens, or finds, the conversation between the caller and the ad's
// seller and returns the opaque chat token.
func (s *ChatHandler) Start(c *gin.Context) {
	var startDTO dto.StartChatDTO
	if err := c.ShouldBind(&startDTO); err != nil {
		response.Error(c, err)
		return
	}
	chatID, err := s.chatSvc.StartChat(c.Request.Context(), startDTO.AdID, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"chatId": chatID})
}

// Lookup resolves an existing conversation on an ad without creating one.
func (s *ChatHandler) Lookup(c *gin.Context) {
	var lookupDTO dto.StartChatDTO
	if err := c.ShouldBindQuery(&lookupDTO); err != nil {
		response.Error(c, err)
		return
	}
	chatID, err := s.chatSvc.LookupChat(c.Request.Context(), lookupDTO.AdID, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"chatId": chatID})
}

func (s *ChatHandler) List(c *gin.Context) {
	chats, err := s.chatSvc.ListChats(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chats)
}

// Send accepts one message over REST. Delivery to live websocket peers
// happens inside the service after the message persists.
func (s *ChatHandler) Send(c *gin.Context) {
	var msgDTO dto.SendMessageDTO
	if err := c.ShouldBind(&msgDTO); err != nil {
		response.Error(c, err)
		return
	}
	msg, err := s.chatSvc.SendMessage(c.Request.Context(), c.Param("chat_id"), currentUserID(c), msgDTO.Data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msg)
}

// History returns the full ordered log and clears the unread flag.
func (s *ChatHandler) History(c *gin.Context) {
	history, err := s.chatSvc.GetHistory(c.Request.Context(), c.Param("chat_id"), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, history)
}

func (s *ChatHandler) Acknowledge(c *gin.Context) {
	if err := s.chatSvc.Acknowledge(c.Request.Context(), c.Param("chat_id"), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) Hide(c *gin.Context) {
	if err := s.chatSvc.HideChat(c.Request.Context(), c.Param("chat_id"), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) SetBlocked(c *gin.Context) {
	var blockDTO dto.BlockChatDTO
	if err := c.ShouldBind(&blockDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.chatSvc.SetBlocked(c.Request.Context(), c.Param("chat_id"), currentUserID(c), blockDTO.Blocked); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
