package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"courtyard/internal/api/config"
	"courtyard/internal/model"
	"courtyard/internal/pkg/mongo"
	"courtyard/internal/pkg/profanity"
	"courtyard/internal/pkg/ws"
	"courtyard/internal/repository"

	json "github.com/goccy/go-json"
	log "log/slog"
)

// ChatService owns the 1:1 conversation lifecycle: find-or-create by the
// (ad, seller, buyer) tuple, moderated persistence of each message, and
// realtime fan-out to live websocket endpoints.
type ChatService struct {
	chatRepo repository.ChatRepo
	adRepo   repository.AdRepo
	messages mongo.MessageRepo
	filter   *profanity.Filter
	registry *ws.Registry
}

func NewChatService(chatRepo repository.ChatRepo, adRepo repository.AdRepo, messages mongo.MessageRepo, filter *profanity.Filter, registry *ws.Registry) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		adRepo:   adRepo,
		messages: messages,
		filter:   filter,
		registry: registry,
	}
}

// newChatToken mints the opaque chat address: the hex digest of 32 random
// bytes, so the token leaks nothing about the participants or the ad.
func newChatToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// StartChat resolves the (ad, buyer) pair to a chat token, creating the
// conversation on first contact. The seller is derived from the ad, never
// taken from the caller.
func (s *ChatService) StartChat(ctx context.Context, adID, buyerID uint64) (string, error) {
	ad, err := s.adRepo.GetById(ctx, adID)
	if err != nil {
		log.ErrorContext(ctx, "load ad for chat failed", "ad_id", adID, "err", err)
		return "", ErrPersistence
	}
	if ad == nil {
		return "", ErrAdNotFound
	}
	if ad.PostedBy == buyerID {
		return "", ErrParamInvalid
	}

	token, err := s.chatRepo.FindChatToken(ctx, adID, ad.PostedBy, buyerID)
	if err != nil {
		return "", ErrPersistence
	}
	if token != "" {
		return token, nil
	}

	chat := &model.Chat{
		ChatID:   newChatToken(),
		AdID:     adID,
		SellerID: ad.PostedBy,
		BuyerID:  buyerID,
	}
	if err := s.chatRepo.CreateChat(ctx, chat); err != nil {
		log.ErrorContext(ctx, "create chat failed", "ad_id", adID, "err", err)
		return "", ErrPersistence
	}
	return chat.ChatID, nil
}

// LookupChat returns the token of an existing conversation on the ad
// between the caller and the seller. Find-only; StartChat creates.
func (s *ChatService) LookupChat(ctx context.Context, adID, buyerID uint64) (string, error) {
	ad, err := s.adRepo.GetById(ctx, adID)
	if err != nil {
		return "", ErrPersistence
	}
	if ad == nil {
		return "", ErrAdNotFound
	}
	token, err := s.chatRepo.FindChatToken(ctx, adID, ad.PostedBy, buyerID)
	if err != nil {
		return "", ErrPersistence
	}
	if token == "" {
		return "", ErrChatNotFound
	}
	return token, nil
}

// Authorize loads the chat and checks that userID is one of its two
// participants. Everything addressed by a chat token goes through here.
func (s *ChatService) Authorize(ctx context.Context, chatID string, userID uint64) (*model.Chat, error) {
	chat, err := s.chatRepo.GetChatByToken(ctx, chatID)
	if err != nil {
		return nil, ErrPersistence
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if chat.SellerID != userID && chat.BuyerID != userID {
		return nil, UnauthorizedError
	}
	return chat, nil
}

// SendMessage runs the full inbound pipeline: authorize, censor, persist
// under the row-lock sequence counter, then fan out to live endpoints.
// Persistence is all-or-nothing; fan-out is best effort after commit.
func (s *ChatService) SendMessage(ctx context.Context, chatID string, senderID uint64, text string) (*mongo.ChatMessage, error) {
	chat, err := s.Authorize(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}
	if chat.BlockedBySeller || chat.BlockedByBuyer {
		return nil, ErrChatBlocked
	}

	msg := &mongo.ChatMessage{
		ChatID:    chatID,
		Sender:    senderID,
		Data:      s.filter.Censor(text),
		CreatedAt: time.Now(),
	}

	_, err = s.chatRepo.AppendMessage(ctx, chatID, senderID, func(ctx context.Context, seq uint64) error {
		msg.Seq = seq
		return s.messages.SaveMessage(ctx, msg)
	})
	if err != nil {
		log.ErrorContext(ctx, "append message failed", "chat_id", chatID, "err", err)
		return nil, ErrPersistence
	}

	s.broadcast(ctx, chatID, senderID, msg)
	return msg, nil
}

func (s *ChatService) broadcast(ctx context.Context, chatID string, senderID uint64, msg *mongo.ChatMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.ErrorContext(ctx, "encode broadcast failed", "chat_id", chatID, "err", err)
		return
	}
	if config.Cfg != nil && !config.Cfg.Chat.EchoToSender {
		s.registry.BroadcastExcept(chatID, senderID, payload)
		return
	}
	s.registry.Broadcast(chatID, payload)
}

// GetHistory returns the ordered message log and, as a side effect of the
// participant reading it, clears the unread flag.
func (s *ChatService) GetHistory(ctx context.Context, chatID string, userID uint64) ([]*mongo.ChatMessage, error) {
	if _, err := s.Authorize(ctx, chatID, userID); err != nil {
		return nil, err
	}
	history, err := s.messages.GetHistory(ctx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "load history failed", "chat_id", chatID, "err", err)
		return nil, ErrPersistence
	}
	if err := s.chatRepo.AcknowledgeNotifications(ctx, chatID); err != nil {
		log.WarnContext(ctx, "acknowledge failed", "chat_id", chatID, "err", err)
	}
	return history, nil
}

// Acknowledge clears the unread flag without fetching history. Idempotent.
func (s *ChatService) Acknowledge(ctx context.Context, chatID string, userID uint64) error {
	if _, err := s.Authorize(ctx, chatID, userID); err != nil {
		return err
	}
	if err := s.chatRepo.AcknowledgeNotifications(ctx, chatID); err != nil {
		return ErrPersistence
	}
	return nil
}

// ChatSummary is one row of a user's conversation list.
type ChatSummary struct {
	ChatID      string             `json:"chatId"`
	AdID        uint64             `json:"adId"`
	SellerID    uint64             `json:"sellerId"`
	BuyerID     uint64             `json:"buyerId"`
	Blocked     bool               `json:"blocked"`
	LastMessage *mongo.ChatMessage `json:"lastMessage,omitempty"`
}

// ListChats returns the user's visible conversations with their latest
// message attached for preview.
func (s *ChatService) ListChats(ctx context.Context, userID uint64) ([]*ChatSummary, error) {
	chats, err := s.chatRepo.GetUserChats(ctx, userID)
	if err != nil {
		return nil, ErrPersistence
	}

	summaries := make([]*ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summary := &ChatSummary{
			ChatID:   chat.ChatID,
			AdID:     chat.AdID,
			SellerID: chat.SellerID,
			BuyerID:  chat.BuyerID,
			Blocked:  chat.BlockedBySeller || chat.BlockedByBuyer,
		}
		if last, err := s.messages.GetLastMessage(ctx, chat.ChatID); err == nil {
			summary.LastMessage = last
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// HideChat soft-hides the conversation for the calling side only. The next
// inbound message un-hides it.
func (s *ChatService) HideChat(ctx context.Context, chatID string, userID uint64) error {
	if _, err := s.Authorize(ctx, chatID, userID); err != nil {
		return err
	}
	if err := s.chatRepo.MarkDeleted(ctx, chatID, userID); err != nil {
		return ErrPersistence
	}
	return nil
}

// SetBlocked toggles the caller's block flag on the conversation.
func (s *ChatService) SetBlocked(ctx context.Context, chatID string, userID uint64, blocked bool) error {
	chat, err := s.Authorize(ctx, chatID, userID)
	if err != nil {
		return err
	}
	column := "blocked_by_buyer"
	if chat.SellerID == userID {
		column = "blocked_by_seller"
	}
	if err := s.chatRepo.UpdateFlag(ctx, chatID, column, blocked); err != nil {
		return ErrPersistence
	}
	return nil
}

// AttachEndpoint registers a live websocket endpoint for a participant.
// The caller must already hold a successful Authorize result.
func (s *ChatService) AttachEndpoint(chatID string, userID uint64, ep ws.Endpoint) {
	s.registry.Add(chatID, ep, userID)
}

// DetachEndpoint removes a live endpoint. Safe to call twice.
func (s *ChatService) DetachEndpoint(chatID string, ep ws.Endpoint) {
	s.registry.Remove(chatID, ep)
}
