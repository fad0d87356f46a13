package service

import (
	"context"
	"time"

	"courtyard/internal/repository"

	log "log/slog"
)

// NotifyService feeds the server-sent-events notification stream. It polls
// the history heads on a fixed cycle and pushes the chat tokens that have
// fresh unread messages from the other participant.
type NotifyService struct {
	chatRepo repository.ChatRepo
	interval time.Duration
	window   time.Duration
}

func NewNotifyService(chatRepo repository.ChatRepo, interval, window time.Duration) *NotifyService {
	return &NotifyService{
		chatRepo: chatRepo,
		interval: interval,
		window:   window,
	}
}

// Unread is one poll cycle: the chat tokens with the unread flag set, a
// last sender other than userID, and a last message inside the recency
// window.
func (s *NotifyService) Unread(ctx context.Context, userID uint64) ([]string, error) {
	return s.chatRepo.GetUnreadChatIDs(ctx, userID, s.window)
}

// Stream polls until the subscriber context ends, invoking emit once per
// unread chat token found in a cycle. A failing poll skips that cycle and
// keeps the stream alive; a failing emit means the subscriber is gone and
// ends the stream.
func (s *NotifyService) Stream(ctx context.Context, userID uint64, emit func(chatID string) error) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		chatIDs, err := s.chatRepo.GetUnreadChatIDs(ctx, userID, s.window)
		if err != nil {
			log.WarnContext(ctx, "notification poll failed", "user_id", userID, "err", err)
		}
		for _, chatID := range chatIDs {
			if err := emit(chatID); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
