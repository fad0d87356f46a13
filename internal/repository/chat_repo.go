package repository

import (
	"courtyard/internal/model"
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ChatRepo interface {
	CreateChat(ctx context.Context, chat *model.Chat) error
	GetChatByToken(ctx context.Context, chatID string) (*model.Chat, error)
	FindChatToken(ctx context.Context, adID, sellerID, buyerID uint64) (string, error)
	GetHistoryHead(ctx context.Context, chatID string) (*model.ChatHistory, error)
	AppendMessage(ctx context.Context, chatID string, senderID uint64, save func(ctx context.Context, seq uint64) error) (uint64, error)
	AcknowledgeNotifications(ctx context.Context, chatID string) error
	GetUserChats(ctx context.Context, userID uint64) ([]*model.Chat, error)
	GetUnreadChatIDs(ctx context.Context, userID uint64, window time.Duration) ([]string, error)
	MarkDeleted(ctx context.Context, chatID string, userID uint64) error
	UpdateFlag(ctx context.Context, chatID string, column string, value bool) error
}

type chatRepoImpl struct {
	db *gorm.DB
}

func NewChatRepo(db *gorm.DB) ChatRepo {
	return &chatRepoImpl{db: db}
}

// CreateChat inserts the chat and its empty history head in one transaction.
func (s *chatRepoImpl) CreateChat(ctx context.Context, chat *model.Chat) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return errors.Wrap(err, "create chat")
		}
		history := &model.ChatHistory{
			ChatID:        chat.ChatID,
			LastMessageAt: time.Now(),
		}
		if err := tx.Create(history).Error; err != nil {
			return errors.Wrap(err, "create chat history")
		}
		return nil
	})
}

func (s *chatRepoImpl) GetChatByToken(ctx context.Context, chatID string) (*model.Chat, error) {
	chat := &model.Chat{}
	result := s.db.WithContext(ctx).Where("chat_id = ?", chatID).First(chat)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return chat, nil
}

// FindChatToken resolves the (ad, seller, buyer) tuple to an existing token.
// Find-only: it never creates, and returns "" when no chat exists.
func (s *chatRepoImpl) FindChatToken(ctx context.Context, adID, sellerID, buyerID uint64) (string, error) {
	var chatID string
	result := s.db.WithContext(ctx).Model(&model.Chat{}).
		Select("chat_id").
		Where("ad_id = ? AND seller_id = ? AND buyer_id = ?", adID, sellerID, buyerID).
		First(&chatID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return chatID, nil
}

func (s *chatRepoImpl) GetHistoryHead(ctx context.Context, chatID string) (*model.ChatHistory, error) {
	history := &model.ChatHistory{}
	result := s.db.WithContext(ctx).Where("chat_id = ?", chatID).First(history)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return history, nil
}

// AppendMessage allocates the next sequence number under a MySQL row lock,
// marks unread state, un-hides the chat for both sides, and invokes save
// with the new seq inside the same transaction. A failing save rolls every
// update back: the flag changes and the appended message are one logical
// transaction.
func (s *chatRepoImpl) AppendMessage(ctx context.Context, chatID string, senderID uint64, save func(ctx context.Context, seq uint64) error) (uint64, error) {
	var seq uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.ChatHistory{}).
			Where("chat_id = ?", chatID).
			Updates(map[string]interface{}{
				"max_msg_seq":       gorm.Expr("max_msg_seq + 1"),
				"new_notifications": true,
				"last_sender_id":    senderID,
				"last_message_at":   time.Now(),
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, "bump message seq")
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		// An incoming message un-hides the chat for both participants.
		if err := tx.Model(&model.Chat{}).
			Where("chat_id = ?", chatID).
			Updates(map[string]interface{}{
				"marked_del_seller": false,
				"marked_del_buyer":  false,
			}).Error; err != nil {
			return errors.Wrap(err, "clear hide flags")
		}

		if err := tx.Model(&model.ChatHistory{}).
			Select("max_msg_seq").
			Where("chat_id = ?", chatID).
			Scan(&seq).Error; err != nil {
			return errors.Wrap(err, "read message seq")
		}

		return save(ctx, seq)
	})
	return seq, err
}

// AcknowledgeNotifications clears the unread flag. Idempotent.
func (s *chatRepoImpl) AcknowledgeNotifications(ctx context.Context, chatID string) error {
	return s.db.WithContext(ctx).Model(&model.ChatHistory{}).
		Where("chat_id = ?", chatID).
		Update("new_notifications", false).Error
}

// GetUserChats lists the chats visible to a user, skipping the ones that
// side has soft-hidden.
func (s *chatRepoImpl) GetUserChats(ctx context.Context, userID uint64) ([]*model.Chat, error) {
	chats := make([]*model.Chat, 0)
	err := s.db.WithContext(ctx).
		Where("(seller_id = ? AND marked_del_seller = 0) OR (buyer_id = ? AND marked_del_buyer = 0)", userID, userID).
		Order("created_at DESC").
		Find(&chats).Error
	return chats, err
}

// GetUnreadChatIDs returns chats where the user participates, the unread
// flag is set, the last sender is someone else, and the last message landed
// within the recency window.
func (s *chatRepoImpl) GetUnreadChatIDs(ctx context.Context, userID uint64, window time.Duration) ([]string, error) {
	chatIDs := make([]string, 0)
	err := s.db.WithContext(ctx).Model(&model.ChatHistory{}).
		Select("chat_histories.chat_id").
		Joins("JOIN chats ON chats.chat_id = chat_histories.chat_id").
		Where("(chats.seller_id = ? OR chats.buyer_id = ?)", userID, userID).
		Where("chat_histories.new_notifications = 1").
		Where("chat_histories.last_sender_id <> ?", userID).
		Where("chat_histories.last_message_at > ?", time.Now().Add(-window)).
		Scan(&chatIDs).Error
	return chatIDs, err
}

// MarkDeleted soft-hides a chat for one side only.
func (s *chatRepoImpl) MarkDeleted(ctx context.Context, chatID string, userID uint64) error {
	chat, err := s.GetChatByToken(ctx, chatID)
	if err != nil {
		return err
	}
	if chat == nil {
		return gorm.ErrRecordNotFound
	}

	updates := map[string]interface{}{}
	if chat.SellerID == userID {
		updates["marked_del_seller"] = true
	}
	if chat.BuyerID == userID {
		updates["marked_del_buyer"] = true
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&model.Chat{}).
		Where("chat_id = ?", chatID).
		Updates(updates).Error
}

// UpdateFlag flips one boolean column on the chat row, used for the
// per-side block flags.
func (s *chatRepoImpl) UpdateFlag(ctx context.Context, chatID string, column string, value bool) error {
	return s.db.WithContext(ctx).Model(&model.Chat{}).
		Where("chat_id = ?", chatID).
		Update(column, value).Error
}
