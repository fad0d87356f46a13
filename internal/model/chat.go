package model

import "time"

// Chat is a 1:1 thread between a seller and a buyer about one ad. It is
// addressed by its opaque ChatID token; the (ad, seller, buyer) tuple is only
// used for find-or-create. Neither participant can hard-delete a chat, each
// side has its own soft-hide and block flags.
type Chat struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID          string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"chatId"`
	AdID            uint64    `gorm:"index:idx_ad_seller_buyer;not null" json:"adId"`
	SellerID        uint64    `gorm:"index:idx_ad_seller_buyer;not null" json:"sellerId"`
	BuyerID         uint64    `gorm:"index:idx_ad_seller_buyer;not null" json:"buyerId"`
	MarkedDelSeller bool      `gorm:"type:tinyint(1);default:0" json:"markedDelSeller"`
	MarkedDelBuyer  bool      `gorm:"type:tinyint(1);default:0" json:"markedDelBuyer"`
	BlockedBySeller bool      `gorm:"type:tinyint(1);default:0" json:"blockedBySeller"`
	BlockedByBuyer  bool      `gorm:"type:tinyint(1);default:0" json:"blockedByBuyer"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (Chat) TableName() string { return "chats" }

// ChatHistory is the per-chat history head, one row per chat. Message bodies
// live in the Mongo append-only log keyed by (chat_id, seq); MaxMsgSeq is the
// monotonic sequence counter incremented under a row lock so concurrent
// appends from both participants cannot lose a message.
type ChatHistory struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID           string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"chatId"`
	MaxMsgSeq        uint64    `gorm:"not null;default:0" json:"maxMsgSeq"`
	NewNotifications bool      `gorm:"type:tinyint(1);default:0" json:"newNotifications"`
	LastSenderID     uint64    `gorm:"not null;default:0" json:"lastSenderId"`
	LastMessageAt    time.Time `gorm:"index" json:"lastMessageAt"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (ChatHistory) TableName() string { return "chat_histories" }
