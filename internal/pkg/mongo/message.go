package mongo

import "time"

// ChatMessage is one record in the append-only message log. Each message is
// keyed by (chat_id, seq); seq is allocated by the MySQL row-lock counter so
// the log never loses a concurrent append.
type ChatMessage struct {
	ID        string    `bson:"_id,omitempty" json:"-"`
	ChatID    string    `bson:"chat_id" json:"chatId"`
	Seq       uint64    `bson:"seq" json:"seq"`
	Sender    uint64    `bson:"sender" json:"sender"`
	Data      string    `bson:"data" json:"data"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
