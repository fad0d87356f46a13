package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	SaveMessage(ctx context.Context, msg *ChatMessage) error
	GetHistory(ctx context.Context, chatID string) ([]*ChatMessage, error)
	GetLastMessage(ctx context.Context, chatID string) (*ChatMessage, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{
		col: db.Collection("chat_messages"),
	}
}

func (s *messageRepoImpl) SaveMessage(ctx context.Context, msg *ChatMessage) error {
	_, err := s.col.InsertOne(ctx, msg)
	return err
}

// GetHistory returns the full ordered sequence for a chat, ascending by seq.
func (s *messageRepoImpl) GetHistory(ctx context.Context, chatID string) ([]*ChatMessage, error) {
	filter := bson.M{"chat_id": chatID}
	findOptions := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

func (s *messageRepoImpl) GetLastMessage(ctx context.Context, chatID string) (*ChatMessage, error) {
	var msg ChatMessage
	filter := bson.M{"chat_id": chatID}
	opts := options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}})

	err := s.col.FindOne(ctx, filter, opts).Decode(&msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
