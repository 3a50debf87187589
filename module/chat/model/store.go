package model

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore 聚合消息与未读仓储，供 persist worker 作为一个落库口使用。
type MongoStore struct {
	Messages *MessageRepo
	Unseen   *UnseenRepo
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		Messages: NewMessageRepo(db),
		Unseen:   NewUnseenRepo(db),
	}
}

func (s *MongoStore) InsertMessages(ctx context.Context, msgs []ChatMessage) error {
	return s.Messages.InsertMany(ctx, msgs)
}

func (s *MongoStore) IncrUnseen(ctx context.Context, participantType, conversationID string) error {
	return s.Unseen.Incr(ctx, participantType, conversationID)
}
