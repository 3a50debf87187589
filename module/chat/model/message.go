package model

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

const MsgTableName = "messages"

// ChatMessage 既是事件日志上的 JSON 载荷，也是落库的文档结构。
// createdAt 在线上以 ISO8601 字符串传输（time.Time 的默认 JSON 编码）。
type ChatMessage struct {
	ConversationID string    `json:"conversationId" bson:"conversation_id"`
	SenderID       string    `json:"senderId" bson:"sender_id"`
	SenderType     string    `json:"senderType" bson:"sender_type"` // "user" | "seller"
	Content        string    `json:"content" bson:"content"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
}

// ReceiverType 返回接收方的参与者类型（与 SenderType 相反）。
func (m *ChatMessage) ReceiverType() string {
	if m.SenderType == "user" {
		return "seller"
	}
	return "user"
}

type MessageRepo struct {
	db *mongo.Database
}

func NewMessageRepo(db *mongo.Database) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) Collection() *mongo.Collection {
	return r.db.Collection(MsgTableName)
}

// InsertMany 批量写入一批消息（单次 bulk 操作）。
func (r *MessageRepo) InsertMany(ctx context.Context, msgs []ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(msgs))
	for i := range msgs {
		docs = append(docs, msgs[i])
	}
	if _, err := r.Collection().InsertMany(ctx, docs); err != nil {
		return errors.Wrap(err, "insert messages")
	}
	return nil
}
