package model

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const UnseenTableName = "unseen_counts"

// UnseenCount 是某一会话在某一参与方类型视角下的持久未读数。
// 只在落库时自增；清零属于外部 REST 层的读取语义，这里不做。
type UnseenCount struct {
	ParticipantType string `bson:"participant_type"` // "user" | "seller"
	ConversationID  string `bson:"conversation_id"`
	Count           int64  `bson:"count"`
	UpdateTime      int64  `bson:"update_time"` // Unix ms
}

type UnseenRepo struct {
	db *mongo.Database
}

func NewUnseenRepo(db *mongo.Database) *UnseenRepo {
	return &UnseenRepo{db: db}
}

func (r *UnseenRepo) Collection() *mongo.Collection {
	return r.db.Collection(UnseenTableName)
}

// Incr 对 (participantType, conversationID) 的计数 +1，不存在则 upsert。
func (r *UnseenRepo) Incr(ctx context.Context, participantType, conversationID string) error {
	filter := bson.M{
		"participant_type": participantType,
		"conversation_id":  conversationID,
	}
	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$set": bson.M{"update_time": time.Now().UnixMilli()},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.Collection().UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.Wrapf(err, "incr unseen %s/%s", participantType, conversationID)
	}
	return nil
}
