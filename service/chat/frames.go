package chat

import (
	"encoding/json"
	"strings"

	"github.com/Dexter-z/unimart-sub001/module/chat/model"
)

// Frame types on the wire.
const (
	TypeMarkAsSeen        = "MARK_AS_SEEN"
	TypeNewMessage        = "NEW_MESSAGE"
	TypeUnseenCountUpdate = "UNSEEN_COUNT_UPDATE"
)

// Frame is the variant produced by parsing a post-registration client frame.
// The very first frame of a connection is not JSON and never reaches
// ParseFrame; it is the plain-text routing key handled by Session.
type Frame interface{ frame() }

type SeenAckFrame struct {
	ConversationID string
}

type ChatSendFrame struct {
	SenderID       string
	ToID           string
	Body           string
	ConversationID string
	SenderType     string // "user" | "seller"
}

type UnknownFrame struct {
	Err error
}

func (SeenAckFrame) frame()  {}
func (ChatSendFrame) frame() {}
func (UnknownFrame) frame()  {}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId"`
	FromUserID     string `json:"fromUserId"`
	FromSellerID   string `json:"fromSellerId"` // legacy alias kept for older seller clients
	ToUserID       string `json:"toUserId"`
	MessageBody    string `json:"messageBody"`
	SenderType     string `json:"senderType"`
}

// ParseFrame turns a raw JSON frame into its variant. Field validation is
// the router's job; the alias normalization happens here, at the parse
// boundary, so the rest of the code only ever sees one sender id field.
func ParseFrame(raw []byte) Frame {
	var in inboundFrame
	if err := json.Unmarshal(raw, &in); err != nil {
		return UnknownFrame{Err: err}
	}
	if in.Type == TypeMarkAsSeen {
		return SeenAckFrame{ConversationID: in.ConversationID}
	}
	senderID := in.FromUserID
	if senderID == "" {
		senderID = in.FromSellerID
	}
	return ChatSendFrame{
		SenderID:       senderID,
		ToID:           in.ToUserID,
		Body:           in.MessageBody,
		ConversationID: in.ConversationID,
		SenderType:     in.SenderType,
	}
}

// ---- 路由键 ----

// NormalizeRoutingKey 注册帧内容转路由键：卖家自带 seller_ 前缀，
// 用户是裸 id，这里补 user_ 前缀。
func NormalizeRoutingKey(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "seller_") {
		return raw
	}
	return "user_" + strings.TrimPrefix(raw, "user_")
}

// DeliveryKeys 按发送方类型推导收发双方的路由键；
// senderType 非 "user" 时映射取反。
func DeliveryKeys(senderType, fromID, toID string) (receiverKey, senderKey string) {
	if senderType == "user" {
		return "seller_" + toID, "user_" + fromID
	}
	return "user_" + toID, "seller_" + fromID
}

// ---- 构造服务端推送帧 ----

type ServerFrame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type UnseenCountPayload struct {
	ConversationID string `json:"conversationId"`
	Count          int    `json:"count"`
}

func BuildNewMessage(msg model.ChatMessage) ServerFrame {
	return ServerFrame{Type: TypeNewMessage, Payload: msg}
}

func BuildUnseenCountUpdate(conversationID string, count int) ServerFrame {
	return ServerFrame{
		Type:    TypeUnseenCountUpdate,
		Payload: UnseenCountPayload{ConversationID: conversationID, Count: count},
	}
}
