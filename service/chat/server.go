package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Dexter-z/unimart-sub001/logger"
	"github.com/Dexter-z/unimart-sub001/module/chat/model"
)

// EventPublisher is the durable event log. Publish is keyed by conversation
// id; failures are logged and never block live delivery.
type EventPublisher interface {
	Publish(key string, value []byte) error
}

// PresenceStore marks a participant online/offline in the external cache.
type PresenceStore interface {
	Online(ctx context.Context, routingKey string) error
	Offline(ctx context.Context, routingKey string) error
}

type ServerConf struct {
	Presence PresenceStore
	Events   EventPublisher
	Clock    func() time.Time // 可注入时钟（单测用）；nil => time.Now
}

func (c *ServerConf) norm() {
	if c.Clock == nil {
		c.Clock = time.Now
	}
}

// Server owns the connection registry, the live unseen counters and the
// outbound event-log producer. One Server per gateway process.
type Server struct {
	registry *ConnRegistry
	unseen   *LiveUnseenTracker
	presence PresenceStore
	events   EventPublisher
	clock    func() time.Time
}

func NewServer(conf ServerConf) *Server {
	conf.norm()
	return &Server{
		registry: NewConnRegistry(),
		unseen:   NewLiveUnseenTracker(),
		presence: conf.Presence,
		events:   conf.Events,
		clock:    conf.Clock,
	}
}

func (s *Server) Registry() *ConnRegistry    { return s.registry }
func (s *Server) Unseen() *LiveUnseenTracker { return s.unseen }

// Session 一条连接的状态机：未注册 -> 已注册 -> 关闭。
type Session struct {
	id         string
	srv        *Server
	conn       Conn
	routingKey string
}

func (s *Server) OpenSession(conn Conn) *Session {
	return &Session{id: uuid.NewString(), srv: s, conn: conn}
}

func (sess *Session) Registered() bool   { return sess.routingKey != "" }
func (sess *Session) RoutingKey() string { return sess.routingKey }

// HandleFrame processes one inbound frame. The first frame is the plain-text
// registration (its literal content is the routing key); everything after
// that must be JSON and is dispatched by variant.
func (sess *Session) HandleFrame(raw []byte) {
	if !sess.Registered() {
		sess.register(string(raw))
		return
	}

	switch f := ParseFrame(raw).(type) {
	case SeenAckFrame:
		sess.handleSeenAck(f)
	case ChatSendFrame:
		sess.handleChatSend(f)
	case UnknownFrame:
		logger.Errorf("[Router] drop malformed frame sid=%s err=%v", sess.id, f.Err)
	}
}

func (sess *Session) register(raw string) {
	key := NormalizeRoutingKey(raw)
	if key == "" {
		logger.Errorf("[Router] empty registration frame sid=%s", sess.id)
		return
	}
	sess.routingKey = key
	// 同键旧连接直接被顶掉，不报错
	sess.srv.registry.Add(key, sess.conn)
	if err := sess.srv.presence.Online(context.Background(), key); err != nil {
		logger.Errorf("[Router] presence online failed key=%s err=%v", key, err)
	}
	logger.Infof("[Router] registered key=%s sid=%s", key, sess.id)
}

func (sess *Session) handleSeenAck(f SeenAckFrame) {
	if f.ConversationID == "" {
		logger.Errorf("[Router] seen-ack without conversationId sid=%s", sess.id)
		return
	}
	sess.srv.unseen.Reset(sess.routingKey, f.ConversationID)
}

func (sess *Session) handleChatSend(f ChatSendFrame) {
	if f.SenderID == "" {
		logger.Errorf("[Router] drop message: missing fromUserId conv=%s sid=%s", f.ConversationID, sess.id)
		return
	}
	if f.ToID == "" || f.Body == "" || f.ConversationID == "" {
		logger.Errorf("[Router] drop message: missing required field from=%s conv=%s sid=%s",
			f.SenderID, f.ConversationID, sess.id)
		return
	}

	s := sess.srv
	msg := model.ChatMessage{
		ConversationID: f.ConversationID,
		SenderID:       f.SenderID,
		SenderType:     f.SenderType,
		Content:        f.Body,
		CreatedAt:      s.clock(),
	}

	receiverKey, senderKey := DeliveryKeys(f.SenderType, f.SenderID, f.ToID)
	count := s.unseen.Incr(receiverKey, f.ConversationID)

	if conn, ok := s.registry.Get(receiverKey); ok {
		// 单条推送失败不应中断本帧后续处理
		if err := conn.WriteJSON(BuildNewMessage(msg)); err != nil {
			logger.Errorf("[Router] push NEW_MESSAGE failed key=%s err=%v", receiverKey, err)
		}
		if err := conn.WriteJSON(BuildUnseenCountUpdate(f.ConversationID, count)); err != nil {
			logger.Errorf("[Router] push UNSEEN_COUNT_UPDATE failed key=%s err=%v", receiverKey, err)
		}
	} else {
		logger.Infof("[Router] %s offline, message queued conv=%s", receiverKey, f.ConversationID)
	}

	if conn, ok := s.registry.Get(senderKey); ok {
		if err := conn.WriteJSON(BuildNewMessage(msg)); err != nil {
			logger.Errorf("[Router] echo failed key=%s err=%v", senderKey, err)
		}
	}

	// 投递已经走完内存路径，发布失败只记日志
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Errorf("[Router] marshal event failed conv=%s err=%v", f.ConversationID, err)
		return
	}
	if err := s.events.Publish(f.ConversationID, payload); err != nil {
		logger.Errorf("[Router] event publish failed conv=%s err=%v", f.ConversationID, err)
	}
}

// Close tears the session down. Registry entry and presence marker are
// removed only when they still belong to this connection, so a replaced
// socket closing late cannot knock out its successor.
func (sess *Session) Close() {
	if sess.Registered() {
		if sess.srv.registry.Remove(sess.routingKey, sess.conn) {
			if err := sess.srv.presence.Offline(context.Background(), sess.routingKey); err != nil {
				logger.Errorf("[Router] presence offline failed key=%s err=%v", sess.routingKey, err)
			}
		}
	}
	_ = sess.conn.Close()
}
