package kafka

import "github.com/Shopify/sarama"

// In-code 配置（不读 YAML）
type AppConfig struct {
	Brokers                []string
	GroupID                string
	Topic                  string // 聊天事件单 topic，key=conversationId 保证会话内有序
	Partitions             int32
	ReplicationFactor      int16 // 单机=1；生产=3
	ProducerRetries        int
	ProducerCompression    string // none/snappy/lz4/zstd
	ConsumerInitialOffset  string // newest/oldest
	KafkaVersion           sarama.KafkaVersion
	AutoCreateTopicOnStart bool
}

// 默认配置（可直接改）
var Cfg = AppConfig{
	Brokers:                []string{"127.0.0.1:9092"},
	GroupID:                "chat-persist-1",
	Topic:                  "chat.messages",
	Partitions:             8,
	ReplicationFactor:      1,
	ProducerRetries:        5,
	ProducerCompression:    "snappy",
	ConsumerInitialOffset:  "oldest",
	KafkaVersion:           sarama.V2_1_0_0,
	AutoCreateTopicOnStart: true,
}
