package kafka

import (
	"github.com/Shopify/sarama"
)

var SyncProd sarama.SyncProducer

func InitSyncProducerFromClient() error {
	p, err := sarama.NewSyncProducerFromClient(KafkaClient)
	if err != nil {
		return err
	}
	SyncProd = p
	return nil
}

// EventProducer publishes chat events onto one topic, keyed by conversation
// id. The hash partitioner pins a conversation to a partition, which is what
// preserves per-conversation order downstream.
type EventProducer struct {
	prod  sarama.SyncProducer
	topic string
}

func NewEventProducer(prod sarama.SyncProducer, topic string) *EventProducer {
	return &EventProducer{prod: prod, topic: topic}
}

func (p *EventProducer) Publish(key string, value []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	_, _, err := p.prod.SendMessage(msg)
	return err
}
