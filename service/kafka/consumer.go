package kafka

import (
	"context"

	"github.com/Shopify/sarama"

	"github.com/Dexter-z/unimart-sub001/logger"
)

type ConsumerGroupHandler struct{}

func (h *ConsumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	logger.Info("Consumer group setup")
	return nil
}

func (h *ConsumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	logger.Info("Consumer group cleanup")
	return nil
}

func (h *ConsumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		logger.Infof("Received message | topic=%s | partition=%d | offset=%d", msg.Topic, msg.Partition, msg.Offset)

		handler, err := GetHandler(msg.Topic)
		if err != nil {
			logger.Errorf("No handler for topic %s: %v", msg.Topic, err)
		} else {
			if err := handler(msg.Topic, msg.Key, msg.Value); err != nil {
				logger.Errorf("Handler error for topic %s: %v", msg.Topic, err)
			}
		}

		session.MarkMessage(msg, "")
	}
	return nil
}

func StartConsumerGroup(ctx context.Context, brokers []string, groupID string, topics []string) error {
	config := BuildBaseConfig()

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return err
	}
	defer group.Close()

	go func() {
		for err := range group.Errors() {
			logger.Errorf("Consumer group error: %v", err)
		}
	}()

	handler := &ConsumerGroupHandler{}
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := group.Consume(ctx, topics, handler); err != nil {
			if err == sarama.ErrClosedConsumerGroup {
				return nil
			}
			logger.Errorf("Consume error: %v", err)
		}
	}
}
