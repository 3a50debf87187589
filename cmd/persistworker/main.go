package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shopify/sarama"

	"github.com/Dexter-z/unimart-sub001/config"
	"github.com/Dexter-z/unimart-sub001/logger"
	"github.com/Dexter-z/unimart-sub001/module/chat/model"
	"github.com/Dexter-z/unimart-sub001/service/kafka"
	"github.com/Dexter-z/unimart-sub001/service/mgo"
	"github.com/Dexter-z/unimart-sub001/service/persist"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1) Durable storage
	client, db, err := mgo.Connect(ctx, mgo.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	if err != nil {
		log.Fatalf("mongo init failed: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	// 2) Event log
	kafka.Cfg.GroupID = cfg.KafkaGroupID
	kafka.Cfg.Topic = cfg.ChatTopic
	if err := kafka.InitKafkaClient(cfg.KafkaBrokers); err != nil {
		log.Fatalf("kafka client init failed: %v", err)
	}
	if kafka.Cfg.AutoCreateTopicOnStart {
		admin, err := sarama.NewClusterAdminFromClient(kafka.KafkaClient)
		if err != nil {
			log.Fatalf("kafka admin init failed: %v", err)
		}
		if err := kafka.EnsureTopics(admin, []string{cfg.ChatTopic}); err != nil {
			log.Fatalf("ensure topic failed: %v", err)
		}
	}

	// 3) Batched consumer
	worker := persist.NewWorker(model.NewMongoStore(db), cfg.FlushWindow)
	defer worker.Close()
	kafka.RegisterHandler(cfg.ChatTopic, worker.HandleEvent)

	logger.Infof("[Persist] consuming topic=%s group=%s window=%s", cfg.ChatTopic, cfg.KafkaGroupID, cfg.FlushWindow)
	if err := kafka.StartConsumerGroup(ctx, cfg.KafkaBrokers, cfg.KafkaGroupID, []string{cfg.ChatTopic}); err != nil {
		log.Fatalf("consumer group failed: %v", err)
	}
}
