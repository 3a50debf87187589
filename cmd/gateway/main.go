package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Dexter-z/unimart-sub001/config"
	"github.com/Dexter-z/unimart-sub001/logger"
	"github.com/Dexter-z/unimart-sub001/service/chat"
	"github.com/Dexter-z/unimart-sub001/service/kafka"
	"github.com/Dexter-z/unimart-sub001/service/storage"
)

func main() {
	cfg := config.Load()

	// 1) Presence cache
	rdb, err := storage.NewRedis(context.Background(), storage.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("redis init failed: %v", err)
	}
	presence := storage.NewPresenceManager(rdb, cfg.PresenceTTL)

	// 2) Event log producer
	kafka.Cfg.GroupID = cfg.KafkaGroupID
	kafka.Cfg.Topic = cfg.ChatTopic
	if err := kafka.InitKafkaClient(cfg.KafkaBrokers); err != nil {
		log.Fatalf("kafka client init failed: %v", err)
	}
	if err := kafka.InitSyncProducerFromClient(); err != nil {
		log.Fatalf("kafka producer init failed: %v", err)
	}
	producer := kafka.NewEventProducer(kafka.SyncProd, cfg.ChatTopic)

	// 3) Gateway server
	srv := chat.NewServer(chat.ServerConf{Presence: presence, Events: producer})

	// 4) HTTP + WebSocket
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/chat", srv.HandleWS)

	logger.Infof("[HTTP] gateway %s listening on %s", cfg.GatewayID, cfg.WSAddr)
	if err := r.Run(cfg.WSAddr); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
