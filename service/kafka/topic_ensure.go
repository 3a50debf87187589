package kafka

import (
	"fmt"

	"github.com/Shopify/sarama"

	"github.com/Dexter-z/unimart-sub001/logger"
)

func EnsureTopics(admin sarama.ClusterAdmin, topics []string) error {
	for _, t := range topics {
		desc, err := admin.DescribeTopics([]string{t})
		if err == nil && len(desc) == 1 && desc[0].Err == sarama.ErrNoError {
			logger.Infof("[Topic] exists: %s (partitions=%d)", t, len(desc[0].Partitions))
			continue
		}
		td := &sarama.TopicDetail{
			NumPartitions:     Cfg.Partitions,
			ReplicationFactor: Cfg.ReplicationFactor,
			ConfigEntries: map[string]*string{
				"cleanup.policy":                 strPtr("delete"),
				"min.insync.replicas":            strPtr("1"),
				"unclean.leader.election.enable": strPtr("false"),
				"compression.type":               strPtr("producer"),
			},
		}
		if err := admin.CreateTopic(t, td, false); err != nil {
			if err == sarama.ErrTopicAlreadyExists {
				logger.Infof("[Topic] exists (race): %s", t)
				continue
			}
			return fmt.Errorf("create topic %s: %w", t, err)
		}
		logger.Infof("[Topic] created: %s (partitions=%d, rf=%d)", t, Cfg.Partitions, Cfg.ReplicationFactor)
	}
	return nil
}

func strPtr(s string) *string { return &s }
