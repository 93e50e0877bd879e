package kafka

import (
	"fitbattle-service/internal/config"

	"github.com/IBM/sarama"
)

// NewProducerConfig returns the producer settings used for battle events.
func NewProducerConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Partitioner = sarama.NewHashPartitioner // same battle, same partition
	cfg.Producer.MaxMessageBytes = 1000000
	cfg.Version = sarama.V2_0_0_0
	cfg.ClientID = clientID
	return cfg
}

func InitKafkaProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	return sarama.NewSyncProducer(cfg.Brokers, NewProducerConfig(cfg.ClientID))
}
