package kafka

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/IBM/sarama"
)

// Producer publishes JSON messages to one topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducerFromEnv creates a producer using KAFKA_BROKERS (comma separated)
// and the given topic.
func NewProducerFromEnv(topic string) (*Producer, error) {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}
	return NewProducer(strings.Split(brokers, ","), topic)
}

// NewProducer creates a synchronous producer.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &Producer{producer: producer, topic: topic}, nil
}

// PublishJSON marshals the payload and sends it keyed by key.
func (p *Producer) PublishJSON(key string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf("[kafka] published message: topic=%s, partition=%d, offset=%d, key=%s",
		p.topic, partition, offset, key)
	return nil
}

// Close shuts down the producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
