package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const BooksTopic = "bookshelf.books"

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Retry.Max = 3
	defaultCfg.Producer.Timeout = 5 * time.Second

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

type EventType string

const (
	EventBookCreated EventType = "created"
	EventBookUpdated EventType = "updated"
	EventBookDeleted EventType = "deleted"
)

type EventBook struct {
	Type      EventType `json:"type"`
	BookID    int       `json:"bookId"`
	Title     string    `json:"title,omitempty"`
	Author    string    `json:"author,omitempty"`
	Rating    int       `json:"rating,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
