package queue

import (
	"time"

	"github.com/Astemirdum/bookshelf-service/pkg/circuit_breaker"
	"github.com/Astemirdum/bookshelf-service/pkg/kafka"
	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=queue.go -destination=mocks/mock.go

type Enqueuer interface {
	Enqueue(event kafka.EventBook) error
}

// NewEnqueuer publishes book events to kafka.BooksTopic.
// A nil producer yields an enqueuer that drops every event.
func NewEnqueuer(producer sarama.SyncProducer, log *zap.Logger) Enqueuer {
	if producer == nil {
		return noopEnqueuer{}
	}
	return newEnqueuer(producer, circuit_breaker.New(100, time.Second, 0.2, 2), log)
}

func newEnqueuer(producer sarama.SyncProducer, cb circuit_breaker.CircuitBreaker, log *zap.Logger) *enqueuerImpl {
	return &enqueuerImpl{
		producer: producer,
		cb:       cb,
		log:      log.Named("queue"),
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
	cb       circuit_breaker.CircuitBreaker
	log      *zap.Logger
}

func (q *enqueuerImpl) Enqueue(event kafka.EventBook) error {
	data, err := jsoniter.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	msg := &sarama.ProducerMessage{
		Topic: kafka.BooksTopic,
		Key:   sarama.StringEncoder(string(event.Type)),
		Value: sarama.ByteEncoder(data),
	}
	err = q.cb.Call(func() error {
		partition, offset, err := q.producer.SendMessage(msg)
		if err != nil {
			return err
		}
		q.log.Debug("event sent",
			zap.String("type", string(event.Type)),
			zap.Int("book_id", event.BookID),
			zap.Int32("partition", partition),
			zap.Int64("offset", offset))
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "send %s event", event.Type)
	}
	return nil
}

type noopEnqueuer struct{}

func (noopEnqueuer) Enqueue(kafka.EventBook) error { return nil }
