// Package events reenvía los eventos del libro a Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/pkg/logger"
)

// KafkaPublisher productor síncrono de eventos del libro.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaPublisher conecta con los brokers.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("crear productor kafka: %w", err)
	}
	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("publicador kafka inicializado")
	return NewKafkaPublisherWithProducer(producer, topic, log), nil
}

// NewKafkaPublisherWithProducer usa un productor ya construido (tests con sarama/mocks).
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &KafkaPublisher{producer: producer, topic: topic, log: log}
}

// Handler suscriptor para el EventBus. Los fallos se registran; el commit ya ocurrió.
func (p *KafkaPublisher) Handler() inventory.EventHandler {
	return func(ctx context.Context, events []entity.LedgerEvent) {
		if err := p.Publish(ctx, events); err != nil {
			p.log.WithContext(ctx).Error().Err(err).Int("events", len(events)).Msg("no se pudieron publicar eventos en kafka")
		}
	}
}

// Publish envía los eventos en un solo lote.
func (p *KafkaPublisher) Publish(ctx context.Context, events []entity.LedgerEvent) error {
	if len(events) == 0 {
		return nil
	}
	ctx, span := otel.Tracer("telas-api/kafka").Start(ctx, "kafka.publish.ledger_events",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", p.topic),
			attribute.Int("messaging.batch.message_count", len(events)),
		),
	)
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, e := range events {
		msg, err := p.message(e, carrier)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "serializar evento")
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.producer.SendMessages(msgs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enviar mensajes")
		return fmt.Errorf("enviar a kafka: %w", err)
	}
	span.SetStatus(codes.Ok, "")
	p.log.WithContext(ctx).Debug().Str("topic", p.topic).Int("events", len(events)).Msg("eventos publicados")
	return nil
}

func (p *KafkaPublisher) message(e entity.LedgerEvent, carrier propagation.MapCarrier) (*sarama.ProducerMessage, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("serializar evento %s: %w", e.ID, err)
	}
	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(e.Kind)},
		{Key: []byte("event_id"), Value: []byte(e.ID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	return &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(MessageKey(e)),
		Value:   sarama.ByteEncoder(body),
		Headers: headers,
	}, nil
}

// MessageKey particiona por empresa y producto para conservar el orden por producto.
func MessageKey(e entity.LedgerEvent) string {
	if e.ProductID == "" {
		return e.CompanyID
	}
	return e.CompanyID + ":" + e.ProductID
}

// Close cierra el productor.
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
