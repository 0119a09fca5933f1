// Package events publishes ticket-transition events to kafka so downstream
// consumers (analytics, the CRM team's own tooling) can follow what the
// reconciliation sweeps did without polling the CRM.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"homenet/internal/crm"
	"homenet/internal/platform/config"
)

// TicketEvent records one applied ticket transition.
type TicketEvent struct {
	ID            string     `json:"id"`
	TicketID      int64      `json:"ticket_id"`
	From          crm.Status `json:"from"`
	To            crm.Status `json:"to"`
	ApplicationID string     `json:"application_id,omitempty"`
	Comment       string     `json:"comment,omitempty"`
	At            time.Time  `json:"at"`
}

// Publisher emits ticket events. A nil Publisher is a valid no-op, so
// callers never need to branch on whether kafka is configured.
type Publisher struct {
	client *kgo.Client
	topic  string
	log    *slog.Logger
}

// NewPublisher connects to the configured brokers. Returns nil (no-op
// publisher) when no brokers are configured.
func NewPublisher(cfg config.KafkaConfig, log *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	if log == nil {
		log = slog.Default()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{client: client, topic: cfg.Topic, log: log}, nil
}

// Emit publishes one event asynchronously. Delivery failures are logged, not
// propagated: the CRM transition already happened and must not be rolled back
// over a telemetry problem.
func (p *Publisher) Emit(ctx context.Context, event TicketEvent) {
	if p == nil {
		return
	}
	record, err := p.record(event)
	if err != nil {
		p.log.Error("marshal ticket event", "error", err)
		return
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.log.Error("publish ticket event",
				"ticket_id", event.TicketID, "error", err)
		}
	})
}

// record builds the kafka record for one event: keyed by ticket id so
// transitions for the same ticket stay ordered within a partition.
func (p *Publisher) record(event TicketEvent) (*kgo.Record, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &kgo.Record{
		Topic: p.topic,
		Key:   []byte(strconv.FormatInt(event.TicketID, 10)),
		Value: value,
	}, nil
}

// Close flushes buffered events and releases the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}
