// Copyright (C) 2025-2026 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package broker

import (
	"context"
	"crypto/tls"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
)

// Producer writes claim-file messages to one topic. It is safe for
// concurrent use by the feed workers.
type Producer struct {
	topic  string
	writer *kafka.Writer
}

func newProducer(cfg Config, topic string, mechanism sasl.Mechanism, tlsConfig *tls.Config) *Producer {
	transport := &kafka.Transport{
		SASL: mechanism,
		TLS:  tlsConfig,
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.ProducerBatchSize,
		BatchTimeout: cfg.ProducerBatchTimeout,
		RequiredAcks: kafka.RequireAll,
		Transport:    transport,
	}

	return &Producer{topic: topic, writer: w}
}

// Topic returns the topic this producer writes to.
func (p *Producer) Topic() string {
	return p.topic
}

// Send writes one message, blocking until the broker acknowledges it or ctx
// expires.
func (p *Producer) Send(ctx context.Context, message Message) error {
	return p.writer.WriteMessages(ctx, message.ToKafkaMessage())
}

// Close flushes buffered messages and releases the connection.
func (p *Producer) Close() error {
	return p.writer.Close()
}
