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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
)

// Handler processes one consumed claim-file message. A returned error marks
// the message failed but does not stop consumption; the offset is committed
// either way because redelivery could not succeed any better.
type Handler func(ctx context.Context, msg ConsumedMessage) error

// Consumer reads claim-file messages from one topic within a consumer
// group, committing offsets synchronously after each message.
type Consumer struct {
	topic  string
	reader *kafka.Reader
}

func newConsumer(cfg Config, topic string, mechanism sasl.Mechanism, tlsConfig *tls.Config) *Consumer {
	timeout := cfg.ConnectionTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	dialer := &kafka.Dialer{
		Timeout:       timeout,
		SASLMechanism: mechanism,
		TLS:           tlsConfig,
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          topic,
		GroupID:        cfg.GroupID,
		MinBytes:       cfg.ConsumerMinBytes,
		MaxBytes:       cfg.ConsumerMaxBytes,
		MaxWait:        cfg.ConsumerMaxWait,
		StartOffset:    kafka.LastOffset,
		Dialer:         dialer,
		CommitInterval: 0, // synchronous commits
	})

	return &Consumer{topic: topic, reader: reader}
}

// Topic returns the topic this consumer reads from.
func (c *Consumer) Topic() string {
	return c.topic
}

// Consume fetches messages until ctx is cancelled, invoking the handler for
// each. It returns ctx.Err() on cancellation and a wrapped error on broker
// failures.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	slog.Info("Broker consumer started", slog.String("topic", c.topic))

	for {
		km, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		msg := FromKafkaMessage(km)
		if err := handler(ctx, msg); err != nil {
			slog.Warn("Claim-file message rejected",
				slog.String("topic", msg.Topic),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Any("error", err))
		}

		if err := c.reader.CommitMessages(ctx, km); err != nil {
			if errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			return fmt.Errorf("failed to commit offsets: %w", err)
		}
	}
}

// Close releases the reader and its group membership.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
