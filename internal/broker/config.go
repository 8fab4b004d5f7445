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

// Package broker connects claimrunner to Kafka: a producer hands processed
// claim files to the downstream feed topic, and a consumer bridges an
// inbound topic into the push inbox.
package broker

import (
	"time"
)

// Config holds broker connectivity and the claim-file topics.
type Config struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`

	// SASL/SCRAM authentication
	SASLEnabled   bool   `mapstructure:"sasl_enabled"`
	SASLMechanism string `mapstructure:"sasl_mechanism"` // "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string `mapstructure:"sasl_username"`
	SASLPassword  string `mapstructure:"sasl_password"`

	// TLS configuration
	TLSEnabled    bool `mapstructure:"tls_enabled"`
	TLSSkipVerify bool `mapstructure:"tls_skip_verify"`

	// FeedTopic receives every processed work item.
	FeedTopic string `mapstructure:"feed_topic"`

	// IngestTopic carries claim files pushed by remote producers; the bridge
	// drains it into the inbox.
	IngestTopic string `mapstructure:"ingest_topic"`

	GroupID string `mapstructure:"group_id"`

	// Producer settings
	ProducerBatchSize    int           `mapstructure:"producer_batch_size"`
	ProducerBatchTimeout time.Duration `mapstructure:"producer_batch_timeout"`

	// Consumer settings
	ConsumerMinBytes int           `mapstructure:"consumer_min_bytes"`
	ConsumerMaxBytes int           `mapstructure:"consumer_max_bytes"`
	ConsumerMaxWait  time.Duration `mapstructure:"consumer_max_wait"`

	ConnectionTimeout time.Duration `mapstructure:"connection_timeout"`
}

// DefaultConfig returns a configuration suitable for a local single-node
// broker.
func DefaultConfig() Config {
	return Config{
		Enabled: false,
		Brokers: []string{"localhost:9092"},

		SASLEnabled:   false,
		SASLMechanism: "SCRAM-SHA-256",

		TLSEnabled:    false,
		TLSSkipVerify: false,

		FeedTopic:   "claimrunner.feed",
		IngestTopic: "claimrunner.ingest",
		GroupID:     "claimrunner",

		ProducerBatchSize:    100,
		ProducerBatchTimeout: 100 * time.Millisecond,

		ConsumerMinBytes: 1,
		ConsumerMaxBytes: 10 * 1024 * 1024,
		ConsumerMaxWait:  500 * time.Millisecond,

		ConnectionTimeout: 10 * time.Second,
	}
}
