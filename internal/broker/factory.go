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
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Factory builds producers and consumers sharing one broker configuration.
type Factory struct {
	cfg Config
}

func NewFactory(cfg Config) *Factory {
	return &Factory{cfg: cfg}
}

// IsEnabled reports whether broker connectivity is configured at all.
func (f *Factory) IsEnabled() bool {
	return f.cfg.Enabled
}

// NewProducer returns a producer on the outbound feed topic.
func (f *Factory) NewProducer() (*Producer, error) {
	mechanism, tlsConfig, err := f.auth()
	if err != nil {
		return nil, err
	}
	return newProducer(f.cfg, f.cfg.FeedTopic, mechanism, tlsConfig), nil
}

// NewConsumer returns a consumer on the inbound claim-file topic.
func (f *Factory) NewConsumer() (*Consumer, error) {
	mechanism, tlsConfig, err := f.auth()
	if err != nil {
		return nil, err
	}
	return newConsumer(f.cfg, f.cfg.IngestTopic, mechanism, tlsConfig), nil
}

func (f *Factory) auth() (sasl.Mechanism, *tls.Config, error) {
	var mechanism sasl.Mechanism
	if f.cfg.SASLEnabled {
		var err error
		mechanism, err = f.saslMechanism()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
	}

	var tlsConfig *tls.Config
	if f.cfg.TLSEnabled {
		tlsConfig = &tls.Config{InsecureSkipVerify: f.cfg.TLSSkipVerify}
	}
	return mechanism, tlsConfig, nil
}

func (f *Factory) saslMechanism() (sasl.Mechanism, error) {
	switch strings.ToUpper(f.cfg.SASLMechanism) {
	case "PLAIN":
		return plain.Mechanism{
			Username: f.cfg.SASLUsername,
			Password: f.cfg.SASLPassword,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, f.cfg.SASLUsername, f.cfg.SASLPassword)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, f.cfg.SASLUsername, f.cfg.SASLPassword)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", f.cfg.SASLMechanism)
	}
}
