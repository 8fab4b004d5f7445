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
	"testing"

	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_SASLMechanism(t *testing.T) {
	tests := []struct {
		name      string
		mechanism string
		wantErr   bool
	}{
		{name: "plain", mechanism: "PLAIN", wantErr: false},
		{name: "plain lowercase", mechanism: "plain", wantErr: false},
		{name: "scram sha256", mechanism: "SCRAM-SHA-256", wantErr: false},
		{name: "scram sha512", mechanism: "SCRAM-SHA-512", wantErr: false},
		{name: "unsupported", mechanism: "GSSAPI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SASLMechanism = tt.mechanism
			cfg.SASLUsername = "user"
			cfg.SASLPassword = "pass"

			mechanism, err := NewFactory(cfg).saslMechanism()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, mechanism)
		})
	}
}

func TestFactory_AuthDisabled(t *testing.T) {
	cfg := DefaultConfig()
	f := NewFactory(cfg)

	mechanism, tlsConfig, err := f.auth()
	require.NoError(t, err)
	assert.Nil(t, mechanism)
	assert.Nil(t, tlsConfig)
	assert.False(t, f.IsEnabled())
}

func TestFactory_AuthEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.SASLEnabled = true
	cfg.SASLMechanism = "PLAIN"
	cfg.SASLUsername = "user"
	cfg.SASLPassword = "pass"
	cfg.TLSEnabled = true
	cfg.TLSSkipVerify = true
	f := NewFactory(cfg)

	mechanism, tlsConfig, err := f.auth()
	require.NoError(t, err)
	assert.IsType(t, plain.Mechanism{}, mechanism)
	require.NotNil(t, tlsConfig)
	assert.True(t, tlsConfig.InsecureSkipVerify)
	assert.True(t, f.IsEnabled())
}

func TestFactory_BuildsClients(t *testing.T) {
	cfg := DefaultConfig()
	f := NewFactory(cfg)

	p, err := f.NewProducer()
	require.NoError(t, err)
	assert.Equal(t, cfg.FeedTopic, p.Topic())
	require.NoError(t, p.Close())

	c, err := f.NewConsumer()
	require.NoError(t, err)
	assert.Equal(t, cfg.IngestTopic, c.Topic())
	require.NoError(t, c.Close())
}
