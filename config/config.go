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

package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cardinalhq/claimrunner/internal/broker"
	"github.com/cardinalhq/claimrunner/internal/constants"
)

// Source kinds selecting which fetcher feeds the pipeline.
const (
	SourceLocalFS = "localfs"
	SourceInbox   = "inbox"
	SourceRemote  = "remote"
)

// Config aggregates configuration for the claimrunner service.
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	LocalFS LocalFSConfig `mapstructure:"localfs"`
	Inbox   InboxConfig   `mapstructure:"inbox"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Ingress IngressConfig `mapstructure:"ingress"`
	Broker  broker.Config `mapstructure:"broker"`
	Health  HealthConfig  `mapstructure:"health"`
}

// SourceConfig selects which fetcher runs. Exactly one is active per
// process.
type SourceConfig struct {
	Kind string `mapstructure:"kind"`
}

type LocalFSConfig struct {
	Dir          string        `mapstructure:"dir"`
	Suffix       string        `mapstructure:"suffix"`
	ScanInterval time.Duration `mapstructure:"scan_interval"`
}

type InboxConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type RemoteConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type FeedConfig struct {
	QueueCapacity int           `mapstructure:"queue_capacity"`
	Workers       int           `mapstructure:"workers"`
	DrainInterval time.Duration `mapstructure:"drain_interval"`
	StatsInterval time.Duration `mapstructure:"stats_interval"`
}

type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	OKDir   string `mapstructure:"ok_dir"`
	FailDir string `mapstructure:"fail_dir"`
}

type IngressConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Source: SourceConfig{Kind: SourceLocalFS},
		LocalFS: LocalFSConfig{
			Dir:          "./data/ready",
			Suffix:       constants.DefaultClaimFileSuffix,
			ScanInterval: 5 * time.Second,
		},
		Inbox: InboxConfig{Capacity: 1024},
		Feed: FeedConfig{
			QueueCapacity: 256,
			Workers:       8,
			DrainInterval: 2 * time.Second,
			StatsInterval: 10 * time.Minute,
		},
		Archive: ArchiveConfig{
			Enabled: false,
			OKDir:   "./data/archive/ok",
			FailDir: "./data/archive/fail",
		},
		Ingress: IngressConfig{
			Enabled: false,
			Addr:    ":8080",
		},
		Broker: broker.DefaultConfig(),
		Health: HealthConfig{Port: 8090},
	}
}

// Load reads configuration from files and environment variables.
// Environment variables use the prefix "CLAIMRUNNER" and the dot character
// in keys is replaced by an underscore. For example, "localfs.scan_interval"
// becomes "CLAIMRUNNER_LOCALFS_SCAN_INTERVAL".
func Load() (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("CLAIMRUNNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if b := v.GetString("broker.brokers"); b != "" {
		cfg.Broker.Brokers = strings.Split(b, ",")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceLocalFS, SourceInbox, SourceRemote:
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if c.Source.Kind == SourceInbox && !c.Ingress.Enabled && !c.Broker.Enabled {
		return fmt.Errorf("source kind %q needs the HTTP ingress or the broker bridge enabled", c.Source.Kind)
	}
	if c.Archive.Enabled && (c.Archive.OKDir == "" || c.Archive.FailDir == "") {
		return fmt.Errorf("archive enabled but ok_dir or fail_dir is empty")
	}
	return nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
