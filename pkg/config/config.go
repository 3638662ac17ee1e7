package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Node     NodeConfig    `yaml:"node"`
	Fixtures FixtureConfig `yaml:"fixtures"`
	Coord    CoordConfig   `yaml:"coord"`
	Log      LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	TCPAddr  string `yaml:"tcp_addr"`  // Wire protocol listen address (e.g. :60020)
	HTTPAddr string `yaml:"http_addr"` // Fixture setup / status address, empty disables it
}

// NodeConfig is the identity the fake reports to the cluster.
type NodeConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StartCode int64  `yaml:"start_code"` // 0 means "use process start time"
}

type FixtureConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

type CoordConfig struct {
	Kind string `yaml:"kind"` // memory | sqlite
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			TCPAddr:  ":60020",
			HTTPAddr: ":60030",
		},
		Node: NodeConfig{
			Host: "localhost",
			Port: 60020,
		},
		Coord: CoordConfig{
			Kind: "memory",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		for _, p := range []string{"configs/fakenode.yaml", "fakenode.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, err
				}
				applyDefaults(cfg)
				return cfg, nil
			}
		}
		applyDefaults(cfg)
		return cfg, nil // no file found: use defaults
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.TCPAddr == "" {
		cfg.Server.TCPAddr = ":60020"
	}
	if cfg.Node.Host == "" {
		cfg.Node.Host = "localhost"
	}
	if cfg.Node.Port <= 0 {
		cfg.Node.Port = 60020
	}
	if cfg.Coord.Kind == "" {
		cfg.Coord.Kind = "memory"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}
