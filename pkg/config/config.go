package config

import (
	"os"
	"time"

	"lintang/tspanneal/pkg/engine/heuristics"
	"lintang/tspanneal/pkg/server"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML file read by the CLI. Flags given explicitly on
// the command line win over the file.
type Config struct {
	LogLevel  string                     `yaml:"log_level"`
	Annealing heuristics.AnnealingConfig `yaml:"annealing"`
	Run       RunConfig                  `yaml:"run"`
	Server    ServerConfig               `yaml:"server"`
}

type RunConfig struct {
	Tests          int           `yaml:"tests"`
	Workers        int           `yaml:"workers"`
	Seed           uint64        `yaml:"seed"`
	Budget         time.Duration `yaml:"budget"`
	SampleInterval time.Duration `yaml:"sample_interval"`
	StoreDir       string        `yaml:"store_dir"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	// MaxVertices bounds graphs accepted over HTTP.
	MaxVertices int `yaml:"max_vertices"`
}

func Default() Config {
	return Config{
		LogLevel:  "info",
		Annealing: heuristics.DefaultAnnealingConfig(),
		Run: RunConfig{
			Tests:          10,
			Workers:        1,
			Budget:         1800 * time.Second,
			SampleInterval: 100 * time.Millisecond,
		},
		Server: ServerConfig{
			ListenAddr:  ":5000",
			MaxVertices: 2000,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, server.WrapErrorf(err, server.ErrIO, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, server.WrapErrorf(err, server.ErrParse, "parse config %s", path)
	}
	if err := cfg.Annealing.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
