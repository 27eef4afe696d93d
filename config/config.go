package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/voxelsweep/items"
	"github.com/they4kman/voxelsweep/minesweeper"
	"github.com/they4kman/voxelsweep/sequence"
	"gopkg.in/yaml.v2"
)

type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Coordinator steps per second
	TickRate int `yaml:"tick_rate"`

	Database    Database    `yaml:"database"`
	Redis       Redis       `yaml:"redis"`
	Status      Status      `yaml:"status"`
	Minesweeper Minesweeper `yaml:"minesweeper"`
	Sequence    Sequence    `yaml:"sequence"`
}

type Database struct {
	// postgres, sqlite or memory
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Redis caches best records in front of the database. Leave Addr empty to
// disable it.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type Status struct {
	// Leave empty to disable the status server
	Addr string `yaml:"addr"`
}

type Preset struct {
	Size  int `yaml:"size"`
	Bombs int `yaml:"bombs"`
}

type Minesweeper struct {
	Classic Preset `yaml:"classic"`
	Cube20  Preset `yaml:"cube20"`
	Cube10  Preset `yaml:"cube10"`

	// Ticks without input before a board despawns; 0 never times out
	IdleTicks int `yaml:"idle_ticks"`

	// Finished boards are saved here when set
	SnapshotsDir string `yaml:"snapshots_dir"`
}

type Sequence struct {
	IdleTicks    int `yaml:"idle_ticks"`
	DisplayTicks int `yaml:"display_ticks"`
	InputTimeout int `yaml:"input_timeout"`
	MaxMisses    int `yaml:"max_misses"`
}

func Default() *Config {
	seq := sequence.DefaultConfig(0)

	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		TickRate:  20,
		Database: Database{
			Driver: "postgres",
			DSN:    "host=localhost user=postgres",
		},
		Redis: Redis{
			TTL: 5 * time.Minute,
		},
		Status: Status{
			Addr: ":8080",
		},
		Minesweeper: Minesweeper{
			Classic: Preset{Size: 20, Bombs: 40},
			Cube20:  Preset{Size: 20, Bombs: 1040},
			Cube10:  Preset{Size: 10, Bombs: 130},
		},
		Sequence: Sequence{
			IdleTicks:    seq.IdleTicks,
			DisplayTicks: seq.DisplayTicks,
			InputTimeout: seq.InputTimeout,
			MaxMisses:    seq.MaxMisses,
		},
	}
}

// Load reads the defaults, then the YAML file at path (if any), then the
// environment and a .env file in the working directory.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.UnmarshalStrict(data, config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	// A missing .env is fine
	_ = godotenv.Load()

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (config *Config) applyEnv() error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		config.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		config.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.Redis.Password = v
	}
	if v := os.Getenv("STATUS_ADDR"); v != "" {
		config.Status.Addr = v
	}
	if v := os.Getenv("TICK_RATE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TICK_RATE: %w", err)
		}
		config.TickRate = n
	}
	return nil
}

func (config *Config) Validate() error {
	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return err
	}
	switch config.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", config.LogFormat)
	}

	if config.TickRate < 1 {
		return fmt.Errorf("tick rate must be positive, got %d", config.TickRate)
	}

	switch config.Database.Driver {
	case "postgres", "sqlite":
		if config.Database.DSN == "" {
			return fmt.Errorf("database driver %s needs a dsn", config.Database.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database driver %q", config.Database.Driver)
	}

	if config.Minesweeper.IdleTicks < 0 {
		return fmt.Errorf("minesweeper idle ticks must not be negative")
	}

	presets := config.Presets()
	for name, preset := range map[string]minesweeper.Config{
		"classic": presets.Classic,
		"cube20":  presets.Cube20,
		"cube10":  presets.Cube10,
	} {
		if err := preset.Validate(); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
	}

	seq := presets.Sequence
	seq.Size = 5
	return seq.Validate()
}

// Presets turns the configured settings into the games behind each start
// item.
func (config *Config) Presets() items.Presets {
	ms := config.Minesweeper
	preset := func(p Preset, dims int) minesweeper.Config {
		return minesweeper.Config{
			Size:         p.Size,
			Dimensions:   dims,
			NumBombs:     p.Bombs,
			IdleTicks:    ms.IdleTicks,
			SnapshotsDir: ms.SnapshotsDir,
		}
	}

	return items.Presets{
		Classic: preset(ms.Classic, 2),
		Cube20:  preset(ms.Cube20, 3),
		Cube10:  preset(ms.Cube10, 3),
		Sequence: sequence.Config{
			IdleTicks:    config.Sequence.IdleTicks,
			DisplayTicks: config.Sequence.DisplayTicks,
			InputTimeout: config.Sequence.InputTimeout,
			MaxMisses:    config.Sequence.MaxMisses,
		},
	}
}
