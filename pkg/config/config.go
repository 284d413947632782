package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Scan struct {
		Schedule           string  `yaml:"schedule"` // daily wall-clock time, "15:04"
		Timezone           string  `yaml:"timezone"`
		RunOnStart         bool    `yaml:"run_on_start"`
		EquityWindow       int     `yaml:"equity_window"`
		DeliveryWindow     int     `yaml:"delivery_window"`
		LookbackDays       int     `yaml:"lookback_days"`
		TopN               int     `yaml:"top_n"`
		VolumeWindow       int     `yaml:"volume_window"`
		VolumeMinSamples   int     `yaml:"volume_min_samples"`
		DeliveryAvgWindow  int     `yaml:"delivery_avg_window"`
		DeliveryMinSamples int     `yaml:"delivery_min_samples"`
		BreakoutWindow     int     `yaml:"breakout_window"`
		BreakoutMinSamples int     `yaml:"breakout_min_samples"`
		BreakoutProximity  float64 `yaml:"breakout_proximity"`
		RSWindow           int     `yaml:"rs_window"`
		RSMinSamples       int     `yaml:"rs_min_samples"`
		PriceFloor         float64 `yaml:"price_floor"`
		LiquidityFloor     float64 `yaml:"liquidity_floor"`
		Weights            struct {
			VolSurge      float64 `yaml:"vol_surge"`
			DeliverySurge float64 `yaml:"delivery_surge"`
			LongBuildUp   float64 `yaml:"long_build_up"`
			Breakout      float64 `yaml:"breakout"`
			RS            float64 `yaml:"rs"`
			ClipHi        float64 `yaml:"clip_hi"`
		} `yaml:"weights"`
		Derivatives struct {
			ForwardBound  int     `yaml:"forward_bound"`
			BackwardBound int     `yaml:"backward_bound"`
			UniverseBound int     `yaml:"universe_bound"`
			OIChangeMin   float64 `yaml:"oi_change_min"`
			PxChangeMin   float64 `yaml:"px_change_min"`
		} `yaml:"derivatives"`
	} `yaml:"scan"`
	NSE struct {
		BaseURL   string        `yaml:"base_url"`
		UserAgent string        `yaml:"user_agent"`
		Referer   string        `yaml:"referer"`
		Timeout   time.Duration `yaml:"timeout"`
		MaxRPS    float64       `yaml:"max_rps"`
		Retry     struct {
			MaxAttempts int           `yaml:"max_attempts"`
			BackoffMin  time.Duration `yaml:"backoff_min"`
			BackoffMax  time.Duration `yaml:"backoff_max"`
		} `yaml:"retry"`
	} `yaml:"nse"`
	Telegram struct {
		Enabled   bool          `yaml:"enabled"`
		Token     string        `yaml:"token"`
		ChatID    string        `yaml:"chat_id"`
		APIBase   string        `yaml:"api_base"`
		MaxLength int           `yaml:"max_length"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"telegram"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled     bool          `yaml:"enabled"`
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port"`
		Database    string        `yaml:"database"`
		User        string        `yaml:"user"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
		ReadTimeout time.Duration `yaml:"read_timeout"`
	} `yaml:"clickhouse"`
	Cache struct {
		Backend string        `yaml:"backend"` // memory, redis, or none
		TTL     time.Duration `yaml:"ttl"`
		MissTTL time.Duration `yaml:"miss_ttl"`
		Memory  struct {
			MaxSize int `yaml:"max_size"`
		} `yaml:"memory"`
		Redis struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("NSE_BASE_URL"); v != "" {
		c.NSE.BaseURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}

	return c, nil
}

// applyDefaults fills unset policy values with the documented defaults.
func (c *Config) applyDefaults() {
	s := &c.Scan
	if s.Schedule == "" {
		s.Schedule = "19:30"
	}
	if s.Timezone == "" {
		s.Timezone = "Asia/Kolkata"
	}
	if s.EquityWindow == 0 {
		s.EquityWindow = 90
	}
	if s.DeliveryWindow == 0 {
		s.DeliveryWindow = 45
	}
	if s.LookbackDays == 0 {
		s.LookbackDays = 7
	}
	if s.TopN == 0 {
		s.TopN = 5
	}
	if s.VolumeWindow == 0 {
		s.VolumeWindow = 20
	}
	if s.VolumeMinSamples == 0 {
		s.VolumeMinSamples = 10
	}
	if s.DeliveryAvgWindow == 0 {
		s.DeliveryAvgWindow = 20
	}
	if s.DeliveryMinSamples == 0 {
		s.DeliveryMinSamples = 8
	}
	if s.BreakoutWindow == 0 {
		s.BreakoutWindow = 55
	}
	if s.BreakoutMinSamples == 0 {
		s.BreakoutMinSamples = 10
	}
	if s.BreakoutProximity == 0 {
		s.BreakoutProximity = 0.995
	}
	if s.RSWindow == 0 {
		s.RSWindow = 30
	}
	if s.RSMinSamples == 0 {
		s.RSMinSamples = 10
	}
	if s.PriceFloor == 0 {
		s.PriceFloor = 100
	}
	if s.LiquidityFloor == 0 {
		s.LiquidityFloor = 500_000_000
	}
	w := &s.Weights
	if w.VolSurge == 0 && w.DeliverySurge == 0 && w.LongBuildUp == 0 && w.Breakout == 0 && w.RS == 0 {
		w.VolSurge = 0.35
		w.DeliverySurge = 0.25
		w.LongBuildUp = 0.20
		w.Breakout = 0.15
		w.RS = 0.05
	}
	if w.ClipHi == 0 {
		w.ClipHi = 5
	}
	d := &s.Derivatives
	if d.ForwardBound == 0 {
		d.ForwardBound = 1
	}
	if d.BackwardBound == 0 {
		d.BackwardBound = 7
	}
	if d.UniverseBound == 0 {
		d.UniverseBound = 5
	}
	if d.OIChangeMin == 0 {
		d.OIChangeMin = 3.0
	}
	if d.PxChangeMin == 0 {
		d.PxChangeMin = -0.1
	}

	if c.NSE.BaseURL == "" {
		c.NSE.BaseURL = "https://archives.nseindia.com"
	}
	if c.NSE.UserAgent == "" {
		c.NSE.UserAgent = "Mozilla/5.0"
	}
	if c.NSE.Referer == "" {
		c.NSE.Referer = "https://www.nseindia.com"
	}
	if c.NSE.Timeout == 0 {
		c.NSE.Timeout = 30 * time.Second
	}
	if c.NSE.Retry.MaxAttempts == 0 {
		c.NSE.Retry.MaxAttempts = 3
	}
	if c.NSE.Retry.BackoffMin == 0 {
		c.NSE.Retry.BackoffMin = 500 * time.Millisecond
	}
	if c.NSE.Retry.BackoffMax == 0 {
		c.NSE.Retry.BackoffMax = 5 * time.Second
	}

	if c.Telegram.APIBase == "" {
		c.Telegram.APIBase = "https://api.telegram.org"
	}
	if c.Telegram.MaxLength == 0 {
		c.Telegram.MaxLength = 3900
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = 30 * time.Second
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 72 * time.Hour
	}
	if c.Cache.MissTTL == 0 {
		c.Cache.MissTTL = time.Hour
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if _, err := time.Parse("15:04", c.Scan.Schedule); err != nil {
		return fmt.Errorf("scan.schedule must be HH:MM, got '%s'", c.Scan.Schedule)
	}
	if c.Telegram.Enabled && (c.Telegram.Token == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.token and telegram.chat_id are required when telegram is enabled")
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("kafka.brokers and kafka.topic are required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	switch c.Cache.Backend {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'none', got '%s'", c.Cache.Backend)
	}
	return nil
}
