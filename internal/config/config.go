package config

import "time"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Chain     ChainConfig     `yaml:"chain"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

type RedisConfig struct {
	Addresses []string `yaml:"addresses"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	PoolSize  int      `yaml:"pool_size"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsPort int    `yaml:"metrics_port"`
}

type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int64         `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type CORSConfig struct {
	// AllowedOriginPatterns are regular expressions matched against the
	// Origin header. Requests with no Origin header always pass.
	AllowedOriginPatterns []string `yaml:"allowed_origin_patterns"`
}

// ChainConfig controls the provider fallback chain.
type ChainConfig struct {
	// Order is the fixed fallback order. The last entry is terminal:
	// its error is what the client sees when every provider fails.
	Order []string `yaml:"order"`
	// ProviderTimeout applies uniformly to every provider call,
	// the terminal one included.
	ProviderTimeout time.Duration `yaml:"provider_timeout"`
	// RequireComplete treats a parsed response that is missing a requested
	// module as a provider failure, advancing the chain. Off by default:
	// a response that parses as JSON counts as success.
	RequireComplete bool `yaml:"require_complete"`
	// AutoRefine retries a provider once with a refine prompt when the
	// quality check flags its output.
	AutoRefine bool `yaml:"auto_refine"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
		},
		Redis: RedisConfig{
			Addresses: []string{"localhost:6379"},
			DB:        0,
			PoolSize:  50,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPort: 9090,
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 100,
			Window:   15 * time.Minute,
		},
		CORS: CORSConfig{
			AllowedOriginPatterns: []string{
				`\.vercel\.app$`,
				`\.onrender\.com$`,
				`^https?://localhost:5173$`,
			},
		},
		Chain: ChainConfig{
			Order:           []string{"qwen", "minimax", "moonshot", "deepseek"},
			ProviderTimeout: 60 * time.Second,
			RequireComplete: false,
			AutoRefine:      false,
		},
	}
}
