package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	ServerName  string
	Environment string
	Port        int

	Postgres  PostgresConfig
	Redis     RedisConfig
	Consul    ConsulConfig
	Auth      AuthConfig
	Gemini    GeminiConfig
	Extractor ExtractorConfig
}

type PostgresConfig struct {
	Address  string
	Port     int
	User     string
	Password string
	DBName   string
	MaxIdle  int
	MaxOpen  int
	MaxLife  time.Duration
}

type RedisConfig struct {
	Address      string
	Port         int
	Password     string
	Database     int
	RateLimitQPS int
}

type ConsulConfig struct {
	Enabled    bool
	Address    string
	Scheme     string
	Datacenter string
}

// AuthConfig 本服务只校验令牌，签发在独立的auth服务
type AuthConfig struct {
	JwtSecret string
}

type GeminiConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

type ExtractorConfig struct {
	Marker    string
	Workers   int
	QueueSize int
}

// LoadConfig 使用viper读取环境变量，带默认值
func LoadConfig(serviceName string) *AppConfig {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)

	v.SetDefault("pg.addr", "localhost")
	v.SetDefault("pg.port", 5432)
	v.SetDefault("pg.user", "todo-talk")
	v.SetDefault("pg.passwd", "todo-talk-passwd")
	v.SetDefault("pg.dbname", "todo-talk")
	v.SetDefault("pg.max_idle", 10)
	v.SetDefault("pg.max_open", 100)
	v.SetDefault("pg.max_life", 3600)

	v.SetDefault("redis.addr", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("rate.limit.qps", 10)

	v.SetDefault("consul.enabled", false)
	v.SetDefault("consul.address", "localhost:8500")
	v.SetDefault("consul.scheme", "http")
	v.SetDefault("consul.datacenter", "dc1")

	v.SetDefault("jwt.secret", "todo_talk_secret")

	v.SetDefault("gemini.api.key", "")
	v.SetDefault("gemini.api.endpoint", "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent")
	v.SetDefault("gemini.timeout", 15)

	v.SetDefault("todo.marker", "@Todo")
	v.SetDefault("todo.workers", 4)
	v.SetDefault("todo.queue_size", 256)

	return &AppConfig{
		ServerName:  serviceName,
		Environment: v.GetString("app.env"),
		Port:        v.GetInt("app.port"),

		Postgres: PostgresConfig{
			Address:  v.GetString("pg.addr"),
			Port:     v.GetInt("pg.port"),
			User:     v.GetString("pg.user"),
			Password: v.GetString("pg.passwd"),
			DBName:   v.GetString("pg.dbname"),
			MaxIdle:  v.GetInt("pg.max_idle"),
			MaxOpen:  v.GetInt("pg.max_open"),
			MaxLife:  time.Duration(v.GetInt("pg.max_life")) * time.Second,
		},

		Redis: RedisConfig{
			Address:      v.GetString("redis.addr"),
			Port:         v.GetInt("redis.port"),
			Password:     v.GetString("redis.password"),
			Database:     v.GetInt("redis.database"),
			RateLimitQPS: v.GetInt("rate.limit.qps"),
		},

		Consul: ConsulConfig{
			Enabled:    v.GetBool("consul.enabled"),
			Address:    v.GetString("consul.address"),
			Scheme:     v.GetString("consul.scheme"),
			Datacenter: v.GetString("consul.datacenter"),
		},

		Auth: AuthConfig{
			JwtSecret: v.GetString("jwt.secret"),
		},

		Gemini: GeminiConfig{
			APIKey:   v.GetString("gemini.api.key"),
			Endpoint: v.GetString("gemini.api.endpoint"),
			Timeout:  time.Duration(v.GetInt("gemini.timeout")) * time.Second,
		},

		Extractor: ExtractorConfig{
			Marker:    v.GetString("todo.marker"),
			Workers:   v.GetInt("todo.workers"),
			QueueSize: v.GetInt("todo.queue_size"),
		},
	}
}

func (c *PostgresConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}
