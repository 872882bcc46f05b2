package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"activity-portal/backend/config"
)

// Client Redis 封装：Token 黑名单与接口限流
// 连接失败时 NewClient 返回错误，调用方以 nil 降级
type Client struct {
	rdb    *goredis.Client
	prefix string
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并 Ping
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr), zap.String("key_prefix", cfg.KeyPrefix))
	return &Client{rdb: rdb, prefix: cfg.KeyPrefix, logger: logger}, nil
}

func (c *Client) key(parts ...string) string {
	k := c.prefix
	for _, p := range parts {
		k += p
	}
	return k
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// ── Token 黑名单 ──

const blacklistKey = "token:blacklist:"

// BlacklistToken 注销 jti，TTL 取令牌剩余有效期；已过期的令牌不写入
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, c.key(blacklistKey, jti), 1, ttl).Err()
}

// IsBlacklisted 查询 jti 是否已注销
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.key(blacklistKey, jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 限流 ──

// CheckRateLimit 滑动窗口限流，窗口内请求数不超过 limit 返回 true
// ZSET 以纳秒时间戳为分值；成员附带随机后缀，同一纳秒内的请求不会合并
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now().UnixNano()
	k := c.key(key)

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(now-window.Nanoseconds(), 10))
	pipe.ZAdd(ctx, k, goredis.Z{Score: float64(now), Member: strconv.FormatInt(now, 10) + "-" + uuid.NewString()[:8]})
	count := pipe.ZCard(ctx, k)
	pipe.PExpire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("限流计数失败", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return count.Val() <= int64(limit), nil
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
