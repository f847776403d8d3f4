package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/limbo/goaltrackr/pkg/entity"
	"github.com/limbo/goaltrackr/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix        = "goaltrackr:summary:"
	generationPrefix = "goaltrackr:summary:gen:"
	defaultTTL       = 5 * time.Minute

	// reported by Get when redis could not be read, Set ignores it
	noGeneration int64 = -1
)

// storeIfCurrent writes the summary only while the owner's generation still
// equals the one observed before the summary was built.
var storeIfCurrent = redis.NewScript(`
if (redis.call("GET", KEYS[1]) or "0") ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

type RedisCfg struct {
	Address  string
	Password string
	DB       int
}

// Connect opens a redis client and checks it answers. The caller owns the
// client and must Close it on shutdown.
func Connect(ctx context.Context, cfg RedisCfg) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// SummaryCache keeps dashboard summaries in redis. Redis failures are logged
// and treated as misses, the dashboard then falls back to the database.
//
// Every owner has a generation counter that Invalidate increments. A summary
// built from reads that raced a mutation carries the old generation and is
// dropped by Set instead of overwriting the invalidation.
type SummaryCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewSummaryCache(client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *SummaryCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryCache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "summary_cache")),
	}
}

// Get returns the cached summary, or on a miss the generation a rebuilt
// summary has to be stored under.
func (c *SummaryCache) Get(ctx context.Context, uid uuid.UUID) (*entity.Summary, int64, bool) {
	var generationCmd, summaryCmd *redis.StringCmd
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		generationCmd = pipe.Get(ctx, generationKey(uid))
		summaryCmd = pipe.Get(ctx, key(uid))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		c.readFailed(uid, "reading cached summary", err)
		return nil, noGeneration, false
	}
	generation, err := generationCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.readFailed(uid, "reading summary generation", err)
		return nil, noGeneration, false
	}
	data, err := summaryCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordSummaryCache(metrics.CacheMiss)
			return nil, generation, false
		}
		c.readFailed(uid, "reading cached summary", err)
		return nil, noGeneration, false
	}
	var summary entity.Summary
	if err = sonic.Unmarshal(data, &summary); err != nil {
		c.readFailed(uid, "decoding cached summary", err)
		return nil, generation, false
	}
	metrics.RecordSummaryCache(metrics.CacheHit)
	return &summary, generation, true
}

// Set stores summary unless the owner was invalidated after generation was
// read.
func (c *SummaryCache) Set(ctx context.Context, uid uuid.UUID, generation int64, summary *entity.Summary) {
	if generation < 0 {
		return
	}
	data, err := sonic.Marshal(summary)
	if err != nil {
		c.logger.Warn("encoding summary", slog.String("uid", uid.String()), slog.String("error", err.Error()))
		return
	}
	stored, err := storeIfCurrent.Run(ctx, c.client,
		[]string{generationKey(uid), key(uid)}, generation, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.logger.Warn("caching summary", slog.String("uid", uid.String()), slog.String("error", err.Error()))
		return
	}
	if stored == 0 {
		c.logger.Debug("summary outdated before caching", slog.String("uid", uid.String()))
	}
}

func (c *SummaryCache) Invalidate(ctx context.Context, uid uuid.UUID) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(uid))
		pipe.Del(ctx, key(uid))
		return nil
	})
	if err != nil {
		c.logger.Warn("dropping cached summary", slog.String("uid", uid.String()), slog.String("error", err.Error()))
	}
}

func (c *SummaryCache) readFailed(uid uuid.UUID, msg string, err error) {
	metrics.RecordSummaryCache(metrics.CacheError)
	c.logger.Warn(msg, slog.String("uid", uid.String()), slog.String("error", err.Error()))
}

func key(uid uuid.UUID) string {
	return keyPrefix + uid.String()
}

func generationKey(uid uuid.UUID) string {
	return generationPrefix + uid.String()
}
