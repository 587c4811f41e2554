package infra

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"qa-service/middleware/domain"

	"github.com/redis/go-redis/v9"
)

var (
	_ domain.StatsStore  = (*RedisStatsStore)(nil)
	_ domain.StatsReader = (*RedisStatsStore)(nil)
)

// RedisStatsStore grava os contadores em hashes do Redis.
//
// Layout (prefixo padrão "qa:stats"):
//
//	<prefix>:total              hash classe -> n
//	<prefix>:minute:<yyyymmddhhmm> hash classe -> n (expira com ttl)
//	<prefix>:route              hash "<rota>:<classe>" -> n
//	<prefix>:client:<cliente>   hash classe -> n (expira com ttl)
//	<prefix>:clients            set de clientes vistos
type RedisStatsStore struct {
	rdb redis.UniversalClient

	prefix string
	// ttl aplica apenas em chaves de série temporal / por cliente.
	// total e route são cumulativos e não expiram.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func NewRedisStatsStore(rdb redis.UniversalClient, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "qa:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.RequestEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	class := ev.StatusClass()

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", class, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, class, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if route := strings.TrimSpace(ev.Route); route != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", route+":"+class, 1)
	}

	if client := strings.TrimSpace(ev.Client); client != "" {
		clientKey := s.prefix + ":client:" + client
		pipe.HIncrBy(ctx, clientKey, class, 1)
		pipe.SAdd(ctx, s.prefix+":clients", client)
		if s.ttl > 0 {
			pipe.Expire(ctx, clientKey, s.ttl)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStatsStore) Snapshot(ctx context.Context) (domain.StatsSnapshot, error) {
	out := domain.StatsSnapshot{Total: domain.Counters{}, ByRoute: map[string]domain.Counters{}}

	pipe := s.rdb.Pipeline()
	totalCmd := pipe.HGetAll(ctx, s.prefix+":total")
	routeCmd := pipe.HGetAll(ctx, s.prefix+":route")
	clientsCmd := pipe.SMembers(ctx, s.prefix+":clients")
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return domain.StatsSnapshot{}, fmt.Errorf("read stats: %w", err)
	}

	total, err := parseCounters(totalCmd.Val())
	if err != nil {
		return domain.StatsSnapshot{}, err
	}
	out.Total = total

	for field, raw := range routeCmd.Val() {
		i := strings.LastIndex(field, ":")
		if i <= 0 {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.StatsSnapshot{}, fmt.Errorf("parse route counter %q: %w", field, err)
		}
		route, class := field[:i], field[i+1:]
		c, ok := out.ByRoute[route]
		if !ok {
			c = domain.Counters{}
			out.ByRoute[route] = c
		}
		c[class] = n
	}

	clients := clientsCmd.Val()
	if len(clients) == 0 {
		return out, nil
	}

	pipe = s.rdb.Pipeline()
	cmds := make(map[string]*redis.MapStringStringCmd, len(clients))
	for _, c := range clients {
		cmds[c] = pipe.HGetAll(ctx, s.prefix+":client:"+c)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return domain.StatsSnapshot{}, fmt.Errorf("read client stats: %w", err)
	}

	out.ByClient = make(map[string]domain.Counters, len(clients))
	for c, cmd := range cmds {
		// hash expirado: o cliente continua no set mas não tem mais contadores.
		if len(cmd.Val()) == 0 {
			continue
		}
		counters, err := parseCounters(cmd.Val())
		if err != nil {
			return domain.StatsSnapshot{}, err
		}
		out.ByClient[c] = counters
	}
	return out, nil
}

func parseCounters(raw map[string]string) (domain.Counters, error) {
	out := make(domain.Counters, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse counter %q: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}
