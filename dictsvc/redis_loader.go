package main

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"gendict/dict"
)

// RedisLoader stores every record as a hash <prefix>:<id>, ids come from
// the counter <prefix>:seq so repeated loads never overwrite each other.
type RedisLoader struct {
	Redisconfig *RedisConfig

	mu  sync.Mutex
	cli *redis.Client
}

func (p *RedisLoader) Name() string {
	return "redis"
}

func (p *RedisLoader) seqKey() string {
	return p.Redisconfig.KeyPrefix + ":seq"
}

func (p *RedisLoader) recordKey(id int64) string {
	return p.Redisconfig.KeyPrefix + ":" + strconv.FormatInt(id, 10)
}

func (p *RedisLoader) Load(ctx context.Context, records []dict.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	cli, err := p.openRedis(ctx)
	if err != nil {
		return 0, err
	}

	// reserve ids [last-n+1, last]
	last, err := cli.IncrBy(ctx, p.seqKey(), int64(len(records))).Result()
	if err != nil {
		log.Errorf("redis incr '%s' failed: %v", p.seqKey(), err)
		return 0, err
	}
	first := last - int64(len(records)) + 1

	pipe := cli.Pipeline()
	for i, r := range records {
		pipe.HSet(ctx, p.recordKey(first+int64(i)),
			"name", r.Name,
			"age", r.Age,
			"email", r.Email)
	}
	if _, err = pipe.Exec(ctx); err != nil {
		log.Errorf("redis pipeline hset failed: %v", err)
		return 0, err
	}

	log.Infof("redis loaded %d records as %s..%s",
		len(records), p.recordKey(first), p.recordKey(last))
	return len(records), nil
}

func (p *RedisLoader) openRedis(ctx context.Context) (*redis.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cli != nil {
		return p.cli, nil
	}

	timeout := time.Duration(p.Redisconfig.Timeout) * time.Second
	cli := redis.NewClient(&redis.Options{
		Addr:         p.Redisconfig.Addr,
		Password:     p.Redisconfig.Password,
		DB:           int(p.Redisconfig.Db),
		Protocol:     p.Redisconfig.Protocol, // 2 for RESP 2 or 3 for RESP 3
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pong, err := cli.Ping(ctx).Result()
	if err != nil {
		log.Errorf("connect redis '%s' failed: %v", p.Redisconfig.Addr, err)
		cli.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	log.Debugf("connect redis success: %s", pong)

	p.cli = cli
	return cli, nil
}

func (p *RedisLoader) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cli != nil {
		err := p.cli.Close()
		p.cli = nil
		return err
	}
	return nil
}
