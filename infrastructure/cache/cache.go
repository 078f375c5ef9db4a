// Package cache guarda relatórios já calculados no Redis, com invalidação global por versão.
package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/vfg2006/venue-analytics-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	versionKey = "reports:version"
	keyPrefix  = "reports"
	dateLayout = "2006-01-02"
)

// ReportCache é seguro para uso com receptor nulo: sem cliente, o loader é sempre executado
type ReportCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewReportCache(client redis.UniversalClient, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// NewClient cria o cliente Redis a partir de uma URL redis://
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}

	return client, nil
}

func (c *ReportCache) enabled() bool {
	return c != nil && c.client != nil
}

// Version retorna a versão atual, inicializando em 1 quando ausente
func (c *ReportCache) Version(ctx context.Context) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}

	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) || (err == nil && ver <= 0) {
		if err := c.client.Set(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, errors.Wrap(err, "init cache version")
		}
		return 1, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "read cache version")
	}

	return ver, nil
}

// Key monta reports:<kind>:<owner>:<args>:<yyyy-mm-dd>:<versão>
func (c *ReportCache) Key(ctx context.Context, kind, ownerID, args string, asOf time.Time) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}

	if args == "" {
		args = "-"
	}

	return strings.Join([]string{
		keyPrefix, kind, ownerID, args, asOf.Format(dateLayout), strconv.FormatInt(ver, 10),
	}, ":"), nil
}

// FetchJSON lê o valor em cache ou o calcula com loader e grava com o TTL configurado
func (c *ReportCache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}

	// Falhas do Redis degradam para o cálculo direto, nunca para erro do relatório
	useCache := c.enabled()
	if useCache {
		payload, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			return json.Unmarshal(payload, dest)
		case !errors.Is(err, redis.Nil):
			log.ForContext(ctx).WithFields(log.Fields{"cache_key": key, "error": err.Error()}).Warn("cache: leitura falhou")
			useCache = false
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "encode cache value")
	}

	if useCache {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			log.ForContext(ctx).WithFields(log.Fields{"cache_key": key, "error": err.Error()}).Warn("cache: escrita falhou")
		}
	}

	return json.Unmarshal(raw, dest)
}

// Bump invalida todos os relatórios incrementando a versão global
func (c *ReportCache) Bump(ctx context.Context) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}

	ver, err := c.client.Incr(ctx, versionKey).Result()
	if err != nil {
		return 0, errors.Wrap(err, "bump cache version")
	}

	return ver, nil
}
