package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"techcatalog/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	listTTL     = 10 * time.Minute
	lockTTL     = 5 * time.Second
	versionKey  = "techs:list:ver"
	lockKeyPref = "idlock:"
)

var ErrLockHeld = errors.New("create lock held")

// TechCache кеширует результаты выборок каталога. Ключ включает номер
// версии: инвалидация — это инкремент версии, старые ключи доживают TTL.
type TechCache struct {
	client *redis.Client
}

func NewTechCache(client *redis.Client) *TechCache {
	return &TechCache{client: client}
}

func (c *TechCache) listKey(ctx context.Context, spec domain.QuerySpec) string {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil {
		ver = 0
	}
	return fmt.Sprintf("techs:list:%d:%s:%s:%s:%s",
		ver, spec.Search, spec.Difficulty, strings.Join(spec.Tags, ","), spec.Sort)
}

func (c *TechCache) GetList(ctx context.Context, spec domain.QuerySpec) ([]domain.Tech, bool) {
	val, err := c.client.Get(ctx, c.listKey(ctx, spec)).Result()
	if err != nil {
		return nil, false
	}
	var techs []domain.Tech
	if json.Unmarshal([]byte(val), &techs) != nil {
		return nil, false
	}
	return techs, true
}

func (c *TechCache) SetList(ctx context.Context, spec domain.QuerySpec, techs []domain.Tech) {
	data, err := json.Marshal(techs)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.listKey(ctx, spec), data, listTTL)
}

// Invalidate сбрасывает все закешированные списки после мутации каталога.
func (c *TechCache) Invalidate(ctx context.Context) {
	c.client.Incr(ctx, versionKey)
}

// CreateLock сериализует создание техов с одинаковым базовым id,
// закрывая гонку check-then-write в подборе суффикса.
type CreateLock struct {
	client *redis.Client
}

func NewCreateLock(client *redis.Client) *CreateLock {
	return &CreateLock{client: client}
}

func (l *CreateLock) Acquire(ctx context.Context, baseID string) (func(), error) {
	key := lockKeyPref + baseID
	ok, err := l.client.SetNX(ctx, key, "1", lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: acquire %s: %v", domain.ErrStoreUnavailable, key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}
	release := func() {
		l.client.Del(context.Background(), key)
	}
	return release, nil
}
