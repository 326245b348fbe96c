package cache

import (
	"context"
	"time"
)

// Entry 固定 TTL 的 JSON 缓存项
type Entry[T any] struct {
	ttl time.Duration
}

// NewEntry 创建缓存项
func NewEntry[T any](ttl time.Duration) Entry[T] {
	return Entry[T]{ttl: ttl}
}

// Get 读取缓存，未启用或未命中时返回 (nil, false, nil)
func (e Entry[T]) Get(ctx context.Context, key string) (*T, bool, error) {
	var value T
	hit, err := GetJSON(ctx, key, &value)
	if err != nil || !hit {
		return nil, false, err
	}
	return &value, true, nil
}

// Set 写入缓存，nil 值忽略
func (e Entry[T]) Set(ctx context.Context, key string, value *T) error {
	if value == nil {
		return nil
	}
	return SetJSON(ctx, key, value, e.ttl)
}

// Del 删除缓存
func (e Entry[T]) Del(ctx context.Context, key string) error {
	return Del(ctx, key)
}
