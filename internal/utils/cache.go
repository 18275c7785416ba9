package utils

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// LoginThrottle 登录失败计数器（按 key，通常是客户端 IP）
// 计数在 window 内有效，窗口从第一次失败开始计算
type LoginThrottle struct {
	store  *cache.Cache
	limit  int
	window time.Duration
}

// NewLoginThrottle 创建登录限流器，limit 为窗口内允许的最大失败次数
func NewLoginThrottle(limit int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		store:  cache.New(window, 2*window),
		limit:  limit,
		window: window,
	}
}

// Allowed 是否还允许尝试
func (t *LoginThrottle) Allowed(key string) bool {
	v, found := t.store.Get(key)
	if !found {
		return true
	}
	return v.(int) < t.limit
}

// Fail 记录一次失败
func (t *LoginThrottle) Fail(key string) {
	if err := t.store.Add(key, 1, t.window); err == nil {
		return
	}
	// 已存在则自增，过期时间不变
	if _, err := t.store.IncrementInt(key, 1); err != nil {
		t.store.Set(key, 1, t.window)
	}
}

// Reset 登录成功后清零
func (t *LoginThrottle) Reset(key string) {
	t.store.Delete(key)
}
