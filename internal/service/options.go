package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Option func(*options)

// DemoAccount is a credential that signs its user up on the first login.
type DemoAccount struct {
	Name     string
	Email    string
	Password string
}

type options struct {
	now   func() time.Time
	cache SummaryCache
	demo  *DemoAccount
}

func newOptions(opts []Option) options {
	o := options{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithSummaryCache makes mutations drop the owner's cached dashboard summary
// and lets the dashboard read through it.
func WithSummaryCache(cache SummaryCache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

func WithDemoAccount(demo DemoAccount) Option {
	return func(o *options) {
		if demo.Email == "" || demo.Password == "" {
			return
		}
		if demo.Name == "" {
			demo.Name = "Demo User"
		}
		o.demo = &demo
	}
}

func (o *options) invalidateSummary(ctx context.Context, uid uuid.UUID) {
	if o.cache != nil {
		o.cache.Invalidate(ctx, uid)
	}
}
