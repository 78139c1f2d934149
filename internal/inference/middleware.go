package inference

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// WithTimeout bounds every call to the wrapped oracle. A zero timeout
// returns next unchanged.
func WithTimeout(next Oracle, timeout time.Duration) Oracle {
	if timeout <= 0 {
		return next
	}
	return &timeoutOracle{next: next, timeout: timeout}
}

type timeoutOracle struct {
	next    Oracle
	timeout time.Duration
}

func (o *timeoutOracle) Name() string { return o.next.Name() }
func (o *timeoutOracle) Ready() error { return o.next.Ready() }

func (o *timeoutOracle) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.next.Generate(ctx, req)
}

// WithRateLimit spaces calls to at most perMinute per minute, allowing a
// small burst. A non-positive limit returns next unchanged.
func WithRateLimit(next Oracle, perMinute int) Oracle {
	if perMinute <= 0 {
		return next
	}
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &limitedOracle{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
	}
}

type limitedOracle struct {
	next    Oracle
	limiter *rate.Limiter
}

func (o *limitedOracle) Name() string { return o.next.Name() }
func (o *limitedOracle) Ready() error { return o.next.Ready() }

func (o *limitedOracle) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return o.next.Generate(ctx, req)
}

// WithCache remembers text responses for identical requests for ttl.
// Image requests always reach the backend. A zero ttl returns next unchanged.
func WithCache(next Oracle, ttl time.Duration) Oracle {
	if ttl <= 0 {
		return next
	}
	return &cachedOracle{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

type cachedOracle struct {
	next  Oracle
	cache *gocache.Cache
}

func (o *cachedOracle) Name() string { return o.next.Name() }
func (o *cachedOracle) Ready() error { return o.next.Ready() }

func (o *cachedOracle) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Image != nil {
		return o.next.Generate(ctx, req)
	}

	key := cacheKey(req)
	if cached, found := o.cache.Get(key); found {
		return cached.(*Response), nil
	}

	resp, err := o.next.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	o.cache.SetDefault(key, resp)
	return resp, nil
}

func cacheKey(req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%t\x00%t\x00%s", req.Model, req.Grounded, req.JSON, req.Prompt)
	return hex.EncodeToString(h.Sum(nil))
}
