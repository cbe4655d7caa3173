package datasheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/skydecor/catalog/internal/catalog"
	"github.com/skydecor/catalog/internal/shared"
)

var (
	// ErrNoProducts is returned by GenerateAll when the catalog is empty.
	ErrNoProducts = shared.NewNotFound("No products found")
	// ErrRenderFailed wraps non-timeout render and storage failures.
	ErrRenderFailed = fmt.Errorf("datasheet: %w", shared.ErrUpstream)
)

// Products is the catalog view the cache needs.
type Products interface {
	Get(ctx context.Context, code string) (catalog.Product, error)
	ListActive(ctx context.Context) ([]catalog.Product, error)
}

// BulkResult summarises a GenerateAll run.
type BulkResult struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Options tune a Cache.
type Options struct {
	RenderTimeout   time.Duration
	LockTimeout     time.Duration
	BulkConcurrency int
}

// Cache serves datasheets, rendering each product at most once.
type Cache struct {
	store    *FileStore
	locker   Locker
	renderer Renderer
	products Products
	metrics  *Metrics
	logger   *slog.Logger
	opts     Options
	group    singleflight.Group
}

// NewCache wires a Cache.
func NewCache(store *FileStore, locker Locker, renderer Renderer, products Products, metrics *Metrics, logger *slog.Logger, opts Options) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = shared.DefaultCallTimeout
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 3 * opts.RenderTimeout
	}
	if opts.BulkConcurrency <= 0 {
		opts.BulkConcurrency = 2
	}
	return &Cache{store: store, locker: locker, renderer: renderer, products: products, metrics: metrics, logger: logger, opts: opts}
}

// Get returns the datasheet for rawCode, rendering and persisting it on a miss.
// A stored artifact is returned as is.
func (c *Cache) Get(ctx context.Context, rawCode string) ([]byte, error) {
	code, err := catalog.NormalizeCode(rawCode)
	if err != nil {
		return nil, err
	}
	if data, ok, err := c.store.Read(code); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	} else if ok {
		c.metrics.hits.Inc()
		return data, nil
	}
	c.metrics.misses.Inc()

	// Callers share one render, bounded by the lock and render timeouts.
	v, err, _ := c.group.Do(code, func() (any, error) {
		return c.fill(context.WithoutCancel(ctx), code, false)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Regenerate renders code again and replaces its artifact.
func (c *Cache) Regenerate(ctx context.Context, rawCode string) error {
	code, err := catalog.NormalizeCode(rawCode)
	if err != nil {
		return err
	}
	_, err = c.fill(ctx, code, true)
	return err
}

// fill renders code under its lock. Unless force is set, an artifact written
// by another holder while we waited wins.
func (c *Cache) fill(ctx context.Context, code string, force bool) ([]byte, error) {
	lockCtx, cancel := context.WithTimeout(ctx, c.opts.LockTimeout)
	unlock, err := c.locker.Lock(lockCtx, shared.DatasheetLockKey(code))
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%s: %w: %w", code, shared.ErrTimeout, ErrLockTimeout)
		}
		return nil, err
	}
	defer unlock()

	if !force {
		if data, ok, err := c.store.Read(code); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
		} else if ok {
			return data, nil
		}
	}

	product, err := c.products.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	var data []byte
	start := time.Now()
	err = shared.WithCallTimeout(ctx, c.opts.RenderTimeout, "datasheet: render "+code, func(ctx context.Context) error {
		var err error
		data, err = c.renderer.Render(ctx, product)
		return err
	})
	c.metrics.renderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.renderFailures.Inc()
		if errors.Is(err, shared.ErrTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if err := c.store.Write(code, data); err != nil {
		c.metrics.renderFailures.Inc()
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	c.metrics.renders.Inc()
	return data, nil
}

// GenerateAll regenerates the datasheet of every active product with bounded
// concurrency. Individual failures are logged and counted.
func (c *Cache) GenerateAll(ctx context.Context) (BulkResult, error) {
	products, err := c.products.ListActive(ctx)
	if err != nil {
		return BulkResult{}, err
	}
	if len(products) == 0 {
		return BulkResult{}, ErrNoProducts
	}

	var completed, failed atomic.Int64
	total := len(products)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.BulkConcurrency)
	for _, p := range products {
		g.Go(func() error {
			if err := c.Regenerate(gctx, p.Code); err != nil {
				n := failed.Add(1)
				c.logger.Error("datasheet generation failed",
					slog.String("product_code", p.Code),
					slog.Int64("failed", n),
					slog.Int("total", total),
					slog.Any("error", err))
				return nil
			}
			n := completed.Add(1)
			c.logger.Debug("datasheet generated",
				slog.String("product_code", p.Code),
				slog.Int64("completed", n),
				slog.Int("total", total))
			return nil
		})
	}
	_ = g.Wait()
	return BulkResult{Total: total, Completed: int(completed.Load()), Failed: int(failed.Load())}, ctx.Err()
}
