package app

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/skydecor/catalog/internal/datasheet"
	"github.com/skydecor/catalog/report"
)

// NewDatasheetCache assembles the PDF cache shared by the web process and the
// worker. Both lock through Redis so a product is rendered by one process at a
// time; a nil client limits locking to this process.
func NewDatasheetCache(cfg *Config, products datasheet.Products, redisClient *redis.Client, registerer prometheus.Registerer, logger *slog.Logger) (*datasheet.Cache, error) {
	store, err := datasheet.NewFileStore(cfg.PDFCacheDir)
	if err != nil {
		return nil, err
	}

	var renderer datasheet.Renderer
	switch cfg.PDFRenderer {
	case RendererMaroto:
		renderer = datasheet.NewMarotoRenderer()
	case RendererGotenberg, "":
		htmlRenderer, err := datasheet.NewHTMLRenderer(report.NewClient(cfg.GotenbergURL, cfg.RenderTimeout))
		if err != nil {
			return nil, fmt.Errorf("app: datasheet template: %w", err)
		}
		renderer = htmlRenderer
	default:
		return nil, fmt.Errorf("app: unknown pdf renderer %q", cfg.PDFRenderer)
	}

	locker := datasheet.ChainLocker{datasheet.NewLocalLocker()}
	if redisClient != nil {
		locker = append(locker, datasheet.NewRedisLocker(redisClient, cfg.PDFLockTTL))
	}

	return datasheet.NewCache(store, locker, renderer, products, datasheet.NewMetrics(registerer), logger, datasheet.Options{
		RenderTimeout:   cfg.RenderTimeout,
		BulkConcurrency: cfg.PDFBulkConcurrency,
	}), nil
}
