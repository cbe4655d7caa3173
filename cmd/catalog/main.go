package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/skydecor/catalog/cmd/catalog/cli"
	"github.com/skydecor/catalog/internal/app"
	"github.com/skydecor/catalog/internal/catalog"
	"github.com/skydecor/catalog/internal/content/blogs"
	"github.com/skydecor/catalog/internal/content/careers"
	"github.com/skydecor/catalog/internal/content/events"
	"github.com/skydecor/catalog/internal/content/pages"
	"github.com/skydecor/catalog/internal/content/showrooms"
	"github.com/skydecor/catalog/internal/content/testimonials"
	"github.com/skydecor/catalog/internal/datasheet"
	"github.com/skydecor/catalog/internal/enquiries"
	"github.com/skydecor/catalog/internal/observability"
	"github.com/skydecor/catalog/internal/platform/cache"
	"github.com/skydecor/catalog/internal/platform/db"
	"github.com/skydecor/catalog/internal/shared"
	"github.com/skydecor/catalog/internal/site"
	"github.com/skydecor/catalog/internal/view"
	"github.com/skydecor/catalog/jobs"
	"github.com/skydecor/catalog/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg, "skydecor-catalog")

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		os.Exit(runJobs(ctx, cfg, os.Args[2:]))
	}

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{ApplicationName: "skydecor-catalog"})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, ClientName: "skydecor-catalog"})
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "skydecor_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	renderer := view.NewRenderer(templates, csrfManager, logger)
	metrics := observability.NewMetrics()

	catalogService := catalog.NewService(catalog.NewRepository(dbpool), cfg.StoreTimeout)
	pageService := pages.NewService(pages.NewRepository(dbpool))
	blogService := blogs.NewService(blogs.NewRepository(dbpool), cfg.StoreTimeout)
	eventService := events.NewService(events.NewRepository(dbpool), cfg.StoreTimeout)
	showroomService := showrooms.NewService(showrooms.NewRepository(dbpool), cfg.StoreTimeout)
	careerService := careers.NewService(careers.NewRepository(dbpool), cfg.StoreTimeout)
	enquiryService := enquiries.NewService(enquiries.NewRepository(dbpool), cfg.StoreTimeout)
	testimonialRepo := testimonials.NewRepository(dbpool)

	datasheetCache, err := app.NewDatasheetCache(cfg, catalogService, redisClient, metrics.Registerer(), logger)
	if err != nil {
		logger.Error("init datasheet cache", slog.Any("error", err))
		os.Exit(1)
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	var reportHandler *report.Handler
	if cfg.PDFRenderer == app.RendererGotenberg {
		reportHandler = report.NewHandler(report.NewClient(cfg.GotenbergURL, cfg.RenderTimeout), logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Renderer:         renderer,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		Metrics:          metrics,
		SiteHandler:      site.NewHandler(logger, renderer, catalogService, blogService, testimonialRepo),
		CatalogHandler:   catalog.NewHandler(logger, catalogService, pageService, renderer),
		DatasheetHandler: datasheet.NewHandler(logger, datasheetCache, jobClient),
		PagesHandler:     pages.NewHandler(logger, pageService),
		BlogsHandler:     blogs.NewHandler(logger, blogService, renderer),
		EventsHandler:    events.NewHandler(logger, eventService, renderer),
		ShowroomsHandler: showrooms.NewHandler(logger, showroomService, renderer),
		CareersHandler:   careers.NewHandler(logger, careerService, renderer),
		EnquiryHandler:   enquiries.NewHandler(logger, enquiryService),
		JobHandler:       jobs.NewHandler(inspector, logger),
		ReportHandler:    reportHandler,
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func runJobs(ctx context.Context, cfg *app.Config, args []string) int {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	jsonOutput := fs.Bool("json", false, "print JSON output")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	jobsCLI := cli.NewJobsCLI(cfg.RedisAddr)
	defer func() { _ = jobsCLI.Close() }()
	return jobsCLI.Command(ctx, cli.JobsOptions{Args: fs.Args(), JSONOutput: *jsonOutput})
}
