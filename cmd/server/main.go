package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"homenet/internal/crm"
	"homenet/internal/eissd"
	"homenet/internal/events"
	"homenet/internal/feasibility"
	"homenet/internal/geocoder"
	"homenet/internal/gis"
	"homenet/internal/platform/config"
	"homenet/internal/platform/httpserver"
	"homenet/internal/platform/logger"
	"homenet/internal/platform/metrics"
	"homenet/internal/platform/postgres"
	platformredis "homenet/internal/platform/redis"
	"homenet/internal/provisioning"
	"homenet/internal/reconcile"
	"homenet/internal/tariff"
	httptransport "homenet/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and runs the
// reconciliation sweeps. Business logic lives in internal services packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	primaryPool, err := postgres.New(ctx, cfg.Postgres.URL)
	if err != nil {
		log.Error("primary database unavailable", "error", err)
		os.Exit(1)
	}
	if primaryPool != nil {
		defer primaryPool.Close()
	}

	gisPool, err := postgres.New(ctx, cfg.GIS.URL)
	if err != nil {
		log.Error("gis database unavailable", "error", err)
		os.Exit(1)
	}
	if gisPool != nil {
		defer gisPool.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, err := events.NewPublisher(cfg.Kafka, log)
	if err != nil {
		log.Error("kafka unavailable", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	var geo geocoder.Client = geocoder.NewHTTPClient(
		cfg.Geocoder.BaseURL, cfg.Geocoder.APIKey, geocoder.WithLogger(log))
	geo = geocoder.NewCachedClient(geo, redisClient, cfg.Geocoder.CacheTTL, m, log)

	var gisStore gis.Store
	if gisPool != nil {
		gisStore = gis.NewPostgres(gisPool)
	} else {
		// Local runs without the reference database resolve nothing;
		// the sweeps are off outside production anyway.
		gisStore = gis.NewInMemoryStore()
	}
	resolver := gis.NewResolver(gisStore, gis.WithLogger(log))

	protocol, err := eissd.NewClient(cfg.EISSD,
		eissd.WithLogger(log), eissd.WithMetrics(m))
	if err != nil {
		log.Error("eissd client setup failed", "error", err)
		os.Exit(1)
	}

	pipeline := feasibility.NewService(geo, resolver, protocol,
		feasibility.WithLogger(log), feasibility.WithMetrics(m))

	crmClient := crm.NewHTTPClient(cfg.CRM.BaseURL, cfg.CRM.Token)
	provClient := provisioning.NewHTTPClient(cfg.Provisioning.BaseURL)

	scheduler := reconcile.New(crmClient, provClient, pipeline, cfg.ProviderID,
		reconcile.WithLogger(log),
		reconcile.WithMetrics(m),
		reconcile.WithEvents(publisher),
		reconcile.WithProduction(cfg.Production),
		reconcile.WithIntervals(cfg.Sweep.CreationInterval, cfg.Sweep.StatusInterval))

	var tariffStore tariff.Store
	if primaryPool != nil {
		tariffStore = tariff.NewPostgres(primaryPool)
	} else {
		tariffStore = tariff.NewInMemoryStore()
	}

	router := httptransport.NewRouter(
		httptransport.NewFeasibilityHandler(pipeline),
		httptransport.NewTariffHandler(tariffStore))
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting homenet", "addr", cfg.Addr, "production", cfg.Production)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Start(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
