// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"docverify-workers/internal/common/aws"
	"docverify-workers/internal/common/camunda"
	"docverify-workers/internal/common/config"
	"docverify-workers/internal/common/database"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/observability"

	bvr "docverify-workers/internal/workers/document/build-verification-result"
	ce "docverify-workers/internal/workers/document/check-eligibility"
	dm "docverify-workers/internal/workers/document/decode-mrz"
	edf "docverify-workers/internal/workers/document/extract-document-fields"
	edt "docverify-workers/internal/workers/document/extract-document-text"
	ivr "docverify-workers/internal/workers/document/index-verification-result"
	svn "docverify-workers/internal/workers/document/send-verification-notification"
	svr "docverify-workers/internal/workers/document/store-verification-result"
	vd "docverify-workers/internal/workers/document/validate-document"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, cfg.Tracing.SampleRatio, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Migrate(ctx); err != nil {
		zapLog.Fatal("postgres schema migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Workers ---
	workers := camunda.NewWorkerSet(zeebe.Zeebe(), log)
	if err := registerWorkers(ctx, cfg, workers, pg, esClient, redis, obs, log); err != nil {
		zapLog.Fatal("worker registration failed", zap.Error(err))
	}

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr: cfg.Metrics.Address,
		Handler: newRouter(&healthServer{
			checks: map[string]readinessCheck{
				"zeebe":         zeebe.HealthCheck,
				"postgres":      pg.Ping,
				"redis":         redis.Ping,
				"elasticsearch": esClient.Ping,
			},
			workers: workers.Running,
			timeout: 5 * time.Second,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	workers.Close(20 * time.Second)
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func registerWorkers(
	ctx context.Context,
	cfg *config.Config,
	workers *camunda.WorkerSet,
	pg *database.PostgresClient,
	esClient *database.ElasticsearchClient,
	redis *database.RedisClient,
	obs *observability.Observability,
	log logger.Logger,
) error {
	// extract-document-text
	{
		wcfg := edt.LoadConfig(cfg)
		var cache edt.TextCache
		if wcfg.CacheTTL > 0 {
			cache = database.NewTextCache(redis.Client, wcfg.CacheTTL)
		}
		handler := edt.NewHandler(wcfg, edt.NewOCRClient(wcfg), cache, obs, log)
		workers.Start(edt.TaskType, config.GetWorkerConfig(cfg, edt.TaskType), handler.Handle)
	}

	// decode-mrz
	{
		handler := dm.NewHandler(dm.LoadConfig(cfg), obs, log)
		workers.Start(dm.TaskType, config.GetWorkerConfig(cfg, dm.TaskType), handler.Handle)
	}

	// extract-document-fields
	{
		wcfg := edf.LoadConfig(cfg)
		rules, err := wcfg.LoadRules()
		if err != nil {
			return fmt.Errorf("%s: %w", edf.TaskType, err)
		}
		handler := edf.NewHandler(wcfg, rules, obs, log)
		workers.Start(edf.TaskType, config.GetWorkerConfig(cfg, edf.TaskType), handler.Handle)
	}

	// validate-document
	{
		handler := vd.NewHandler(vd.LoadConfig(cfg), obs, log)
		workers.Start(vd.TaskType, config.GetWorkerConfig(cfg, vd.TaskType), handler.Handle)
	}

	// check-eligibility
	{
		wcfg := ce.LoadConfig(cfg)
		schema, err := wcfg.LoadPolicySchema()
		if err != nil {
			return fmt.Errorf("%s: %w", ce.TaskType, err)
		}
		handler := ce.NewHandler(wcfg, schema, obs, log)
		workers.Start(ce.TaskType, config.GetWorkerConfig(cfg, ce.TaskType), handler.Handle)
	}

	// build-verification-result
	{
		handler := bvr.NewHandler(bvr.LoadConfig(cfg), obs, log)
		workers.Start(bvr.TaskType, config.GetWorkerConfig(cfg, bvr.TaskType), handler.Handle)
	}

	// store-verification-result
	{
		handler := svr.NewHandler(svr.LoadConfig(cfg), pg.DB, obs, log)
		workers.Start(svr.TaskType, config.GetWorkerConfig(cfg, svr.TaskType), handler.Handle)
	}

	// index-verification-result
	{
		handler := ivr.NewHandler(ivr.LoadConfig(cfg), esClient, obs, log)
		workers.Start(ivr.TaskType, config.GetWorkerConfig(cfg, ivr.TaskType), handler.Handle)
	}

	// send-verification-notification
	{
		wcfg := svn.LoadConfig(cfg)
		var email svn.EmailSender
		var sms svn.SMSSender
		if wcfg.EmailEnabled {
			ses, err := aws.NewSESClient(ctx, wcfg.AWSRegion)
			if err != nil {
				return fmt.Errorf("%s: %w", svn.TaskType, err)
			}
			email = ses
		}
		if wcfg.SMSEnabled {
			sns, err := aws.NewSNSClient(ctx, wcfg.AWSRegion)
			if err != nil {
				return fmt.Errorf("%s: %w", svn.TaskType, err)
			}
			sms = sns
		}
		handler := svn.NewHandler(wcfg, email, sms, obs, log)
		workers.Start(svn.TaskType, config.GetWorkerConfig(cfg, svn.TaskType), handler.Handle)
	}

	return nil
}
