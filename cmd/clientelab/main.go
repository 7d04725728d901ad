package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	clienteApp "github.com/davicafu/clientelab/internal/cliente/application"
	clienteDomain "github.com/davicafu/clientelab/internal/cliente/domain"
	clienteEvents "github.com/davicafu/clientelab/internal/cliente/infra/inbound/events"
	clienteHttp "github.com/davicafu/clientelab/internal/cliente/infra/inbound/http"
	clienteAudit "github.com/davicafu/clientelab/internal/cliente/infra/outbound/analytics/clickhouse"
	clienteMemory "github.com/davicafu/clientelab/internal/cliente/infra/outbound/db/memory"
	clientePostgres "github.com/davicafu/clientelab/internal/cliente/infra/outbound/db/postgre"
	clienteSQLite "github.com/davicafu/clientelab/internal/cliente/infra/outbound/db/sqlite"
	clienteMetrics "github.com/davicafu/clientelab/internal/cliente/infra/outbound/metrics"
	"github.com/davicafu/clientelab/internal/config"
	sharedDomain "github.com/davicafu/clientelab/internal/shared/domain"
	infraEvents "github.com/davicafu/clientelab/internal/shared/infra/events"
	"github.com/davicafu/clientelab/internal/shared/infra/http/middleware"
	sharedMetrics "github.com/davicafu/clientelab/internal/shared/infra/metrics"
	sharedBus "github.com/davicafu/clientelab/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/clientelab/internal/shared/infra/platform/cache"
	sharedDB "github.com/davicafu/clientelab/internal/shared/infra/platform/db"
	outboxPostgres "github.com/davicafu/clientelab/internal/shared/infra/platform/db/postgres"
	outboxSQLite "github.com/davicafu/clientelab/internal/shared/infra/platform/db/sqlite"
	"github.com/davicafu/clientelab/internal/shared/infra/relayer"
	"github.com/davicafu/clientelab/pkg/logger"
	"github.com/davicafu/clientelab/pkg/utils"
)

// ---------------- Main ----------------
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.LogLevel)
	log := logger.Logger()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------- DB ----------------
	db, repo, outboxRepo := openStorage(ctx, cfg, log)
	if db != nil {
		defer db.Close()
	}

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		rdb.Close()
		memCache := sharedCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
		defer memCache.Stop()
		cacheInstance = memCache
	} else {
		defer rdb.Close()
		cacheInstance = sharedCache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info("✅ Redis conectado, cache habilitado")
	}

	// ---------------- Metrics ----------------
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := sharedMetrics.NewHTTPMetrics(registry)

	// --------------- Servicio --------------
	clienteService := clienteApp.NewClienteService(repo, cacheInstance, cfg.CacheTTL, clienteMetrics.NewClienteMetrics(registry), log)

	// ---------------- Analytics ----------------
	var auditRepo clienteDomain.ClienteAuditRepository
	if cfg.ClickHouseAddr != "" {
		chDB, err := clienteAudit.Open(ctx, cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, auditoría solo en log", zap.Error(err))
		} else {
			defer chDB.Close()
			chRepo := clienteAudit.NewClienteAuditRepo(chDB)
			if err := chRepo.InitSchema(ctx); err != nil {
				log.Fatal("failed to initialize ClickHouse schema", zap.Error(err))
			}
			auditRepo = chRepo
		}
	}
	auditConsumer := clienteEvents.NewClienteAuditConsumer(auditRepo, log)

	// ---------------- Events ---------------
	var publisher sharedBus.EventBus
	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))

		writer := infraEvents.NewKafkaWriter(cfg.KafkaBrokers)
		defer writer.Close()
		publisher = infraEvents.NewKafkaPublisher(writer, cfg.KafkaTopic, log)

		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			GroupID:  cfg.KafkaGroupID,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		defer reader.Close()

		infraEvents.NewConsumerAdapter(reader, auditConsumer, log).Start(ctx)
	} else {
		log.Info("⚡️ Usando bus de eventos en memoria (canales de Go)")

		bus := infraEvents.NewInMemoryEventBus(cfg.KafkaTopic)
		publisher = bus
		infraEvents.ConsumeChannel(ctx, bus.Subscribe(100), auditConsumer, log)
	}

	// ------------ Outbox Worker ------------
	worker := relayer.NewOutboxWorker(outboxRepo, publisher, clienteDomain.NewEventRegistry(), cfg.OutboxPeriod, cfg.OutboxLimit, log)
	go worker.Start(ctx)

	// ---------------- HTTP ----------------
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	responder := utils.NewErrorResponder(log, cfg.IsDevelopment())

	router := gin.New()
	router.Use(middleware.Recovery(responder), middleware.RequestLogger(log), httpMetrics.Middleware())

	clienteHttp.RegisterClienteRoutes(router, cfg.HTTPPrefix, clienteHttp.NewClienteHandler(clienteService, responder, log))
	clienteHttp.RegisterHealthRoutes(router, clienteHttp.NewHealthHandler(db, responder))
	router.GET("/metrics", sharedMetrics.Handler(registry))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("🚀 Server running",
			zap.String("url", "http://localhost:"+cfg.HTTPPort+cfg.HTTPPrefix),
			zap.String("env", cfg.AppEnv),
			zap.String("db_driver", cfg.DBDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Apagando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStorage devuelve el pool (nil con el driver en memoria), el repositorio de clientes
// y el outbox que comparte transacción con él.
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*sql.DB, clienteDomain.ClienteRepository, sharedDomain.OutboxRepository) {
	pool := sharedDB.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: sharedDB.DefaultPoolConfig().ConnMaxIdleTime,
	}

	switch cfg.DBDriver {
	case "memory":
		log.Warn("⚠️ Usando repositorio en memoria, los datos no se persisten")
		repo := clienteMemory.NewClienteRepoMemory()
		return nil, repo, repo

	case sharedDB.DriverSQLite:
		db, err := sharedDB.Open(ctx, sharedDB.DriverSQLite, cfg.SQLitePath, pool, log)
		if err != nil {
			log.Fatal("failed to open SQLite", zap.Error(err))
		}
		if err := clienteSQLite.InitSQLite(ctx, db); err != nil {
			log.Fatal("failed to initialize SQLite", zap.Error(err))
		}
		return db, clienteSQLite.NewClienteRepoSQLite(db), outboxSQLite.NewOutboxRepoSQLite(db)

	default:
		db, err := sharedDB.Open(ctx, sharedDB.DriverPostgres, cfg.DatabaseURL, pool, log)
		if err != nil {
			log.Fatal("failed to open Postgres", zap.Error(err))
		}
		if err := clientePostgres.InitPostgres(ctx, db); err != nil {
			log.Fatal("failed to initialize Postgres", zap.Error(err))
		}
		return db, clientePostgres.NewClienteRepoPostgres(db), outboxPostgres.NewOutboxRepoPostgres(db)
	}
}
