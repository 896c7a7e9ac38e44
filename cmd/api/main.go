package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/heartmonitor/internal/api"
	"example.com/heartmonitor/internal/config"
	"example.com/heartmonitor/internal/domain"
	"example.com/heartmonitor/internal/events"
	"example.com/heartmonitor/internal/persistence"
	"example.com/heartmonitor/internal/persistence/file"
	"example.com/heartmonitor/internal/persistence/postgres"
	"example.com/heartmonitor/internal/persistence/sqlite"
	httptransport "example.com/heartmonitor/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreBackend, err)
	}
	store, err := persistence.Open(ctx, backend)
	if err != nil {
		_ = backend.Close()
		log.Fatalf("failed to load readings: %v", err)
	}
	defer store.Close()

	detector, err := domain.NewDetector(cfg.Thresholds)
	if err != nil {
		log.Fatalf("invalid thresholds: %v", err)
	}

	var opts []domain.Option
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()
		opts = append(opts, domain.WithPublisher(events.NewPublisher(producer, cfg.ReadingsTopic)))
		log.Printf("publishing readings to %s via %v", cfg.ReadingsTopic, cfg.KafkaBrokers)
	}
	service := domain.NewService(store, detector, opts...)

	router := api.NewHandler(service, nil).NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	srvCfg := httptransport.DefaultServerConfig(cfg.HTTPAddress)
	srvCfg.ShutdownTimeout = cfg.ShutdownTimeout
	server := httptransport.NewServer(srvCfg, handlers.LoggingHandler(os.Stdout, cors(router)))

	log.Printf("heart-rate monitor using %s store with %d readings (band %v-%v)",
		cfg.StoreBackend, store.All().Len(), cfg.Thresholds.Low, cfg.Thresholds.High)
	if err := httptransport.ListenAndServe(ctx, server, srvCfg.ShutdownTimeout, nil); err != nil {
		log.Printf("server error: %v", err)
	}
}

func openBackend(ctx context.Context, cfg config.Config) (persistence.Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		return file.NewBackend(cfg.DataFile)
	case config.BackendSQLite:
		sqliteCfg := sqlite.DefaultConfig()
		sqliteCfg.Path = cfg.SQLitePath
		return sqlite.NewBackend(ctx, sqliteCfg)
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		repo := postgres.NewRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
