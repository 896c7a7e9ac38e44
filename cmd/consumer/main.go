package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"

	"example.com/heartmonitor/internal/config"
	"example.com/heartmonitor/internal/consumer"
	"example.com/heartmonitor/internal/domain"
	httptransport "example.com/heartmonitor/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS must be set for the alert consumer")
	}

	detector, err := domain.NewDetector(cfg.Thresholds)
	if err != nil {
		log.Fatalf("invalid thresholds: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stdout, "[alerts] ", log.LstdFlags)
	handler := consumer.NewAlertHandler(detector, logger)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         cfg.KafkaBrokers,
		GroupID:         cfg.ConsumerGroupID,
		Topic:           cfg.ReadingsTopic,
		MinBytes:        1e3,
		MaxBytes:        10e6,
		CommitInterval:  time.Second,
		RetentionTime:   24 * time.Hour,
		ReadLagInterval: -1,
	})
	proc := consumer.NewProcessor(reader, handler)

	metricsSrv := httptransport.NewServer(httptransport.ServerConfig{Address: cfg.MetricsAddress}, promhttp.Handler())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httptransport.ListenAndServe(ctx, metricsSrv, 10*time.Second, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server error: %v", err)
		}
	}()

	log.Printf("consumer started (topic=%s, group=%s, band %v-%v)",
		cfg.ReadingsTopic, cfg.ConsumerGroupID, cfg.Thresholds.Low, cfg.Thresholds.High)
	if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("consumer stopped with error (topic=%s): %v", cfg.ReadingsTopic, err)
	}
	if err := reader.Close(); err != nil {
		log.Printf("reader close error: %v", err)
	}

	stop()
	wg.Wait()
}
