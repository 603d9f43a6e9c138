package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/debeat/essentia/internal/engine"
	"github.com/debeat/essentia/internal/logging"
	"github.com/debeat/essentia/source/kafka"
)

func main() {
	pipelineYml := flag.String("pipeline", "pipeline.yml", "pipeline spec file")
	metricsPort := flag.Int("metrics-port", 9100, "prometheus scrape port")
	flag.Parse()

	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	kafka.Register("sarama", func() kafka.Adapter { return &kafka.SaramaDriver{} })

	e, err := engine.Bootstrap(ctx, engine.Config{
		MetricsPort: *metricsPort,
		PipelineYml: *pipelineYml,
	})
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	if err := e.Run(ctx); err != nil {
		log.Fatalf("engine: %v", err)
	}
}
