package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	config "github.com/NordCoder/Turnstile/internal/config/api-gateway"
	"github.com/NordCoder/Turnstile/internal/obs/retry"
	"github.com/NordCoder/Turnstile/internal/outbox"
	kafkax "github.com/NordCoder/Turnstile/internal/repository/kafka"
)

// startEvents ensures the topic and starts the outbox runner. The returned
// func stops publishing after the runner has drained.
func startEvents(ctx context.Context, cfg *config.Config, logger *zap.Logger, st *stores) (func(), error) {
	err := kafkax.EnsureTopic(ctx, cfg.Kafka.Brokers, kafkax.TopicSpec{
		Name:              cfg.Kafka.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
		MaxWait:           30 * time.Second,
	}, logger)
	if err != nil {
		return nil, err
	}

	producer := kafkax.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithLogger(logger)
	dispatch := outbox.MakeGlobalOutboxHandler(kafkax.NewUserEventsKafka(producer), retry.DefaultPublishPolicy(logger))

	runCtx, cancel := context.WithCancel(ctx)
	runner := outbox.NewOutboxRunner(logger, st.outbox, dispatch, outbox.RunnerConfig{
		Workers:       cfg.Outbox.Workers,
		BatchSize:     cfg.Outbox.BatchSize,
		WaitTime:      cfg.Outbox.WaitTime,
		InProgressTTL: cfg.Outbox.InProgressTTL,
	})
	runner.Start(runCtx)
	logger.Info("outbox runner started", zap.String("topic", cfg.Kafka.Topic), zap.Int("workers", cfg.Outbox.Workers))

	return func() {
		cancel()
		runner.Wait()
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close", zap.Error(err))
		}
	}, nil
}
