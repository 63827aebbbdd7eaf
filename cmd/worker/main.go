package main

import (
	"context"

	"github.com/mini-maxit/judge/internal/config"
	"github.com/mini-maxit/judge/internal/evaluator"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/rabbitmq"
	"github.com/mini-maxit/judge/internal/rabbitmq/channel"
	"github.com/mini-maxit/judge/internal/rabbitmq/consumer"
	"github.com/mini-maxit/judge/internal/rabbitmq/responder"
	"github.com/mini-maxit/judge/internal/scheduler"
	"github.com/mini-maxit/judge/internal/storage"
	"github.com/mini-maxit/judge/pkg/languages"
)

func main() {
	logger.InitializeLogger()
	defer logger.Sync()

	logger := logger.NewNamedLogger("main")

	logger.Info("Starting judge worker")

	config := config.NewConfig()

	versions := storage.NewRuntimeVersionCache()
	eval, remoteClient, err := evaluator.NewFromConfig(config, versions)
	if err != nil {
		logger.Fatalf("Failed to initialize evaluator: %s", err)
	}

	// Warm the version cache so the first handshake already reports remote runtimes.
	go func() {
		for _, lang := range languages.GetRemoteLanguages() {
			logger.Infof("Using %s runtime %s", lang, remoteClient.ResolveVersion(context.Background(), lang))
		}
	}()

	conn := rabbitmq.NewRabbitMqConnection(config)
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Errorf("Failed to close RabbitMQ connection: %s", err)
		}
	}()

	workerChannel := channel.NewAmqpChannel(rabbitmq.NewRabbitMQChannel(conn))

	responder := responder.NewResponder(workerChannel, config.PublishChanSize)
	defer func() {
		if err := responder.Close(); err != nil {
			logger.Errorf("Failed to close responder: %s", err)
		}
	}()

	scheduler := scheduler.NewScheduler(config.MaxWorkers, eval, responder, versions, config.DefaultTimeLimit)

	queueConsumer := consumer.NewConsumer(
		workerChannel,
		config.ConsumeQueueName,
		config.ResponseQueueName,
		scheduler,
		responder,
	)

	logger.Infof("Listening for messages on %s", config.ConsumeQueueName)
	queueConsumer.Listen()
}
