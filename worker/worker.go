// Package worker is the AMQP serving shell: it consumes tokenized
// sentences, runs them through pipeline.Tag, and publishes the
// resulting entities. Adapted from worker/worker.go, dropped down to
// this spec's scope — no S3 document chunking, no tasks-package retry
// bookkeeping, since a unit of work here is one sentence, not a
// multi-stage clinical-document job.
package worker

import (
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/anglisano/nametag/classifier"
	"github.com/anglisano/nametag/logger"
	"github.com/anglisano/nametag/ner"
	"github.com/anglisano/nametag/redislock"
	"github.com/anglisano/nametag/rmq"
)

// Config carries worker-level settings.
type Config struct {
	ModelReloadLockName string `envconfig:"NER_MODEL_RELOAD_LOCK" default:"ner-model-reload"`
}

// Worker owns the RMQ transport, the Redis reload lock, and the model
// it serves. Model swaps happen under modelMu so an in-flight Tag call
// never observes a half-swapped model.
type Worker struct {
	config Config
	rmq    *rmq.Client
	lock   *redislock.Client
	log    *zerolog.Logger

	modelMu sync.RWMutex
	model   *ner.Model
	clf     classifier.Classifier
	dec     classifier.BILOUDecoder
}

// New constructs a Worker serving model via clf/dec, connecting to RMQ
// and Redis from the environment.
func New(model *ner.Model, clf classifier.Classifier, dec classifier.BILOUDecoder) (*Worker, error) {
	workerLogger := logger.New("worker.Worker")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		workerLogger.Error().Err(err).Msg("could not read worker config")
		return nil, err
	}

	w := &Worker{
		config: config,
		log:    &workerLogger,
		model:  model,
		clf:    clf,
		dec:    dec,
	}
	if err := w.refreshRMQClient(); err != nil {
		workerLogger.Error().Err(err).Msg("could not create RMQ client")
		return nil, err
	}
	lockClient, err := redislock.NewClient()
	if err != nil {
		workerLogger.Error().Err(err).Msg("could not create Redis lock client")
		return nil, err
	}
	w.lock = &lockClient
	return w, nil
}

// SwapModel replaces the served model under the distributed reload
// lock, so concurrent worker replicas serialize their reloads.
func (w *Worker) SwapModel(next *ner.Model) error {
	release, err := w.lock.Lock(w.config.ModelReloadLockName)
	if err != nil {
		return fmt.Errorf("worker: acquiring model reload lock: %w", err)
	}
	defer func() {
		if err := release(); err != nil {
			w.log.Err(err).Msg("failed to release model reload lock")
		}
	}()

	w.modelMu.Lock()
	w.model = next
	w.modelMu.Unlock()
	return nil
}

func (w *Worker) currentModel() *ner.Model {
	w.modelMu.RLock()
	defer w.modelMu.RUnlock()
	return w.model
}

// StartWorker runs the consume loop until the RMQ connection cannot be
// refreshed, mirroring worker.StartWorker's select-and-refresh shape.
func (w *Worker) StartWorker() error {
	defer w.Close()
	for {
		select {
		case delivery, ok := <-w.rmq.Deliveries:
			if ok {
				go w.processMessage(&delivery)
				continue
			}
			w.log.Error().Msg("deliveries channel closed, trying to refresh RMQ client")
			if err := w.refreshRMQClient(); err != nil {
				return fmt.Errorf("rmq deliveries channel closed and refresh failed: %w", err)
			}
		case rmqErr := <-w.rmq.RespChanErrors:
			if rmqErr == nil {
				continue
			}
			w.log.Err(rmqErr).Msg("response connection received error, refreshing RMQ client")
			if err := w.refreshRMQClient(); err != nil {
				return fmt.Errorf("response connection error and refresh failed: %w", err)
			}
		case rmqErr := <-w.rmq.ReqChanErrors:
			if rmqErr == nil {
				continue
			}
			w.log.Err(rmqErr).Msg("request connection received error, refreshing RMQ client")
			if err := w.refreshRMQClient(); err != nil {
				return fmt.Errorf("request connection error and refresh failed: %w", err)
			}
		}
	}
}

// Close releases the RMQ and Redis connections.
func (w *Worker) Close() {
	if w.rmq != nil {
		w.rmq.Close()
	}
	if w.lock != nil {
		_ = w.lock.Close()
	}
}

func (w *Worker) refreshRMQClient() error {
	w.log.Info().Msg("refreshing RMQ client")
	if w.rmq != nil {
		w.rmq.Close()
	}
	client, err := rmq.NewClient()
	if err != nil {
		w.log.Err(err).Msg("failed to refresh RMQ client")
		return err
	}
	w.rmq = client
	w.log.Info().Msg("refreshed RMQ client")
	return nil
}
