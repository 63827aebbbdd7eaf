package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/mini-maxit/judge/internal/evaluator"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/pipeline"
	"github.com/mini-maxit/judge/internal/rabbitmq/responder"
	"github.com/mini-maxit/judge/internal/storage"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/messages"
	"go.uber.org/zap"
)

type Scheduler interface {
	GetWorkersStatus() messages.StatusPayload
	ProcessTask(responseQueueName, messageID string, task *messages.JudgeTask) error
	GetSupportedLanguages() []languages.LanguageInfo
}

type scheduler struct {
	mu               sync.Mutex
	busyWorkersCount int
	workers          map[int]pipeline.Worker
	maxWorkers       int
	versions         storage.RuntimeVersionCache
	logger           *zap.SugaredLogger
}

func NewScheduler(
	maxWorkers int,
	evaluator evaluator.Evaluator,
	responder responder.Responder,
	versions storage.RuntimeVersionCache,
	defaultTimeLimit time.Duration,
) Scheduler {
	workers := make(map[int]pipeline.Worker, maxWorkers)
	for i := range maxWorkers {
		workers[i] = pipeline.NewWorker(i, evaluator, responder, defaultTimeLimit)
	}

	return NewSchedulerWithWorkers(maxWorkers, workers, versions)
}

// NewSchedulerWithWorkers builds a scheduler over an existing worker set.
func NewSchedulerWithWorkers(
	maxWorkers int,
	workers map[int]pipeline.Worker,
	versions storage.RuntimeVersionCache,
) Scheduler {
	return &scheduler{
		workers:    workers,
		maxWorkers: maxWorkers,
		versions:   versions,
		logger:     logger.NewNamedLogger("scheduler"),
	}
}

func (s *scheduler) GetWorkersStatus() messages.StatusPayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make(map[int]string, len(s.workers))
	for id, worker := range s.workers {
		status := worker.GetStatus()
		if status == constants.WorkerStatusBusy {
			statuses[id] = status.String() + " Processing message: " + worker.GetProcessingMessageID()
			continue
		}
		statuses[id] = status.String()
	}

	return messages.StatusPayload{
		BusyWorkers:  s.busyWorkersCount,
		TotalWorkers: s.maxWorkers,
		WorkerStatus: statuses,
	}
}

func (s *scheduler) getFreeWorker() (pipeline.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.workers))
	for id := range s.workers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		worker := s.workers[id]
		if worker.GetStatus() == constants.WorkerStatusIdle {
			worker.UpdateStatus(constants.WorkerStatusBusy)
			s.busyWorkersCount++
			return worker, nil
		}
	}

	return nil, errors.ErrFailedToGetFreeWorker
}

func (s *scheduler) ProcessTask(responseQueueName, messageID string, task *messages.JudgeTask) error {
	worker, err := s.getFreeWorker()
	if err != nil {
		s.logger.Warnf("No available workers: %s [MsgID: %s]", err, messageID)
		return err
	}
	s.logger.Infof("Dispatching task to worker %d [MsgID: %s]", worker.GetId(), messageID)

	go func(w pipeline.Worker) {
		defer s.markWorkerAsIdle(w)
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorf("Worker panicked: %v [MsgID: %s]", r, messageID)
			}
		}()

		w.ProcessTask(messageID, responseQueueName, task)
	}(worker)

	return nil
}

func (s *scheduler) markWorkerAsIdle(worker pipeline.Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker.UpdateStatus(constants.WorkerStatusIdle)
	s.busyWorkersCount--

	s.logger.Debugf("Worker marked as idle [WorkerID: %d]", worker.GetId())
}

// GetSupportedLanguages lists every language with the remote versions resolved so far.
func (s *scheduler) GetSupportedLanguages() []languages.LanguageInfo {
	var resolved map[languages.LanguageType]string
	if s.versions != nil {
		resolved = s.versions.Snapshot()
	}
	return languages.GetSupportedLanguages(resolved)
}
