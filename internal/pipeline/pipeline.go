package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mini-maxit/judge/internal/evaluator"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/rabbitmq/responder"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/messages"
	"go.uber.org/zap"
)

type Worker interface {
	ProcessTask(messageID, responseQueue string, task *messages.JudgeTask)
	GetStatus() constants.WorkerStatus
	UpdateStatus(status constants.WorkerStatus)
	GetProcessingMessageID() string
	GetId() int
}

type worker struct {
	id                  int
	mu                  sync.RWMutex
	status              constants.WorkerStatus
	processingMessageID string
	defaultTimeLimit    time.Duration
	evaluator           evaluator.Evaluator
	responder           responder.Responder
	logger              *zap.SugaredLogger
}

func NewWorker(
	id int,
	evaluator evaluator.Evaluator,
	responder responder.Responder,
	defaultTimeLimit time.Duration,
) Worker {
	logger := logger.NewNamedLogger(fmt.Sprintf("worker-%d", id))

	return &worker{
		id:               id,
		status:           constants.WorkerStatusIdle,
		defaultTimeLimit: defaultTimeLimit,
		evaluator:        evaluator,
		responder:        responder,
		logger:           logger,
	}
}

func (ws *worker) GetId() int {
	return ws.id
}

func (ws *worker) GetStatus() constants.WorkerStatus {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.status
}

func (ws *worker) UpdateStatus(status constants.WorkerStatus) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.status = status
}

func (ws *worker) GetProcessingMessageID() string {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.processingMessageID
}

func (ws *worker) setProcessingMessageID(messageID string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.processingMessageID = messageID
}

func (ws *worker) ProcessTask(messageID, responseQueue string, task *messages.JudgeTask) {
	defer func() {
		if r := recover(); r != nil {
			ws.logger.Errorf("Recovered from panic: %v [MsgID: %s]", r, messageID)
			ws.responder.PublishErrorToResponseQueue(
				constants.QueueMessageTypeJudge,
				messageID,
				responseQueue,
				fmt.Errorf("%s: %v", constants.SolutionMessageInternalError, r),
			)
		}
	}()

	ws.logger.Infof("Processing task [MsgID: %s]", messageID)
	ws.setProcessingMessageID(messageID)
	defer ws.setProcessingMessageID("")

	sub, err := task.ToSubmission(ws.defaultTimeLimit)
	if err != nil {
		ws.logger.Errorf("Invalid judge task: %s [MsgID: %s]", err, messageID)
		ws.responder.PublishErrorToResponseQueue(
			constants.QueueMessageTypeJudge,
			messageID,
			responseQueue,
			err,
		)
		return
	}
	sub.ID = messageID

	verdict := ws.evaluator.Evaluate(context.Background(), sub)

	err = ws.responder.PublishPayloadTaskRespond(
		constants.QueueMessageTypeJudge,
		messageID,
		responseQueue,
		verdict,
	)
	if err != nil {
		ws.logger.Errorf("Failed to publish verdict: %s [MsgID: %s]", err, messageID)
		return
	}
	ws.logger.Infof("Finished processing task: %s [MsgID: %s]", verdict.Status, messageID)
}
