package consumer

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/mock/gomock"

	"github.com/mini-maxit/judge/pkg/constants"
	pkgerrors "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/messages"
	"github.com/mini-maxit/judge/tests/mocks"
)

const (
	workerQueue   = "worker_queue_test"
	responseQueue = "response_queue_test"
)

func judgeDelivery(t *testing.T, messageID, replyTo string) amqp.Delivery {
	t.Helper()
	task := messages.JudgeTask{Language: "cpp", SourceCode: "int solve(int x) { return x; }"}
	taskB, err := json.Marshal(&task)
	if err != nil {
		t.Fatalf("failed to marshal task: %v", err)
	}
	qm := messages.QueueMessage{Type: constants.QueueMessageTypeJudge, MessageID: messageID, Payload: taskB}
	b, err := json.Marshal(qm)
	if err != nil {
		t.Fatalf("failed to marshal queue message: %v", err)
	}
	return amqp.Delivery{Body: b, ReplyTo: replyTo}
}

func TestProcessMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockScheduler := mocks.NewMockScheduler(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	cIface := NewConsumer(nil, workerQueue, responseQueue, mockScheduler, mockResponder)
	c, ok := cIface.(*consumer)
	if !ok {
		t.Fatalf("NewConsumer returned unexpected type: %T", cIface)
	}

	t.Run("invalid json", func(t *testing.T) {
		mockResponder.EXPECT().PublishErrorToResponseQueue("", "", "reply", gomock.Any()).Times(1)

		c.processMessage(amqp.Delivery{Body: []byte("not json"), ReplyTo: "reply"})
	})

	t.Run("unknown type", func(t *testing.T) {
		qm := messages.QueueMessage{Type: "foo", MessageID: "mid", Payload: nil}
		b, _ := json.Marshal(qm)

		mockResponder.EXPECT().
			PublishErrorToResponseQueue("foo", "mid", "reply", pkgerrors.ErrUnknownMessageType).
			Times(1)

		c.processMessage(amqp.Delivery{Body: b, ReplyTo: "reply"})
	})

	t.Run("judge success", func(t *testing.T) {
		mockScheduler.EXPECT().ProcessTask(
			"reply", "task-id-1", gomock.AssignableToTypeOf(&messages.JudgeTask{}),
		).Do(func(_ string, _ string, task *messages.JudgeTask) {
			if task.Language != "cpp" {
				t.Fatalf("expected cpp task, got %q", task.Language)
			}
		}).Return(nil).Times(1)

		c.processMessage(judgeDelivery(t, "task-id-1", "reply"))
	})

	t.Run("judge without reply-to uses configured queue", func(t *testing.T) {
		mockScheduler.EXPECT().ProcessTask(
			responseQueue, "task-id-3", gomock.Any(),
		).Return(nil).Times(1)

		c.processMessage(judgeDelivery(t, "task-id-3", ""))
	})

	t.Run("judge requeue when no worker", func(t *testing.T) {
		mockScheduler.EXPECT().ProcessTask(
			"reply", "task-id-2", gomock.Any(),
		).Return(pkgerrors.ErrFailedToGetFreeWorker).Times(1)

		mockResponder.EXPECT().Publish(
			workerQueue, gomock.AssignableToTypeOf(amqp.Publishing{}),
		).Do(func(_ string, p amqp.Publishing) {
			if p.Priority != uint8(constants.RabbitMQRequeuePriority) {
				t.Fatalf("expected Priority to be %d got %d", constants.RabbitMQRequeuePriority, p.Priority)
			}
			if p.ReplyTo != "reply" {
				t.Fatalf("expected requeued message to keep reply-to, got %q", p.ReplyTo)
			}
		}).Return(nil).Times(1)

		c.processMessage(judgeDelivery(t, "task-id-2", "reply"))
	})

	t.Run("judge requeue failure reports error", func(t *testing.T) {
		mockScheduler.EXPECT().ProcessTask(
			"reply", "task-id-4", gomock.Any(),
		).Return(pkgerrors.ErrFailedToGetFreeWorker).Times(1)
		mockResponder.EXPECT().Publish(workerQueue, gomock.Any()).Return(errors.New("closed")).Times(1)
		mockResponder.EXPECT().
			PublishErrorToResponseQueue(constants.QueueMessageTypeJudge, "task-id-4", "reply", pkgerrors.ErrFailedToGetFreeWorker).
			Times(1)

		c.processMessage(judgeDelivery(t, "task-id-4", "reply"))
	})

	t.Run("judge with invalid payload", func(t *testing.T) {
		qm := messages.QueueMessage{
			Type:      constants.QueueMessageTypeJudge,
			MessageID: "task-bad",
			Payload:   json.RawMessage(`"just a string"`),
		}
		b, _ := json.Marshal(qm)

		mockResponder.EXPECT().
			PublishErrorToResponseQueue(constants.QueueMessageTypeJudge, "task-bad", "reply", gomock.Any()).
			Times(1)

		c.processMessage(amqp.Delivery{Body: b, ReplyTo: "reply"})
	})

	t.Run("status success", func(t *testing.T) {
		status := messages.StatusPayload{BusyWorkers: 1, TotalWorkers: 2, WorkerStatus: map[int]string{0: "idle"}}
		qm := messages.QueueMessage{Type: constants.QueueMessageTypeStatus, MessageID: "status-id"}
		b, _ := json.Marshal(qm)

		mockScheduler.EXPECT().GetWorkersStatus().Return(status).Times(1)
		mockResponder.EXPECT().PublishSuccessStatusRespond(
			constants.QueueMessageTypeStatus, "status-id", "reply", status,
		).Return(nil).Times(1)

		c.processMessage(amqp.Delivery{Body: b, ReplyTo: "reply"})
	})

	t.Run("handshake success", func(t *testing.T) {
		langs := languages.GetSupportedLanguages(nil)
		qm := messages.QueueMessage{Type: constants.QueueMessageTypeHandshake, MessageID: "hs-id"}
		b, _ := json.Marshal(qm)

		mockScheduler.EXPECT().GetSupportedLanguages().Return(langs).Times(1)
		mockResponder.EXPECT().PublishSuccessHandshakeRespond(
			constants.QueueMessageTypeHandshake, "hs-id", "reply", langs,
		).Return(nil).Times(1)

		c.processMessage(amqp.Delivery{Body: b, ReplyTo: "reply"})
	})

	t.Run("handshake publish failure", func(t *testing.T) {
		qm := messages.QueueMessage{Type: constants.QueueMessageTypeHandshake, MessageID: "hs-fail"}
		b, _ := json.Marshal(qm)
		publishErr := errors.New("publish failed")

		mockScheduler.EXPECT().GetSupportedLanguages().Return(nil).Times(1)
		mockResponder.EXPECT().
			PublishSuccessHandshakeRespond(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(publishErr).Times(1)
		mockResponder.EXPECT().
			PublishErrorToResponseQueue(constants.QueueMessageTypeHandshake, "hs-fail", "reply", publishErr).
			Times(1)

		c.processMessage(amqp.Delivery{Body: b, ReplyTo: "reply"})
	})
}

func TestListen_ProcessJudgeMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChannel := mocks.NewMockChannel(ctrl)
	mockScheduler := mocks.NewMockScheduler(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	deliveries := make(chan amqp.Delivery)

	mockChannel.EXPECT().QueueDeclare(workerQueue, true, false, false, false, gomock.AssignableToTypeOf(amqp.Table{})).Do(
		func(_ string, _, _, _, _ bool, args amqp.Table) {
			v, ok := args["x-max-priority"]
			if !ok {
				t.Fatalf("expected x-max-priority to be present in args")
			}
			if v != constants.RabbitMQMaxPriority {
				t.Fatalf("expected x-max-priority %v got %v", constants.RabbitMQMaxPriority, v)
			}
		}).Return(amqp.Queue{Name: workerQueue}, nil).Times(1)

	mockChannel.EXPECT().Consume(
		workerQueue, "", true, false, false, false, nil,
	).Return((<-chan amqp.Delivery)(deliveries), nil).Times(1)

	done := make(chan struct{})
	mockScheduler.EXPECT().ProcessTask(
		"reply", "task-id-listen", gomock.AssignableToTypeOf(&messages.JudgeTask{}),
	).Do(func(_ string, _ string, _ *messages.JudgeTask) {
		close(done)
	}).Return(nil).Times(1)

	c := NewConsumer(mockChannel, workerQueue, responseQueue, mockScheduler, mockResponder)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Listen()
	}()

	deliveries <- judgeDelivery(t, "task-id-listen", "reply")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for ProcessTask to be called")
	}

	close(deliveries)
	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for Listen to finish")
	}
}

func TestListen_QueueDeclareErrorPanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChannel := mocks.NewMockChannel(ctrl)
	mockChannel.EXPECT().QueueDeclare(
		workerQueue, true, false, false, false, gomock.Any(),
	).Return(amqp.Queue{}, errors.New("queue error")).Times(1)

	c := NewConsumer(mockChannel, workerQueue, responseQueue, mocks.NewMockScheduler(ctrl), mocks.NewMockResponder(ctrl))

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Listen to panic on QueueDeclare error")
		}
	}()

	c.Listen()
}

func TestListen_ConsumeErrorPanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChannel := mocks.NewMockChannel(ctrl)
	mockChannel.EXPECT().QueueDeclare(
		workerQueue, true, false, false, false, gomock.Any(),
	).Return(amqp.Queue{Name: workerQueue}, nil).Times(1)
	mockChannel.EXPECT().Consume(
		workerQueue, "", true, false, false, false, nil,
	).Return((<-chan amqp.Delivery)(nil), errors.New("consume error")).Times(1)

	c := NewConsumer(mockChannel, workerQueue, responseQueue, mocks.NewMockScheduler(ctrl), mocks.NewMockResponder(ctrl))

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Listen to panic on Consume error")
		}
	}()

	c.Listen()
}
