package scheduler_test

import (
	"errors"
	"testing"
	"time"

	gomock "go.uber.org/mock/gomock"

	"github.com/mini-maxit/judge/internal/pipeline"
	. "github.com/mini-maxit/judge/internal/scheduler"
	"github.com/mini-maxit/judge/internal/storage"
	"github.com/mini-maxit/judge/pkg/constants"
	pkgerrors "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/messages"
	mocktests "github.com/mini-maxit/judge/tests/mocks"
)

func TestNewScheduler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	evaluator := mocktests.NewMockEvaluator(ctrl)
	responder := mocktests.NewMockResponder(ctrl)

	maxWorkers := 3
	s := NewScheduler(maxWorkers, evaluator, responder, storage.NewRuntimeVersionCache(), constants.DefaultTimeLimit)
	if s == nil {
		t.Fatalf("NewScheduler returned nil")
	}

	status := s.GetWorkersStatus()
	if len(status.WorkerStatus) != maxWorkers {
		t.Fatalf("expected %d workers, got %d", maxWorkers, len(status.WorkerStatus))
	}
	if status.TotalWorkers != maxWorkers || status.BusyWorkers != 0 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestGetWorkersStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w0 := mocktests.NewMockWorker(ctrl)
	w1 := mocktests.NewMockWorker(ctrl)

	w0.EXPECT().GetStatus().Return(constants.WorkerStatusBusy).Times(1)
	w0.EXPECT().GetProcessingMessageID().Return("msg-1").Times(1)

	w1.EXPECT().GetStatus().Return(constants.WorkerStatusIdle).Times(1)

	s := NewSchedulerWithWorkers(2, map[int]pipeline.Worker{0: w0, 1: w1}, nil)

	st := s.GetWorkersStatus()
	if st.TotalWorkers != 2 {
		t.Fatalf("expected total_workers 2, got %v", st.TotalWorkers)
	}
	if st.WorkerStatus[0] != "busy Processing message: msg-1" {
		t.Fatalf("unexpected status for worker 0: %q", st.WorkerStatus[0])
	}
	if st.WorkerStatus[1] != "idle" {
		t.Fatalf("unexpected status for worker 1: %q", st.WorkerStatus[1])
	}
}

func TestProcessTask_SuccessAndMarkIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := mocktests.NewMockWorker(ctrl)

	w.EXPECT().GetStatus().Return(constants.WorkerStatusIdle).Times(1)
	w.EXPECT().UpdateStatus(constants.WorkerStatusBusy).Times(1)
	w.EXPECT().GetId().Return(0).AnyTimes()

	task := &messages.JudgeTask{Language: "js"}
	done := make(chan struct{}, 1)
	w.EXPECT().ProcessTask("msg-id-1", "resp", task).Do(func(_ string, _ string, _ *messages.JudgeTask) {
		time.Sleep(5 * time.Millisecond)
	}).Times(1)

	w.EXPECT().UpdateStatus(constants.WorkerStatusIdle).Do(func(constants.WorkerStatus) {
		done <- struct{}{}
	}).Times(1)

	s := NewSchedulerWithWorkers(1, map[int]pipeline.Worker{0: w}, nil)

	if err := s.ProcessTask("resp", "msg-id-1", task); err != nil {
		t.Fatalf("unexpected error from ProcessTask: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the worker to be marked idle")
	}
}

func TestProcessTask_WorkerPanicStillMarksIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := mocktests.NewMockWorker(ctrl)

	w.EXPECT().GetStatus().Return(constants.WorkerStatusIdle).Times(1)
	w.EXPECT().UpdateStatus(constants.WorkerStatusBusy).Times(1)
	w.EXPECT().GetId().Return(0).AnyTimes()
	w.EXPECT().ProcessTask(gomock.Any(), gomock.Any(), gomock.Any()).Do(func(string, string, *messages.JudgeTask) {
		panic("worker exploded")
	}).Times(1)

	done := make(chan struct{}, 1)
	w.EXPECT().UpdateStatus(constants.WorkerStatusIdle).Do(func(constants.WorkerStatus) {
		done <- struct{}{}
	}).Times(1)

	s := NewSchedulerWithWorkers(1, map[int]pipeline.Worker{0: w}, nil)
	if err := s.ProcessTask("resp", "msg-panic", &messages.JudgeTask{}); err != nil {
		t.Fatalf("unexpected error from ProcessTask: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the worker to be marked idle")
	}
}

func TestProcessTask_NoFreeWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := mocktests.NewMockWorker(ctrl)
	w.EXPECT().GetStatus().Return(constants.WorkerStatusBusy).Times(1)

	s := NewSchedulerWithWorkers(1, map[int]pipeline.Worker{0: w}, nil)

	err := s.ProcessTask("resp", "msg-id-2", &messages.JudgeTask{})
	if err == nil {
		t.Fatalf("expected error when no free worker available")
	}
	if !errors.Is(err, pkgerrors.ErrFailedToGetFreeWorker) {
		t.Fatalf("expected ErrFailedToGetFreeWorker, got %v", err)
	}
}

func TestGetSupportedLanguages(t *testing.T) {
	cache := storage.NewRuntimeVersionCache()
	cache.Store(languages.CPP, "10.2.0")

	s := NewSchedulerWithWorkers(0, map[int]pipeline.Worker{}, cache)
	langs := s.GetSupportedLanguages()

	if len(langs) != 5 {
		t.Fatalf("expected 5 languages, got %d", len(langs))
	}
	for _, l := range langs {
		switch l.Name {
		case "cpp":
			if l.Version != "10.2.0" || l.Strategy != "remote" {
				t.Fatalf("unexpected cpp entry: %+v", l)
			}
		case "java", "rust":
			if l.Version != "" {
				t.Fatalf("expected no version for unresolved %s, got %q", l.Name, l.Version)
			}
		case "javascript", "python":
			if l.Strategy != "local" {
				t.Fatalf("expected local strategy for %s", l.Name)
			}
		}
	}
}
