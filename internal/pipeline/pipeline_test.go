package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mini-maxit/judge/internal/pipeline"
	"github.com/mini-maxit/judge/pkg/constants"
	pkgerrors "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/messages"
	"github.com/mini-maxit/judge/pkg/solution"
	mocks "github.com/mini-maxit/judge/tests/mocks"
	"go.uber.org/mock/gomock"
)

func reverseTask() *messages.JudgeTask {
	return &messages.JudgeTask{
		Language:    "py",
		SourceCode:  "def solve(s):\n    return s[::-1]\n",
		TimeLimitMs: 1000,
		TestCases: []messages.TestCase{
			{Input: json.RawMessage(`["hello"]`), ExpectedOutput: json.RawMessage(`"olleh"`)},
		},
	}
}

func TestProcessTask_SuccessFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEvaluator := mocks.NewMockEvaluator(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	verdict := solution.Verdict{Total: 1, Passed: 1, Status: constants.VerdictStatusAccepted}

	w := pipeline.NewWorker(1, mockEvaluator, mockResponder, constants.DefaultTimeLimit)

	mockEvaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sub solution.Submission) solution.Verdict {
			if sub.ID != "msg-1" {
				t.Fatalf("expected submission ID msg-1, got %q", sub.ID)
			}
			if sub.Language != languages.Python {
				t.Fatalf("expected python submission, got %s", sub.Language)
			}
			if sub.TimeLimit != time.Second {
				t.Fatalf("expected 1s time limit, got %s", sub.TimeLimit)
			}
			if len(sub.TestCases) != 1 || sub.TestCases[0].ExpectedOutput != "olleh" {
				t.Fatalf("unexpected test cases: %+v", sub.TestCases)
			}
			if got := w.GetProcessingMessageID(); got != "msg-1" {
				t.Fatalf("expected processing message msg-1 while evaluating, got %q", got)
			}
			return verdict
		}).Times(1)
	mockResponder.EXPECT().
		PublishPayloadTaskRespond(constants.QueueMessageTypeJudge, "msg-1", "respQ", verdict).
		Return(nil).Times(1)

	w.ProcessTask("msg-1", "respQ", reverseTask())

	if got := w.GetProcessingMessageID(); got != "" {
		t.Fatalf("expected processingMessageID to be cleared, got %q", got)
	}
}

func TestProcessTask_DefaultTimeLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEvaluator := mocks.NewMockEvaluator(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	mockEvaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sub solution.Submission) solution.Verdict {
			if sub.TimeLimit != 3*time.Second {
				t.Fatalf("expected configured default time limit, got %s", sub.TimeLimit)
			}
			return solution.Verdict{}
		}).Times(1)
	mockResponder.EXPECT().PublishPayloadTaskRespond(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	task := reverseTask()
	task.TimeLimitMs = 0

	w := pipeline.NewWorker(2, mockEvaluator, mockResponder, 3*time.Second)
	w.ProcessTask("msg-2", "respQ", task)
}

func TestProcessTask_InvalidLanguage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEvaluator := mocks.NewMockEvaluator(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	mockResponder.EXPECT().
		PublishErrorToResponseQueue(constants.QueueMessageTypeJudge, "msg-lang", "respQ", gomock.Any()).
		Do(func(_, _, _ string, err error) {
			if !errors.Is(err, pkgerrors.ErrInvalidLanguageType) {
				t.Fatalf("expected ErrInvalidLanguageType, got %v", err)
			}
		}).Times(1)

	task := reverseTask()
	task.Language = "cobol"

	w := pipeline.NewWorker(3, mockEvaluator, mockResponder, constants.DefaultTimeLimit)
	w.ProcessTask("msg-lang", "respQ", task)
}

func TestProcessTask_MalformedTestValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEvaluator := mocks.NewMockEvaluator(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	mockResponder.EXPECT().
		PublishErrorToResponseQueue(constants.QueueMessageTypeJudge, "msg-bad", "respQ", gomock.Any()).
		Times(1)

	task := reverseTask()
	task.TestCases[0].Input = json.RawMessage(`{not json`)

	w := pipeline.NewWorker(4, mockEvaluator, mockResponder, constants.DefaultTimeLimit)
	w.ProcessTask("msg-bad", "respQ", task)
}

func TestProcessTask_PublishFailureIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEvaluator := mocks.NewMockEvaluator(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	mockEvaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(solution.Verdict{})
	mockResponder.EXPECT().
		PublishPayloadTaskRespond(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("channel closed"))

	w := pipeline.NewWorker(5, mockEvaluator, mockResponder, constants.DefaultTimeLimit)
	w.ProcessTask("msg-pub", "respQ", reverseTask())
}

func TestProcessTask_EvaluatorPanicRecovered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEvaluator := mocks.NewMockEvaluator(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	mockEvaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).
		Do(func(context.Context, solution.Submission) { panic("boom") })
	mockResponder.EXPECT().
		PublishErrorToResponseQueue(constants.QueueMessageTypeJudge, "msg-panic", "respQ", gomock.Any()).
		Times(1)

	w := pipeline.NewWorker(6, mockEvaluator, mockResponder, constants.DefaultTimeLimit)
	w.ProcessTask("msg-panic", "respQ", reverseTask())

	if got := w.GetProcessingMessageID(); got != "" {
		t.Fatalf("expected processingMessageID to be cleared, got %q", got)
	}
}

func TestWorkerStatus(t *testing.T) {
	w := pipeline.NewWorker(7, nil, nil, constants.DefaultTimeLimit)

	if w.GetId() != 7 {
		t.Fatalf("expected id 7, got %d", w.GetId())
	}
	if w.GetStatus() != constants.WorkerStatusIdle {
		t.Fatalf("expected new worker to be idle")
	}
	w.UpdateStatus(constants.WorkerStatusBusy)
	if w.GetStatus() != constants.WorkerStatusBusy {
		t.Fatalf("expected worker to be busy")
	}
}
