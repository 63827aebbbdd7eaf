package responder_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/mock/gomock"

	"github.com/mini-maxit/judge/tests/mocks"

	. "github.com/mini-maxit/judge/internal/rabbitmq/responder"
	"github.com/mini-maxit/judge/pkg/constants"
	pkgerrors "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/messages"
	"github.com/mini-maxit/judge/pkg/solution"
)

func decodeResponse(t *testing.T, pub amqp.Publishing) messages.ResponseQueueMessage {
	t.Helper()
	var resp messages.ResponseQueueMessage
	if err := json.Unmarshal(pub.Body, &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp
}

func TestPublishErrorToResponseQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	r := NewResponder(mockCh, 10)
	defer func() {
		if err := r.Close(); err != nil {
			t.Fatalf("failed to close responder: %v", err)
		}
	}()

	testErr := errors.New("some error")

	mockCh.EXPECT().Publish("", "resp-queue", false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).Do(
		func(_ string, _ string, _ bool, _ bool, pub amqp.Publishing) {
			resp := decodeResponse(t, pub)
			if resp.Type != "err-type" || resp.MessageID != "mid-1" {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
			if resp.Ok {
				t.Fatalf("expected Ok=false for error response")
			}
			if pub.CorrelationId != "mid-1" {
				t.Fatalf("expected correlation id mid-1, got %q", pub.CorrelationId)
			}
			var payload map[string]string
			if err := json.Unmarshal(resp.Payload, &payload); err != nil {
				t.Fatalf("failed to unmarshal payload: %v", err)
			}
			if payload["error"] != testErr.Error() {
				t.Fatalf("expected payload error %s got %s", testErr.Error(), payload["error"])
			}
		}).Return(nil).Times(1)

	r.PublishErrorToResponseQueue("err-type", "mid-1", "resp-queue", testErr)
}

func TestPublishRespondHelpers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	r := NewResponder(mockCh, 10)
	defer func() {
		if err := r.Close(); err != nil {
			t.Fatalf("failed to close responder: %v", err)
		}
	}()

	// Status
	statusPayload := messages.StatusPayload{
		BusyWorkers:  1,
		TotalWorkers: 3,
		WorkerStatus: map[int]string{0: "idle"},
	}
	mockCh.EXPECT().Publish("", "status-queue", false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).Do(
		func(_ string, _ string, _ bool, _ bool, pub amqp.Publishing) {
			resp := decodeResponse(t, pub)
			if !resp.Ok {
				t.Fatalf("expected Ok=true for status response")
			}
			var got messages.StatusPayload
			if err := json.Unmarshal(resp.Payload, &got); err != nil {
				t.Fatalf("failed to unmarshal payload: %v", err)
			}
			if got.WorkerStatus[0] != "idle" || got.TotalWorkers != 3 {
				t.Fatalf("unexpected status payload: %+v", got)
			}
		}).Return(nil).Times(1)

	if err := r.PublishSuccessStatusRespond(constants.QueueMessageTypeStatus, "sid", "status-queue", statusPayload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Handshake
	langs := languages.GetSupportedLanguages(map[languages.LanguageType]string{languages.Rust: "1.68.2"})
	mockCh.EXPECT().Publish("", "hs-queue", false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).Do(
		func(_ string, _ string, _ bool, _ bool, pub amqp.Publishing) {
			resp := decodeResponse(t, pub)
			var got messages.HandshakePayload
			if err := json.Unmarshal(resp.Payload, &got); err != nil {
				t.Fatalf("failed to unmarshal handshake payload: %v", err)
			}
			if len(got.Languages) != len(langs) {
				t.Fatalf("expected %d languages, got %d", len(langs), len(got.Languages))
			}
		}).Return(nil).Times(1)

	if err := r.PublishSuccessHandshakeRespond(constants.QueueMessageTypeHandshake, "hid", "hs-queue", langs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Verdict
	verdict := solution.Verdict{
		Total:  2,
		Passed: 1,
		Status: constants.VerdictStatusPartial,
		Results: []solution.TestResult{
			{Index: 1, Passed: true, StatusCode: solution.TestCasePassed, Got: "olleh"},
			{Index: 2, StatusCode: solution.RuntimeError, ErrorMessage: "boom"},
		},
	}
	mockCh.EXPECT().Publish("", "task-queue", false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).Do(
		func(_ string, _ string, _ bool, _ bool, pub amqp.Publishing) {
			resp := decodeResponse(t, pub)
			if !resp.Ok {
				t.Fatalf("expected Ok=true for verdict response")
			}
			var got solution.Verdict
			if err := json.Unmarshal(resp.Payload, &got); err != nil {
				t.Fatalf("failed to unmarshal verdict: %v", err)
			}
			if got.Status != constants.VerdictStatusPartial || len(got.Results) != 2 {
				t.Fatalf("unexpected verdict: %+v", got)
			}
			if got.Results[1].ErrorMessage != "boom" || got.Results[1].Got != nil {
				t.Fatalf("unexpected failing result: %+v", got.Results[1])
			}
		}).Return(nil).Times(1)

	if err := r.PublishPayloadTaskRespond(constants.QueueMessageTypeJudge, "tid", "task-queue", verdict); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPublish_ConcurrentHighLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	r := NewResponder(mockCh, 1000)
	defer func() {
		if err := r.Close(); err != nil {
			t.Fatalf("failed to close responder: %v", err)
		}
	}()

	const n = 200

	var mu sync.Mutex
	received := make(map[string]struct{})
	mockCh.EXPECT().Publish("", "q-heavy", false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).Do(
		func(_ string, _ string, _ bool, _ bool, pub amqp.Publishing) {
			mu.Lock()
			received[string(pub.Body)] = struct{}{}
			mu.Unlock()
			time.Sleep(time.Millisecond)
		}).Return(nil).Times(n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func(i int) {
			defer wg.Done()
			body := []byte(fmt.Sprintf("msg-%d", i))
			if err := r.Publish("q-heavy", amqp.Publishing{ContentType: "text/plain", Body: body}); err != nil {
				t.Errorf("Publish returned error: %v", err)
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatalf("timed out waiting for concurrent publishes to finish")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != n {
		t.Fatalf("expected %d published messages, got %d", n, len(received))
	}
}

func TestPublish_ReturnsChannelError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	r := NewResponder(mockCh, 10)
	defer func() {
		if err := r.Close(); err != nil {
			t.Fatalf("failed to close responder: %v", err)
		}
	}()

	expectedErr := errors.New("publish failed")
	mockCh.EXPECT().Publish(
		"", "err-q", false, false, gomock.AssignableToTypeOf(amqp.Publishing{}),
	).Return(expectedErr).Times(1)

	err := r.Publish("err-q", amqp.Publishing{Body: []byte("x")})
	if err == nil || err.Error() != expectedErr.Error() {
		t.Fatalf("expected error %v got %v", expectedErr, err)
	}
}

func TestClose_PreventsPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	r := NewResponder(mockCh, 10)

	if err := r.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("expected a second close to be a no-op, got %v", err)
	}

	err := r.Publish("any", amqp.Publishing{Body: []byte("x")})
	if !errors.Is(err, pkgerrors.ErrResponderClosed) {
		t.Fatalf("expected ErrResponderClosed got %v", err)
	}
}
