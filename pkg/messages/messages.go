package messages

import (
	"encoding/json"
	"time"

	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/solution"
)

type QueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Payload   json.RawMessage `json:"payload"`
}

type ResponseQueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Ok        bool            `json:"ok"`
	Payload   json.RawMessage `json:"payload"`
}

type TestCase struct {
	Input          json.RawMessage `json:"input"`
	ExpectedOutput json.RawMessage `json:"expected_output"`
}

type JudgeTask struct {
	Language    string              `json:"language"`
	SourceCode  string              `json:"source_code"`
	TimeLimitMs int64               `json:"time_limit_ms"`
	TestCases   []TestCase          `json:"test_cases"`
	Signature   *solution.Signature `json:"signature,omitempty"`
}

// ToSubmission decodes the task into a Submission. A non-positive time limit is replaced by
// defaultTimeLimit.
func (t *JudgeTask) ToSubmission(defaultTimeLimit time.Duration) (solution.Submission, error) {
	lang, err := languages.ParseLanguageType(t.Language)
	if err != nil {
		return solution.Submission{}, err
	}

	testCases := make([]solution.TestCase, len(t.TestCases))
	for i, tc := range t.TestCases {
		input, err := decodeValue(tc.Input)
		if err != nil {
			return solution.Submission{}, err
		}
		expected, err := decodeValue(tc.ExpectedOutput)
		if err != nil {
			return solution.Submission{}, err
		}
		testCases[i] = solution.TestCase{Input: input, ExpectedOutput: expected}
	}

	timeLimit := time.Duration(t.TimeLimitMs) * time.Millisecond
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimit
	}

	return solution.Submission{
		Language:   lang,
		SourceCode: t.SourceCode,
		TestCases:  testCases,
		TimeLimit:  timeLimit,
		Signature:  t.Signature,
	}, nil
}

func decodeValue(raw json.RawMessage) (solution.Value, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return solution.Normalize(v), nil
}

type StatusPayload struct {
	BusyWorkers  int            `json:"busy_workers"`
	TotalWorkers int            `json:"total_workers"`
	WorkerStatus map[int]string `json:"worker_status"`
}

type HandshakePayload struct {
	Languages []languages.LanguageInfo `json:"languages"`
}
