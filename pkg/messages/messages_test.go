package messages_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	. "github.com/mini-maxit/judge/pkg/messages"
	"github.com/mini-maxit/judge/pkg/solution"
)

func TestJudgeTask_ToSubmission(t *testing.T) {
	raw := `{
		"language": "Python3",
		"source_code": "def solve(s):\n    return s[::-1]\n",
		"time_limit_ms": 1500,
		"test_cases": [
			{"input": ["hello"], "expected_output": "olleh"},
			{"input": [[2, 7, 11, 15], 9], "expected_output": [0, 1]}
		],
		"signature": {"params": ["string"], "returns": "string"}
	}`

	var task JudgeTask
	require.NoError(t, json.Unmarshal([]byte(raw), &task))

	sub, err := task.ToSubmission(time.Second)
	require.NoError(t, err)

	assert.Equal(t, languages.Python, sub.Language)
	assert.Equal(t, 1500*time.Millisecond, sub.TimeLimit)
	assert.Empty(t, sub.ID)
	require.Len(t, sub.TestCases, 2)
	assert.Equal(t, []any{"hello"}, sub.TestCases[0].Input)
	assert.Equal(t, "olleh", sub.TestCases[0].ExpectedOutput)
	assert.Equal(t, []any{[]any{2.0, 7.0, 11.0, 15.0}, 9.0}, sub.TestCases[1].Input)
	require.NotNil(t, sub.Signature)
	assert.Equal(t, []solution.Kind{solution.KindString}, sub.Signature.Params)
}

func TestJudgeTask_ToSubmission_Defaults(t *testing.T) {
	task := JudgeTask{
		Language:   "js",
		SourceCode: "function solve(x) { return x; }",
		TestCases:  []TestCase{{}},
	}

	sub, err := task.ToSubmission(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, languages.JavaScript, sub.Language)
	assert.Equal(t, 2*time.Second, sub.TimeLimit)
	assert.Nil(t, sub.TestCases[0].Input)
	assert.Nil(t, sub.TestCases[0].ExpectedOutput)
}

func TestJudgeTask_ToSubmission_Errors(t *testing.T) {
	_, err := (&JudgeTask{Language: "brainfuck"}).ToSubmission(time.Second)
	if !errors.Is(err, pkgerrors.ErrInvalidLanguageType) {
		t.Fatalf("expected ErrInvalidLanguageType, got %v", err)
	}

	task := JudgeTask{
		Language:  "python",
		TestCases: []TestCase{{Input: json.RawMessage(`[1,`)}},
	}
	if _, err := task.ToSubmission(time.Second); err == nil {
		t.Fatalf("expected error for malformed test value")
	}
}
