package harness

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/solution"
)

// Envelope is the single line printed by every generated entry point.
type Envelope struct {
	Result  solution.Value
	Error   string
	IsError bool
}

// ParseEnvelope decodes program output. The trimmed output must be one line holding a JSON
// object with exactly one of the result or error keys.
func ParseEnvelope(stdout string) (Envelope, error) {
	line := strings.TrimSpace(stdout)
	if line == "" {
		return Envelope{}, fmt.Errorf("%w: empty output", errors.ErrProtocolViolation)
	}
	if strings.ContainsAny(line, "\r\n") {
		return Envelope{}, fmt.Errorf("%w: more than one line of output", errors.ErrProtocolViolation)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", errors.ErrProtocolViolation, err)
	}
	if len(fields) != 1 {
		return Envelope{}, fmt.Errorf("%w: expected a single key, got %d", errors.ErrProtocolViolation, len(fields))
	}

	if raw, ok := fields[constants.EnvelopeErrorKey]; ok {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			msg = string(raw)
		}
		return Envelope{Error: msg, IsError: true}, nil
	}
	if raw, ok := fields[constants.EnvelopeResultKey]; ok {
		var result any
		if err := json.Unmarshal(raw, &result); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", errors.ErrProtocolViolation, err)
		}
		return Envelope{Result: solution.Normalize(result)}, nil
	}
	return Envelope{}, fmt.Errorf("%w: no result or error key", errors.ErrProtocolViolation)
}

// Outcome converts a parsed envelope into an execution outcome.
func (e Envelope) Outcome(elapsed *time.Duration) solution.Outcome {
	if e.IsError {
		return solution.Failure(solution.OutcomeUserCodeError, e.Error, elapsed)
	}
	return solution.Success(e.Result, elapsed)
}
