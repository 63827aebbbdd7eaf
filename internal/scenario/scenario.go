// Package scenario reads judge scenario files: submissions with their tests and the verdict
// status they are expected to produce.
package scenario

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/solution"
	"github.com/pelletier/go-toml/v2"
)

// Scenario maps to one [[scenarios]] entry.
type Scenario struct {
	Description string              `toml:"description"`
	Language    string              `toml:"language"`
	TimeLimitMs int64               `toml:"time_limit_ms"`
	Code        string              `toml:"code"`
	Expect      string              `toml:"expect"`
	Signature   *solution.Signature `toml:"signature"`
	Tests       []solution.TestCase `toml:"tests"`
}

type file struct {
	Scenarios []Scenario `toml:"scenarios"`
}

var expectStatuses = []string{
	constants.VerdictStatusAccepted,
	constants.VerdictStatusPartial,
	constants.VerdictStatusWrongAnswer,
}

// Load reads and validates a scenario file.
func Load(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	scenarios, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenarios, nil
}

func Parse(data []byte) ([]Scenario, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	for i, s := range f.Scenarios {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("scenario %d (%q): %w", i+1, s.Description, err)
		}
	}
	return f.Scenarios, nil
}

func (s Scenario) validate() error {
	if strings.TrimSpace(s.Code) == "" {
		return fmt.Errorf("%w: code is empty", errors.ErrInvalidScenario)
	}
	if _, err := languages.ParseLanguageType(s.Language); err != nil {
		return err
	}
	if s.Expect == "" {
		return nil
	}
	for _, status := range expectStatuses {
		if s.Expect == status {
			return nil
		}
	}
	return fmt.Errorf("%w: expect must be one of %s, got %q",
		errors.ErrInvalidScenario, strings.Join(expectStatuses, ", "), s.Expect)
}

// Submission converts the scenario into a submission. A non-positive time limit falls back to
// defaultTimeLimit.
func (s Scenario) Submission(id string, defaultTimeLimit time.Duration) (solution.Submission, error) {
	lang, err := languages.ParseLanguageType(s.Language)
	if err != nil {
		return solution.Submission{}, err
	}

	tests := make([]solution.TestCase, len(s.Tests))
	for i, t := range s.Tests {
		tests[i] = solution.TestCase{
			Input:          solution.Normalize(t.Input),
			ExpectedOutput: solution.Normalize(t.ExpectedOutput),
		}
	}

	timeLimit := time.Duration(s.TimeLimitMs) * time.Millisecond
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimit
	}

	return solution.Submission{
		ID:         id,
		Language:   lang,
		SourceCode: s.Code,
		TestCases:  tests,
		TimeLimit:  timeLimit,
		Signature:  s.Signature,
	}, nil
}

// Matches reports whether the verdict status is what the scenario expects. A scenario without
// an expectation matches every verdict.
func (s Scenario) Matches(verdict solution.Verdict) bool {
	return s.Expect == "" || s.Expect == verdict.Status
}
