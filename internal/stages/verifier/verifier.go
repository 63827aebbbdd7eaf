package verifier

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/solution"
)

// Equal reports canonical deep equality of two test values. Sequences compare element by
// element in order and strings compare case-sensitively.
func Equal(got, expected solution.Value) bool {
	return cmp.Equal(solution.Normalize(got), solution.Normalize(expected))
}

// Diff describes how got differs from expected, or returns "" when they are equal.
func Diff(got, expected solution.Value) string {
	return cmp.Diff(solution.Normalize(expected), solution.Normalize(got))
}

// EvaluateTestCase derives the result of one test (index is 1-based). An outcome carrying
// an error never passes and never reports a value.
func EvaluateTestCase(index int, tc solution.TestCase, outcome solution.Outcome) solution.TestResult {
	result := solution.TestResult{
		Index:    index,
		Input:    tc.Input,
		Expected: tc.ExpectedOutput,
	}
	if outcome.Elapsed != nil {
		ms := outcome.Elapsed.Milliseconds()
		result.ElapsedMs = &ms
	}

	if outcome.Failed() {
		result.ErrorMessage = outcome.Error
		result.StatusCode = statusForKind(outcome.Kind)
		return result
	}

	result.Got = outcome.Result
	if Equal(outcome.Result, tc.ExpectedOutput) {
		result.Passed = true
		result.StatusCode = solution.TestCasePassed
	} else {
		result.StatusCode = solution.WrongAnswer
	}
	return result
}

func statusForKind(kind solution.OutcomeKind) solution.TestCaseStatus {
	switch kind {
	case solution.OutcomeTimeLimitExceeded:
		return solution.TimeLimitExceeded
	case solution.OutcomeProtocolError:
		return solution.ProtocolError
	case solution.OutcomeInfrastructureError:
		return solution.InternalError
	default:
		return solution.RuntimeError
	}
}

// Status classifies a run: Accepted when every test passed (including zero tests), Wrong
// Answer when none did, Partial otherwise.
func Status(passed, total int) string {
	switch {
	case passed == total:
		return constants.VerdictStatusAccepted
	case passed == 0:
		return constants.VerdictStatusWrongAnswer
	default:
		return constants.VerdictStatusPartial
	}
}

// Aggregate builds the verdict from per-test results, keeping their order.
func Aggregate(results []solution.TestResult) solution.Verdict {
	if results == nil {
		results = []solution.TestResult{}
	}

	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}

	verdict := solution.Verdict{
		Total:   len(results),
		Passed:  passed,
		Results: results,
		Status:  Status(passed, len(results)),
	}
	verdict.Message = Summary(verdict)
	return verdict
}

// Summary renders a one-line description such as "1. passed, 2. time limit exceeded.".
func Summary(verdict solution.Verdict) string {
	if verdict.Passed == verdict.Total {
		return constants.SolutionMessageSuccess
	}

	parts := make([]string, len(verdict.Results))
	for i, r := range verdict.Results {
		parts[i] = fmt.Sprintf("%d. %s", r.Index, r.StatusCode)
	}
	return strings.Join(parts, ", ") + "."
}
