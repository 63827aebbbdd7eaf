package solution

import (
	"time"

	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/languages"
)

// Value is a JSON-shaped test value: float64, string, bool, nil or []any.
type Value = any

type TestCase struct {
	Input          Value `json:"input" toml:"input"`
	ExpectedOutput Value `json:"expected_output" toml:"output"`
}

// Submission is one judge request. It carries no state beyond the verdict it produces.
type Submission struct {
	// ID correlates log lines; it has no effect on judging.
	ID         string
	Language   languages.LanguageType
	SourceCode string
	TestCases  []TestCase
	TimeLimit  time.Duration
	// Signature, when set, replaces input-shape detection in the compiled harnesses.
	Signature *Signature
}

type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	// Means the user function raised, panicked or was not found.
	OutcomeUserCodeError
	// Means the execution was forcibly terminated after its deadline.
	OutcomeTimeLimitExceeded
	// Means the output was not the single-line result envelope.
	OutcomeProtocolError
	// Means the remote service or local launcher could not run the program.
	OutcomeInfrastructureError
)

// Outcome is the normalized result of running one test case.
// Exactly one of Result and Error is meaningful; Failed reports which.
type Outcome struct {
	Result  Value
	Error   string
	Elapsed *time.Duration
	Kind    OutcomeKind
}

func (o Outcome) Failed() bool {
	return o.Error != ""
}

func Success(result Value, elapsed *time.Duration) Outcome {
	return Outcome{Result: Normalize(result), Elapsed: elapsed, Kind: OutcomeOK}
}

func Failure(kind OutcomeKind, message string, elapsed *time.Duration) Outcome {
	if message == "" {
		message = constants.OutcomeMessageRuntimeError
	}
	return Outcome{Error: message, Elapsed: elapsed, Kind: kind}
}

type TestCaseStatus int

const (
	// Means that the test case passed.
	TestCasePassed TestCaseStatus = iota + 1
	// Means the result differs from the expected output.
	WrongAnswer
	// Means that user code raised or the entry point was missing.
	RuntimeError
	// Means that the solution timed out.
	TimeLimitExceeded
	// Means that the program did not print a valid result envelope.
	ProtocolError
	// Means that the judge could not run the program.
	InternalError
)

func (s TestCaseStatus) String() string {
	switch s {
	case TestCasePassed:
		return "passed"
	case WrongAnswer:
		return "wrong answer"
	case RuntimeError:
		return "runtime error"
	case TimeLimitExceeded:
		return "time limit exceeded"
	case ProtocolError:
		return "invalid output"
	case InternalError:
		return "internal error"
	default:
		return "unknown"
	}
}

type TestResult struct {
	Index        int            `json:"test"`
	Input        Value          `json:"input"`
	Expected     Value          `json:"expected"`
	Got          Value          `json:"got"`
	ErrorMessage string         `json:"error,omitempty"`
	ElapsedMs    *int64         `json:"time_ms"`
	Passed       bool           `json:"pass"`
	StatusCode   TestCaseStatus `json:"status_code"`
}

// Verdict aggregates the test results of one submission, in test order.
type Verdict struct {
	Total   int          `json:"total"`
	Passed  int          `json:"passed"`
	Results []TestResult `json:"results"`
	Status  string       `json:"status"`
	Message string       `json:"message"`
}
