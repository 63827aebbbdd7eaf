package remote

import "github.com/mini-maxit/judge/internal/stages/harness"

// Runtime is one entry of the service's runtime catalog.
type Runtime struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases,omitempty"`
	Runtime  string   `json:"runtime,omitempty"`
}

type ExecuteRequest struct {
	Language       string         `json:"language"`
	Version        string         `json:"version"`
	Files          []harness.File `json:"files"`
	CompileTimeout int            `json:"compile_timeout"`
	RunTimeout     int            `json:"run_timeout"`
}

type StageResult struct {
	Stdout string  `json:"stdout"`
	Stderr string  `json:"stderr"`
	Output string  `json:"output"`
	Code   *int    `json:"code"`
	Signal *string `json:"signal"`
}

type ExecuteResponse struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Run      StageResult  `json:"run"`
	Compile  *StageResult `json:"compile,omitempty"`
	Message  string       `json:"message,omitempty"`
}
