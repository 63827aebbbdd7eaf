package errors

import "errors"

// Error messages.
var (
	ErrInvalidLanguageType   = errors.New("invalid language type")
	ErrUnsupportedHarness    = errors.New("language has no compiled harness")
	ErrUnsupportedDriver     = errors.New("language has no local driver")
	ErrProtocolViolation     = errors.New("output is not a single-line result envelope")
	ErrRemoteUnavailable     = errors.New("remote execution service unavailable")
	ErrMalformedCatalog      = errors.New("malformed runtime catalog")
	ErrNoMatchingRuntime     = errors.New("no matching runtime in catalog")
	ErrFailedToGetFreeWorker = errors.New("failed to get free worker")
	ErrUnknownMessageType    = errors.New("unknown message type")
	ErrContainerTimeout      = errors.New("container runtime timed out")
	ErrContainerFailed       = errors.New("container failed to execute")
	ErrUnknownLauncher       = errors.New("unknown local launcher")
	ErrInvalidSignature      = errors.New("invalid call signature")
	ErrResponderClosed       = errors.New("responder is closed")
	ErrInvalidScenario       = errors.New("invalid scenario")
)
