package constants

import "time"

// Queue message types.
const (
	QueueMessageTypeJudge     = "judge"
	QueueMessageTypeHandshake = "handshake"
	QueueMessageTypeStatus    = "status"
)

// Verdict statuses.
const (
	VerdictStatusAccepted    = "Accepted"
	VerdictStatusPartial     = "Partial"
	VerdictStatusWrongAnswer = "Wrong Answer"
)

// Outcome messages.
const (
	OutcomeMessageTimeLimitExceeded   = "Time Limit Exceeded"
	OutcomeMessageRuntimeError        = "Runtime Error"
	OutcomeMessageInvalidOutput       = "Invalid output"
	OutcomeMessageUnsupportedLanguage = "Unsupported language"
	OutcomeMessageMissingEntryPoint   = "No solve() function exported"
	RemoteErrorPrefix                 = "Piston: "
)

// SolutionResult messages.
const (
	SolutionMessageSuccess       = "all test cases passed"
	SolutionMessageInternalError = "internal error occurred"
)

// Harness wire contract.
const (
	EnvelopeResultKey = "__result"
	EnvelopeErrorKey  = "__error"
	EntryPointName    = "solve"
)

// Worker specific constants.
type WorkerStatus int

const (
	WorkerStatusIdle WorkerStatus = iota
	WorkerStatusBusy
)

func (ws WorkerStatus) String() string {
	if ws == WorkerStatusBusy {
		return "busy"
	}
	return "idle"
}

// Timing.
const (
	DefaultTimeLimit        = 2000 * time.Millisecond
	DeadlineGrace           = 1500 * time.Millisecond
	RemoteMinRequestTimeout = 5 * time.Second
	RemoteRequestOverhead   = 4 * time.Second
	RemoteCatalogTimeout    = 8 * time.Second
	RemoteCompileTimeoutMs  = 10000
	ProcessWaitDelay        = 500 * time.Millisecond
	ContainerCleanupTimeout = 10 * time.Second
	ImagePullTimeout        = 10 * time.Minute
)

// Remote runtime resolution.
const (
	DefaultRuntimeVersion = "latest"
)

// Configuration constants.
const (
	DefaultRabbitmqHost            = "localhost"
	DefaultRabbitmqUser            = "guest"
	DefaultRabbitmqPassword        = "guest"
	DefaultRabbitmqPort            = "5672"
	DefaultWorkerQueueName         = "judge_queue"
	DefaultResponseQueueName       = "judge_results"
	DefaultRabbitmqPublishChanSize = 100
	DefaultMaxWorkers              = 10
	DefaultPistonURL               = "https://emkc.org/api/v2/piston"
	DefaultNodeBin                 = "node"
	DefaultPythonBin               = "python3"
	DefaultLocalLauncher           = LauncherProcess
	DefaultLogLevel                = "info"
)

// Local launchers.
const (
	LauncherProcess = "process"
	LauncherDocker  = "docker"
)

// Docker execution constants.
const (
	ContainerMemoryBytes int64 = 256 * 1024 * 1024
	ContainerPidsLimit   int64 = 64
	ContainerNamePrefix        = "judge-"
)

// Per stream cap on captured program output.
const MaxCapturedOutputBytes = 1 << 20

// RabbitMQ specific constants.
const (
	RabbitMQReconnectTries  = 10
	RabbitMQMaxPriority     = 3
	RabbitMQRequeuePriority = 2
)
