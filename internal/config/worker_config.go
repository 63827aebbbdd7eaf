package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/languages"
)

type Config struct {
	RabbitMQURL       string
	PublishChanSize   int
	ConsumeQueueName  string
	ResponseQueueName string
	MaxWorkers        int
	DefaultTimeLimit  time.Duration
	Remote            RemoteConfig
	Local             LocalConfig
}

type RemoteConfig struct {
	BaseURL string
	// Operator-pinned runtime versions. Languages without a pin are absent.
	VersionOverrides map[languages.LanguageType]string
}

type LocalConfig struct {
	Launcher  string
	NodeBin   string
	PythonBin string
}

// Interpreters maps every locally executed language to its interpreter binary.
func (lc LocalConfig) Interpreters() map[languages.LanguageType]string {
	return map[languages.LanguageType]string{
		languages.JavaScript: lc.NodeBin,
		languages.Python:     lc.PythonBin,
	}
}

func NewConfig() *Config {
	logger := logger.NewNamedLogger("config")

	_, err := os.Stat(".env")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Fatalf("failed to stat .env file with error: %v", err)
		}
	} else {
		if os.Getenv("ENV") == "PROD" {
			logger.Warn(".env file detected in production environment. This is not recommended.")
		}
		err = godotenv.Load(".env")
		if err != nil {
			logger.Fatalf("failed to load .env file with error: %v", err)
		}
	}

	rabbitmqURL, publishChanSize := rabbitmqConfig()
	workerQueueName, responseQueueName, maxWorkers := workerConfig()

	return &Config{
		RabbitMQURL:       rabbitmqURL,
		PublishChanSize:   publishChanSize,
		ConsumeQueueName:  workerQueueName,
		ResponseQueueName: responseQueueName,
		MaxWorkers:        maxWorkers,
		DefaultTimeLimit:  judgeConfig(),
		Remote:            remoteConfig(),
		Local:             localConfig(),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.NewNamedLogger("config").Warnf("%s is not set, using default value %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getIntEnvOrDefault(key string, defaultValue int, bitSize int) int {
	value := os.Getenv(key)
	if value == "" {
		logger.NewNamedLogger("config").Warnf("%s is not set, using default value %d", key, defaultValue)
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, bitSize)
	if err != nil {
		logger.NewNamedLogger("config").Fatalf("failed to parse %s with error: %v", key, err)
	}
	return int(parsed)
}

func rabbitmqConfig() (string, int) {
	logger := logger.NewNamedLogger("config")

	rabbitmqHost := getEnvOrDefault("RABBITMQ_HOST", constants.DefaultRabbitmqHost)
	rabbitmqPortStr := getEnvOrDefault("RABBITMQ_PORT", constants.DefaultRabbitmqPort)
	rabbitmqPort, err := strconv.ParseUint(rabbitmqPortStr, 10, 16)
	if err != nil {
		logger.Fatalf("failed to parse RABBITMQ_PORT with error: %v", err)
	}
	rabbitmqUser := getEnvOrDefault("RABBITMQ_USER", constants.DefaultRabbitmqUser)
	rabbitmqPassword := getEnvOrDefault("RABBITMQ_PASSWORD", constants.DefaultRabbitmqPassword)
	publishChanSize := getIntEnvOrDefault("RABBITMQ_PUBLISH_CHAN_SIZE", constants.DefaultRabbitmqPublishChanSize, 32)

	rabbitmqURL := fmt.Sprintf("amqp://%s:%s@%s:%d/", rabbitmqUser, rabbitmqPassword, rabbitmqHost, rabbitmqPort)

	return rabbitmqURL, publishChanSize
}

func workerConfig() (string, string, int) {
	workerQueueName := getEnvOrDefault("WORKER_QUEUE_NAME", constants.DefaultWorkerQueueName)
	responseQueueName := getEnvOrDefault("RESPONSE_QUEUE_NAME", constants.DefaultResponseQueueName)
	maxWorkers := getIntEnvOrDefault("MAX_WORKERS", constants.DefaultMaxWorkers, 8)

	return workerQueueName, responseQueueName, maxWorkers
}

func remoteConfig() RemoteConfig {
	baseURL := strings.TrimRight(getEnvOrDefault("PISTON_URL", constants.DefaultPistonURL), "/")

	overrides := make(map[languages.LanguageType]string)
	for _, lang := range languages.GetRemoteLanguages() {
		spec, err := lang.Spec()
		if err != nil || spec.VersionEnvKey == "" {
			continue
		}
		if version := strings.TrimSpace(os.Getenv(spec.VersionEnvKey)); version != "" {
			overrides[lang] = version
		}
	}

	return RemoteConfig{BaseURL: baseURL, VersionOverrides: overrides}
}

func localConfig() LocalConfig {
	logger := logger.NewNamedLogger("config")

	launcher := strings.ToLower(getEnvOrDefault("LOCAL_LAUNCHER", constants.DefaultLocalLauncher))
	if launcher != constants.LauncherProcess && launcher != constants.LauncherDocker {
		logger.Fatalf("LOCAL_LAUNCHER must be %q or %q, got %q",
			constants.LauncherProcess, constants.LauncherDocker, launcher)
	}

	return LocalConfig{
		Launcher:  launcher,
		NodeBin:   getEnvOrDefault("NODE_BIN", constants.DefaultNodeBin),
		PythonBin: getEnvOrDefault("PYTHON_BIN", constants.DefaultPythonBin),
	}
}

func judgeConfig() time.Duration {
	ms := getIntEnvOrDefault("DEFAULT_TIME_LIMIT_MS", int(constants.DefaultTimeLimit.Milliseconds()), 32)
	if ms <= 0 {
		return constants.DefaultTimeLimit
	}
	return time.Duration(ms) * time.Millisecond
}
