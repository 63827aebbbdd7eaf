// Package remote talks to a Piston-compatible compile-and-run service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/stages/harness"
	"github.com/mini-maxit/judge/internal/storage"
	"github.com/mini-maxit/judge/pkg/constants"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/solution"
	"go.uber.org/zap"
)

type Client interface {
	Execute(ctx context.Context, lang languages.LanguageType, files []harness.File, timeLimit time.Duration) solution.Outcome
	ResolveVersion(ctx context.Context, lang languages.LanguageType) string
	Runtimes(ctx context.Context) ([]Runtime, error)
}

type client struct {
	logger     *zap.SugaredLogger
	baseURL    string
	httpClient *http.Client
	overrides  map[languages.LanguageType]string
	cache      storage.RuntimeVersionCache
}

func NewClient(
	baseURL string,
	overrides map[languages.LanguageType]string,
	cache storage.RuntimeVersionCache,
) Client {
	logger := logger.NewNamedLogger("remote-client")
	return &client{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		overrides:  overrides,
		cache:      cache,
	}
}

// RequestTimeout bounds one execute round-trip: max(5s, timeLimit+4s).
func RequestTimeout(timeLimit time.Duration) time.Duration {
	return max(constants.RemoteMinRequestTimeout, timeLimit+constants.RemoteRequestOverhead)
}

// RunTimeoutSeconds rounds the time limit up to whole seconds, at least one.
func RunTimeoutSeconds(timeLimit time.Duration) int {
	ms := timeLimit.Milliseconds()
	seconds := int((ms + 999) / 1000)
	return max(1, seconds)
}

func (c *client) Execute(
	ctx context.Context,
	lang languages.LanguageType,
	files []harness.File,
	timeLimit time.Duration,
) solution.Outcome {
	spec, err := lang.Spec()
	if err != nil || spec.Strategy != languages.StrategyRemote {
		return solution.Failure(solution.OutcomeInfrastructureError, constants.OutcomeMessageUnsupportedLanguage, nil)
	}

	version := c.ResolveVersion(ctx, lang)
	req := ExecuteRequest{
		Language:       spec.RemoteName,
		Version:        version,
		Files:          files,
		CompileTimeout: constants.RemoteCompileTimeoutMs,
		RunTimeout:     RunTimeoutSeconds(timeLimit),
	}

	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout(timeLimit))
	defer cancel()

	resp, err := c.execute(reqCtx, req)
	if err != nil {
		if reqCtx.Err() != nil {
			c.logger.Infof("Execution of %s %s hit its deadline", spec.RemoteName, version)
			return solution.Failure(solution.OutcomeTimeLimitExceeded, constants.OutcomeMessageTimeLimitExceeded, nil)
		}
		c.logger.Errorf("Execution of %s %s failed: %s", spec.RemoteName, version, err)
		return solution.Failure(solution.OutcomeInfrastructureError, constants.RemoteErrorPrefix+err.Error(), nil)
	}

	return MapResponse(resp)
}

// MapResponse converts the service response into an outcome.
func MapResponse(resp *ExecuteResponse) solution.Outcome {
	stdout := strings.TrimSpace(resp.Run.Stdout)
	diagnostic := strings.TrimSpace(resp.Run.Stderr)
	if diagnostic == "" && resp.Compile != nil {
		diagnostic = strings.TrimSpace(resp.Compile.Stderr)
	}

	if stdout == "" {
		if resp.Run.Signal != nil && *resp.Run.Signal == "SIGKILL" {
			return solution.Failure(solution.OutcomeTimeLimitExceeded, constants.OutcomeMessageTimeLimitExceeded, nil)
		}
		return solution.Failure(solution.OutcomeUserCodeError, diagnostic, nil)
	}

	envelope, err := harness.ParseEnvelope(stdout)
	if err != nil {
		if diagnostic == "" {
			diagnostic = constants.OutcomeMessageInvalidOutput
		}
		return solution.Failure(solution.OutcomeProtocolError, diagnostic, nil)
	}
	return envelope.Outcome(nil)
}

func (c *client) execute(ctx context.Context, payload ExecuteRequest) (*ExecuteResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result ExecuteResponse
	decodeErr := json.Unmarshal(respBody, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && result.Message != "" {
			return nil, errors.New(result.Message)
		}
		return nil, fmt.Errorf("%w: %s", customErr.ErrRemoteUnavailable, resp.Status)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode execute response: %w", decodeErr)
	}
	return &result, nil
}

// ResolveVersion picks the runtime version for lang: a configured override, then a cached
// resolution, then the greatest matching catalog version, then the default token. The result
// is cached unless ctx ended first. Discovery failures only cost the default token.
func (c *client) ResolveVersion(ctx context.Context, lang languages.LanguageType) string {
	spec, err := lang.Spec()
	if err != nil || spec.Strategy != languages.StrategyRemote {
		return ""
	}

	if version, ok := c.overrides[lang]; ok && version != "" {
		c.cache.Store(lang, version)
		return version
	}
	if version, ok := c.cache.Get(lang); ok {
		return version
	}

	version, err := c.discover(ctx, spec)
	if err != nil {
		c.logger.Warnf("Runtime discovery for %s failed, using %q: %s", lang, constants.DefaultRuntimeVersion, err)
		// The caller gave up; the catalog may still answer next time.
		if ctx.Err() != nil {
			return constants.DefaultRuntimeVersion
		}
		version = constants.DefaultRuntimeVersion
	}
	c.cache.Store(lang, version)
	return version
}

func (c *client) discover(ctx context.Context, spec languages.LanguageSpec) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RemoteCatalogTimeout)
	defer cancel()

	runtimes, err := c.Runtimes(ctx)
	if err != nil {
		return "", err
	}

	best := ""
	for _, r := range runtimes {
		if !spec.CatalogNames.Contains(strings.ToLower(r.Language)) || r.Version == "" {
			continue
		}
		if r.Version > best {
			best = r.Version
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: %s", customErr.ErrNoMatchingRuntime, spec.Name)
	}
	return best, nil
}

func (c *client) Runtimes(ctx context.Context) ([]Runtime, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/runtimes", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", customErr.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", customErr.ErrRemoteUnavailable, resp.Status)
	}

	var runtimes []Runtime
	if err := json.NewDecoder(resp.Body).Decode(&runtimes); err != nil {
		return nil, fmt.Errorf("%w: %w", customErr.ErrMalformedCatalog, err)
	}
	return runtimes, nil
}
