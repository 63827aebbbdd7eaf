package storage

import (
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

// RuntimeVersionCache maps a language to the runtime version resolved for it.
// Entries are never evicted; concurrent writers of the same language are last-write-wins.
type RuntimeVersionCache interface {
	Get(lang languages.LanguageType) (string, bool)
	Store(lang languages.LanguageType, version string)
	Snapshot() map[languages.LanguageType]string
}

type runtimeVersionCache struct {
	logger   *zap.SugaredLogger
	versions *xsync.MapOf[languages.LanguageType, string]
}

func NewRuntimeVersionCache() RuntimeVersionCache {
	logger := logger.NewNamedLogger("runtime-cache")
	return &runtimeVersionCache{
		logger:   logger,
		versions: xsync.NewMapOf[languages.LanguageType, string](),
	}
}

func (c *runtimeVersionCache) Get(lang languages.LanguageType) (string, bool) {
	return c.versions.Load(lang)
}

func (c *runtimeVersionCache) Store(lang languages.LanguageType, version string) {
	previous, loaded := c.versions.LoadAndStore(lang, version)
	if !loaded {
		c.logger.Infof("Cached runtime version %s for %s", version, lang)
		return
	}
	if previous != version {
		c.logger.Warnf("Runtime version for %s changed from %s to %s", lang, previous, version)
	}
}

// Snapshot copies the current entries.
func (c *runtimeVersionCache) Snapshot() map[languages.LanguageType]string {
	out := make(map[languages.LanguageType]string, c.versions.Size())
	c.versions.Range(func(lang languages.LanguageType, version string) bool {
		out[lang] = version
		return true
	})
	return out
}
