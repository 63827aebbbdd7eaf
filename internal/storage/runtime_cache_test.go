package storage_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/mini-maxit/judge/internal/storage"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuntimeVersionCache(t *testing.T) {
	cache := storage.NewRuntimeVersionCache()
	require.NotNil(t, cache)

	_, ok := cache.Get(languages.CPP)
	assert.False(t, ok)
	assert.Empty(t, cache.Snapshot())
}

func TestRuntimeVersionCache_StoreAndGet(t *testing.T) {
	cache := storage.NewRuntimeVersionCache()

	cache.Store(languages.CPP, "10.2.0")
	cache.Store(languages.Rust, "1.68.2")

	version, ok := cache.Get(languages.CPP)
	require.True(t, ok)
	assert.Equal(t, "10.2.0", version)

	_, ok = cache.Get(languages.Java)
	assert.False(t, ok)

	assert.Equal(t, map[languages.LanguageType]string{
		languages.CPP:  "10.2.0",
		languages.Rust: "1.68.2",
	}, cache.Snapshot())
}

func TestRuntimeVersionCache_LastWriteWins(t *testing.T) {
	cache := storage.NewRuntimeVersionCache()
	cache.Store(languages.Java, "15.0.2")
	cache.Store(languages.Java, "latest")

	version, ok := cache.Get(languages.Java)
	require.True(t, ok)
	assert.Equal(t, "latest", version)
}

func TestRuntimeVersionCache_ConcurrentWriters(t *testing.T) {
	cache := storage.NewRuntimeVersionCache()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache.Store(languages.CPP, "10.2.0")
			cache.Store(languages.Rust, fmt.Sprintf("1.%d.0", i%2))
			_, _ = cache.Get(languages.CPP)
		}(i)
	}
	wg.Wait()

	version, ok := cache.Get(languages.CPP)
	require.True(t, ok)
	assert.Equal(t, "10.2.0", version)

	rust, ok := cache.Get(languages.Rust)
	require.True(t, ok)
	assert.Contains(t, []string{"1.0.0", "1.1.0"}, rust)
}
