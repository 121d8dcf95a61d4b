// ABOUTME: Shared fixtures for core tests
// ABOUTME: A keyword-driven fake embedder and in-memory store constructor
package core

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/internal/embedding"
	"github.com/harper/omnirecall/internal/storage/sqlite"
)

var quietLogger = log.New(io.Discard)

// keywordEmbedder maps text to 3-d vectors by keyword:
// "alpha" -> x axis, "bravo" -> y axis, "charlie" -> z axis.
// Text containing "FAIL" returns a network error.
type keywordEmbedder struct {
	mu    sync.Mutex
	calls int
	dim   int
	// wrongDim, when set, makes texts containing "WRONG" return a 2-d vector
	wrongDim bool
}

func newKeywordEmbedder() *keywordEmbedder {
	return &keywordEmbedder{dim: 3}
}

func (k *keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	k.mu.Lock()
	k.calls++
	k.mu.Unlock()

	if strings.Contains(text, "FAIL") {
		return nil, &embedding.Error{Kind: embedding.KindNetworkError, Provider: "fake"}
	}
	if k.wrongDim && strings.Contains(text, "WRONG") {
		return []float32{1, 0}, nil
	}

	lower := strings.ToLower(text)
	vec := []float32{0, 0, 0}
	if strings.Contains(lower, "alpha") {
		vec[0] = 1
	}
	if strings.Contains(lower, "bravo") {
		vec[1] = 1
	}
	if strings.Contains(lower, "charlie") {
		vec[2] = 1
	}
	if vec[0] == 0 && vec[1] == 0 && vec[2] == 0 {
		vec = []float32{0.1, 0.1, 0.1}
	}
	return vec, nil
}

func (k *keywordEmbedder) Dimension() int {
	return k.dim
}

func (k *keywordEmbedder) callCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.calls
}

// fixedEmbedder always returns the same vector or error
type fixedEmbedder struct {
	vec []float32
	err error
}

func (f fixedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

func (f fixedEmbedder) Dimension() int {
	return len(f.vec)
}

func newTestStore(t *testing.T) *sqlite.ChunkStore {
	t.Helper()
	store, err := sqlite.NewChunkStoreInMemory()
	if err != nil {
		t.Fatalf("NewChunkStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
