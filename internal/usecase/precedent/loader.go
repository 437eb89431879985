package precedent

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/pkg/outline"
	"go.uber.org/zap"
)

// DefaultLoaderCacheSize is the number of parsed precedent files kept in memory.
const DefaultLoaderCacheSize = 32

// ParseFunc turns a precedent file into its outline.
type ParseFunc func(path string) (entity.PrecedentOutline, error)

// Loader parses precedent files and memoizes the outlines by path.
// Failed parses are not cached, so a fixed file is picked up on the next call.
type Loader struct {
	cache *lru.Cache[string, *entity.PrecedentOutline]
	parse ParseFunc
}

type LoaderOption func(*Loader)

// WithParseFunc replaces the .docx parser.
func WithParseFunc(fn ParseFunc) LoaderOption {
	return func(l *Loader) {
		l.parse = fn
	}
}

func NewLoader(size int, opts ...LoaderOption) (*Loader, error) {
	if size <= 0 {
		size = DefaultLoaderCacheSize
	}
	cache, err := lru.New[string, *entity.PrecedentOutline](size)
	if err != nil {
		return nil, fmt.Errorf("create outline cache: %w", err)
	}

	l := &Loader{
		cache: cache,
		parse: outline.FromFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Load returns the outline of the precedent at path. Two concurrent misses for
// the same path may both parse it; the result is the same either way.
func (l *Loader) Load(ctx context.Context, path string) (*entity.PrecedentOutline, error) {
	key := filepath.Clean(path)
	if cached, ok := l.cache.Get(key); ok {
		ctxzap.Debug(ctx, "precedent outline cache hit", zap.String("path", key))
		return cached, nil
	}

	parsed, err := l.parse(key)
	if err != nil {
		return nil, fmt.Errorf("load precedent %s: %w", key, err)
	}

	ctxzap.Info(ctx, "precedent outline parsed",
		zap.String("path", key),
		zap.Int("sections", len(parsed.Sections)),
		zap.Int("placeholders", len(parsed.Placeholders)),
	)

	l.cache.Add(key, &parsed)
	return &parsed, nil
}

// Len reports how many outlines are cached.
func (l *Loader) Len() int {
	return l.cache.Len()
}

// Purge drops all cached outlines.
func (l *Loader) Purge() {
	l.cache.Purge()
}
