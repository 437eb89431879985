package precedent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/lexyai/drafter/internal/entity"
	"go.uber.org/zap"
)

const (
	DefaultResolverCacheSize = 64
	DefaultResolverCacheTTL  = 10 * time.Minute

	unknownContractLabel = "unknown contract type"
)

type cacheKey struct {
	id   string
	name string
}

// Resolver picks the outline a generation run drafts from.
type Resolver struct {
	lookup    LookupFunc
	cacheSize int
	cacheTTL  time.Duration
	cache     *expirable.LRU[cacheKey, *entity.PrecedentOutline]
}

type ResolverOption func(*Resolver)

// WithCache memoizes successful lookups by contract type. A size <= 0 disables caching.
func WithCache(size int, ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.cacheSize = size
		r.cacheTTL = ttl
	}
}

// NewResolver builds a resolver. With a nil lookup only prefetched outlines are used
// and no cache is kept.
func NewResolver(lookup LookupFunc, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lookup:    lookup,
		cacheSize: DefaultResolverCacheSize,
		cacheTTL:  DefaultResolverCacheTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	if lookup != nil && r.cacheSize > 0 {
		r.cache = expirable.NewLRU[cacheKey, *entity.PrecedentOutline](r.cacheSize, nil, r.cacheTTL)
	}
	return r
}

// Resolve returns the normalized outline for a contract type. When a lookup is
// configured its answer wins, even if it has nothing and an outline was prefetched.
// The outline is returned alongside ErrNoPrecedentSections so callers can report it.
func (r *Resolver) Resolve(
	ctx context.Context,
	contractTypeID string,
	contractTypeName string,
	prefetched *entity.PrecedentOutline,
) (*entity.PrecedentOutline, error) {
	raw := prefetched
	if r.lookup != nil {
		var err error
		raw, err = r.cachedLookup(ctx, contractTypeID, contractTypeName)
		if err != nil {
			return nil, fmt.Errorf("lookup precedent: %w", err)
		}
	}

	label := ContractLabel(contractTypeID, contractTypeName)
	if raw == nil {
		return nil, fmt.Errorf("no precedent outline found for %s: %w", label, entity.ErrPrecedentNotFound)
	}

	normalized := Normalize(*raw)
	if len(normalized.Sections) == 0 {
		return &normalized, fmt.Errorf("no precedent sections found for %s: %w", label, entity.ErrNoPrecedentSections)
	}
	return &normalized, nil
}

func (r *Resolver) cachedLookup(ctx context.Context, id, name string) (*entity.PrecedentOutline, error) {
	key := cacheKey{id: strings.TrimSpace(id), name: strings.TrimSpace(name)}
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			return cached, nil
		}
	}

	found, err := r.lookup(ctx, id, name)
	if err != nil {
		return nil, err
	}
	if found == nil {
		ctxzap.Debug(ctx, "precedent lookup returned nothing",
			zap.String("contract_type_id", id),
			zap.String("contract_type_name", name),
		)
		return nil, nil
	}

	if r.cache != nil {
		r.cache.Add(key, found)
	}
	return found, nil
}

// Invalidate drops every cached lookup result.
func (r *Resolver) Invalidate() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

// ContractLabel names a contract type in messages: its name, else its id.
func ContractLabel(contractTypeID, contractTypeName string) string {
	if name := strings.TrimSpace(contractTypeName); name != "" {
		return name
	}
	if id := strings.TrimSpace(contractTypeID); id != "" {
		return id
	}
	return unknownContractLabel
}

// Normalize returns a copy of o with headings and bodies trimmed and
// sections that have neither dropped.
func Normalize(o entity.PrecedentOutline) entity.PrecedentOutline {
	normalized := entity.PrecedentOutline{
		FrontMatter:  append([]string{}, o.FrontMatter...),
		Sections:     make([]entity.PrecedentSection, 0, len(o.Sections)),
		Placeholders: append([]string{}, o.Placeholders...),
	}
	if o.Title != nil {
		if title := strings.TrimSpace(*o.Title); title != "" {
			normalized.Title = &title
		}
	}

	for _, s := range o.Sections {
		heading := strings.TrimSpace(s.Heading)
		body := strings.TrimSpace(s.Body)
		if heading == "" && body == "" {
			continue
		}
		normalized.Sections = append(normalized.Sections, entity.PrecedentSection{Heading: heading, Body: body})
	}
	return normalized
}
