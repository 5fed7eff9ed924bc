package provider

import (
	"context"
	"testing"
	"time"
)

// mockFetcher implements the Fetcher interface for testing.
type mockFetcher struct {
	BaseFetcher
	fetchFn func(ctx context.Context, params QueryParams) (*FetchResult, error)
}

func newMockFetcher(model ModelType, required []string) *mockFetcher {
	return &mockFetcher{
		BaseFetcher: NewBaseFetcher(model, "mock fetcher for "+string(model), required, nil),
	}
}

func (m *mockFetcher) Fetch(ctx context.Context, params QueryParams) (*FetchResult, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, params)
	}
	return &FetchResult{
		Data:      "mock-data",
		FetchedAt: time.Now(),
	}, nil
}

// mockProvider implements the Provider interface for testing.
type mockProvider struct {
	BaseProvider
}

func newMockProvider(name string, models ...ModelType) *mockProvider {
	mp := &mockProvider{
		BaseProvider: NewBaseProvider(name, "Mock "+name, "https://example.com", nil),
	}
	for _, m := range models {
		mp.RegisterFetcher(newMockFetcher(m, []string{ParamSymbol}))
	}
	return mp
}

// --- Registry Tests ---

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	p := newMockProvider("test-provider", ModelValuationSnapshot, ModelRevenueSeries)

	if err := p.Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := reg.Get("test-provider")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Info().Name != "test-provider" {
		t.Errorf("expected name test-provider, got %s", got.Info().Name)
	}
}

func TestRegistryGetNotFound(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Get("nonexistent")
	if err == nil {
		t.Fatal("expected error for nonexistent provider")
	}
	if _, ok := err.(*ErrProviderNotFound); !ok {
		t.Errorf("expected ErrProviderNotFound, got %T", err)
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(newMockProvider("beta", ModelValuationSnapshot))
	_ = reg.Register(newMockProvider("alpha", ModelRevenueSeries))

	list := reg.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(list))
	}
	// Should be sorted alphabetically.
	if list[0].Name != "alpha" {
		t.Errorf("expected first provider 'alpha', got %s", list[0].Name)
	}
	if list[1].Name != "beta" {
		t.Errorf("expected second provider 'beta', got %s", list[1].Name)
	}
}

func TestRegistryProvidersFor(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(newMockProvider("p1", ModelValuationSnapshot, ModelAnalystRatings))
	_ = reg.Register(newMockProvider("p2", ModelValuationSnapshot))
	_ = reg.Register(newMockProvider("p3", ModelAnalystRatings))

	provs := reg.ProvidersFor(ModelValuationSnapshot)
	if len(provs) != 2 {
		t.Fatalf("expected 2 providers for ValuationSnapshot, got %d", len(provs))
	}

	provs = reg.ProvidersFor(ModelAnalystRatings)
	if len(provs) != 2 {
		t.Fatalf("expected 2 providers for AnalystRatings, got %d", len(provs))
	}

	provs = reg.ProvidersFor(ModelFilingFeed)
	if len(provs) != 0 {
		t.Fatalf("expected 0 providers for FilingFeed, got %d", len(provs))
	}
}

func TestRegistryFetch(t *testing.T) {
	reg := NewRegistry()
	p := newMockProvider("p1", ModelValuationSnapshot)
	_ = reg.Register(p)

	res, err := reg.Fetch(context.Background(), ModelValuationSnapshot, QueryParams{ParamSymbol: "ACME"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if res.Provider != "p1" {
		t.Errorf("expected provider p1, got %s", res.Provider)
	}
	if res.Model != ModelValuationSnapshot {
		t.Errorf("expected model ValuationSnapshot, got %s", res.Model)
	}
}

func TestRegistryFetchMissingParam(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(newMockProvider("p1", ModelValuationSnapshot))

	_, err := reg.Fetch(context.Background(), ModelValuationSnapshot, QueryParams{})
	if err == nil {
		t.Fatal("expected error for missing symbol param")
	}
	if _, ok := err.(*ErrMissingParam); !ok {
		t.Errorf("expected ErrMissingParam, got %T", err)
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey(ModelRevenueSeries, QueryParams{ParamSymbol: "ACME", ParamCIK: "0000000001"})
	b := CacheKey(ModelRevenueSeries, QueryParams{ParamCIK: "0000000001", ParamSymbol: "ACME"})
	if a != b {
		t.Errorf("cache keys differ for same params: %q vs %q", a, b)
	}
}

func TestCacheKeyIgnoresProvider(t *testing.T) {
	a := CacheKey(ModelRevenueSeries, QueryParams{ParamSymbol: "ACME"})
	b := CacheKey(ModelRevenueSeries, QueryParams{ParamSymbol: "ACME", ParamProvider: "sec"})
	if a != b {
		t.Errorf("provider param should not affect cache key: %q vs %q", a, b)
	}
}
