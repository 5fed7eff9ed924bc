// Package provider defines the data-provider abstraction layer. It declares
// a Provider interface, a Fetcher interface, and a central registry that
// routes data requests to the appropriate provider per model type.
package provider

import (
	"context"
	"fmt"
	"time"
)

// ModelType identifies a standard data model that a fetcher produces.
type ModelType string

const (
	// ModelTickerUniverse is the full SEC master ticker list → []models.Company.
	ModelTickerUniverse ModelType = "TickerUniverse"
	// ModelRevenueSeries is one company's quarterly revenue history → *models.RevenueSeries.
	ModelRevenueSeries ModelType = "RevenueSeries"
	// ModelValuationSnapshot is a point-in-time valuation picture → *models.ValuationSnapshot.
	ModelValuationSnapshot ModelType = "ValuationSnapshot"
	// ModelAnalystRatings is per-ticker third-party ratings → []models.AnalystRating.
	ModelAnalystRatings ModelType = "AnalystRatings"
	// ModelFilingFeed is the recent-filings feed → []models.FilingEntry.
	ModelFilingFeed ModelType = "FilingFeed"
)

// ProviderCredential describes a required credential for a provider.
type ProviderCredential struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	EnvVar      string `json:"env_var"`
}

// ProviderInfo holds metadata about a registered provider.
type ProviderInfo struct {
	Name        string               `json:"name"` // e.g., "sec", "yahoo"
	Description string               `json:"description"`
	Website     string               `json:"website"`
	Credentials []ProviderCredential `json:"credentials"`
	Models      []ModelType          `json:"models"`
}

// Provider is the interface that all data providers must implement.
// Each provider registers one or more Fetcher implementations for specific
// model types.
type Provider interface {
	// Info returns metadata about this provider.
	Info() ProviderInfo

	// Init initializes the provider with credentials and configuration.
	// Called once during registration. Returns an error if required
	// credentials are missing or invalid.
	Init(credentials map[string]string) error

	// Fetcher returns the fetcher for the given model type, or nil if unsupported.
	Fetcher(model ModelType) Fetcher

	// SupportedModels returns all model types this provider can fetch.
	SupportedModels() []ModelType

	// Ping verifies the provider's connectivity and credentials.
	Ping(ctx context.Context) error
}

// QueryParams is the generic query parameter map passed to fetchers.
type QueryParams map[string]string

// QueryParam constants for commonly used parameters.
const (
	ParamSymbol   = "symbol"
	ParamCIK      = "cik"
	ParamLimit    = "limit"
	ParamForm     = "form"
	ParamProvider = "provider"
)

// FetchResult wraps a fetcher result with metadata.
type FetchResult struct {
	Provider  string    `json:"provider"`
	Model     ModelType `json:"model"`
	Data      any       `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
	Cached    bool      `json:"cached"`
}

// Fetcher is the interface for fetching a single model type.
type Fetcher interface {
	// ModelType returns the model type this fetcher handles.
	ModelType() ModelType

	// Description returns a human-readable description of the fetcher.
	Description() string

	// RequiredParams returns the parameter keys this fetcher requires.
	RequiredParams() []string

	// OptionalParams returns the parameter keys this fetcher optionally accepts.
	OptionalParams() []string

	// Fetch retrieves data for the given query parameters. The concrete
	// type of FetchResult.Data depends on the model type (see the
	// ModelType constants above).
	Fetch(ctx context.Context, params QueryParams) (*FetchResult, error)
}

// ErrProviderNotFound is returned when a requested provider is not registered.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return fmt.Sprintf("provider %q not found", e.Name)
}

// ErrModelNotSupported is returned when a provider doesn't support a model type.
type ErrModelNotSupported struct {
	Provider string
	Model    ModelType
}

func (e *ErrModelNotSupported) Error() string {
	return fmt.Sprintf("provider %q does not support model %q", e.Provider, e.Model)
}

// ErrMissingParam is returned when a required query parameter is missing.
type ErrMissingParam struct {
	Param string
}

func (e *ErrMissingParam) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Param)
}

// ErrInvalidCredentials is returned when provider credentials are invalid.
type ErrInvalidCredentials struct {
	Provider string
	Detail   string
}

func (e *ErrInvalidCredentials) Error() string {
	return fmt.Sprintf("invalid credentials for provider %q: %s", e.Provider, e.Detail)
}

// ValidateParams checks that all required parameters are present in params.
func ValidateParams(params QueryParams, required []string) error {
	for _, key := range required {
		if v, ok := params[key]; !ok || v == "" {
			return &ErrMissingParam{Param: key}
		}
	}
	return nil
}
