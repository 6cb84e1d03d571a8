package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/artpar/katla/internal/core/auth"
	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/shell/api/middleware"
	"github.com/artpar/katla/internal/shell/api/openapi"
	"github.com/artpar/katla/internal/shell/management"
	"github.com/artpar/katla/internal/shell/metrics"
	"github.com/artpar/katla/internal/shell/store"
	"github.com/prometheus/client_golang/prometheus"
)

// =============================================================================
// API Setup
// =============================================================================

// APIConfig holds configuration for the API setup.
type APIConfig struct {
	Store  store.Store
	Logger *slog.Logger

	// Clock stamps audit timestamps. Nil means time.Now.
	Clock func() time.Time

	// Auth configuration
	AuthMode  string // header, dev or none
	DevUserID int

	// Metrics. A nil Registerer disables instrumentation.
	Registerer  prometheus.Registerer
	Gatherer    prometheus.Gatherer
	MetricsPath string

	Version string
}

// SetupAPI wires the services, middleware and OpenAPI document into a
// single http.Handler.
func SetupAPI(cfg APIConfig) (http.Handler, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	authCfg := middleware.AuthConfig{
		Mode:      cfg.AuthMode,
		DevUserID: cfg.DevUserID,
		Logger:    cfg.Logger,
	}
	if err := authCfg.Validate(); err != nil {
		return nil, err
	}

	profile := mapping.NewProfile(cfg.Clock)
	user := auth.RequestUser{}

	hives, err := management.NewHiveService(cfg.Store, profile, user, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("hive service: %w", err)
	}
	sections, err := management.NewHiveSectionService(cfg.Store, profile, user, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("hive section service: %w", err)
	}
	products, err := management.NewProductService(cfg.Store, profile, user, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("product service: %w", err)
	}

	opts := []Option{
		WithPinger(cfg.Store),
		WithAuth(middleware.NewAuthMiddleware(authCfg).Handler),
		WithOpenAPI(NewOpenAPIGenerator(cfg.Version)),
	}
	if cfg.Registerer != nil {
		opts = append(opts, WithMetrics(metrics.New(cfg.Registerer), cfg.Gatherer, cfg.MetricsPath))
	}

	return NewHandler(hives, sections, products, cfg.Logger, opts...).Routes(), nil
}

// NewOpenAPIGenerator registers the catalogue resources with a generator.
func NewOpenAPIGenerator(version string) *openapi.Generator {
	opts := []openapi.Option{openapi.WithServer("/")}
	if version != "" {
		opts = append(opts, openapi.WithVersion(version))
	}
	gen := openapi.NewGenerator(opts...)

	gen.RegisterResource(openapi.ResourceInfo{
		Name:           "hives",
		Schema:         "Hive",
		ListItem:       mapping.HiveListItem{},
		Details:        mapping.HiveDetails{},
		Request:        mapping.UpdateHiveRequest{},
		SupportsStatus: true,
		Children:       []openapi.ChildCollection{{Name: "sections", Schema: "HiveSection"}},
	})
	gen.RegisterResource(openapi.ResourceInfo{
		Name:           "sections",
		Schema:         "HiveSection",
		ListItem:       mapping.HiveSectionListItem{},
		Details:        mapping.HiveSectionDetails{},
		Request:        mapping.UpdateHiveSectionRequest{},
		QueryParams:    []string{"hive_id"},
		SupportsStatus: true,
	})
	gen.RegisterResource(openapi.ResourceInfo{
		Name:           "products",
		Schema:         "Product",
		ListItem:       mapping.ProductListItem{},
		Details:        mapping.ProductDetails{},
		Request:        mapping.UpdateProductRequest{},
		SupportsStatus: true,
	})

	return gen
}
