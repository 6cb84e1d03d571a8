// Package seed loads catalogue fixtures from YAML and creates them through
// the management services.
//
// A fixture file looks like:
//
//	hives:
//	  - name: Main warehouse
//	    code: MAIN
//	    address: 1 Dock Road
//	    sections:
//	      - name: Cold room
//	        code: COLD
//	products:
//	  - name: Honey jar
//	    code: HJ1
//
// Records whose code already exists are skipped, so a file can be applied
// more than once.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/core/validation"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Fixture Types
// =============================================================================

// Fixture is the root of a seed file.
type Fixture struct {
	Hives    []Hive    `yaml:"hives"`
	Products []Product `yaml:"products"`
}

// Hive is a hive with its sections.
type Hive struct {
	Name     string    `yaml:"name"`
	Code     string    `yaml:"code"`
	Address  string    `yaml:"address"`
	Deleted  bool      `yaml:"deleted"`
	Sections []Section `yaml:"sections"`
}

// Section is a hive section nested under its hive.
type Section struct {
	Name    string `yaml:"name"`
	Code    string `yaml:"code"`
	Deleted bool   `yaml:"deleted"`
}

// Product is a catalogue product.
type Product struct {
	Name    string `yaml:"name"`
	Code    string `yaml:"code"`
	Deleted bool   `yaml:"deleted"`
}

// Load decodes and validates a fixture. Unknown keys are rejected.
func Load(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile opens path and decodes it with Load.
func LoadFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Load(file)
}

// Validate applies the request validation rules to every record.
func (f *Fixture) Validate() error {
	for i, h := range f.Hives {
		if field, msg := validation.ValidateHiveFields(h.Name, h.Code, h.Address); field != "" {
			return fmt.Errorf("hives[%d]: %s", i, msg)
		}
		for j, s := range h.Sections {
			// The owning hive id is not known yet; any positive id passes.
			if field, msg := validation.ValidateHiveSectionFields(s.Name, s.Code, 1); field != "" {
				return fmt.Errorf("hives[%d].sections[%d]: %s", i, j, msg)
			}
		}
	}
	for i, p := range f.Products {
		if field, msg := validation.ValidateProductFields(p.Name, p.Code); field != "" {
			return fmt.Errorf("products[%d]: %s", i, msg)
		}
	}
	return nil
}

// =============================================================================
// Apply
// =============================================================================

// HiveService is the subset of the hive service used for seeding.
type HiveService interface {
	ListHives(ctx context.Context) ([]mapping.HiveListItem, error)
	CreateHive(ctx context.Context, req mapping.UpdateHiveRequest) (mapping.HiveDetails, error)
	SetHiveStatus(ctx context.Context, id int, deleted bool) error
}

// HiveSectionService is the subset of the hive section service used for seeding.
type HiveSectionService interface {
	ListHiveSections(ctx context.Context, hiveID *int) ([]mapping.HiveSectionListItem, error)
	CreateHiveSection(ctx context.Context, req mapping.UpdateHiveSectionRequest) (mapping.HiveSectionDetails, error)
	SetHiveSectionStatus(ctx context.Context, id int, deleted bool) error
}

// ProductService is the subset of the product service used for seeding.
type ProductService interface {
	ListProducts(ctx context.Context) ([]mapping.ProductListItem, error)
	CreateProduct(ctx context.Context, req mapping.UpdateProductRequest) (mapping.ProductDetails, error)
	SetProductStatus(ctx context.Context, id int, deleted bool) error
}

// Services bundles the services a Seeder writes through.
type Services struct {
	Hives    HiveService
	Sections HiveSectionService
	Products ProductService
}

// Result counts created and skipped records.
type Result struct {
	HivesCreated    int
	HivesSkipped    int
	SectionsCreated int
	SectionsSkipped int
	ProductsCreated int
	ProductsSkipped int
}

// Seeder applies fixtures.
type Seeder struct {
	svc    Services
	logger *slog.Logger
}

// NewSeeder creates a seeder writing through svc.
func NewSeeder(svc Services, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{svc: svc, logger: logger}
}

// Apply creates every record of f whose code does not exist yet. Sections of
// an existing hive are added to that hive. The first failure stops the run;
// records created before it are kept.
func (s *Seeder) Apply(ctx context.Context, f *Fixture) (Result, error) {
	var res Result

	hiveIDs, sectionCodes, productCodes, err := s.existing(ctx)
	if err != nil {
		return res, err
	}

	for _, h := range f.Hives {
		hiveID, ok := hiveIDs[h.Code]
		if ok {
			res.HivesSkipped++
			s.logger.DebugContext(ctx, "hive exists, skipping", "code", h.Code, "id", hiveID)
		} else {
			created, err := s.svc.Hives.CreateHive(ctx, mapping.UpdateHiveRequest{Name: h.Name, Code: h.Code, Address: h.Address})
			if err != nil {
				return res, fmt.Errorf("create hive %q: %w", h.Code, err)
			}
			if h.Deleted {
				if err := s.svc.Hives.SetHiveStatus(ctx, created.ID, true); err != nil {
					return res, fmt.Errorf("soft-delete hive %q: %w", h.Code, err)
				}
			}
			hiveID = created.ID
			hiveIDs[h.Code] = hiveID
			res.HivesCreated++
		}

		for _, sec := range h.Sections {
			if sectionCodes[sec.Code] {
				res.SectionsSkipped++
				continue
			}
			created, err := s.svc.Sections.CreateHiveSection(ctx, mapping.UpdateHiveSectionRequest{Name: sec.Name, Code: sec.Code, HiveID: hiveID})
			if err != nil {
				return res, fmt.Errorf("create section %q: %w", sec.Code, err)
			}
			if sec.Deleted {
				if err := s.svc.Sections.SetHiveSectionStatus(ctx, created.ID, true); err != nil {
					return res, fmt.Errorf("soft-delete section %q: %w", sec.Code, err)
				}
			}
			sectionCodes[sec.Code] = true
			res.SectionsCreated++
		}
	}

	for _, p := range f.Products {
		if productCodes[p.Code] {
			res.ProductsSkipped++
			continue
		}
		created, err := s.svc.Products.CreateProduct(ctx, mapping.UpdateProductRequest{Name: p.Name, Code: p.Code})
		if err != nil {
			return res, fmt.Errorf("create product %q: %w", p.Code, err)
		}
		if p.Deleted {
			if err := s.svc.Products.SetProductStatus(ctx, created.ID, true); err != nil {
				return res, fmt.Errorf("soft-delete product %q: %w", p.Code, err)
			}
		}
		productCodes[p.Code] = true
		res.ProductsCreated++
	}

	s.logger.InfoContext(ctx, "fixtures applied",
		"hives_created", res.HivesCreated,
		"hives_skipped", res.HivesSkipped,
		"sections_created", res.SectionsCreated,
		"sections_skipped", res.SectionsSkipped,
		"products_created", res.ProductsCreated,
		"products_skipped", res.ProductsSkipped,
	)
	return res, nil
}

func (s *Seeder) existing(ctx context.Context) (map[string]int, map[string]bool, map[string]bool, error) {
	hives, err := s.svc.Hives.ListHives(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list hives: %w", err)
	}
	sections, err := s.svc.Sections.ListHiveSections(ctx, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list sections: %w", err)
	}
	products, err := s.svc.Products.ListProducts(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list products: %w", err)
	}

	hiveIDs := make(map[string]int, len(hives))
	for _, h := range hives {
		hiveIDs[h.Code] = h.ID
	}
	sectionCodes := make(map[string]bool, len(sections))
	for _, sec := range sections {
		sectionCodes[sec.Code] = true
	}
	productCodes := make(map[string]bool, len(products))
	for _, p := range products {
		productCodes[p.Code] = true
	}
	return hiveIDs, sectionCodes, productCodes, nil
}
