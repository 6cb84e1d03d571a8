// Package openapi builds an OpenAPI 3.0 document for the catalogue API by
// reflecting on the request and response shapes of each resource.
package openapi

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

// =============================================================================
// Generator
// =============================================================================

// Generator produces OpenAPI 3.0 specifications from registered resources.
type Generator struct {
	title       string
	version     string
	description string
	basePath    string
	servers     []string
	resources   []ResourceInfo
	mu          sync.RWMutex
	cachedSpec  *openapi3.T
}

// ResourceInfo describes one resource collection.
type ResourceInfo struct {
	Name           string // Path segment, e.g. "hives"
	Schema         string // Schema name prefix, e.g. "Hive"
	ListItem       any    // Shape of list entries
	Details        any    // Shape returned by get, create and update
	Request        any    // Body accepted by create and update
	QueryParams    []string
	SupportsStatus bool // PUT /{id}/status/{deleted}
	Children       []ChildCollection
}

// ChildCollection is a read-only listing nested under a resource item,
// e.g. GET /hives/{id}/sections.
type ChildCollection struct {
	Name   string // Path segment
	Schema string // Schema name prefix of the listed items
}

// Option configures the generator.
type Option func(*Generator)

// WithTitle sets the API title.
func WithTitle(title string) Option {
	return func(g *Generator) {
		g.title = title
	}
}

// WithVersion sets the API version.
func WithVersion(version string) Option {
	return func(g *Generator) {
		g.version = version
	}
}

// WithDescription sets the API description.
func WithDescription(description string) Option {
	return func(g *Generator) {
		g.description = description
	}
}

// WithServer adds a server URL.
func WithServer(url string) Option {
	return func(g *Generator) {
		g.servers = append(g.servers, url)
	}
}

// WithBasePath sets the prefix of every resource path.
func WithBasePath(path string) Option {
	return func(g *Generator) {
		g.basePath = strings.TrimSuffix(path, "/")
	}
}

// NewGenerator creates a new OpenAPI generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		title:       "Katla API",
		version:     "1.0.0",
		description: "Hive, hive section and catalogue product administration",
		basePath:    "/api/v1",
		resources:   make([]ResourceInfo, 0),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// RegisterResource adds a resource to the generator for spec generation.
func (g *Generator) RegisterResource(info ResourceInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resources = append(g.resources, info)
	g.cachedSpec = nil
}

// Generate produces the complete OpenAPI 3.0 specification.
func (g *Generator) Generate() *openapi3.T {
	g.mu.RLock()
	if g.cachedSpec != nil {
		spec := g.cachedSpec
		g.mu.RUnlock()
		return spec
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	// Double-check after acquiring write lock
	if g.cachedSpec != nil {
		return g.cachedSpec
	}

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       g.title,
			Version:     g.version,
			Description: g.description,
		},
		Servers: make(openapi3.Servers, 0, len(g.servers)),
		Paths:   &openapi3.Paths{},
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	for _, url := range g.servers {
		spec.Servers = append(spec.Servers, &openapi3.Server{URL: url})
	}

	g.addCommonSchemas(spec)

	// Schemas first so that paths can reference any resource's shapes.
	for _, res := range g.resources {
		g.addResourceSchemas(spec, res)
	}
	for _, res := range g.resources {
		g.addResourcePaths(spec, res)
	}

	g.cachedSpec = spec
	return spec
}

// Handler returns an HTTP handler that serves the OpenAPI specification.
func (g *Generator) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec := g.Generate()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		if err := json.NewEncoder(w).Encode(spec); err != nil {
			http.Error(w, "Failed to encode OpenAPI spec", http.StatusInternalServerError)
		}
	}
}

// =============================================================================
// Schema Generation
// =============================================================================

func (g *Generator) addCommonSchemas(spec *openapi3.T) {
	spec.Components.Schemas["Error"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": &openapi3.SchemaRef{
					Value: &openapi3.Schema{Type: &openapi3.Types{"string"}},
				},
				"code": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type: &openapi3.Types{"string"},
						Enum: []any{
							"validation_error",
							"unauthorized",
							"hive_not_found",
							"hive_section_not_found",
							"product_not_found",
							"code_conflict",
							"not_soft_deleted",
							"internal_error",
						},
					},
				},
			},
			Required: []string{"error", "code"},
		},
	}
}

// ref returns a reference to a component schema. The resolved value is kept
// alongside the reference so the document validates without a loader.
func ref(spec *openapi3.T, name string) *openapi3.SchemaRef {
	var value *openapi3.Schema
	if s, ok := spec.Components.Schemas[name]; ok {
		value = s.Value
	}
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name, Value: value}
}

func arrayOf(item *openapi3.SchemaRef) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:  &openapi3.Types{"array"},
			Items: item,
		},
	}
}

func (g *Generator) addResourceSchemas(spec *openapi3.T, res ResourceInfo) {
	spec.Components.Schemas[res.Schema+"ListItem"] = g.extractSchema(res.ListItem)
	spec.Components.Schemas[res.Schema+"Details"] = g.extractSchema(res.Details)
	spec.Components.Schemas["Update"+res.Schema+"Request"] = g.extractSchema(res.Request)
}

func (g *Generator) addResourcePaths(spec *openapi3.T, res ResourceInfo) {
	basePath := g.basePath + "/" + res.Name

	listName := res.Schema + "ListItem"
	detailsName := res.Schema + "Details"
	requestName := "Update" + res.Schema + "Request"

	collectionPath := &openapi3.PathItem{
		Get:  g.createListOperation(spec, res, listName),
		Post: g.createCreateOperation(spec, res, requestName, detailsName),
	}
	spec.Paths.Set(basePath, collectionPath)

	itemPath := &openapi3.PathItem{
		Parameters: openapi3.Parameters{idParameter()},
		Get:        g.createGetOperation(spec, res, detailsName),
		Put:        g.createUpdateOperation(spec, res, requestName, detailsName),
		Delete:     g.createDeleteOperation(spec, res),
	}
	spec.Paths.Set(basePath+"/{id}", itemPath)

	if res.SupportsStatus {
		statusPath := &openapi3.PathItem{
			Parameters: openapi3.Parameters{
				idParameter(),
				&openapi3.ParameterRef{
					Value: &openapi3.Parameter{
						Name:     "deleted",
						In:       "path",
						Required: true,
						Schema: &openapi3.SchemaRef{
							Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}},
						},
					},
				},
			},
			Put: g.createStatusOperation(spec, res),
		}
		spec.Paths.Set(basePath+"/{id}/status/{deleted}", statusPath)
	}

	for _, child := range res.Children {
		childPath := &openapi3.PathItem{
			Parameters: openapi3.Parameters{idParameter()},
			Get: &openapi3.Operation{
				OperationID: "list" + res.Schema + capitalize(child.Name),
				Summary:     "List " + child.Name + " of a " + singularize(res.Name),
				Tags:        []string{capitalize(res.Name)},
				Responses: responses(
					status("200", "OK", arrayOf(ref(spec, child.Schema+"ListItem"))),
					status("404", "Not found", ref(spec, "Error")),
				),
			},
		}
		spec.Paths.Set(basePath+"/{id}/"+child.Name, childPath)
	}
}

// extractSchema extracts an OpenAPI schema from a Go struct.
func (g *Generator) extractSchema(model any) *openapi3.SchemaRef {
	if model == nil {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}}
	}
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	schema := &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: make(openapi3.Schemas),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := field.Name
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
		}

		if propSchema := g.goTypeToSchema(field.Type); propSchema != nil {
			schema.Properties[name] = propSchema
		}
	}

	return &openapi3.SchemaRef{Value: schema}
}

// goTypeToSchema converts a Go type to an OpenAPI schema.
func (g *Generator) goTypeToSchema(t reflect.Type) *openapi3.SchemaRef {
	switch t.Kind() {
	case reflect.String:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}}

	case reflect.Int64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}}}

	case reflect.Float32, reflect.Float64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"number"}}}

	case reflect.Bool:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}}}

	case reflect.Slice, reflect.Array:
		return arrayOf(g.goTypeToSchema(t.Elem()))

	case reflect.Ptr:
		schema := g.goTypeToSchema(t.Elem())
		if schema != nil && schema.Value != nil {
			schema.Value.Nullable = true
		}
		return schema

	case reflect.Struct:
		if t == reflect.TypeOf(time.Time{}) {
			return &openapi3.SchemaRef{
				Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "date-time"},
			}
		}
		return g.extractSchema(reflect.New(t).Interface())

	default:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}}
	}
}

// =============================================================================
// Operation Generation
// =============================================================================

type statusResponse struct {
	code        string
	description string
	schema      *openapi3.SchemaRef
}

func status(code, description string, schema *openapi3.SchemaRef) statusResponse {
	return statusResponse{code: code, description: description, schema: schema}
}

func responses(entries ...statusResponse) *openapi3.Responses {
	result := &openapi3.Responses{}
	for _, e := range entries {
		resp := openapi3.NewResponse().WithDescription(e.description)
		if e.schema != nil {
			resp = resp.WithJSONSchemaRef(e.schema)
		}
		result.Set(e.code, &openapi3.ResponseRef{Value: resp})
	}
	return result
}

func requestBody(spec *openapi3.T, requestName string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Required: true,
			Content: openapi3.Content{
				"application/json": &openapi3.MediaType{
					Schema: ref(spec, requestName),
				},
			},
		},
	}
}

func idParameter() *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name:     "id",
			In:       "path",
			Required: true,
			Schema: &openapi3.SchemaRef{
				Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}},
			},
		},
	}
}

func (g *Generator) createListOperation(spec *openapi3.T, res ResourceInfo, listName string) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: "list" + capitalize(res.Name),
		Summary:     "List " + res.Name + " ordered by id",
		Tags:        []string{capitalize(res.Name)},
		Responses: responses(
			status("200", "OK", arrayOf(ref(spec, listName))),
			status("400", "Invalid query", ref(spec, "Error")),
		),
	}
	for _, name := range res.QueryParams {
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
			Value: &openapi3.Parameter{
				Name: name,
				In:   "query",
				Schema: &openapi3.SchemaRef{
					Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}},
				},
			},
		})
	}
	return op
}

func (g *Generator) createGetOperation(spec *openapi3.T, res ResourceInfo, detailsName string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "get" + res.Schema,
		Summary:     "Get a " + singularize(res.Name),
		Tags:        []string{capitalize(res.Name)},
		Responses: responses(
			status("200", "OK", ref(spec, detailsName)),
			status("404", "Not found", ref(spec, "Error")),
		),
	}
}

func (g *Generator) createCreateOperation(spec *openapi3.T, res ResourceInfo, requestName, detailsName string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "create" + res.Schema,
		Summary:     "Create a " + singularize(res.Name),
		Tags:        []string{capitalize(res.Name)},
		RequestBody: requestBody(spec, requestName),
		Responses: responses(
			status("201", "Created", ref(spec, detailsName)),
			status("400", "Invalid request", ref(spec, "Error")),
			status("404", "Referenced record not found", ref(spec, "Error")),
			status("409", "Code already in use", ref(spec, "Error")),
		),
	}
}

func (g *Generator) createUpdateOperation(spec *openapi3.T, res ResourceInfo, requestName, detailsName string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "update" + res.Schema,
		Summary:     "Update a " + singularize(res.Name),
		Tags:        []string{capitalize(res.Name)},
		RequestBody: requestBody(spec, requestName),
		Responses: responses(
			status("200", "OK", ref(spec, detailsName)),
			status("400", "Invalid request", ref(spec, "Error")),
			status("404", "Not found", ref(spec, "Error")),
			status("409", "Code already in use", ref(spec, "Error")),
		),
	}
}

func (g *Generator) createStatusOperation(spec *openapi3.T, res ResourceInfo) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "set" + res.Schema + "Status",
		Summary:     "Soft-delete or restore a " + singularize(res.Name),
		Tags:        []string{capitalize(res.Name)},
		Responses: responses(
			status("204", "Status set", nil),
			status("404", "Not found", ref(spec, "Error")),
		),
	}
}

func (g *Generator) createDeleteOperation(spec *openapi3.T, res ResourceInfo) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "delete" + res.Schema,
		Summary:     "Purge a soft-deleted " + singularize(res.Name),
		Tags:        []string{capitalize(res.Name)},
		Responses: responses(
			status("204", "Purged", nil),
			status("404", "Not found", ref(spec, "Error")),
			status("409", "Not soft-deleted or still referenced", ref(spec, "Error")),
		),
	}
}

// =============================================================================
// Helpers
// =============================================================================

// capitalize returns the string with the first letter capitalized.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// singularize performs basic singularization (removes trailing 's').
func singularize(s string) string {
	if strings.HasSuffix(s, "ies") {
		return s[:len(s)-3] + "y"
	}
	if strings.HasSuffix(s, "s") {
		return s[:len(s)-1]
	}
	return s
}
