package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler serves the Swagger UI for the contract published at /openapi.yml.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
		httpSwagger.DocExpansion("list"),
	)
}

// LoadContract reads the OpenAPI document and validates it.
func LoadContract(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return doc, nil
}

// Undocumented lists the method/path pairs that have no operation in doc.
func Undocumented(doc *openapi3.T, routes map[string][]string) []string {
	var missing []string
	for path, methods := range routes {
		item := doc.Paths.Find(path)
		for _, m := range methods {
			if item == nil || item.GetOperation(m) == nil {
				missing = append(missing, m+" "+path)
			}
		}
	}
	return missing
}
