// Package contracts проверяет ответы внешних API по встроенным JSON-схемам.
package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed schemas
var schemasFS embed.FS

// ErrUnknownContract - схема с таким ключом не зарегистрирована.
var ErrUnknownContract = errors.New("contracts: unknown contract")

// MarketplaceFeedV1 - ключ схемы ответа GET /api/v1/marketplace_feed.
const MarketplaceFeedV1 = "MarketplaceFeed/1.0.0"

// Registry хранит скомпилированные схемы по ключу вида "MarketplaceFeed/1.0.0".
type Registry struct {
	schemas map[string]*jsonschema.Schema
}

// NewRegistry компилирует все схемы из каталога schemas.
func NewRegistry() (*Registry, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	var paths []string
	err := fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		raw, err := schemasFS.ReadFile(path)
		if err != nil {
			return err
		}
		resource := strings.TrimPrefix(path, "schemas/")
		if err := compiler.AddResource(resource, bytes.NewReader(raw)); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, resource)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("contracts: walking schemas: %w", err)
	}

	r := &Registry{schemas: make(map[string]*jsonschema.Schema, len(paths))}
	for _, resource := range paths {
		schema, err := compiler.Compile(resource)
		if err != nil {
			return nil, fmt.Errorf("contracts: compiling %s: %w", resource, err)
		}
		key := keyFromPath(resource)
		if key == "" {
			return nil, fmt.Errorf("contracts: unexpected schema path %s", resource)
		}
		r.schemas[key] = schema
	}
	return r, nil
}

// keyFromPath: "marketplace-feed/v1.json" -> "MarketplaceFeed/1.0.0".
func keyFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, ".json"), "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	return fmt.Sprintf("%s/%s.0.0", name.String(), strings.TrimPrefix(parts[1], "v"))
}

// Validate проверяет тело ответа по схеме key.
func (r *Registry) Validate(key string, body []byte) error {
	schema, ok := r.schemas[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownContract, key)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
