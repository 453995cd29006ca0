package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/noah-isme/rayan-crm-api/internal/models"
)

const datasetSchemaURL = "https://rayan.local/schemas/dataset.json"

//go:embed dataset.schema.json
var datasetSchemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func datasetSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(datasetSchemaURL, strings.NewReader(datasetSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("register dataset schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(datasetSchemaURL)
	})
	return compiledSchema, schemaErr
}

// Decode reads a dataset document, validates it against the dataset schema,
// fills optional collections with empty lists and checks id uniqueness.
func Decode(r io.Reader) (models.Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("read dataset: %w", err)
	}

	schema, err := datasetSchema()
	if err != nil {
		return models.Dataset{}, err
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var document interface{}
	if err := decoder.Decode(&document); err != nil {
		return models.Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	if err := schema.Validate(document); err != nil {
		return models.Dataset{}, fmt.Errorf("validate dataset: %w", err)
	}

	var dataset models.Dataset
	if err := json.Unmarshal(raw, &dataset); err != nil {
		return models.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	dataset.Normalize()

	if err := dataset.CheckUniqueIDs(); err != nil {
		return models.Dataset{}, fmt.Errorf("validate dataset: %w", err)
	}
	return dataset, nil
}

// LoadFile reads and validates the dataset stored at path.
func LoadFile(path string) (models.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	return Decode(file)
}
