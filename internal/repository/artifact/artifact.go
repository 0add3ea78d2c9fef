// Package artifact loads the trained model artifacts: the feature schema,
// the typical feature values and the model itself. They come either from a
// directory on disk or from a Valkey/Redis registry populated by Publish.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
	"github.com/kailas-cloud/lexiscreen/internal/domain/feature"
	"github.com/kailas-cloud/lexiscreen/internal/model/xgboost"
)

// File names inside an artifact directory.
const (
	FeaturesFile = "features.json"
	DefaultsFile = "feature_defaults.json"
	ModelFile    = "model.json"
)

// Blobs are the raw artifact documents.
type Blobs struct {
	Features []byte
	Defaults []byte
	Model    []byte
}

// Bundle is a validated, ready-to-use artifact set. Shared read-only.
type Bundle struct {
	Schema   feature.Schema
	Defaults feature.Defaults
	Model    *xgboost.Model
}

// Source yields raw artifact blobs.
type Source interface {
	Load(ctx context.Context) (Blobs, error)
}

// Load fetches blobs from src and parses them into a Bundle.
func Load(ctx context.Context, src Source) (Bundle, error) {
	blobs, err := src.Load(ctx)
	if err != nil {
		return Bundle{}, err
	}
	return Parse(blobs)
}

// Parse validates and decodes artifact blobs.
// Default entries for features outside the schema are ignored.
func Parse(b Blobs) (Bundle, error) {
	featuresSchema, defaultsSchema, err := compiled()
	if err != nil {
		return Bundle{}, fmt.Errorf("compile artifact schemas: %w", err)
	}

	if err := validate(featuresSchema, b.Features); err != nil {
		return Bundle{}, domain.NewSchemaError(FeaturesFile + ": " + err.Error())
	}
	var names []string
	if err := json.Unmarshal(b.Features, &names); err != nil {
		return Bundle{}, domain.NewSchemaError(FeaturesFile + ": " + err.Error())
	}
	schema, err := feature.NewSchema(names)
	if err != nil {
		return Bundle{}, err
	}
	if !schema.Has(feature.Age) {
		return Bundle{}, domain.NewSchemaError("no age feature", feature.Age)
	}

	if err := validate(defaultsSchema, b.Defaults); err != nil {
		return Bundle{}, domain.NewSchemaError(DefaultsFile + ": " + err.Error())
	}
	var typical map[string]float64
	if err := json.Unmarshal(b.Defaults, &typical); err != nil {
		return Bundle{}, domain.NewSchemaError(DefaultsFile + ": " + err.Error())
	}
	defaults, err := feature.NewDefaults(typical)
	if err != nil {
		return Bundle{}, err
	}

	model, err := xgboost.Load(b.Model)
	if err != nil {
		return Bundle{}, domain.NewInferenceError(fmt.Errorf("%s: %w", ModelFile, err))
	}
	if model.NumFeatures() != schema.Len() {
		return Bundle{}, domain.NewSchemaError(fmt.Sprintf(
			"model expects %d features, schema lists %d", model.NumFeatures(), schema.Len()))
	}
	if trained := model.FeatureNames(); len(trained) > 0 && !schema.Equal(trained) {
		missing, extra := feature.Reconstruct(trained, make([]float64, len(trained))).Diff(schema)
		if len(missing) == 0 && len(extra) == 0 {
			return Bundle{}, domain.NewSchemaError("model feature order differs from schema")
		}
		return Bundle{}, domain.NewFeatureMismatch(missing, extra)
	}

	return Bundle{Schema: schema, Defaults: defaults, Model: model}, nil
}
