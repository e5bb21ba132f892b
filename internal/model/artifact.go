package model

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/crypto/blake2b"
)

// Tipos de paso soportados por el artefacto local.
const (
	StepOneHot      = "one_hot"
	StepPassthrough = "passthrough"

	EstimatorLogistic = "logistic"

	HandleUnknownError  = "error"
	HandleUnknownIgnore = "ignore"
)

const artifactSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["input_columns", "steps", "estimator"],
  "properties": {
    "name": {"type": "string"},
    "input_columns": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    },
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "kind", "columns"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "kind": {"enum": ["one_hot", "passthrough"]},
          "columns": {"type": "array", "minItems": 1, "items": {"type": "string"}},
          "categories": {"type": "array", "items": {"type": "array", "items": {"type": "string"}}},
          "handle_unknown": {"enum": ["error", "ignore"]}
        }
      }
    },
    "estimator": {
      "type": "object",
      "required": ["kind", "coefficients", "intercept"],
      "properties": {
        "kind": {"enum": ["logistic"]},
        "coefficients": {"type": "array", "items": {"type": "number"}},
        "intercept": {"type": "number"},
        "feature_importances": {"type": "array", "items": {"type": "number"}}
      }
    }
  }
}`

// Artifact es el documento JSON del pipeline entrenado.
type Artifact struct {
	Name         string    `json:"name"`
	InputColumns []string  `json:"input_columns"`
	Steps        []Step    `json:"steps"`
	Estimator    Estimator `json:"estimator"`
}

// Step es un paso de transformacion de columnas.
type Step struct {
	Name          string     `json:"name"`
	Kind          string     `json:"kind"`
	Columns       []string   `json:"columns"`
	Categories    [][]string `json:"categories,omitempty"`
	HandleUnknown string     `json:"handle_unknown,omitempty"`
}

// Estimator es el paso final lineal.
type Estimator struct {
	Kind               string    `json:"kind"`
	Coefficients       []float64 `json:"coefficients"`
	Intercept          float64   `json:"intercept"`
	FeatureImportances []float64 `json:"feature_importances,omitempty"`
}

// LoadArtifact lee, valida y construye el pipeline desde disco.
// Cualquier fallo se envuelve en ErrModelLoad.
func LoadArtifact(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrModelLoad, path, err)
	}
	return ParseArtifact(data)
}

// ParseArtifact valida el documento contra el JSON Schema y construye el pipeline.
func ParseArtifact(data []byte) (*Pipeline, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(artifactSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: parse artifact: %v", ErrModelLoad, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: invalid artifact: %s", ErrModelLoad, strings.Join(msgs, "; "))
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode artifact: %v", ErrModelLoad, err)
	}

	sum := blake2b.Sum256(data)
	p, err := newPipeline(a, hex.EncodeToString(sum[:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	return p, nil
}
