// Package export reads and writes the garage document and archives it to S3.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ukydev/motomaint/internal/models"
)

// WriteDocument writes the garage as indented JSON.
func WriteDocument(w io.Writer, garage models.Garage) error {
	if garage.Motorcycles == nil {
		garage.Motorcycles = []models.Motorcycle{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(garage)
}

// ReadDocument decodes a garage document. Missing settings fields keep their
// defaults.
func ReadDocument(r io.Reader) (models.Garage, error) {
	garage := models.Garage{Settings: models.DefaultSettings()}
	if err := json.NewDecoder(r).Decode(&garage); err != nil {
		return models.Garage{}, fmt.Errorf("%w: decode garage document: %v", models.ErrInvalidInput, err)
	}
	if garage.Motorcycles == nil {
		garage.Motorcycles = []models.Motorcycle{}
	}
	return garage, nil
}
