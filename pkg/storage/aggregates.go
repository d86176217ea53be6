package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tweetpeek/pkg/errors"
	"tweetpeek/pkg/models"
)

// WriteAggregate writes an aggregate as indented JSON, atomically.
// encoding/json emits map keys in sorted order, so two runs over the same
// input produce identical bytes.
func WriteAggregate(path string, agg *models.Aggregate) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create analyses directory: %w", err)
	}

	data, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal aggregate: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write aggregate file: %w", err)
	}

	return os.Rename(tmp, path)
}

// ReadAggregate reads an aggregate file written by WriteAggregate. Fields
// absent from the JSON stay nil, which is how the plotter distinguishes a
// missing statistic from an empty one.
func ReadAggregate(path string) (*models.Aggregate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.KindInputFormat, "cannot open aggregate file: %v", err)
	}

	var agg models.Aggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, errors.Newf(errors.KindInputFormat, "parsing aggregate file %s: %v", path, err)
	}

	return &agg, nil
}
