package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/imishinist/hparams-inspector/internal/models"
)

func ParseJSONSessionStartInfo(reader io.Reader) (*models.SessionStartInfo, error) {
	var data models.SessionStartInfo
	decoder := json.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON session start info: %w", err)
	}

	return &data, nil
}

func ParseJSONMetrics(reader io.Reader) (*models.MetricsFile, error) {
	var data models.MetricsFile
	decoder := json.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON metrics: %w", err)
	}

	return &data, nil
}

func ParseJSONExperiment(reader io.Reader) (*models.Experiment, error) {
	var data models.Experiment
	decoder := json.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON experiment: %w", err)
	}

	return &data, nil
}

// ParseJSONAliases reads a hostname -> {"alias": ...} table.
func ParseJSONAliases(reader io.Reader) (map[string]models.HostAlias, error) {
	var data map[string]models.HostAlias
	decoder := json.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON alias table: %w", err)
	}

	return data, nil
}
