package parser

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/imishinist/hparams-inspector/internal/models"
)

func ParseYAMLSessionStartInfo(reader io.Reader) (*models.SessionStartInfo, error) {
	var data models.SessionStartInfo
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse YAML session start info: %w", err)
	}

	return &data, nil
}

func ParseYAMLMetrics(reader io.Reader) (*models.MetricsFile, error) {
	var data models.MetricsFile
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse YAML metrics: %w", err)
	}

	return &data, nil
}

func ParseYAMLExperiment(reader io.Reader) (*models.Experiment, error) {
	var data models.Experiment
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse YAML experiment: %w", err)
	}

	return &data, nil
}
