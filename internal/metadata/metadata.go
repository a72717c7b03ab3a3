// Package metadata names the hparams plugin tags and encodes their payloads.
package metadata

import (
	"encoding/json"
	"fmt"

	"github.com/imishinist/hparams-inspector/internal/errs"
	"github.com/imishinist/hparams-inspector/internal/models"
)

const (
	PluginName = "hparams"

	ExperimentTag       = "_hparams_/experiment"
	SessionStartInfoTag = "_hparams_/session_start_info"
	SessionEndInfoTag   = "_hparams_/session_end_info"
	MetricsTag          = "_hparams_/metrics"
)

// ParseSessionStartInfo decodes a session start info payload.
// Every hparam value must be a string, number or boolean.
func ParseSessionStartInfo(payload []byte) (*models.SessionStartInfo, error) {
	var info models.SessionStartInfo
	if err := json.Unmarshal(payload, &info); err != nil {
		return nil, fmt.Errorf("%w: session start info: %v", errs.ErrMalformedMetadata, err)
	}
	if info.Hparams == nil {
		info.Hparams = map[string]any{}
	}
	for name, value := range info.Hparams {
		switch value.(type) {
		case string, float64, bool:
		default:
			return nil, fmt.Errorf("%w: hparam %q has non-scalar value %v", errs.ErrMalformedMetadata, name, value)
		}
	}
	return &info, nil
}

func ParseSessionEndInfo(payload []byte) (*models.SessionEndInfo, error) {
	var info models.SessionEndInfo
	if err := json.Unmarshal(payload, &info); err != nil {
		return nil, fmt.Errorf("%w: session end info: %v", errs.ErrMalformedMetadata, err)
	}
	return &info, nil
}

func ParseExperiment(payload []byte) (*models.Experiment, error) {
	var exp models.Experiment
	if err := json.Unmarshal(payload, &exp); err != nil {
		return nil, fmt.Errorf("%w: experiment: %v", errs.ErrMalformedMetadata, err)
	}
	return &exp, nil
}

func ParseMetrics(payload []byte) (map[string]float64, error) {
	var data models.MetricsFile
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("%w: metrics: %v", errs.ErrMalformedMetadata, err)
	}
	return data.Metrics, nil
}

// Encode marshals v into the canonical JSON payload form stored under a tag.
// Numbers from any source (YAML ints included) come back as float64 on decode.
func Encode(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plugin data: %w", err)
	}
	return payload, nil
}
