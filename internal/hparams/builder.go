package hparams

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/imishinist/hparams-inspector/internal/metadata"
	"github.com/imishinist/hparams-inspector/internal/models"
)

// Builder constructs the experiment descriptor from session metadata.
type Builder interface {
	ExperimentFromMetadata(ctx context.Context, experimentID string, md models.SessionMetadata) (*models.Experiment, error)
}

// MetadataBuilder returns an explicitly recorded experiment when one exists
// and otherwise derives the descriptor from the sessions themselves.
type MetadataBuilder struct{}

func (MetadataBuilder) ExperimentFromMetadata(ctx context.Context, experimentID string, md models.SessionMetadata) (*models.Experiment, error) {
	for _, s := range md {
		if payload, ok := s.Tag(metadata.ExperimentTag); ok {
			exp, err := metadata.ParseExperiment(payload)
			if err != nil {
				return nil, fmt.Errorf("session %q: %w", s.Name, err)
			}
			return exp, nil
		}
	}
	return deriveExperiment(experimentID, md)
}

func deriveExperiment(experimentID string, md models.SessionMetadata) (*models.Experiment, error) {
	values := map[string][]any{}
	metricNames := []string{}
	var created float64

	for _, s := range md {
		if payload, ok := s.Tag(metadata.SessionStartInfoTag); ok {
			info, err := metadata.ParseSessionStartInfo(payload)
			if err != nil {
				return nil, fmt.Errorf("session %q: %w", s.Name, err)
			}
			for name, value := range info.Hparams {
				values[name] = append(values[name], value)
			}
			if info.StartTimeSecs > 0 && (created == 0 || info.StartTimeSecs < created) {
				created = info.StartTimeSecs
			}
		}
		if payload, ok := s.Tag(metadata.MetricsTag); ok {
			metrics, err := metadata.ParseMetrics(payload)
			if err != nil {
				return nil, fmt.Errorf("session %q: %w", s.Name, err)
			}
			metricNames = append(metricNames, lo.Keys(metrics)...)
		}
	}

	names := lo.Keys(values)
	sort.Strings(names)
	infos := make([]models.HparamInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, hparamInfoFromValues(name, values[name]))
	}

	metricNames = lo.Uniq(metricNames)
	sort.Strings(metricNames)
	metricInfos := lo.Map(metricNames, func(name string, _ int) models.MetricInfo {
		return models.MetricInfo{Name: models.MetricName{Tag: name}}
	})

	return &models.Experiment{
		Name:            experimentID,
		TimeCreatedSecs: created,
		HparamInfos:     infos,
		MetricInfos:     metricInfos,
	}, nil
}

func hparamInfoFromValues(name string, values []any) models.HparamInfo {
	info := models.HparamInfo{Name: name, Type: dataTypeOf(values)}
	switch info.Type {
	case models.DataTypeFloat64:
		nums := lo.Map(values, func(v any, _ int) float64 { return v.(float64) })
		info.DomainInterval = &models.Interval{MinValue: lo.Min(nums), MaxValue: lo.Max(nums)}
	case models.DataTypeString:
		strs := lo.Uniq(lo.Map(values, func(v any, _ int) string { return v.(string) }))
		sort.Strings(strs)
		info.DomainDiscrete = lo.ToAnySlice(strs)
	case models.DataTypeBool:
		bools := lo.Uniq(lo.Map(values, func(v any, _ int) bool { return v.(bool) }))
		sort.Slice(bools, func(i, j int) bool { return !bools[i] && bools[j] })
		info.DomainDiscrete = lo.ToAnySlice(bools)
	}
	return info
}

// dataTypeOf reports the common kind of values, or unset when they disagree.
func dataTypeOf(values []any) models.DataType {
	kind := models.DataTypeUnset
	for i, v := range values {
		var k models.DataType
		switch v.(type) {
		case string:
			k = models.DataTypeString
		case float64:
			k = models.DataTypeFloat64
		case bool:
			k = models.DataTypeBool
		}
		if i == 0 {
			kind = k
		} else if k != kind {
			return models.DataTypeUnset
		}
	}
	return kind
}
