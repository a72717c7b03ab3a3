package models

type DataType string

const (
	DataTypeUnset   DataType = "DATA_TYPE_UNSET"
	DataTypeString  DataType = "DATA_TYPE_STRING"
	DataTypeBool    DataType = "DATA_TYPE_BOOL"
	DataTypeFloat64 DataType = "DATA_TYPE_FLOAT64"
)

type Interval struct {
	MinValue float64 `json:"minValue" yaml:"min_value"`
	MaxValue float64 `json:"maxValue" yaml:"max_value"`
}

// HparamInfo describes one hyperparameter of an experiment.
// Differs is set when the hyperparameter takes more than one value across sessions.
type HparamInfo struct {
	Name           string    `json:"name" yaml:"name"`
	DisplayName    string    `json:"displayName,omitempty" yaml:"display_name,omitempty"`
	Description    string    `json:"description,omitempty" yaml:"description,omitempty"`
	Type           DataType  `json:"type" yaml:"type"`
	DomainDiscrete []any     `json:"domainDiscrete,omitempty" yaml:"domain_discrete,omitempty"`
	DomainInterval *Interval `json:"domainInterval,omitempty" yaml:"domain_interval,omitempty"`
	Differs        bool      `json:"diff,omitempty" yaml:"diff,omitempty"`
}

type MetricName struct {
	Group string `json:"group" yaml:"group"`
	Tag   string `json:"tag" yaml:"tag"`
}

type MetricInfo struct {
	Name        MetricName `json:"name" yaml:"name"`
	DisplayName string     `json:"displayName,omitempty" yaml:"display_name,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
}

// Experiment is the UI-facing summary of an experiment's hyperparameters and metrics.
type Experiment struct {
	Name            string       `json:"name" yaml:"name"`
	Description     string       `json:"description,omitempty" yaml:"description,omitempty"`
	User            string       `json:"user,omitempty" yaml:"user,omitempty"`
	TimeCreatedSecs float64      `json:"timeCreatedSecs" yaml:"time_created_secs"`
	HparamInfos     []HparamInfo `json:"hparamInfos" yaml:"hparam_infos"`
	MetricInfos     []MetricInfo `json:"metricInfos" yaml:"metric_infos"`
}
