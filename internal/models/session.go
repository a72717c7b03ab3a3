package models

// Session is one training run as recorded by a metadata source.
// Tags maps a tag name to its raw plugin payload.
type Session struct {
	Name string
	Tags map[string][]byte
}

// SessionMetadata holds every session of an experiment in the source's natural order.
type SessionMetadata []Session

// Tag returns the payload stored under tag and whether it exists.
func (s Session) Tag(tag string) ([]byte, bool) {
	payload, ok := s.Tags[tag]
	return payload, ok
}

type SessionStartInfo struct {
	Hparams       map[string]any `json:"hparams" yaml:"hparams"`
	GroupName     string         `json:"group_name,omitempty" yaml:"group_name,omitempty"`
	StartTimeSecs float64        `json:"start_time_secs,omitempty" yaml:"start_time_secs,omitempty"`
	ModelURI      string         `json:"model_uri,omitempty" yaml:"model_uri,omitempty"`
	MonitorURL    string         `json:"monitor_url,omitempty" yaml:"monitor_url,omitempty"`
}

type SessionStatus string

const (
	SessionStatusUnknown SessionStatus = "STATUS_UNKNOWN"
	SessionStatusSuccess SessionStatus = "STATUS_SUCCESS"
	SessionStatusFailure SessionStatus = "STATUS_FAILURE"
	SessionStatusRunning SessionStatus = "STATUS_RUNNING"
)

type SessionEndInfo struct {
	Status      SessionStatus `json:"status" yaml:"status"`
	EndTimeSecs float64       `json:"end_time_secs,omitempty" yaml:"end_time_secs,omitempty"`
}

// MetricsFile is the final metric values reported by a session.
type MetricsFile struct {
	Metrics map[string]float64 `json:"metrics" yaml:"metrics"`
}
