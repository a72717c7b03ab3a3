package mlflow

import (
	"context"
	"fmt"

	"github.com/databricks/databricks-sdk-go/service/ml"
	"go.uber.org/zap"

	"github.com/imishinist/hparams-inspector/internal/metadata"
	"github.com/imishinist/hparams-inspector/internal/models"
	timeutils "github.com/imishinist/hparams-inspector/internal/time"
)

const (
	runNameTag = "mlflow.runName"
	// GroupTag, when set on a run, names the session group it belongs to.
	GroupTag = "hparams.group"
)

// Run statuses reported by MLflow
var sessionStatuses = map[ml.RunInfoStatus]models.SessionStatus{
	ml.RunInfoStatusRunning:   models.SessionStatusRunning,
	ml.RunInfoStatusScheduled: models.SessionStatusRunning,
	ml.RunInfoStatusFinished:  models.SessionStatusSuccess,
	ml.RunInfoStatusFailed:    models.SessionStatusFailure,
	ml.RunInfoStatusKilled:    models.SessionStatusFailure,
}

// HparamsMetadata lists the runs of an experiment as sessions, oldest first.
// MLflow stores params as strings, so every hparam is a string value.
func (c *Client) HparamsMetadata(ctx context.Context, experimentID string) (models.SessionMetadata, error) {
	if experimentID == "" {
		experimentID = c.config.ExperimentID
	}
	if experimentID == "" {
		return nil, fmt.Errorf("experiment ID must be specified via --experiment-id flag or HPARAMS_EXPERIMENT_ID environment variable")
	}

	runs, err := c.runs.SearchRunsAll(ctx, ml.SearchRuns{
		ExperimentIds: []string{experimentID},
		OrderBy:       []string{"attributes.start_time ASC"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search runs: %w", err)
	}

	md := make(models.SessionMetadata, 0, len(runs))
	for _, run := range runs {
		sess, err := sessionFromRun(run)
		if err != nil {
			return nil, err
		}
		md = append(md, sess)
	}

	c.logger.Debug("listed mlflow runs", zap.String("experiment_id", experimentID), zap.Int("runs", len(md)))
	return md, nil
}

func sessionFromRun(run ml.Run) (models.Session, error) {
	if run.Info == nil {
		return models.Session{}, fmt.Errorf("run without info")
	}

	tags := make(map[string]string)
	hparams := make(map[string]any)
	metrics := make(map[string]float64)
	if run.Data != nil {
		for _, tag := range run.Data.Tags {
			tags[tag.Key] = tag.Value
		}
		for _, param := range run.Data.Params {
			hparams[param.Key] = param.Value
		}
		for _, metric := range run.Data.Metrics {
			metrics[metric.Key] = metric.Value
		}
	}

	name := run.Info.RunName
	if name == "" {
		name = tags[runNameTag]
	}
	if name == "" {
		name = run.Info.RunId
	}

	group := tags[GroupTag]
	if group == "" {
		group = name
	}

	start := models.SessionStartInfo{
		Hparams:       hparams,
		GroupName:     group,
		StartTimeSecs: timeutils.ToUnixSecs(timeutils.FromUnixMillis(run.Info.StartTime)),
		ModelURI:      run.Info.ArtifactUri,
	}
	sess := models.Session{Name: name, Tags: map[string][]byte{}}

	var err error
	if sess.Tags[metadata.SessionStartInfoTag], err = metadata.Encode(start); err != nil {
		return models.Session{}, err
	}

	if len(metrics) > 0 {
		if sess.Tags[metadata.MetricsTag], err = metadata.Encode(models.MetricsFile{Metrics: metrics}); err != nil {
			return models.Session{}, err
		}
	}

	if status, ok := sessionStatuses[run.Info.Status]; ok && status != models.SessionStatusRunning {
		end := models.SessionEndInfo{Status: status}
		if run.Info.EndTime != 0 {
			end.EndTimeSecs = timeutils.ToUnixSecs(timeutils.FromUnixMillis(run.Info.EndTime))
		}
		if sess.Tags[metadata.SessionEndInfoTag], err = metadata.Encode(end); err != nil {
			return models.Session{}, err
		}
	}

	return sess, nil
}
