package mlflow

import (
	"context"
	"errors"
	"testing"

	"github.com/databricks/databricks-sdk-go/service/ml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/hparams-inspector/internal/config"
	"github.com/imishinist/hparams-inspector/internal/hparams"
	"github.com/imishinist/hparams-inspector/internal/metadata"
	"github.com/imishinist/hparams-inspector/internal/models"
)

type fakeRuns struct {
	runs    []ml.Run
	err     error
	request ml.SearchRuns
}

func (f *fakeRuns) SearchRunsAll(ctx context.Context, request ml.SearchRuns) ([]ml.Run, error) {
	f.request = request
	return f.runs, f.err
}

func run(id, name string, status ml.RunInfoStatus, params map[string]string, tags map[string]string) ml.Run {
	data := &ml.RunData{}
	for k, v := range params {
		data.Params = append(data.Params, ml.Param{Key: k, Value: v})
	}
	for k, v := range tags {
		data.Tags = append(data.Tags, ml.RunTag{Key: k, Value: v})
	}
	return ml.Run{
		Info: &ml.RunInfo{RunId: id, RunName: name, Status: status, StartTime: 1_700_000_000_000},
		Data: data,
	}
}

func TestHparamsMetadata(t *testing.T) {
	fake := &fakeRuns{runs: []ml.Run{
		run("r1", "baseline", ml.RunInfoStatusFinished, map[string]string{"lr": "0.1", "opt": "adam"}, nil),
		run("r2", "", ml.RunInfoStatusRunning, map[string]string{"lr": "0.01", "opt": "adam"}, map[string]string{GroupTag: "sweep-a"}),
	}}
	fake.runs[0].Data.Metrics = []ml.Metric{{Key: "loss", Value: 0.25}}
	client := newClient(fake, &config.Config{}, nil)

	md, err := client.HparamsMetadata(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, fake.request.ExperimentIds)

	require.Len(t, md, 2)
	assert.Equal(t, "baseline", md[0].Name)
	assert.Equal(t, "r2", md[1].Name)

	payload, ok := md[1].Tag(metadata.SessionStartInfoTag)
	require.True(t, ok)
	info, err := metadata.ParseSessionStartInfo(payload)
	require.NoError(t, err)
	assert.Equal(t, "sweep-a", info.GroupName)
	assert.Equal(t, "0.01", info.Hparams["lr"])
	assert.Equal(t, 1_700_000_000.0, info.StartTimeSecs)

	payload, ok = md[0].Tag(metadata.SessionEndInfoTag)
	require.True(t, ok)
	end, err := metadata.ParseSessionEndInfo(payload)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusSuccess, end.Status)
	_, ok = md[1].Tag(metadata.SessionEndInfoTag)
	assert.False(t, ok)

	payload, ok = md[0].Tag(metadata.MetricsTag)
	require.True(t, ok)
	metrics, err := metadata.ParseMetrics(payload)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"loss": 0.25}, metrics)

	diff, err := hparams.DetectDiff(md)
	require.NoError(t, err)
	assert.Equal(t, []string{"lr"}, diff.Names())
}

func TestHparamsMetadataExperimentID(t *testing.T) {
	fake := &fakeRuns{}
	client := newClient(fake, &config.Config{ExperimentID: "7"}, nil)

	_, err := client.HparamsMetadata(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, fake.request.ExperimentIds)

	_, err = newClient(fake, &config.Config{}, nil).HparamsMetadata(context.Background(), "")
	assert.ErrorContains(t, err, "experiment ID must be specified")
}

func TestHparamsMetadataErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := newClient(&fakeRuns{err: boom}, &config.Config{}, nil).HparamsMetadata(context.Background(), "1")
	assert.ErrorIs(t, err, boom)

	_, err = newClient(&fakeRuns{runs: []ml.Run{{}}}, &config.Config{}, nil).HparamsMetadata(context.Background(), "1")
	assert.ErrorContains(t, err, "run without info")
}

func TestWorkspaceConfig(t *testing.T) {
	cfg, err := workspaceConfig(&config.Config{TrackingURI: "http://localhost:5000"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.Host)

	cfg, err = workspaceConfig(&config.Config{TrackingURI: "databricks://staging", DatabricksToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Profile)
	assert.Equal(t, "tok", cfg.Token)

	_, err = workspaceConfig(&config.Config{TrackingURI: "databricks"})
	assert.ErrorContains(t, err, "Databricks host or profile is required")
}
