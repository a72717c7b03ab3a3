package hparams

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/imishinist/hparams-inspector/internal/models"
)

// MetadataSource supplies the per-session metadata of an experiment.
type MetadataSource interface {
	HparamsMetadata(ctx context.Context, experimentID string) (models.SessionMetadata, error)
}

// View holds everything derived for one experiment request. It is built
// once by Service.Load and discarded with the request.
type View struct {
	ExperimentID string
	Metadata     models.SessionMetadata
	Diff         DiffSet

	experiment *models.Experiment
}

// Experiment returns the descriptor with differing hparams flagged.
func (v *View) Experiment() *models.Experiment {
	return MarkDiffs(v.experiment, v.Diff)
}

type Service struct {
	source  MetadataSource
	builder Builder
	logger  *zap.Logger
}

// NewService wires a metadata source to a builder. A nil builder selects
// MetadataBuilder and a nil logger discards output.
func NewService(source MetadataSource, builder Builder, logger *zap.Logger) *Service {
	if builder == nil {
		builder = MetadataBuilder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, builder: builder, logger: logger}
}

func (s *Service) Load(ctx context.Context, experimentID string) (*View, error) {
	md, err := s.source.HparamsMetadata(ctx, experimentID)
	if err != nil {
		return nil, fmt.Errorf("failed to read hparams metadata: %w", err)
	}

	exp, err := s.builder.ExperimentFromMetadata(ctx, experimentID, md)
	if err != nil {
		return nil, fmt.Errorf("failed to build experiment: %w", err)
	}

	diff, err := DetectDiff(md)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect hparams: %w", err)
	}

	s.logger.Debug("experiment loaded",
		zap.String("experiment_id", experimentID),
		zap.Int("sessions", len(md)),
		zap.Int("hparams", len(exp.HparamInfos)),
		zap.Strings("differing", diff.Names()),
	)

	return &View{
		ExperimentID: experimentID,
		Metadata:     md,
		Diff:         diff,
		experiment:   exp,
	}, nil
}

// GetExperiment returns the enriched experiment descriptor and the set of
// hyperparameters that vary across its sessions.
func (s *Service) GetExperiment(ctx context.Context, experimentID string) (*models.Experiment, DiffSet, error) {
	view, err := s.Load(ctx, experimentID)
	if err != nil {
		return nil, nil, err
	}
	return view.Experiment(), view.Diff, nil
}
