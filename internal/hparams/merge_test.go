package hparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/hparams-inspector/internal/models"
)

func TestMarkDiffs(t *testing.T) {
	exp := &models.Experiment{
		Name: "exp",
		HparamInfos: []models.HparamInfo{
			{Name: "opt"},
			{Name: "lr"},
			{Name: "seed", Differs: true},
			{Name: "bn"},
		},
	}
	diff := DiffSet{}
	diff.Add("lr")
	diff.Add("unknown")

	got := MarkDiffs(exp, diff)
	require.NotNil(t, got)

	assert.Equal(t, []models.HparamInfo{
		{Name: "opt"},
		{Name: "lr", Differs: true},
		{Name: "seed", Differs: true},
		{Name: "bn"},
	}, got.HparamInfos)

	// the input is left untouched
	assert.False(t, exp.HparamInfos[1].Differs)
}

func TestMarkDiffsNil(t *testing.T) {
	assert.Nil(t, MarkDiffs(nil, DiffSet{}))
}
