package hparams

import "github.com/imishinist/hparams-inspector/internal/models"

// MarkDiffs returns a copy of exp whose hparam infos named in diff have Differs set.
// Flags already set upstream are kept and definition order is preserved.
func MarkDiffs(exp *models.Experiment, diff DiffSet) *models.Experiment {
	if exp == nil {
		return nil
	}
	out := *exp
	out.HparamInfos = make([]models.HparamInfo, len(exp.HparamInfos))
	copy(out.HparamInfos, exp.HparamInfos)
	for i := range out.HparamInfos {
		if diff.Has(out.HparamInfos[i].Name) {
			out.HparamInfos[i].Differs = true
		}
	}
	return &out
}
