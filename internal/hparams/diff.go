// Package hparams assembles experiment descriptors from session metadata and
// reports which hyperparameters vary across sessions.
package hparams

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/imishinist/hparams-inspector/internal/metadata"
	"github.com/imishinist/hparams-inspector/internal/models"
)

// DiffSet is the set of hyperparameter names whose values vary across sessions.
type DiffSet map[string]struct{}

func (d DiffSet) Add(name string) {
	d[name] = struct{}{}
}

func (d DiffSet) Has(name string) bool {
	_, ok := d[name]
	return ok
}

func (d DiffSet) Len() int {
	return len(d)
}

// Names returns the members in ascending order.
func (d DiffSet) Names() []string {
	names := lo.Keys(d)
	sort.Strings(names)
	return names
}

// HparamValues decodes the hyperparameter map of a session.
// ok is false when the session recorded no start info.
func HparamValues(s models.Session) (values map[string]any, ok bool, err error) {
	payload, found := s.Tag(metadata.SessionStartInfoTag)
	if !found {
		return nil, false, nil
	}
	info, err := metadata.ParseSessionStartInfo(payload)
	if err != nil {
		return nil, false, fmt.Errorf("session %q: %w", s.Name, err)
	}
	return info.Hparams, true, nil
}

// DetectDiff compares every session against the first one that recorded
// hyperparameters. A name is reported when it is missing from either side of
// a comparison or its decoded values differ; values of different scalar kinds
// never compare equal.
//
// Which session serves as the reference depends on iteration order, the
// result does not: two sessions that disagree on a name cannot both agree
// with the reference on it.
func DetectDiff(md models.SessionMetadata) (DiffSet, error) {
	diff := DiffSet{}
	var ref map[string]any
	for _, s := range md {
		values, ok, err := HparamValues(s)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if ref == nil {
			ref = values
			continue
		}
		for name, value := range values {
			refValue, found := ref[name]
			if !found || refValue != value {
				diff.Add(name)
			}
		}
		for name := range ref {
			if _, found := values[name]; !found {
				diff.Add(name)
			}
		}
	}
	return diff, nil
}
