// Package logdir describes the on-disk layout of a training log directory and
// reads session metadata out of it.
package logdir

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/imishinist/hparams-inspector/internal/errs"
)

const (
	CommentFile     = "comment.txt"
	DoneFile        = "done"
	EventFilePrefix = "events.out"

	SessionStartInfoFile = "session_start_info"
	MetricsFile          = "metrics"
	ExperimentFile       = "experiment"
)

// GroupDir resolves the directory of a session group beneath root.
// Group names are relative paths and may not leave root.
func GroupDir(root, group string) (string, error) {
	if strings.TrimSpace(group) == "" {
		return "", fmt.Errorf("%w: session group name is required", errs.ErrRequestFormat)
	}
	if filepath.IsAbs(group) || strings.HasPrefix(group, "/") {
		return "", fmt.Errorf("%w: session group %q must be relative", errs.ErrRequestFormat, group)
	}
	clean := filepath.Clean(group)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: session group %q escapes the log directory", errs.ErrRequestFormat, group)
	}
	return filepath.Join(root, clean), nil
}
