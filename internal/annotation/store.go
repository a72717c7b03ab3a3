// Package annotation keeps the free-text comment and done marker of each
// session group.
package annotation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/imishinist/hparams-inspector/internal/errs"
	"github.com/imishinist/hparams-inspector/internal/logdir"
	"github.com/imishinist/hparams-inspector/internal/models"
)

// Store reads and writes session group annotations.
type Store interface {
	Get(ctx context.Context, group string) (models.Comment, error)
	Set(ctx context.Context, group string, comment models.Comment) error
}

// FSStore keeps annotations as files inside each group's directory:
// comment.txt holds the text and the existence of "done" is the done flag.
// Writers are not serialized; the last write wins.
type FSStore struct {
	fs     afero.Fs
	root   string
	logger *zap.Logger
}

var _ Store = (*FSStore)(nil)

func NewFSStore(fsys afero.Fs, root string, logger *zap.Logger) *FSStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSStore{fs: fsys, root: root, logger: logger}
}

// Get returns an empty, not-done comment for groups never annotated.
func (s *FSStore) Get(ctx context.Context, group string) (models.Comment, error) {
	dir, err := logdir.GroupDir(s.root, group)
	if err != nil {
		return models.Comment{}, err
	}

	var comment models.Comment
	data, err := afero.ReadFile(s.fs, filepath.Join(dir, logdir.CommentFile))
	switch {
	case err == nil:
		comment.Value = string(data)
	case errors.Is(err, os.ErrNotExist):
	default:
		return models.Comment{}, fmt.Errorf("%w: failed to read comment of %s: %v", errs.ErrStorage, group, err)
	}

	done, err := afero.Exists(s.fs, filepath.Join(dir, logdir.DoneFile))
	if err != nil {
		return models.Comment{}, fmt.Errorf("%w: failed to check done marker of %s: %v", errs.ErrStorage, group, err)
	}
	comment.Done = done

	return comment, nil
}

// Set overwrites the comment text and creates or removes the done marker.
func (s *FSStore) Set(ctx context.Context, group string, comment models.Comment) error {
	dir, err := logdir.GroupDir(s.root, group)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v", errs.ErrStorage, dir, err)
	}

	if err := afero.WriteFile(s.fs, filepath.Join(dir, logdir.CommentFile), []byte(comment.Value), 0644); err != nil {
		return fmt.Errorf("%w: failed to write comment of %s: %v", errs.ErrStorage, group, err)
	}

	donePath := filepath.Join(dir, logdir.DoneFile)
	if comment.Done {
		if err := afero.WriteFile(s.fs, donePath, []byte("1"), 0644); err != nil {
			return fmt.Errorf("%w: failed to write done marker of %s: %v", errs.ErrStorage, group, err)
		}
	} else if err := s.fs.Remove(donePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: failed to remove done marker of %s: %v", errs.ErrStorage, group, err)
	}

	s.logger.Debug("annotation updated",
		zap.String("group", group),
		zap.Int("bytes", len(comment.Value)),
		zap.Bool("done", comment.Done),
	)
	return nil
}
