package logdir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/imishinist/hparams-inspector/internal/errs"
	"github.com/imishinist/hparams-inspector/internal/metadata"
	"github.com/imishinist/hparams-inspector/internal/models"
	"github.com/imishinist/hparams-inspector/internal/parser"
)

// Source reads session metadata from files under a log directory.
//
// Every directory holding a session_start_info file is a session, named by
// its slash-separated path relative to the scanned directory. A metrics file
// beside it supplies final metric values, and an experiment file at the top
// of the scan is recorded on a session named ".".
type Source struct {
	fs     afero.Fs
	root   string
	logger *zap.Logger
}

func NewSource(fsys afero.Fs, root string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{fs: fsys, root: root, logger: logger}
}

// HparamsMetadata scans root, or root/experimentID when an id is given.
// Sessions are returned in lexical path order.
func (s *Source) HparamsMetadata(ctx context.Context, experimentID string) (models.SessionMetadata, error) {
	scanRoot := s.root
	if experimentID != "" {
		dir, err := GroupDir(s.root, experimentID)
		if err != nil {
			return nil, err
		}
		scanRoot = dir
	}

	if _, err := s.fs.Stat(scanRoot); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: log directory %s", errs.ErrNotFound, scanRoot)
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}

	var md models.SessionMetadata
	err := afero.Walk(s.fs, scanRoot, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		sess, ok, err := s.readSession(scanRoot, path)
		if err != nil {
			return err
		}
		if ok {
			md = append(md, sess)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrMalformedMetadata) || errors.Is(err, ctx.Err()) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to scan %s: %v", errs.ErrStorage, scanRoot, err)
	}

	s.logger.Debug("scanned log directory", zap.String("root", scanRoot), zap.Int("sessions", len(md)))
	return md, nil
}

func (s *Source) readSession(scanRoot, dir string) (models.Session, bool, error) {
	name, err := filepath.Rel(scanRoot, dir)
	if err != nil {
		return models.Session{}, false, err
	}
	name = filepath.ToSlash(name)
	tags := map[string][]byte{}

	if path, ok, err := s.find(dir, SessionStartInfoFile); err != nil {
		return models.Session{}, false, err
	} else if ok {
		info, err := s.parseStartInfo(path)
		if err != nil {
			return models.Session{}, false, err
		}
		if info.GroupName == "" {
			info.GroupName = name
		}
		if tags[metadata.SessionStartInfoTag], err = metadata.Encode(info); err != nil {
			return models.Session{}, false, err
		}

		if path, ok, err := s.find(dir, MetricsFile); err != nil {
			return models.Session{}, false, err
		} else if ok {
			metrics, err := s.parseMetrics(path)
			if err != nil {
				return models.Session{}, false, err
			}
			if tags[metadata.MetricsTag], err = metadata.Encode(metrics); err != nil {
				return models.Session{}, false, err
			}
		}
	}

	if dir == scanRoot {
		if path, ok, err := s.find(dir, ExperimentFile); err != nil {
			return models.Session{}, false, err
		} else if ok {
			exp, err := s.parseExperiment(path)
			if err != nil {
				return models.Session{}, false, err
			}
			if tags[metadata.ExperimentTag], err = metadata.Encode(exp); err != nil {
				return models.Session{}, false, err
			}
		}
	}

	if len(tags) == 0 {
		return models.Session{}, false, nil
	}
	return models.Session{Name: name, Tags: tags}, true, nil
}

// find returns the first existing base+ext file in dir.
func (s *Source) find(dir, base string) (string, bool, error) {
	for _, ext := range parser.Extensions {
		path := filepath.Join(dir, base+ext)
		ok, err := afero.Exists(s.fs, path)
		if err != nil {
			return "", false, err
		}
		if ok {
			return path, true, nil
		}
	}
	return "", false, nil
}

func (s *Source) parseStartInfo(path string) (*models.SessionStartInfo, error) {
	file, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := parser.ParseSessionStartInfo(path, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrMalformedMetadata, path, err)
	}
	return info, nil
}

func (s *Source) parseMetrics(path string) (*models.MetricsFile, error) {
	file, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	metrics, err := parser.ParseMetrics(path, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrMalformedMetadata, path, err)
	}
	return metrics, nil
}

func (s *Source) parseExperiment(path string) (*models.Experiment, error) {
	file, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	exp, err := parser.ParseExperiment(path, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrMalformedMetadata, path, err)
	}
	return exp, nil
}
