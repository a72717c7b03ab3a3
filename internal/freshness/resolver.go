// Package freshness reports which host last wrote a session group's event
// logs and how long ago.
package freshness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/imishinist/hparams-inspector/internal/errs"
	"github.com/imishinist/hparams-inspector/internal/logdir"
	"github.com/imishinist/hparams-inspector/internal/models"
	timeutils "github.com/imishinist/hparams-inspector/internal/time"
)

// Event files are named events.out.tfevents.<timestamp>.<hostname>.<pid>...
const (
	eventNameDelimiter = "."
	hostnameField      = 4
)

type Resolver struct {
	fs      afero.Fs
	root    string
	aliases AliasTable
	clock   clock.Clock
	logger  *zap.Logger
}

type Option func(*Resolver)

func WithClock(c clock.Clock) Option {
	return func(r *Resolver) { r.clock = c }
}

func WithAliasTable(t AliasTable) Option {
	return func(r *Resolver) { r.aliases = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

func NewResolver(fsys afero.Fs, root string, opts ...Option) *Resolver {
	r := &Resolver{
		fs:     fsys,
		root:   root,
		clock:  clock.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type eventFile struct {
	path    string
	modTime time.Time
}

// Resolve inspects the newest event file of group.
func (r *Resolver) Resolve(ctx context.Context, group string) (*models.RunInfo, error) {
	dir, err := logdir.GroupDir(r.root, group)
	if err != nil {
		return nil, err
	}

	newest, err := r.newestEventFile(dir)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(newest.path)
	fields := strings.Split(name, eventNameDelimiter)
	if len(fields) <= hostnameField {
		return nil, fmt.Errorf("%w: %s", errs.ErrMalformedName, name)
	}

	info := &models.RunInfo{
		Hostname:     fields[hostnameField],
		EventFile:    name,
		ModTime:      newest.modTime,
		ElapsedHours: timeutils.HoursSince(r.clock.Now(), newest.modTime),
	}

	if r.aliases != nil {
		alias, err := r.aliases.Lookup(info.Hostname)
		if err != nil {
			r.logger.Debug("host alias unavailable", zap.String("hostname", info.Hostname), zap.Error(err))
		} else {
			info.Alias = alias
		}
	}

	return info, nil
}

func (r *Resolver) newestEventFile(dir string) (eventFile, error) {
	// group names may contain glob metacharacters, so list the directory
	// instead of matching a pattern built from it
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return eventFile{}, fmt.Errorf("%w: no event files in %s", errs.ErrNotFound, dir)
		}
		return eventFile{}, fmt.Errorf("%w: failed to list event files in %s: %v", errs.ErrStorage, dir, err)
	}

	files := make([]eventFile, 0, len(entries))
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), logdir.EventFilePrefix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		fi, err := r.lstat(path)
		if err != nil {
			return eventFile{}, fmt.Errorf("%w: failed to stat %s: %v", errs.ErrStorage, path, err)
		}
		files = append(files, eventFile{path: path, modTime: fi.ModTime()})
	}
	if len(files) == 0 {
		return eventFile{}, fmt.Errorf("%w: no event files in %s", errs.ErrNotFound, dir)
	}

	// entries are in lexical order, so equal times resolve the same way every call
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})
	return files[0], nil
}

// lstat reports a symlinked event file's own mtime when the filesystem can.
func (r *Resolver) lstat(path string) (os.FileInfo, error) {
	if l, ok := r.fs.(afero.Lstater); ok {
		fi, _, err := l.LstatIfPossible(path)
		return fi, err
	}
	return r.fs.Stat(path)
}
