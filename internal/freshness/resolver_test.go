package freshness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/imishinist/hparams-inspector/internal/errs"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newMockClock() *clock.Mock {
	c := clock.NewMock()
	c.Set(now)
	return c
}

func touch(t *testing.T, fs afero.Fs, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte("evt"), 0644))
	require.NoError(t, fs.Chtimes(path, modTime, modTime))
}

type staticAliases map[string]string

func (s staticAliases) Lookup(hostname string) (string, error) {
	alias, ok := s[hostname]
	if !ok {
		return "", errors.New("missing")
	}
	return alias, nil
}

func TestResolveSelectsNewestFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs, "/logs/g/events.out.tfevents.100.host-a.1.0", now.Add(-5*time.Hour))
	touch(t, fs, "/logs/g/events.out.tfevents.200.host-c.1.0", now.Add(-90*time.Minute))
	touch(t, fs, "/logs/g/events.out.tfevents.300.host-b.1.0", now.Add(-3*time.Hour))
	touch(t, fs, "/logs/g/other.host-z.file", now)

	r := NewResolver(fs, "/logs", WithClock(newMockClock()))
	info, err := r.Resolve(context.Background(), "g")
	require.NoError(t, err)

	assert.Equal(t, "host-c", info.Hostname)
	assert.Equal(t, "events.out.tfevents.200.host-c.1.0", info.EventFile)
	assert.Equal(t, 1.5, info.ElapsedHours)
	assert.Equal(t, "<strong>host-c</strong>(1.5hrs ago)", info.Display())
}

func TestResolveTieIsDeterministic(t *testing.T) {
	fs := afero.NewMemMapFs()
	ts := now.Add(-time.Hour)
	touch(t, fs, "/logs/g/events.out.tfevents.1.zeta.1.0", ts)
	touch(t, fs, "/logs/g/events.out.tfevents.1.alpha.1.0", ts)

	r := NewResolver(fs, "/logs", WithClock(newMockClock()))
	first, err := r.Resolve(context.Background(), "g")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := r.Resolve(context.Background(), "g")
		require.NoError(t, err)
		assert.Equal(t, first.Hostname, again.Hostname)
	}
	assert.Equal(t, "alpha", first.Hostname)
}

func TestResolveNoEventFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/logs/empty", 0755))
	touch(t, fs, "/logs/empty/comment.txt", now)

	r := NewResolver(fs, "/logs")
	for _, group := range []string{"empty", "missing"} {
		_, err := r.Resolve(context.Background(), group)
		assert.ErrorIs(t, err, errs.ErrNotFound, group)
	}
}

func TestResolveMalformedName(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs, "/logs/g/events.out.short", now)

	_, err := NewResolver(fs, "/logs").Resolve(context.Background(), "g")
	assert.ErrorIs(t, err, errs.ErrMalformedName)
}

func TestResolveFutureModTimeIsNotClamped(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs, "/logs/g/events.out.tfevents.1.host.1.0", now.Add(2*time.Hour))

	info, err := NewResolver(fs, "/logs", WithClock(newMockClock())).Resolve(context.Background(), "g")
	require.NoError(t, err)
	assert.Equal(t, -2.0, info.ElapsedHours)
	assert.Equal(t, "<strong>host</strong>(-2.0hrs ago)", info.Display())
}

func TestResolveAlias(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs, "/logs/g/events.out.tfevents.1.gpu7.1.0", now.Add(-30*time.Minute))

	t.Run("alias found", func(t *testing.T) {
		r := NewResolver(fs, "/logs", WithClock(newMockClock()), WithAliasTable(staticAliases{"gpu7": "lab-box"}))
		info, err := r.Resolve(context.Background(), "g")
		require.NoError(t, err)
		assert.Equal(t, "gpu7", info.Hostname)
		assert.Equal(t, "<strong>lab-box</strong>(0.5hrs ago)", info.Display())
	})

	t.Run("alias missing falls back to hostname", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		r := NewResolver(fs, "/logs",
			WithClock(newMockClock()),
			WithAliasTable(staticAliases{}),
			WithLogger(zap.New(core)),
		)
		info, err := r.Resolve(context.Background(), "g")
		require.NoError(t, err)
		assert.Equal(t, "<strong>gpu7</strong>(0.5hrs ago)", info.Display())
		assert.Equal(t, 1, logs.FilterMessage("host alias unavailable").Len())
	})

	t.Run("alias file variants", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/util/synch/alternative_paths.json", []byte(`{"gpu7":{"alias":"lab-box"}}`), 0644))
		require.NoError(t, afero.WriteFile(fs, "/util/broken.json", []byte(`{"gpu7":`), 0644))
		require.NoError(t, afero.WriteFile(fs, "/util/other.json", []byte(`{"gpu8":{"alias":"x"}}`), 0644))

		tests := []struct {
			path string
			want string
		}{
			{"/util/synch/alternative_paths.json", "lab-box"},
			{"/util/broken.json", "gpu7"},
			{"/util/other.json", "gpu7"},
			{"/util/absent.json", "gpu7"},
			{"", "gpu7"},
		}
		for _, tt := range tests {
			r := NewResolver(fs, "/logs", WithClock(newMockClock()), WithAliasTable(NewFileAliasTable(fs, tt.path)))
			info, err := r.Resolve(context.Background(), "g")
			require.NoError(t, err, tt.path)
			assert.Equal(t, tt.want, info.DisplayHost(), tt.path)
		}
	})
}

func TestResolveRejectsBadGroup(t *testing.T) {
	_, err := NewResolver(afero.NewMemMapFs(), "/logs").Resolve(context.Background(), "../x")
	assert.ErrorIs(t, err, errs.ErrRequestFormat)
}

func TestResolveGroupNameWithGlobCharacters(t *testing.T) {
	fs := afero.NewMemMapFs()
	groups := []string{"sweep[lr=0.1]", "run*", "bs[32", "a?b"}
	for _, group := range groups {
		touch(t, fs, "/logs/"+group+"/events.out.tfevents.1.gpu7.1.0", now.Add(-time.Hour))
	}
	touch(t, fs, "/logs/sweep_lr=0.1/events.out.tfevents.1.decoy.1.0", now)

	r := NewResolver(fs, "/logs", WithClock(newMockClock()))
	for _, group := range groups {
		info, err := r.Resolve(context.Background(), group)
		require.NoError(t, err, group)
		assert.Equal(t, "gpu7", info.Hostname, group)
		assert.Equal(t, 1.0, info.ElapsedHours, group)
	}
}

func TestResolveUsesSymlinkModTime(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	group := filepath.Join(root, "g")
	require.NoError(t, os.MkdirAll(group, 0755))

	start := time.Now()
	target := filepath.Join(root, "target")
	require.NoError(t, os.WriteFile(target, []byte("evt"), 0644))
	old := start.Add(-100 * time.Hour)
	require.NoError(t, os.Chtimes(target, old, old))
	require.NoError(t, os.Symlink(target, filepath.Join(group, "events.out.tfevents.1.linked.1.0")))

	plain := filepath.Join(group, "events.out.tfevents.1.plain.1.0")
	require.NoError(t, os.WriteFile(plain, []byte("evt"), 0644))
	older := start.Add(-10 * time.Hour)
	require.NoError(t, os.Chtimes(plain, older, older))

	c := clock.NewMock()
	c.Set(start)
	info, err := NewResolver(afero.NewOsFs(), root, WithClock(c)).Resolve(context.Background(), "g")
	require.NoError(t, err)
	assert.Equal(t, "linked", info.Hostname)
}
