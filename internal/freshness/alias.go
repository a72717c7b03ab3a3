package freshness

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/imishinist/hparams-inspector/internal/parser"
)

// AliasTable maps hostnames to display aliases.
type AliasTable interface {
	Lookup(hostname string) (string, error)
}

// FileAliasTable reads a JSON object of hostname -> {"alias": ...} on every
// lookup so edits show up without a restart.
type FileAliasTable struct {
	fs   afero.Fs
	path string
}

func NewFileAliasTable(fsys afero.Fs, path string) *FileAliasTable {
	return &FileAliasTable{fs: fsys, path: path}
}

func (t *FileAliasTable) Lookup(hostname string) (string, error) {
	if t.path == "" {
		return "", fmt.Errorf("alias table path is not configured")
	}

	file, err := t.fs.Open(t.path)
	if err != nil {
		return "", fmt.Errorf("failed to open alias table: %w", err)
	}
	defer file.Close()

	aliases, err := parser.ParseJSONAliases(file)
	if err != nil {
		return "", err
	}

	record, ok := aliases[hostname]
	if !ok {
		return "", fmt.Errorf("no alias for host %s", hostname)
	}
	if record.Alias == "" {
		return "", fmt.Errorf("empty alias for host %s", hostname)
	}
	return record.Alias, nil
}
