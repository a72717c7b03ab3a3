package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/imishinist/hparams-inspector/internal/models"
)

// Extensions lists the file extensions the format-dispatching parsers accept.
var Extensions = []string{".json", ".yaml", ".yml"}

func ParseSessionStartInfo(path string, reader io.Reader) (*models.SessionStartInfo, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseJSONSessionStartInfo(reader)
	case ".yaml", ".yml":
		return ParseYAMLSessionStartInfo(reader)
	default:
		return nil, unsupported(ext)
	}
}

func ParseMetrics(path string, reader io.Reader) (*models.MetricsFile, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseJSONMetrics(reader)
	case ".yaml", ".yml":
		return ParseYAMLMetrics(reader)
	default:
		return nil, unsupported(ext)
	}
}

func ParseExperiment(path string, reader io.Reader) (*models.Experiment, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseJSONExperiment(reader)
	case ".yaml", ".yml":
		return ParseYAMLExperiment(reader)
	default:
		return nil, unsupported(ext)
	}
}

func unsupported(ext string) error {
	return fmt.Errorf("unsupported file format: %s (supported: .json, .yaml, .yml)", ext)
}
