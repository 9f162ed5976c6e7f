package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// FileType identifies the on-disk format of a configuration file.
type FileType string

const (
	FileTypeJSON FileType = "json"
	FileTypeYAML FileType = "yaml"
	FileTypeTOML FileType = "toml"
)

func (f FileType) String() string {
	return string(f)
}

// Valid reports whether the file type is one the loader can parse.
func (f FileType) Valid() error {
	switch f {
	case FileTypeJSON, FileTypeYAML, FileTypeTOML:
		return nil
	default:
		return errors.New("invalid config file type", errors.CategoryValidation).
			WithTextCode("INVALID_FILE_TYPE").
			WithMetadata(map[string]any{
				"file_type": string(f),
				"valid_types": []string{
					string(FileTypeJSON),
					string(FileTypeYAML),
					string(FileTypeTOML),
				},
			})
	}
}

// Parser returns the koanf parser for the file type.
func (f FileType) Parser() koanf.Parser {
	switch f {
	case FileTypeJSON:
		return json.Parser()
	case FileTypeYAML:
		return yaml.Parser()
	case FileTypeTOML:
		return toml.Parser()
	default:
		panic(fmt.Errorf("invalid config file type: %s", f))
	}
}

// inferFileType maps a path's extension onto a FileType, defaulting to JSON
// for anything unrecognized.
func inferFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FileTypeYAML
	case ".toml":
		return FileTypeTOML
	case ".json":
		return FileTypeJSON
	}
	return FileTypeJSON
}
