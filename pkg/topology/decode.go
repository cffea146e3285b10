package topology

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
)

// Supported file formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// FormatFromPath infers the file format from the extension. Anything that
// is not .json is treated as TOML.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Decode reads a topology in the given format from r and validates it.
// Decode does not close r.
func Decode(r io.Reader, format string) (*Topology, error) {
	var t Topology
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&t); err != nil {
			return nil, rmerrors.Wrap(rmerrors.ErrCodeInvalidTopology, err, "decode toml")
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&t); err != nil {
			return nil, rmerrors.Wrap(rmerrors.ErrCodeInvalidTopology, err, "decode json")
		}
	default:
		return nil, rmerrors.New(rmerrors.ErrCodeInvalidFormat, "unsupported topology format %q", format)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load opens the file at path, decodes it with [Decode] using the format
// implied by its extension, and closes it.
func Load(path string) (*Topology, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, rmerrors.Wrap(rmerrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
