package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
)

// Format is an architecture file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported architecture file %q (want .toml or .json)", path)
	}
}

// Read decodes and validates an architecture from r.
func Read(r io.Reader, format Format) (network.Architecture, error) {
	var a network.Architecture
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&a); err != nil {
			return network.Architecture{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&a); err != nil {
			return network.Architecture{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return network.Architecture{}, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}

	if err := network.ValidateLayers(a.Layers); err != nil {
		return network.Architecture{}, err
	}
	return a, nil
}

// Import reads the architecture file at path. A file without a name takes
// the base name of the path.
func Import(path string) (network.Architecture, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return network.Architecture{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return network.Architecture{}, errors.Wrap(errors.ErrCodeNotFound, err, "architecture file %s", path)
		}
		return network.Architecture{}, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	a, err := Read(f, format)
	if err != nil {
		return network.Architecture{}, err
	}
	if a.Name == "" {
		a.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return a, nil
}

// Write encodes a to w.
func Write(a network.Architecture, w io.Writer, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(a)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
}

// Export writes a to path in the encoding its extension names.
func Export(a network.Architecture, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := Write(a, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
