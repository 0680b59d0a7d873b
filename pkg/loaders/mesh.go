// Package loaders reads and writes mesh files as geometry.MeshData.
// Files may be compressed with zstd (.zst) or gzip (.gz).
package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-pathtracer/pkg/geometry"
)

// ErrUnsupportedFormat is returned for file extensions no loader handles
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// Format is a mesh file format
type Format string

const (
	FormatOBJ Format = "obj"
	FormatPLY Format = "ply"
)

// Compression is a whole-file compression wrapper
type Compression string

const (
	CompressionNone Compression = ""
	CompressionZstd Compression = "zst"
	CompressionGzip Compression = "gz"
)

// DetectFormat derives the mesh format and compression from a file name,
// e.g. "bunny.ply.zst" is zstd-compressed PLY
func DetectFormat(path string) (Format, Compression, error) {
	compression := detectCompression(path)
	name := strings.TrimSuffix(strings.ToLower(filepath.Base(path)), "."+string(compression))

	switch filepath.Ext(name) {
	case ".obj":
		return FormatOBJ, compression, nil
	case ".ply":
		return FormatPLY, compression, nil
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func detectCompression(path string) Compression {
	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".zst"):
		return CompressionZstd
	case strings.HasSuffix(name, ".gz"):
		return CompressionGzip
	}
	return CompressionNone
}

// Load reads a mesh file, choosing the parser and decompressor by extension
func Load(path string) (*geometry.MeshData, error) {
	format, compression, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatOBJ:
		return loadWith(path, compression, ReadOBJ)
	default:
		return loadWith(path, compression, ReadPLY)
	}
}

// LoadOBJ reads a Wavefront OBJ file, optionally compressed
func LoadOBJ(path string) (*geometry.MeshData, error) {
	return loadWith(path, detectCompression(path), ReadOBJ)
}

// LoadPLY reads a PLY file, optionally compressed
func LoadPLY(path string) (*geometry.MeshData, error) {
	return loadWith(path, detectCompression(path), ReadPLY)
}

func loadWith(path string, compression Compression, parse func(io.Reader) (*geometry.MeshData, error)) (*geometry.MeshData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh: %w", err)
	}
	defer file.Close()

	r, closeReader, err := decompress(bufio.NewReader(file), compression)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer closeReader()

	data, err := parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

func decompress(r io.Reader, compression Compression) (io.Reader, func(), error) {
	switch compression {
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd reader: %w", err)
		}
		return dec, dec.Close, nil
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	}
	return r, func() {}, nil
}

// Save writes data to path in the format and compression named by its extension.
// OBJ files are text, PLY files are binary little-endian.
func Save(path string, data *geometry.MeshData) (err error) {
	format, compression, err := DetectFormat(path)
	if err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mesh: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	buffered := bufio.NewWriter(file)
	w, closeWriter, err := compress(buffered, compression)
	if err != nil {
		return err
	}

	switch format {
	case FormatOBJ:
		err = WriteOBJ(w, data)
	default:
		err = WritePLY(w, data)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := closeWriter(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return buffered.Flush()
}

func compress(w io.Writer, compression Compression) (io.Writer, func() error, error) {
	switch compression {
	case CompressionZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd writer: %w", err)
		}
		return enc, enc.Close, nil
	case CompressionGzip:
		gz := gzip.NewWriter(w)
		return gz, gz.Close, nil
	}
	return w, func() error { return nil }, nil
}
