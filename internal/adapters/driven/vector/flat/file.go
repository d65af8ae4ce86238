package flat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/clausefinder/internal/adapters/driven/vector"
	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

// index.flat layout (little endian):
//
//	magic      [4]byte "CFLT"
//	version    uint32
//	dims       uint32
//	count      uint32
//	generation [32]byte sha256 of the vectors.json written with it
//	rows       [count*dims]float32
var magic = [4]byte{'C', 'F', 'L', 'T'}

const formatVersion uint32 = 2

type header struct {
	Magic      [4]byte
	Version    uint32
	Dims       uint32
	Count      uint32
	Generation vector.Generation
}

const headerSize = 48

var errCorrupt = errors.New("corrupt flat index")

type flatFile struct {
	dims       int
	generation vector.Generation
	rows       []float32
}

func writeFlat(dir string, dims int, gen vector.Generation, entries []domain.IndexEntry) error {
	var buf bytes.Buffer
	buf.Grow(headerSize + len(entries)*dims*4)

	h := header{
		Magic:      magic,
		Version:    formatVersion,
		Dims:       uint32(dims),         //nolint:gosec // dims validated at build
		Count:      uint32(len(entries)), //nolint:gosec // small corpora
		Generation: gen,
	}
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return err
	}
	for _, e := range entries {
		if err := binary.Write(&buf, binary.LittleEndian, e.Vector); err != nil {
			return fmt.Errorf("cannot write vectors: %w", err)
		}
	}

	return vector.WriteFileAtomic(filepath.Join(dir, vector.FlatFile), buf.Bytes())
}

func readFlat(dir string) (flatFile, error) {
	data, err := os.ReadFile(filepath.Join(dir, vector.FlatFile))
	if err != nil {
		return flatFile{}, err
	}
	if len(data) < headerSize {
		return flatFile{}, fmt.Errorf("%w: short header", errCorrupt)
	}

	r := bytes.NewReader(data)
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return flatFile{}, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	if h.Magic != magic {
		return flatFile{}, fmt.Errorf("%w: bad magic %q", errCorrupt, h.Magic[:])
	}
	if h.Version != formatVersion {
		return flatFile{}, fmt.Errorf("%w: unsupported version %d", errCorrupt, h.Version)
	}
	if h.Dims == 0 || h.Count == 0 {
		return flatFile{}, fmt.Errorf("%w: empty", errCorrupt)
	}

	n := int(h.Count) * int(h.Dims)
	if r.Len() != n*4 {
		return flatFile{}, fmt.Errorf("%w: expected %d bytes of rows, found %d", errCorrupt, n*4, r.Len())
	}

	rows := make([]float32, n)
	if err := binary.Read(r, binary.LittleEndian, rows); err != nil {
		return flatFile{}, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return flatFile{dims: int(h.Dims), generation: h.Generation, rows: rows}, nil
}
