package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bastiangx/spellserve/pkg/trie"
)

// Compiled trie file layout, all little-endian:
//
//	[4]byte  magic "SPTR"
//	uint16   format version
//	uint16   reserved, zero
//	uint32   number of units
//	uint32   units...
const (
	formatVersion uint16 = 1
	// maxUnits bounds the unit count accepted from a header.
	maxUnits = 1 << 31
	// readBlock is how many units are decoded per read, so a lying header cannot
	// force one huge allocation before the stream runs dry.
	readBlock = 1 << 16
)

var magic = [4]byte{'S', 'P', 'T', 'R'}

var (
	ErrBadMagic = errors.New("not a compiled dictionary")
	ErrVersion  = errors.New("unsupported compiled dictionary version")
)

type fileHeader struct {
	Magic    [4]byte
	Version  uint16
	Reserved uint16
	Units    uint32
}

// Write serializes the encoded trie of d to w.
func Write(w io.Writer, d *trie.Dictionary) error {
	units := d.Units()
	bw := bufio.NewWriter(w)

	hdr := fileHeader{Magic: magic, Version: formatVersion, Units: uint32(len(units))}
	if err := binary.Write(bw, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, units); err != nil {
		return fmt.Errorf("failed to write units: %w", err)
	}
	return bw.Flush()
}

// Read decodes a compiled trie written by Write and validates it.
func Read(r io.Reader) (*trie.Dictionary, error) {
	br := bufio.NewReader(r)

	var hdr fileHeader
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if hdr.Magic != magic {
		return nil, ErrBadMagic
	}
	if hdr.Version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, hdr.Version)
	}
	if hdr.Units == 0 || hdr.Units > maxUnits {
		return nil, fmt.Errorf("invalid unit count %d", hdr.Units)
	}

	total := int(hdr.Units)
	units := make([]uint32, 0, min(total, readBlock))
	for len(units) < total {
		block := make([]uint32, min(readBlock, total-len(units)))
		if err := binary.Read(br, binary.LittleEndian, block); err != nil {
			return nil, fmt.Errorf("failed to read units at %d of %d: %w", len(units), total, err)
		}
		units = append(units, block...)
	}

	d, err := trie.FromUnits(units)
	if err != nil {
		return nil, err
	}
	log.Debugf("Read compiled trie: %d words, %d units", d.Len(), len(units))
	return d, nil
}

// SaveFile writes d to path, replacing it atomically.
func SaveFile(path string, d *trie.Dictionary) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".sptr-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, d); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move compiled dictionary into %s: %w", path, err)
	}
	log.Debugf("Saved compiled dictionary to %s", path)
	return nil
}

// LoadCompiledFile reads a compiled dictionary from path.
func LoadCompiledFile(path string) (*trie.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return d, nil
}
