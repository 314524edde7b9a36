package dictionary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileFormat represents the dictionary file formats Open understands.
type FileFormat int

const (
	FormatUnknown    FileFormat = iota
	FormatWordList              // Plain text, one word per line
	FormatCompressed            // zlib-compressed word list
	FormatCompiled              // Encoded trie written by Write
)

var ErrUnknownFormat = errors.New("unknown dictionary format")

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatWordList: {
		Format:      FormatWordList,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt", ".dic"},
		MinSize:     1,
	},
	FormatCompressed: {
		Format:      FormatCompressed,
		Description: "Compressed Word List",
		Extensions:  []string{".z", ".zlib"},
		MinSize:     2, // zlib header
	},
	FormatCompiled: {
		Format:      FormatCompiled,
		Description: "Compiled Trie Dictionary",
		Extensions:  []string{".bin", ".sptr"},
		MinSize:     16, // header plus the root sentinel
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("%w: %d", ErrUnknownFormat, expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !hasExtension(formatInfo, ext) {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatCompiled {
		return validateCompiledHeader(filename)
	}
	return nil
}

// validateCompiledHeader checks the magic without decoding the units.
func validateCompiledHeader(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var head [4]byte
	if _, err := io.ReadFull(file, head[:]); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if !bytes.Equal(head[:], magic[:]) {
		return fmt.Errorf("%s: %w", filename, ErrBadMagic)
	}

	log.Debugf("Compiled file %s validated", filename)
	return nil
}

// DetectFileFormat picks a format from the file extension and, for compiled tries, the magic.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	for _, format := range []FileFormat{FormatCompiled, FormatCompressed, FormatWordList} {
		if !hasExtension(supportedFormats[format], ext) {
			continue
		}
		if err := ValidateFileFormat(filename, format); err != nil {
			return FormatUnknown, err
		}
		return format, nil
	}

	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

func hasExtension(info FormatInfo, ext string) bool {
	for _, e := range info.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
