/*
Package dictionary feeds word streams into a trie.Builder and stores compiled tries on disk.

Word lists are plain text with one word per line, optionally zlib-compressed and
optionally in a legacy charset. Compiled tries are written in a small binary format so
that later starts can skip the build step:

	d, err := dictionary.Open("words.txt", dictionary.Options{CachePath: "words.sptr"})
*/
package dictionary

import (
	"bufio"
	"compress/zlib"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/spellserve/internal/logger"
	"github.com/bastiangx/spellserve/pkg/trie"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var log = logger.New("dict")

// maxLineLen caps a single word-list line; longer lines stop the read with an error.
const maxLineLen = 64 * 1024

// LoadOptions controls how a word stream is decoded.
type LoadOptions struct {
	// Charset names the stream encoding (IANA name, e.g. "ISO-8859-1").
	// Empty or "utf-8" reads the stream as UTF-8.
	Charset string
	// SkipNormalize disables NFC normalization of each word.
	SkipNormalize bool
}

// LoadStats reports what a load did with the stream.
type LoadStats struct {
	Lines   int
	Added   int
	Short   int
	Invalid int
}

// LoadWordList reads one word per line from r into b. Lines that are not valid text are
// skipped. A read error stops the load; words read before it stay in the builder.
func LoadWordList(r io.Reader, b *trie.Builder, opts LoadOptions) (LoadStats, error) {
	var stats LoadStats

	dec, err := decoderFor(opts.Charset)
	if err != nil {
		return stats, err
	}
	if dec != nil {
		r = transform.NewReader(r, dec)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLen)
	for scanner.Scan() {
		stats.Lines++
		line := scanner.Bytes()
		if !utf8.Valid(line) {
			stats.Invalid++
			log.Debugf("Skipping undecodable line %d", stats.Lines)
			continue
		}

		word := strings.TrimSpace(string(line))
		if !opts.SkipNormalize {
			word = norm.NFC.String(word)
		}
		if utf8.RuneCountInString(word) < 2 {
			stats.Short++
			continue
		}
		b.Insert(word)
		stats.Added++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read word list after line %d: %w", stats.Lines, err)
	}

	log.Debugf("Loaded word list: %d lines, %d words, %d short, %d invalid",
		stats.Lines, stats.Added, stats.Short, stats.Invalid)
	return stats, nil
}

// LoadCompressedWordList is LoadWordList for a zlib-compressed stream.
func LoadCompressedWordList(r io.Reader, b *trie.Builder, opts LoadOptions) (LoadStats, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return LoadStats{}, fmt.Errorf("failed to open compressed word list: %w", err)
	}
	defer zr.Close()
	return LoadWordList(zr, b, opts)
}

// decoderFor resolves a charset name. A nil decoder means the input is already UTF-8.
func decoderFor(charset string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return enc.NewDecoder(), nil
}
