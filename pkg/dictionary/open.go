package dictionary

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/spellserve/internal/utils"
	"github.com/bastiangx/spellserve/pkg/trie"
	"golang.org/x/text/encoding/ianaindex"
)

// Options controls Open.
type Options struct {
	LoadOptions
	// CachePath, when set, receives the compiled trie of a word list and is
	// read back on later opens built from the same source and LoadOptions.
	CachePath string
	// Rebuild ignores an existing cache.
	Rebuild bool
}

// LoadFile builds a dictionary from a word list or compressed word list at path.
func LoadFile(path string, opts LoadOptions) (*trie.Dictionary, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCompiled:
		return LoadCompiledFile(path)
	case FormatWordList, FormatCompressed:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	start := time.Now()
	b := trie.NewBuilder()
	var stats LoadStats
	if format == FormatCompressed {
		stats, err = LoadCompressedWordList(f, b, opts)
	} else {
		stats, err = LoadWordList(f, b, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	d, err := b.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", path, err)
	}
	log.Debugf("Built %s: %d words from %d lines in %v", path, d.Len(), stats.Lines, time.Since(start))
	return d, nil
}

// Open returns a dictionary for path in any supported format, going through the
// compiled cache when one is configured.
func Open(path string, opts Options) (*trie.Dictionary, error) {
	if opts.CachePath == "" {
		return LoadFile(path, opts.LoadOptions)
	}

	want, err := describeSource(path, opts.LoadOptions)
	if err != nil {
		return nil, err
	}
	if !opts.Rebuild && cacheMatches(opts.CachePath, want) {
		d, err := LoadCompiledFile(opts.CachePath)
		if err == nil {
			log.Debugf("Using compiled cache %s", opts.CachePath)
			return d, nil
		}
		log.Warnf("Ignoring compiled cache: %v", err)
	}

	d, err := LoadFile(path, opts.LoadOptions)
	if err != nil {
		return nil, err
	}
	if err := saveCache(opts.CachePath, d, want); err != nil {
		log.Warnf("Failed to write compiled cache: %v", err)
	}
	return d, nil
}

// cacheInfo records what a compiled cache was built from. It is kept next to the
// cache file, and a cache is only reused when every field still matches.
type cacheInfo struct {
	Source        string `toml:"source"`
	Size          int64  `toml:"size"`
	ModTime       int64  `toml:"mod_time_ns"`
	Charset       string `toml:"charset"`
	SkipNormalize bool   `toml:"skip_normalize"`
}

func cacheInfoPath(cache string) string {
	return cache + ".toml"
}

func describeSource(path string, opts LoadOptions) (cacheInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return cacheInfo{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return cacheInfo{
		Source:        utils.GetAbsolutePath(path),
		Size:          stat.Size(),
		ModTime:       stat.ModTime().UnixNano(),
		Charset:       charsetName(opts.Charset),
		SkipNormalize: opts.SkipNormalize,
	}, nil
}

// charsetName canonicalizes a charset label so aliases such as "latin1" and
// "ISO-8859-1" describe the same cache.
func charsetName(charset string) string {
	label := strings.ToLower(strings.TrimSpace(charset))
	switch label {
	case "", "utf-8", "utf8":
		return "utf-8"
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return label
	}
	if name, err := ianaindex.IANA.Name(enc); err == nil {
		return strings.ToLower(name)
	}
	return label
}

func cacheMatches(cache string, want cacheInfo) bool {
	infoPath := cacheInfoPath(cache)
	if !utils.FileExists(cache) || !utils.FileExists(infoPath) {
		log.Debugf("No compiled cache at %s", cache)
		return false
	}
	var got cacheInfo
	if err := utils.LoadTOMLFile(infoPath, &got); err != nil {
		return false
	}
	if got != want {
		log.Debugf("Compiled cache %s was built from %+v, need %+v", cache, got, want)
		return false
	}
	return true
}

// saveCache writes the cache and then its info. The old info is removed first so it
// never outlives the cache it describes.
func saveCache(cache string, d *trie.Dictionary, info cacheInfo) error {
	infoPath := cacheInfoPath(cache)
	if err := os.Remove(infoPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := SaveFile(cache, d); err != nil {
		return err
	}
	return utils.SaveTOMLFile(info, infoPath)
}
