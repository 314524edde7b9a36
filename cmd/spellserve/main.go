// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the spellserve spell checking server and CLI [DBG] application.

spellserve checks words against a compiled trie dictionary and suggests corrections
ranked by edit cost. It can operate as a MessagePack IPC server for integration with
text editors, or as a CLI application for testing and debugging.

# Usage

Start the server with the dictionary found in the data directory:

	spellserve

Use a specific word list in a legacy charset and enable debug mode:

	spellserve -dict /path/to/de_DE.txt -charset ISO-8859-1 -d

Run in CLI mode for interactive testing:

	spellserve -c -limit 5

Compile a word list once and export the compiled form:

	spellserve -dict words.txt -export words.sptr

# Dictionaries

A dictionary is a word list (.txt, .dic) with one word per line, a zlib-compressed word
list (.z, .zlib), or a compiled trie (.sptr, .bin). Word lists are compiled on start and
the result is cached in the config dir, so later starts load the cache unless the word
list is newer or -rebuild is given.

# Configuration

Runtime configuration is read from config.toml in the config dir, created with defaults
if it doesn't exist:

	[server]
	max_word_len = 64
	suggest_timeout_ms = 250
	max_suggestions = 20

	[dict]
	path = ""
	cache_path = ""
	charset = "utf-8"
	rebuild_cache = false

	[cli]
	default_limit = 10
	default_no_filter = false

Command line flags take precedence over the file.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout, see package server:

	{"id": "req1", "a": "suggest", "w": "recieve", "l": 5}
	{"id": "req1", "s": [{"w": "receive", "d": 3}], "c": 1, "t": 412, "k": false, "p": false}

# Command Line Flags

	-version
	    Show current version
	-dict string
	    Dictionary file (default: search the data dirs)
	-export string
	    Write the compiled dictionary to this path and exit
	-config string
	    Config file (default: config.toml in the config dir)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to show in CLI mode
	-no-filter
	    Disable input filtering in CLI mode
	-charset string
	    Charset of the word list
	-rebuild
	    Ignore the compiled cache and rebuild it
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/spellserve/internal/cli"
	"github.com/bastiangx/spellserve/internal/logger"
	"github.com/bastiangx/spellserve/internal/utils"
	"github.com/bastiangx/spellserve/pkg/config"
	"github.com/bastiangx/spellserve/pkg/dictionary"
	"github.com/bastiangx/spellserve/pkg/server"
	"github.com/bastiangx/spellserve/pkg/trie"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	Version = "0.1.0-beta"
	AppName = "spellserve"
	gh      = "https://github.com/bastiangx/spellserve"
)

// sigHandler returns a context cancelled on SIGINT/SIGTERM and exits once it is.
// Exiting is needed since the server blocks reading stdin.
func sigHandler() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
	return ctx, stop
}

// main only manages the flow. Loading, checking and serving live in their packages.
func main() {
	ctx, stop := sigHandler()
	defer stop()

	showVersion := flag.Bool("version", false, "Show current version")
	dictFlag := flag.String("dict", "", "Dictionary file: word list (.txt, .dic), compressed word list (.z) or compiled trie (.sptr)")
	exportPath := flag.String("export", "", "Write the compiled dictionary to this path and exit")
	configFlag := flag.String("config", "", "Path to config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of suggestions to show in CLI mode (default from config)")
	noFilter := flag.Bool("no-filter", false, "Disable input filtering (DBG only)")
	charset := flag.String("charset", "", "Charset of the word list, e.g. ISO-8859-1 (default from config)")
	rebuild := flag.Bool("rebuild", false, "Ignore the compiled cache and rebuild it")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to initialize path resolver: %v", err)
		log.Print("Either env is not set or system is not supported")
		os.Exit(1)
	}
	for k, v := range pathResolver.GetRuntimeInfo() {
		log.Debug("runtime", k, v)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFlag, pathResolver)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", configPath)

	// Flags override the config file.
	if *dictFlag != "" {
		appConfig.Dict.Path = *dictFlag
	}
	if *charset != "" {
		appConfig.Dict.Charset = *charset
	}
	if *rebuild {
		appConfig.Dict.RebuildCache = true
	}
	if *limit > 0 {
		appConfig.CLI.DefaultLimit = *limit
	}
	if *noFilter {
		appConfig.CLI.DefaultNoFilter = true
	}

	dictPath, err := pathResolver.GetDictPath(appConfig.Dict.Path)
	if err != nil {
		log.Fatalf("Failed to resolve dictionary: %v", err)
	}

	dict, err := openDictionary(dictPath, appConfig.Dict, pathResolver)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}
	log.Debugf("Dictionary ready: %d words from %s", dict.Len(), dictPath)

	if *exportPath != "" {
		if err := dictionary.SaveFile(*exportPath, dict); err != nil {
			log.Fatalf("Failed to export dictionary: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Exported %s words to %s\n", formatCount(dict.Len()), *exportPath)
		return
	}

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		logger.SetReportTimestamp(false)
		log.Debug("Input info:",
			"limit", appConfig.CLI.DefaultLimit,
			"noFilter", appConfig.CLI.DefaultNoFilter)

		inputHandler := cli.NewInputHandler(dict, appConfig.Server.MaxWordLen, appConfig.CLI.DefaultLimit,
			appConfig.Server.SuggestTimeout(), appConfig.CLI.DefaultNoFilter, os.Stdin, os.Stdout)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(dict, dictPath, appConfig.Server, os.Stdin, os.Stdout)

	showStartupInfo(dictPath, dict)

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// openDictionary loads dictPath, caching the compiled form of word lists.
func openDictionary(dictPath string, cfg config.DictConfig, paths *utils.PathResolver) (*trie.Dictionary, error) {
	opts := dictionary.Options{
		LoadOptions: dictionary.LoadOptions{Charset: cfg.Charset},
		CachePath:   cfg.CachePath,
		Rebuild:     cfg.RebuildCache,
	}

	format, err := dictionary.DetectFileFormat(dictPath)
	if err != nil {
		return nil, err
	}
	if format == dictionary.FormatCompiled {
		opts.CachePath = ""
	} else if opts.CachePath == "" {
		opts.CachePath = paths.GetCachePath(dictPath)
	}
	log.Debugf("Opening %s as %v, cache=(%s)", dictPath, format, opts.CachePath)

	return dictionary.Open(dictPath, opts)
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ spellserve ] Spell checking and suggestions over msgpack")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dictPath string, dict *trie.Dictionary) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("============")
	println(" spellserve ")
	println("============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("dictionary: ( %s )", dictPath)
	log.Infof("words: %s", formatCount(dict.Len()))
	log.Info("status: ready")
	println("============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
