// Package cli handles cmd line input for checking words and browsing suggestions interactively
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/spellserve/internal/logger"
	"github.com/bastiangx/spellserve/internal/utils"
	"github.com/bastiangx/spellserve/pkg/trie"
	"github.com/cheynewallace/tabby"
	"golang.org/x/text/unicode/norm"
)

var log = logger.New("cli")

// InputHandler reads words line by line, reports whether each one is spelled
// correctly and prints a table of suggestions for the ones that are not.
type InputHandler struct {
	dict         *trie.Dictionary
	maxWordLen   int
	suggestLimit int
	timeout      time.Duration
	noFilter     bool
	in           io.Reader
	out          io.Writer
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(dict *trie.Dictionary, maxWordLen, limit int, timeout time.Duration, noFilter bool, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		dict:         dict,
		maxWordLen:   maxWordLen,
		suggestLimit: limit,
		timeout:      timeout,
		noFilter:     noFilter,
		in:           in,
		out:          out,
	}
}

// Start runs the interactive loop until the input ends.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, "spellserve CLI")
	fmt.Fprintln(h.out, "type a word and press Enter to check it (Ctrl+D to exit):")

	reader := bufio.NewReader(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		line, err := reader.ReadString('\n')
		if word := strings.TrimSpace(line); word != "" {
			h.handleInput(word)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(h.out)
				return nil
			}
			return err
		}
	}
}

// handleInput checks one word and prints the outcome.
func (h *InputHandler) handleInput(word string) {
	if !h.noFilter && !utils.IsValidInput(word) {
		log.Infof("Skipping input: '%s'", word)
		fmt.Fprintf(h.out, "'%s' is not a word, skipped\n", word)
		return
	}
	word = norm.NFC.String(word)
	if utf8.RuneCountInString(word) > h.maxWordLen {
		log.Errorf("Word too long: %s", word)
		fmt.Fprintf(h.out, "'%s' is longer than %d characters\n", word, h.maxWordLen)
		return
	}

	if h.dict.Exists(word) {
		fmt.Fprintf(h.out, "'%s' is spelled correctly\n", word)
		return
	}

	ctx := context.Background()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	suggestions, err := h.dict.SuggestContext(ctx, word)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for '%s'", elapsed, word)
	if err != nil {
		log.Warnf("Search for '%s' stopped early: %v", word, err)
	}

	if len(suggestions) == 0 {
		fmt.Fprintf(h.out, "'%s' is not in the dictionary, no suggestions\n", word)
		return
	}
	if len(suggestions) > h.suggestLimit {
		suggestions = suggestions[:h.suggestLimit]
	}

	fmt.Fprintf(h.out, "'%s' is not in the dictionary, %d suggestions:\n", word, len(suggestions))
	h.printTable(suggestions)
	fmt.Fprintf(h.out, "\nsuggestions generated in %v\n", elapsed.Round(time.Microsecond))
}

func (h *InputHandler) printTable(suggestions []trie.Suggestion) {
	table := tabby.NewCustom(tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0))
	table.AddHeader("Rank", "Suggestion", "Distance")
	for i, s := range suggestions {
		table.AddLine(i+1, s.Word, s.Score)
	}
	table.Print()
}
