package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/spellserve/internal/logger"
	"github.com/bastiangx/spellserve/pkg/config"
	"github.com/bastiangx/spellserve/pkg/trie"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"
)

var log = logger.New("server")

// Server handles the IPC for spell checking
type Server struct {
	dict     *trie.Dictionary
	source   string
	cfg      config.ServerConfig
	cache    *SuggestionCache
	decoder  *msgpack.Decoder
	writer   *bufio.Writer
	encoder  *msgpack.Encoder
	requests uint64
}

// NewServer creates a server reading requests from r and writing responses to w.
// source names the loaded dictionary in info responses.
func NewServer(dict *trie.Dictionary, source string, cfg config.ServerConfig, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		dict:    dict,
		source:  source,
		cfg:     cfg,
		cache:   NewSuggestionCache(cfg.CacheSize),
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
	}
}

// Start writes the ready message and serves requests until the input ends.
// A request that cannot be decoded ends the stream, since the decoder has lost its place.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting Server.")

	if err := s.send(ReadyMessage{Status: "ready", Words: s.dict.Len()}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return fmt.Errorf("failed to decode request: %w", err)
		}

		s.requests++
		if err := s.handleRequest(ctx, request); err != nil {
			return err
		}
	}
}

// handleRequest dispatches one request. Only write failures are returned.
func (s *Server) handleRequest(ctx context.Context, request Request) error {
	switch request.Action {
	case ActionCheck:
		return s.handleCheck(request)
	case ActionSuggest, "":
		return s.handleSuggest(ctx, request)
	case ActionClear:
		prefix := norm.NFC.String(request.Word)
		dropped := s.cache.Drop(prefix)
		log.Debugf("Dropped %d cached inputs under %q", dropped, prefix)
		return s.send(ClearResponse{ID: request.ID, Dropped: dropped})
	case ActionInfo:
		return s.send(InfoResponse{
			ID:             request.ID,
			Words:          s.dict.Len(),
			Units:          len(s.dict.Units()),
			Source:         s.source,
			MaxWordLen:     s.cfg.MaxWordLen,
			MaxSuggestions: s.cfg.MaxSuggestions,
			Requests:       s.requests,
			Cache:          s.cache.Stats(),
		})
	default:
		log.Debugf("Unknown action %q in request %s", request.Action, request.ID)
		return s.sendError(request.ID, fmt.Sprintf("unknown action: %s", request.Action), 400)
	}
}

// validateWord normalizes the requested word or describes why it is rejected.
func (s *Server) validateWord(word string) (string, string) {
	if word == "" {
		return "", "missing 'w' parameter"
	}
	if !utf8.ValidString(word) {
		return "", "word is not valid UTF-8"
	}
	word = norm.NFC.String(word)
	if utf8.RuneCountInString(word) > s.cfg.MaxWordLen {
		return "", fmt.Sprintf("word exceeds maximum length of %d characters", s.cfg.MaxWordLen)
	}
	return word, ""
}

func (s *Server) handleCheck(request Request) error {
	word, problem := s.validateWord(request.Word)
	if problem != "" {
		return s.sendError(request.ID, problem, 400)
	}

	start := time.Now()
	known := s.dict.Exists(word)
	return s.send(CheckResponse{
		ID:        request.ID,
		Word:      word,
		Known:     known,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleSuggest(ctx context.Context, request Request) error {
	word, problem := s.validateWord(request.Word)
	if problem != "" {
		return s.sendError(request.ID, problem, 400)
	}

	limit := request.Limit
	if limit < 1 || limit > s.cfg.MaxSuggestions {
		limit = s.cfg.MaxSuggestions
	}

	if timeout := s.cfg.SuggestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	known := s.dict.Exists(word)
	var found []trie.Suggestion
	var err error
	if !known {
		var hit bool
		if found, hit = s.cache.Get(word); !hit {
			found, err = s.dict.SuggestContext(ctx, word)
			if err == nil {
				s.cache.Put(word, found)
			}
		}
	}
	elapsed := time.Since(start)

	partial := false
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return s.sendError(request.ID, err.Error(), 503)
		}
		log.Warnf("Suggestions for %q cut off after %v", word, elapsed)
		partial = true
	}

	if len(found) > limit {
		found = found[:limit]
	}
	suggestions := make([]Suggestion, len(found))
	for i, f := range found {
		suggestions[i] = Suggestion{Word: f.Word, Distance: f.Score}
	}

	return s.send(SuggestResponse{
		ID:          request.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
		Known:       known,
		Partial:     partial,
	})
}

// send encodes one response and flushes it so the client sees it immediately.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
