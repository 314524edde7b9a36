/*
Package server implements msgpack IPC for spell checking.

The server reads a stream of msgpack encoded requests from stdin and writes one msgpack
encoded response per request to stdout. Logs go to stderr so they never mix with responses.

# IPC

Every request carries an ID, an action and, for word actions, the word:

	{"id": "req_001", "a": "check", "w": "recieve"}
	{"id": "req_002", "a": "suggest", "w": "recieve", "l": 5}
	{"id": "req_003", "a": "info"}
	{"id": "req_004", "a": "clear", "w": "rec"}

An empty action is treated as "suggest". Check answers whether the word is in the
dictionary. The word is echoed after NFC normalization, as it was looked up:

	{"id": "req_001", "w": "recieve", "ok": false, "t": 3}

Suggest returns corrections ordered by distance, closest first. Known words get no
suggestions and "k" set:

	{"id": "req_002", "s": [{"w": "receive", "d": 3}], "c": 1, "t": 412, "k": false, "p": false}

When the search runs out of its time budget the suggestions found so far are returned with
"p" set. Times are in microseconds.

Clear drops cached suggestions for inputs starting with "w", or all of them when
"w" is empty, and reports how many were dropped:

	{"id": "req_004", "n": 2}

Bad requests get an error response with an HTTP-like code:

	{"id": "req_005", "e": "word exceeds maximum length of 64 characters", "c": 400}

On start the server writes a ready message with the dictionary size.
*/
package server

// Actions understood by the server.
const (
	ActionCheck   = "check"
	ActionSuggest = "suggest"
	ActionInfo    = "info"
	ActionClear   = "clear"
)

// Request - one client request
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Word   string `msgpack:"w,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
}

// CheckResponse - membership answer
type CheckResponse struct {
	ID        string `msgpack:"id"`
	Word      string `msgpack:"w"`
	Known     bool   `msgpack:"ok"`
	TimeTaken int64  `msgpack:"t"`
}

// Suggestion - one correction with its distance
type Suggestion struct {
	Word     string `msgpack:"w"`
	Distance int    `msgpack:"d"`
}

// SuggestResponse - ranked corrections
type SuggestResponse struct {
	ID          string       `msgpack:"id"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"`
	Known       bool         `msgpack:"k"`
	Partial     bool         `msgpack:"p"`
}

// InfoResponse - dictionary and server limits
type InfoResponse struct {
	ID             string         `msgpack:"id"`
	Words          int            `msgpack:"words"`
	Units          int            `msgpack:"units"`
	Source         string         `msgpack:"source,omitempty"`
	MaxWordLen     int            `msgpack:"max_word_len"`
	MaxSuggestions int            `msgpack:"max_suggestions"`
	Requests       uint64         `msgpack:"requests"`
	Cache          map[string]int `msgpack:"cache,omitempty"`
}

// ClearResponse - number of cached inputs dropped
type ClearResponse struct {
	ID      string `msgpack:"id"`
	Dropped int    `msgpack:"n"`
}

// ReadyMessage - written once when the server starts
type ReadyMessage struct {
	Status string `msgpack:"status"`
	Words  int    `msgpack:"words"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
