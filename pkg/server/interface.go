/*
Package server implements msgpack IPC for text generation services.

The server reads binary msgpack messages from stdin and writes responses
to stdout, one message per request, processed synchronously. Logs go to
stderr so the message stream stays clean.

# IPC

Render requests carry a Markov order, a token limit and optionally a PRNG
seed or a deterministic corpus start offset:

	{"id": "req_001", "action": "render", "o": 2, "l": 80}
	{"id": "req_002", "action": "render", "o": 3, "l": 40, "seed": 7}
	{"id": "req_003", "action": "render", "o": 3, "start": 0}

The server responds with the emitted tokens, their count and timing in
microseconds:

	{"id": "req_001", "toks": ["the", "cat", ...], "c": 80, "t": 145}

Info requests report corpus and vocabulary stats, optionally scoped to a
token prefix:

	{"id": "info_001", "action": "info", "p": "th"}

Config requests adjust generation defaults without a restart:

	{"id": "cfg_001", "action": "set_config", "o": 4, "l": 120}

Unknown actions and invalid parameters produce an error response carrying
the request id, a message and a code.
*/
package server

// Request is the single envelope for every incoming message.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"` // "render" (default), "info", "set_config"
	Order  *int   `msgpack:"o,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Seed   *int64 `msgpack:"seed,omitempty"`
	Start  *int   `msgpack:"start,omitempty"`
	Prefix string `msgpack:"p,omitempty"` // vocab prefix for "info"
}

// RenderResponse carries one generated token sequence.
type RenderResponse struct {
	ID        string   `msgpack:"id"`
	Tokens    []string `msgpack:"toks"`
	Text      string   `msgpack:"text,omitempty"`
	Count     int      `msgpack:"c"`
	TimeTaken int64    `msgpack:"t"`
}

// VocabEntry is one distinct token with its occurrence count.
type VocabEntry struct {
	Token string `msgpack:"w"`
	Count int    `msgpack:"n"`
}

// InfoResponse reports corpus and vocabulary statistics.
type InfoResponse struct {
	ID          string       `msgpack:"id"`
	CorpusSize  int          `msgpack:"corpus_size"`
	Distinct    int          `msgpack:"distinct"`
	Order       int          `msgpack:"order"`
	MaxOrder    int          `msgpack:"max_order"`
	PrefixTotal int          `msgpack:"prefix_total,omitempty"`
	Entries     []VocabEntry `msgpack:"entries,omitempty"`
}

// ConfigResponse acknowledges a config update.
type ConfigResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
}

// ErrorResponse holds basic error information for failed requests.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
