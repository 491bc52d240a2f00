package server

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/penserve/internal/logger"
	"github.com/bastiangx/penserve/pkg/config"
	"github.com/bastiangx/penserve/pkg/pen"
	"github.com/bastiangx/penserve/pkg/vocab"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for text generation
type Server struct {
	pen        *pen.Pen
	vocab      *vocab.Vocab
	cfg        *config.Config
	configPath string
	dec        *msgpack.Decoder
	enc        *msgpack.Encoder
	log        *log.Logger
}

// NewServer creates a generation server using stdin/stdout for IPC.
// msgpack owns stdout, so the server's own logs go to stderr.
func NewServer(p *pen.Pen, v *vocab.Vocab, cfg *config.Config, configPath string) *Server {
	return &Server{
		pen:        p,
		vocab:      v,
		cfg:        cfg,
		configPath: configPath,
		dec:        msgpack.NewDecoder(os.Stdin),
		enc:        msgpack.NewEncoder(os.Stdout),
		log:        logger.New("ipc"),
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	s.log.Debug("Starting server.")

	// Signal that the server is ready
	s.send(map[string]string{"status": "ready"})

	for {
		var request Request
		if err := s.dec.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches on the action field
func (s *Server) handleRequest(request Request) {
	switch request.Action {
	case "", "render":
		s.handleRender(request)
	case "info":
		s.handleInfo(request)
	case "set_config":
		s.handleSetConfig(request)
	case "health":
		s.send(map[string]string{"id": request.ID, "status": "ok"})
	default:
		s.sendError(request.ID, "Unknown action: "+request.Action, 400)
	}
}

func (s *Server) send(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{
		ID:    id,
		Error: message,
		Code:  code,
	})
}

// handleRender runs one render with the requested parameters, falling
// back to configured defaults for anything the request leaves out.
func (s *Server) handleRender(request Request) {
	order := s.cfg.Gen.Order
	if request.Order != nil {
		order = *request.Order
	}
	if order < 0 || order > s.cfg.Server.MaxOrder {
		s.sendError(request.ID, "Order outside [0, max_order]", 400)
		s.log.Debugf("Rejected order %d in request %s", order, request.ID)
		return
	}

	limit := request.Limit
	if limit < 1 {
		limit = s.cfg.Gen.MaxTokens
	}
	if limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	picker := pen.NewPicker()
	if request.Seed != nil {
		picker = pen.NewSeededPicker(*request.Seed)
	}
	start := pen.NoStart
	if request.Start != nil {
		start = *request.Start
	}

	began := time.Now()
	stream, err := s.pen.RenderWith(order, picker, start)
	if err != nil {
		s.sendError(request.ID, err.Error(), 400)
		s.log.Errorf("Render setup for %s: %v", request.ID, err)
		return
	}
	tokens, err := stream.Tokens(limit)
	if err != nil {
		// picker contract violations are programming errors, not bad input
		code := 500
		if errors.Is(err, pen.ErrInvalidArgument) {
			code = 400
		}
		s.sendError(request.ID, err.Error(), code)
		s.log.Errorf("Render for %s: %v", request.ID, err)
		return
	}
	elapsed := time.Since(began)

	s.send(RenderResponse{
		ID:        request.ID,
		Tokens:    tokens,
		Text:      strings.Join(tokens, s.cfg.Gen.Separator),
		Count:     len(tokens),
		TimeTaken: elapsed.Microseconds(),
	})
}

// handleInfo reports corpus and vocab stats, scoped to a prefix if given.
func (s *Server) handleInfo(request Request) {
	response := InfoResponse{
		ID:         request.ID,
		CorpusSize: s.pen.Corpus().Len(),
		Distinct:   s.vocab.Distinct(),
		Order:      s.cfg.Gen.Order,
		MaxOrder:   s.cfg.Server.MaxOrder,
	}
	if request.Prefix != "" {
		response.PrefixTotal = s.vocab.PrefixTotal(request.Prefix)
		entries := s.vocab.WithPrefix(request.Prefix)
		if len(entries) > s.cfg.CLI.VocabLimit {
			entries = entries[:s.cfg.CLI.VocabLimit]
		}
		response.Entries = make([]VocabEntry, len(entries))
		for i, e := range entries {
			response.Entries[i] = VocabEntry{Token: e.Token, Count: e.Count}
		}
	}
	s.send(response)
}

// handleSetConfig updates generation defaults and persists them.
func (s *Server) handleSetConfig(request Request) {
	var order, maxTokens *int
	if request.Order != nil {
		if *request.Order < 0 || *request.Order > s.cfg.Server.MaxOrder {
			s.send(ConfigResponse{ID: request.ID, Status: "error", Error: "order outside [0, max_order]"})
			return
		}
		order = request.Order
	}
	if request.Limit > 0 {
		limit := request.Limit
		maxTokens = &limit
	}
	if err := s.cfg.Update(s.configPath, order, maxTokens); err != nil {
		s.log.Errorf("Saving config: %v", err)
		s.send(ConfigResponse{ID: request.ID, Status: "error", Error: err.Error()})
		return
	}
	s.send(ConfigResponse{ID: request.ID, Status: "ok"})
}
