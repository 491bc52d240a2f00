// Package cli handles cmd line input for generating text and poking at
// the corpus, mainly for DBG and testing
package cli

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/penserve/internal/utils"
	"github.com/bastiangx/penserve/pkg/pen"
	"github.com/bastiangx/penserve/pkg/vocab"
	"github.com/charmbracelet/log"
)

// InputHandler drives the interactive loop: a blank line renders with the
// current settings, colon commands adjust them or query the vocab.
type InputHandler struct {
	pen        *pen.Pen
	vocab      *vocab.Vocab
	order      int
	count      int
	seed       *int64
	separator  string
	vocabLimit int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(p *pen.Pen, v *vocab.Vocab, order, count, vocabLimit int, separator string) *InputHandler {
	return &InputHandler{
		pen:        p,
		vocab:      v,
		order:      order,
		count:      count,
		separator:  separator,
		vocabLimit: vocabLimit,
	}
}

// Start begins the interface loop.
// Reads a line from stdin, hands it to handleInput, repeats until stdin
// closes or reading fails.
func (h *InputHandler) Start() error {
	log.Print("penserve CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("press Enter to generate; :order n, :count n, :seed n, :vocab prefix, :info (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		h.handleInput(strings.TrimSpace(line))
	}
}

// handleInput processes a single line: either a command or a render.
func (h *InputHandler) handleInput(line string) {
	if strings.HasPrefix(line, ":") {
		h.handleCommand(line)
		return
	}

	start := time.Now()
	stream, err := h.render()
	if err != nil {
		log.Errorf("Render: %v", err)
		return
	}
	text, err := stream.Text(h.count, h.separator)
	if err != nil {
		log.Errorf("Render aborted: %v", err)
		return
	}
	elapsed := time.Since(start)

	if text == "" {
		log.Warn("Nothing generated (empty or all-sentinel corpus?)")
		return
	}
	log.Debugf("Took [ %v ] at order %d", elapsed, h.order)
	log.Print(text)
}

func (h *InputHandler) render() (*pen.Stream, error) {
	if h.seed != nil {
		return h.pen.RenderSeeded(h.order, *h.seed)
	}
	return h.pen.Render(h.order)
}

func (h *InputHandler) handleCommand(line string) {
	fields := strings.Fields(line)
	cmd := fields[0]
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch cmd {
	case ":order":
		if n, err := strconv.Atoi(arg); err == nil && n >= 0 {
			h.order = n
			log.Printf("order = %d", n)
		} else {
			log.Errorf("Bad order: %q", arg)
		}
	case ":count":
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			h.count = n
			log.Printf("count = %d", n)
		} else {
			log.Errorf("Bad count: %q", arg)
		}
	case ":seed":
		if arg == "" {
			h.seed = nil
			log.Print("seed cleared")
			return
		}
		if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
			h.seed = &n
			log.Printf("seed = %d", n)
		} else {
			log.Errorf("Bad seed: %q", arg)
		}
	case ":vocab":
		h.showVocab(arg)
	case ":info":
		h.showInfo()
	default:
		log.Errorf("Unknown command: %s", cmd)
	}
}

func (h *InputHandler) showVocab(prefix string) {
	entries := h.vocab.WithPrefix(prefix)
	if len(entries) == 0 {
		log.Warnf("No tokens with prefix %q", prefix)
		return
	}
	if len(entries) > h.vocabLimit {
		entries = entries[:h.vocabLimit]
	}
	log.Printf("Found %d tokens for prefix %q:", len(entries), prefix)
	for i, e := range entries {
		log.Printf("%2d. %-30s (count: %8s)", i+1, e.Token, utils.FormatWithCommas(e.Count))
	}
}

func (h *InputHandler) showInfo() {
	ix := h.pen.Index()
	log.Printf("corpus tokens:   %s", utils.FormatWithCommas(h.pen.Corpus().Len()))
	log.Printf("distinct tokens: %s", utils.FormatWithCommas(h.vocab.Distinct()))
	log.Printf("all sentinels:   %v", ix.AllSentinels())
	log.Printf("order / count:   %d / %d", h.order, h.count)
}
