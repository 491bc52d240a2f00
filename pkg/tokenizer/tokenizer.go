/*
Package tokenizer turns raw text into the token sequences pen corpora are
built from. Every tokenizer is a deterministic text-to-strings transform
(Random is deterministic given its picker); line handling and empty-token
policy live in Options so the splitters themselves stay dumb.
*/
package tokenizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bastiangx/penserve/pkg/pen"
)

// Tokenizer converts text into an ordered token sequence.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Options is the line and empty-token policy shared by all tokenizers.
type Options struct {
	// PerLine tokenizes each input line independently and concatenates
	// the results, so no token ever spans a line break.
	PerLine bool
	// KeepEmpty retains empty tokens produced by splitting. Dropped by
	// default since the default corpus sentinel is the empty string.
	KeepEmpty bool
}

func (o Options) apply(text string, split func(string) []string) []string {
	pieces := []string{text}
	if o.PerLine {
		pieces = strings.Split(text, "\n")
	}

	var out []string
	for _, piece := range pieces {
		for _, tok := range split(piece) {
			if tok == "" && !o.KeepEmpty {
				continue
			}
			out = append(out, tok)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// Chars splits text into single-rune tokens.
type Chars struct {
	Opts Options
}

func (c Chars) Tokenize(text string) []string {
	return c.Opts.apply(text, func(s string) []string {
		out := make([]string, 0, len(s))
		for _, r := range s {
			out = append(out, string(r))
		}
		return out
	})
}

// Split cuts text on a literal separator.
type Split struct {
	Sep  string
	Opts Options
}

func (s Split) Tokenize(text string) []string {
	return s.Opts.apply(text, func(piece string) []string {
		if s.Sep == "" {
			return strings.Fields(piece)
		}
		return strings.Split(piece, s.Sep)
	})
}

// Pattern tokenizes with a regular expression, either splitting on the
// pattern or emitting its matches.
type Pattern struct {
	re      *regexp.Regexp
	matches bool
	opts    Options
}

// NewPatternSplit compiles pattern and cuts text wherever it matches.
func NewPatternSplit(pattern string, opts Options) (*Pattern, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: bad pattern %q: %w", pattern, err)
	}
	return &Pattern{re: re, opts: opts}, nil
}

// NewPatternMatch compiles pattern and emits every match as a token.
func NewPatternMatch(pattern string, opts Options) (*Pattern, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: bad pattern %q: %w", pattern, err)
	}
	return &Pattern{re: re, matches: true, opts: opts}, nil
}

func (p *Pattern) Tokenize(text string) []string {
	return p.opts.apply(text, func(piece string) []string {
		if p.matches {
			return p.re.FindAllString(piece, -1)
		}
		return p.re.Split(piece, -1)
	})
}

// Random cuts text into chunks of picker-chosen rune length between Min
// and Max. With a seeded picker the split is reproducible.
type Random struct {
	Min    int
	Max    int
	Picker pen.Picker
	Opts   Options
}

func (r Random) Tokenize(text string) []string {
	min, max := r.Min, r.Max
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}
	pk := r.Picker
	if pk == nil {
		pk = pen.NewPicker()
	}

	return r.Opts.apply(text, func(piece string) []string {
		runes := []rune(piece)
		var out []string
		for i := 0; i < len(runes); {
			n := min + pk.Pick(max-min+1)
			if i+n > len(runes) {
				n = len(runes) - i
			}
			out = append(out, string(runes[i:i+n]))
			i += n
		}
		return out
	})
}
