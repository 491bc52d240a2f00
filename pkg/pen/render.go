/*
Package pen generates pseudo-random text by sampling a variable-order
Markov chain straight off a token corpus, without building a transition
table.

A Pen owns an immutable Corpus and a suffix order Index over it. Each
render walks the index: the most recent tokens form a cyclic window, the
locator finds every corpus occurrence of that window, and a Picker chooses
one continuation uniformly. Occurrence counts stand in for frequencies, so
n-grams that repeat in the corpus dominate the successor distribution for
free.

	p, _ := pen.NewFromTokens(strings.Fields(text))
	stream, _ := p.Render(2)
	out, _ := stream.Tokens(50)

The Pen and its index are read-only after construction and can serve any
number of concurrent renders; each Stream is private to one consumer.
*/
package pen

import "strings"

// NoStart requests stochastic seeding: the first token is drawn from the
// whole non-sentinel region of the index instead of a fixed corpus offset.
const NoStart = -1

// Renderer is the single required capability: produce a token stream given
// a Markov order, a picker, and an optional deterministic start offset.
// The convenience wrappers on Pen are all sugar over this one operation.
type Renderer interface {
	RenderWith(order int, pk Picker, start int) (*Stream, error)
}

// Pen ties a Corpus to its suffix order Index.
type Pen struct {
	corpus *Corpus
	index  *Index
}

var _ Renderer = (*Pen)(nil)

// New builds a Pen over the given corpus, sorting the suffix order index
// once up front. Construction cost dominates for large corpora; renders
// afterwards only binary-search it.
func New(corpus *Corpus) (*Pen, error) {
	if corpus == nil {
		return nil, errInvalid("corpus", "nil corpus")
	}
	return &Pen{
		corpus: corpus,
		index:  buildIndex(corpus),
	}, nil
}

// NewFromTokens is shorthand for a Pen over a default Corpus (ordinal
// comparer, empty-string sentinel, no interning).
func NewFromTokens(tokens []string) (*Pen, error) {
	c, err := NewDefaultCorpus(tokens)
	if err != nil {
		return nil, err
	}
	return New(c)
}

// Corpus returns the underlying corpus.
func (p *Pen) Corpus() *Corpus { return p.corpus }

// Index returns the suffix order index.
func (p *Pen) Index() *Index { return p.index }

// Locate reports where the given recent-token context occurs in the
// corpus: the first matching index rank and the number of consecutive
// matches. A miss yields the insertion point and zero.
func (p *Pen) Locate(context []string) (startRank, count int) {
	return locate(p.corpus, p.index, tokenSample(context))
}

// RenderWith starts a render of the given Markov order. start is either
// NoStart or a corpus offset to seed from deterministically. The returned
// Stream computes nothing ahead of Next being called.
func (p *Pen) RenderWith(order int, pk Picker, start int) (*Stream, error) {
	if order < 0 {
		return nil, errInvalid("order", "negative")
	}
	if pk == nil {
		return nil, errInvalid("picker", "nil picker")
	}
	if start != NoStart && (start < 0 || start >= p.corpus.Len()) {
		return nil, errInvalid("start", "offset outside corpus")
	}
	return &Stream{
		pen:   p,
		pk:    pk,
		order: order,
		start: start,
		win:   newWindow(order),
	}, nil
}

// Render starts a render with the default PRNG picker.
func (p *Pen) Render(order int) (*Stream, error) {
	return p.RenderWith(order, NewPicker(), NoStart)
}

// RenderSeeded starts a reproducible render from a PRNG seed.
func (p *Pen) RenderSeeded(order int, seed int64) (*Stream, error) {
	return p.RenderWith(order, NewSeededPicker(seed), NoStart)
}

// RenderFrom starts a render seeded deterministically from a corpus
// offset: the first max(order, 1) tokens are read straight out of the
// corpus without consulting the picker.
func (p *Pen) RenderFrom(order int, pk Picker, start int) (*Stream, error) {
	if start == NoStart {
		return nil, errInvalid("start", "offset required")
	}
	return p.RenderWith(order, pk, start)
}

// Stream is one lazy render: a pull-based sequence of non-sentinel tokens.
// Not safe for concurrent use; start a fresh render per consumer instead.
type Stream struct {
	pen     *Pen
	pk      Picker
	order   int
	start   int
	win     *window
	emitted int
	done    bool
	err     error
}

// Next pulls the next token. It returns false once the render terminates
// or fails; check Err to tell the two apart.
func (s *Stream) Next() (string, bool) {
	if s.done {
		return "", false
	}
	if s.emitted < s.seedLen() {
		return s.stepSeed()
	}
	return s.stepSteady()
}

// Err returns the error that aborted the stream, if any. Tokens already
// pulled before the failure remain valid.
func (s *Stream) Err() error {
	return s.err
}

// Tokens pulls at most max tokens and returns them with any stream error.
func (s *Stream) Tokens(max int) ([]string, error) {
	if max < 0 {
		return nil, errInvalid("max", "negative")
	}
	out := make([]string, 0, max)
	for len(out) < max {
		tok, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, tok)
	}
	return out, s.err
}

// Text pulls at most max tokens and joins them with sep.
func (s *Stream) Text(max int, sep string) (string, error) {
	toks, err := s.Tokens(max)
	if err != nil {
		return "", err
	}
	return strings.Join(toks, sep), nil
}

// seedLen is how many tokens the seed phase produces: the full window for
// a deterministic start, a single token otherwise.
func (s *Stream) seedLen() int {
	if s.start != NoStart {
		if s.order > 1 {
			return s.order
		}
		return 1
	}
	return 1
}

func (s *Stream) stepSeed() (string, bool) {
	c, ix := s.pen.corpus, s.pen.index
	n := c.Len()

	if s.start != NoStart {
		off := s.start + s.emitted
		if off >= n || c.isSentinel(off) {
			s.done = true
			return "", false
		}
		tok := c.Token(off)
		s.win.Push(tok)
		s.emitted++
		return tok, true
	}

	// stochastic: one draw over the index plus a terminate slot
	if ix.AllSentinels() {
		s.done = true
		return "", false
	}
	pick := s.pk.Pick(n + 1)
	if pick < 0 || pick > n {
		return s.fail(errPicker(n+1, pick))
	}
	if pick == n {
		s.done = true
		return "", false
	}
	region := n - ix.FirstNonSentinelRank()
	rank := ix.FirstNonSentinelRank() + pick%region
	pos := ix.Pos(rank)
	// sentinels can still hide above the first non-sentinel rank
	if c.isSentinel(pos) {
		s.done = true
		return "", false
	}
	tok := c.Token(pos)
	s.win.Push(tok)
	s.emitted++
	return tok, true
}

func (s *Stream) stepSteady() (string, bool) {
	c, ix := s.pen.corpus, s.pen.index
	n := c.Len()

	var startRank, count, delta int
	if s.order == 0 {
		// unigram sampling: the whole corpus plus a terminate slot
		startRank, count, delta = 0, n+1, 0
	} else {
		startRank, count = locate(c, ix, s.win)
		delta = s.win.Len()
	}

	bound := count
	if bound < 1 {
		bound = 1
	}
	pick := s.pk.Pick(count)
	if pick < 0 || pick >= bound {
		return s.fail(errPicker(bound, pick))
	}

	rank := startRank + pick
	if rank >= ix.Len() {
		s.done = true
		return "", false
	}
	off := ix.Pos(rank) + delta
	if off >= n || c.isSentinel(off) {
		s.done = true
		return "", false
	}

	tok := c.Token(off)
	s.win.Push(tok)
	s.emitted++
	return tok, true
}

func (s *Stream) fail(err error) (string, bool) {
	s.err = err
	s.done = true
	return "", false
}
