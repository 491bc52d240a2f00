package pen

import (
	"strings"
	"sync"
)

// Compare is a total order over tokens. Negative means a sorts before b,
// zero means the tokens are equal, positive means a sorts after b.
type Compare func(a, b string) int

// OrdinalCompare is the default token comparer (byte-wise ordinal).
func OrdinalCompare(a, b string) int {
	return strings.Compare(a, b)
}

// FoldCompare orders tokens case-insensitively under simple Unicode folding.
func FoldCompare(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// DefaultSentinel is the "no more text" token. The empty string stands in
// for the source-less token value; callers can pick any other sentinel,
// including one that never occurs in the corpus.
const DefaultSentinel = ""

var internPool = sync.Map{}

func internToken(s string) string {
	if cached, exists := internPool.Load(s); exists {
		return cached.(string)
	}
	internPool.Store(s, s)
	return s
}

// Corpus is the immutable token sequence generation samples from.
// Safe for concurrent readers once constructed.
type Corpus struct {
	tokens   []string
	sentinel string
	cmp      Compare
}

// NewCorpus copies tokens into a new Corpus. A nil slice is rejected; an
// empty one is legal and yields a corpus that renders nothing. When intern
// is set, each token is canonicalised through a process-wide pool so
// repeated tokens share storage.
func NewCorpus(tokens []string, sentinel string, cmp Compare, intern bool) (*Corpus, error) {
	if tokens == nil {
		return nil, errInvalid("tokens", "nil sequence")
	}
	if cmp == nil {
		return nil, errInvalid("cmp", "nil comparer")
	}

	copied := make([]string, len(tokens))
	if intern {
		for i, t := range tokens {
			copied[i] = internToken(t)
		}
	} else {
		copy(copied, tokens)
	}

	return &Corpus{
		tokens:   copied,
		sentinel: sentinel,
		cmp:      cmp,
	}, nil
}

// NewDefaultCorpus builds a Corpus with the default sentinel and ordinal
// comparer, without interning.
func NewDefaultCorpus(tokens []string) (*Corpus, error) {
	return NewCorpus(tokens, DefaultSentinel, OrdinalCompare, false)
}

// Len returns the number of tokens in the corpus.
func (c *Corpus) Len() int {
	return len(c.tokens)
}

// Token returns the token stored at the given corpus position.
func (c *Corpus) Token(pos int) string {
	return c.tokens[pos]
}

// Sentinel returns the corpus' termination token.
func (c *Corpus) Sentinel() string {
	return c.sentinel
}

// Tokens returns a copy of the corpus content, mainly for inspection.
func (c *Corpus) Tokens() []string {
	out := make([]string, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// isSentinel reports whether the token at pos compares equal to the sentinel.
func (c *Corpus) isSentinel(pos int) bool {
	return c.cmp(c.tokens[pos], c.sentinel) == 0
}
