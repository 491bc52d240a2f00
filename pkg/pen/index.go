package pen

import "sort"

// Index is the suffix order over a Corpus: a permutation of corpus
// positions sorted by comparing the token suffix that starts at each
// position. Functionally a suffix array, built by plain comparison sort.
// Immutable after build and safe for concurrent readers.
type Index struct {
	order []int
	// first rank whose corpus token is not the sentinel; Len() if none
	firstNonSentinel int
	allSentinels     bool
}

// buildIndex sorts all corpus positions with the suffix comparator and
// derives the sentinel bookkeeping.
func buildIndex(c *Corpus) *Index {
	n := c.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	sort.Slice(order, func(i, j int) bool {
		return suffixCompare(c, order[i], order[j]) < 0
	})

	first := n
	for r, pos := range order {
		if !c.isSentinel(pos) {
			first = r
			break
		}
	}

	return &Index{
		order:            order,
		firstNonSentinel: first,
		allSentinels:     first == n,
	}
}

// suffixCompare orders two corpus positions by their suffixes. The larger
// position is provisionally lesser: a suffix that runs out of tokens first
// is a prefix of the other and sorts before it. Walking both suffixes in
// lockstep, the first unequal token pair overrides that default.
func suffixCompare(c *Corpus, x, y int) int {
	d := 0
	if x > y {
		d = -1
	} else if x < y {
		d = 1
	}

	n := c.Len()
	for x < n && y < n {
		if r := c.cmp(c.tokens[x], c.tokens[y]); r != 0 {
			return r
		}
		x++
		y++
	}
	return d
}

// Len returns the number of ranked positions.
func (ix *Index) Len() int {
	return len(ix.order)
}

// Pos returns the corpus position holding the given rank.
func (ix *Index) Pos(rank int) int {
	return ix.order[rank]
}

// Order returns a copy of the rank-to-position permutation.
func (ix *Index) Order() []int {
	out := make([]int, len(ix.order))
	copy(out, ix.order)
	return out
}

// FirstNonSentinelRank returns the smallest rank whose corpus token is not
// the sentinel, or Len() when every token is one.
func (ix *Index) FirstNonSentinelRank() int {
	return ix.firstNonSentinel
}

// AllSentinels reports whether the corpus holds nothing but sentinels.
// Vacuously true for an empty corpus.
func (ix *Index) AllSentinels() bool {
	return ix.allSentinels
}
