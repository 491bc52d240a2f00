package pen

// sample is a read-only cyclic view of recent tokens, addressed oldest
// first. Both the generation window and plain slices satisfy it.
type sample interface {
	At(k int) string
	Len() int
}

// tokenSample adapts a plain slice for Locate.
type tokenSample []string

func (s tokenSample) At(k int) string { return s[k] }
func (s tokenSample) Len() int        { return len(s) }

// sampleCompare compares the corpus suffix starting at pos against the
// sample, token by token. A suffix that ends before the sample does is
// strictly less than it; equal means the suffix begins with the sample.
func sampleCompare(c *Corpus, pos int, s sample) int {
	n := c.Len()
	for k := 0; k < s.Len(); k++ {
		if pos+k >= n {
			return -1
		}
		if r := c.cmp(c.tokens[pos+k], s.At(k)); r != 0 {
			return r
		}
	}
	return 0
}

// locate finds the run of index ranks whose suffixes begin with the sample.
// Binary search lands on one matching rank, then the run is expanded
// linearly in both directions; n-gram frequency skew keeps those runs short
// in practice. On a miss it returns the insertion point and a zero count.
//
// Assumes ix correctly sorts the corpus; that is not re-checked here.
func locate(c *Corpus, ix *Index, s sample) (startRank, count int) {
	lo, hi := 0, ix.Len()-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		r := sampleCompare(c, ix.order[mid], s)
		if r == 0 {
			start, cnt := mid, 1
			for start > 0 && sampleCompare(c, ix.order[start-1], s) == 0 {
				start--
				cnt++
			}
			for start+cnt < ix.Len() && sampleCompare(c, ix.order[start+cnt], s) == 0 {
				cnt++
			}
			return start, cnt
		}
		if r < 0 {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return lo, 0
}
