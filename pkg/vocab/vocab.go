// Package vocab indexes the distinct tokens of a corpus in a patricia
// trie, for prefix lookups over what the corpus actually contains. The pen
// engine never needs this; it backs the CLI and server info surfaces.
package vocab

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is one distinct token with its occurrence count.
type Entry struct {
	Token string
	Count int
}

// Vocab holds token occurrence counts keyed by the token itself.
// Read-only once built.
type Vocab struct {
	trie     *patricia.Trie
	distinct int
	total    int
}

// Build counts token occurrences into a fresh Vocab.
func Build(tokens []string) *Vocab {
	v := &Vocab{trie: patricia.NewTrie()}
	for _, tok := range tokens {
		if tok == "" {
			// the trie cannot key an empty prefix; skip rather than fake one
			continue
		}
		key := patricia.Prefix(tok)
		if item := v.trie.Get(key); item != nil {
			v.trie.Set(key, item.(int)+1)
		} else {
			v.trie.Insert(key, 1)
			v.distinct++
		}
		v.total++
	}
	return v
}

// Count returns how often the exact token occurs, zero if absent.
func (v *Vocab) Count(token string) int {
	if token == "" {
		return 0
	}
	if item := v.trie.Get(patricia.Prefix(token)); item != nil {
		return item.(int)
	}
	return 0
}

// PrefixTotal sums the counts of every token starting with prefix.
func (v *Vocab) PrefixTotal(prefix string) int {
	total := 0
	err := v.visit(prefix, func(p patricia.Prefix, item patricia.Item) error {
		total += item.(int)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting vocab subtree: %v", err)
	}
	return total
}

// WithPrefix returns every distinct token starting with prefix, most
// frequent first.
func (v *Vocab) WithPrefix(prefix string) []Entry {
	var entries []Entry
	err := v.visit(prefix, func(p patricia.Prefix, item patricia.Item) error {
		entries = append(entries, Entry{Token: string(p), Count: item.(int)})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting vocab subtree: %v", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Token < entries[j].Token
	})
	return entries
}

func (v *Vocab) visit(prefix string, fn patricia.VisitorFunc) error {
	if prefix == "" {
		return v.trie.Visit(fn)
	}
	return v.trie.VisitSubtree(patricia.Prefix(prefix), fn)
}

// Top returns the n most frequent tokens.
func (v *Vocab) Top(n int) []Entry {
	entries := v.WithPrefix("")
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Distinct returns the number of distinct non-empty tokens.
func (v *Vocab) Distinct() int {
	return v.distinct
}

// Total returns the number of counted token occurrences.
func (v *Vocab) Total() int {
	return v.total
}
