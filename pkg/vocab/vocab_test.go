package vocab

import "testing"

func TestVocabCounts(t *testing.T) {
	v := Build([]string{"the", "cat", "the", "cap", "dog", "the", ""})

	cases := []struct {
		token       string
		want        int
		description string
	}{
		{"the", 3, "repeated token"},
		{"cat", 1, "single token"},
		{"bird", 0, "absent token"},
		{"", 0, "empty token not indexed"},
	}
	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			if got := v.Count(tc.token); got != tc.want {
				t.Errorf("Count(%q) = %d, want %d", tc.token, got, tc.want)
			}
		})
	}

	if got := v.Distinct(); got != 4 {
		t.Errorf("Distinct = %d, want 4", got)
	}
	if got := v.Total(); got != 6 {
		t.Errorf("Total = %d, want 6", got)
	}
}

func TestVocabPrefixQueries(t *testing.T) {
	v := Build([]string{"cat", "cap", "cap", "car", "dog"})

	if got := v.PrefixTotal("ca"); got != 4 {
		t.Errorf("PrefixTotal(ca) = %d, want 4", got)
	}
	if got := v.PrefixTotal(""); got != 5 {
		t.Errorf("PrefixTotal(\"\") = %d, want 5", got)
	}

	entries := v.WithPrefix("ca")
	if len(entries) != 3 {
		t.Fatalf("WithPrefix(ca) = %v, want 3 entries", entries)
	}
	if entries[0].Token != "cap" || entries[0].Count != 2 {
		t.Errorf("top entry = %+v, want cap x2", entries[0])
	}

	top := v.Top(2)
	if len(top) != 2 || top[0].Token != "cap" {
		t.Errorf("Top(2) = %v, want cap first", top)
	}
}
