package pen

// window is the ring buffer of the most recently emitted tokens. It fills
// by appending until capacity, then overwrites the oldest slot and advances
// the start cursor, so it always holds the latest min(cap, pushed) tokens
// in emission order.
type window struct {
	buf   []string
	start int
	n     int
}

func newWindow(capacity int) *window {
	if capacity < 1 {
		capacity = 1
	}
	return &window{buf: make([]string, capacity)}
}

// Push records a newly emitted token.
func (w *window) Push(tok string) {
	if w.n < len(w.buf) {
		w.buf[w.n] = tok
		w.n++
		return
	}
	w.buf[w.start] = tok
	w.start = (w.start + 1) % len(w.buf)
}

// At returns the k-th held token, oldest first, k in [0, Len()).
func (w *window) At(k int) string {
	return w.buf[(w.start+k)%w.n]
}

// Len returns how many tokens the window currently holds.
func (w *window) Len() int {
	return w.n
}
