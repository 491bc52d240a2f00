package pen

import "testing"

func TestPickerBounds(t *testing.T) {
	pk := NewSeededPicker(42)

	if got := pk.Pick(0); got != 0 {
		t.Errorf("Pick(0) = %d, want 0", got)
	}
	if got := pk.Pick(1); got != 0 {
		t.Errorf("Pick(1) = %d, want 0", got)
	}
	for i := 0; i < 1000; i++ {
		if got := pk.Pick(7); got < 0 || got >= 7 {
			t.Fatalf("Pick(7) = %d, out of range", got)
		}
	}
}

func TestSeededPickerDeterministic(t *testing.T) {
	a, b := NewSeededPicker(99), NewSeededPicker(99)
	for i := 0; i < 100; i++ {
		if x, y := a.Pick(1000), b.Pick(1000); x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
	}
}

// Default pickers created back to back must not share a seed.
func TestDefaultPickersDecorrelated(t *testing.T) {
	a, b := NewPicker(), NewPicker()
	same := 0
	for i := 0; i < 50; i++ {
		if a.Pick(1 << 20) == b.Pick(1<<20) {
			same++
		}
	}
	if same == 50 {
		t.Error("two default pickers produced identical draw sequences")
	}
}
