package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, 10, 4)

	if s := p.String(); !strings.HasPrefix(s, "|          |") {
		t.Errorf("empty bar = %q", s)
	}

	p.Increment()
	p.Increment()
	if s := p.String(); !strings.HasPrefix(s, "|█████     | [50.00%") {
		t.Errorf("half bar = %q", s)
	}

	for i := 0; i < 10; i++ {
		p.Increment()
	}
	if p.Fraction() != 1 {
		t.Errorf("fraction = %v after overfilling, want 1", p.Fraction())
	}

	p.SetLabel("episode 3")
	p.Finish()
	if got := out.String(); !strings.Contains(got, "episode 3") ||
		!strings.HasSuffix(got, "\n") {
		t.Errorf("output = %q", got)
	}
}

func TestNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a zero width bar")
		}
	}()
	New(&bytes.Buffer{}, 0, 10)
}
