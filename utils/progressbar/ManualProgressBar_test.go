package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestManualProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := NewManualProgressBar(&buf, 10, 4)

	p.Increment()
	p.Increment()
	p.SetStatus("ε: 0.5")
	p.Display()

	out := buf.String()
	if !strings.Contains(out, "|█████     |") {
		t.Errorf("bar not half full: %q", out)
	}
	if !strings.Contains(out, "50.00%") {
		t.Errorf("missing percentage: %q", out)
	}
	if !strings.HasSuffix(out, "ε: 0.5") {
		t.Errorf("missing status: %q", out)
	}

	for i := 0; i < 10; i++ {
		p.Increment()
	}
	if prog := p.Progress(); prog != 1 {
		t.Errorf("progress past max\n\twant(1)\n\thave(%v)", prog)
	}
}
