package warn

import (
	"bytes"
	"strings"
	"testing"
)

func TestWarnRateLimited(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, nil)
	r.SetPerNameCap(2)
	for i := 0; i < 5; i++ {
		r.Warn("dup-key", "entry %d", i)
	}
	got := strings.Count(buf.String(), "dup-key")
	if got != 2 {
		t.Errorf("printed %d times, want 2 (per-name cap)", got)
	}
	summary := r.Summary()
	if len(summary) != 1 || summary[0].Name != "dup-key" || summary[0].Total != 5 || summary[0].Over != 3 {
		t.Errorf("Summary() = %+v, want one entry dup-key total=5 over=3", summary)
	}
}

func TestWarnMuted(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, []string{"noisy"})
	r.Warn("noisy", "should not print")
	if buf.Len() != 0 {
		t.Errorf("muted warning was printed: %q", buf.String())
	}
	// Still counted.
	if r.counts["noisy"] != 1 {
		t.Errorf("muted warning was not counted")
	}
}

func TestErrorWrapChain(t *testing.T) {
	base := strErr("permission denied")
	err := Wrap(KindOutputWrite, "write file.bin", base)
	err = Wrap(KindRapifyFormat, "writing class body", err)
	want := "writing class body: write file.bin: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !Is(err, KindOutputWrite) {
		t.Error("Is(err, KindOutputWrite) = false, want true")
	}
	if !Is(err, KindRapifyFormat) {
		t.Error("Is(err, KindRapifyFormat) = false, want true")
	}
	if Is(err, KindInternal) {
		t.Error("Is(err, KindInternal) = true, want false")
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(KindInternal, "op", nil); err != nil {
		t.Errorf("Wrap(..., nil) = %v, want nil", err)
	}
}

type strErr string

func (e strErr) Error() string { return string(e) }
