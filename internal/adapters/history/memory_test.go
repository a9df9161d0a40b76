package history

import "testing"

func TestPush_TruncatesForwardEntries(t *testing.T) {
	h := NewMemory("")
	h.Push("a=1")
	h.Push("a=2")
	h.Back()
	h.Push("b=1")

	if got := h.Current(); got != "b=1" {
		t.Fatalf("Current = %q, want %q", got, "b=1")
	}

	// The forward entry "a=2" was discarded by the push.
	h.Forward()
	if got := h.Current(); got != "b=1" {
		t.Fatalf("Current after Forward = %q, want %q (forward chain truncated)", got, "b=1")
	}
}

func TestBackForward_FirePopListener(t *testing.T) {
	h := NewMemory("start=1")
	h.Push("a=1")

	var popped []string
	h.OnPop(func(q string) { popped = append(popped, q) })

	h.Back()
	h.Forward()

	if len(popped) != 2 || popped[0] != "start=1" || popped[1] != "a=1" {
		t.Fatalf("popped = %v, want [start=1 a=1]", popped)
	}
}

func TestBack_ClampsAtOldestEntry(t *testing.T) {
	h := NewMemory("start=1")
	h.Back()
	h.Back()

	if got := h.Current(); got != "start=1" {
		t.Fatalf("Current = %q, want %q", got, "start=1")
	}
}

func TestReplace_OverwritesWithoutGrowing(t *testing.T) {
	h := NewMemory("a=1")
	h.Replace("a=2")

	if got := h.Current(); got != "a=2" {
		t.Fatalf("Current = %q, want %q", got, "a=2")
	}
	h.Back()
	if got := h.Current(); got != "a=2" {
		t.Fatalf("Replace grew the history: Current = %q", got)
	}
}

func TestNavigate_RecordsFullLoads(t *testing.T) {
	h := NewMemory("")
	if _, ok := h.LastNavigation(); ok {
		t.Fatalf("LastNavigation reported a navigation before any happened")
	}

	h.Navigate("vendor=Nike")
	h.Navigate("vendor=Nike&page=2")

	nav, ok := h.LastNavigation()
	if !ok || nav != "vendor=Nike&page=2" {
		t.Fatalf("LastNavigation = %q, %v", nav, ok)
	}
}
