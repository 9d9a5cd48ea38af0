package tagging

import (
	"errors"
	"testing"

	"github.com/plantfabric/assetkit/tree"
)

func TestBatchGlobalCounter(t *testing.T) {
	b, err := NewBatch(Options{Pattern: "{CLASS}-{N:3}", Start: 1, Step: 1}, Context{}, nil)
	if err != nil {
		t.Fatalf("NewBatch: %v", err)
	}

	want := []string{"PUMP-001", "PUMP-002", "PUMP-003"}
	for i, w := range want {
		got, err := b.Next("Pump")
		if err != nil {
			t.Fatalf("Next #%d: %v", i, err)
		}
		if got != w {
			t.Errorf("tag #%d = %q, want %q", i, got, w)
		}
	}
}

func TestBatchPerClassCounters(t *testing.T) {
	b, err := NewBatch(Options{Pattern: "{CLASS}-{N}", Mode: ModePerClass}, Context{}, nil)
	if err != nil {
		t.Fatalf("NewBatch: %v", err)
	}

	steps := []struct {
		class string
		want  string
	}{
		{"Pump", "PUMP-1"},
		{"IfcValve", "VLV-1"},
		{"Pump", "PUMP-2"},
		{"IfcValve", "VLV-2"},
		{"Pump", "PUMP-3"},
	}
	for i, st := range steps {
		got, err := b.Next(st.class)
		if err != nil {
			t.Fatalf("Next #%d: %v", i, err)
		}
		if got != st.want {
			t.Errorf("tag #%d = %q, want %q", i, got, st.want)
		}
	}
}

func TestBatchTokens(t *testing.T) {
	tctx := Context{Site: " North ", Building: "B1", Storey: "L2", Custom: "X"}
	b, err := NewBatch(Options{Pattern: "{SITE}/{BLDG}/{STRY}/{CUSTOM}/{CLASS}-{N:4}-{N}"}, tctx, nil)
	if err != nil {
		t.Fatalf("NewBatch: %v", err)
	}

	got, err := b.Next("Tank")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	// the first {N:4} governs padding for the whole call
	want := "North/B1/L2/X/TK-0001-0001"
	if got != want {
		t.Errorf("tag = %q, want %q", got, want)
	}
}

func TestBatchStartAndStep(t *testing.T) {
	b, err := NewBatch(Options{Pattern: "{N}", Start: 10, Step: 5}, Context{}, nil)
	if err != nil {
		t.Fatalf("NewBatch: %v", err)
	}

	for _, want := range []string{"10", "15", "20"} {
		got, err := b.Next("Pump")
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != want {
			t.Errorf("tag = %q, want %q", got, want)
		}
	}
}

func TestBatchUniqueness(t *testing.T) {
	used := []string{"PUMP-001", "PUMP-002"}
	b, err := NewBatch(Options{Pattern: "{CLASS}-{N:3}", Unique: true}, Context{}, used)
	if err != nil {
		t.Fatalf("NewBatch: %v", err)
	}

	got, err := b.Next("Pump")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got != "PUMP-003" {
		t.Errorf("tag = %q, want PUMP-003 (first two are taken)", got)
	}

	// the returned tag is now recorded as used
	got2, err := b.Next("Pump")
	if err != nil {
		t.Fatalf("second Next: %v", err)
	}
	if got2 != "PUMP-004" {
		t.Errorf("tag = %q, want PUMP-004", got2)
	}
}

func TestBatchExhaustion(t *testing.T) {
	// a counterless pattern renders the same tag forever
	b, err := NewBatch(Options{Pattern: "FIXED", Unique: true, MaxAttempts: 25}, Context{}, []string{"FIXED"})
	if err != nil {
		t.Fatalf("NewBatch: %v", err)
	}

	_, err = b.Next("Pump")
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("error = %v, want ErrExhausted", err)
	}
}

func TestNewBatchEmptyPattern(t *testing.T) {
	for _, p := range []string{"", "   "} {
		if _, err := NewBatch(Options{Pattern: p}, Context{}, nil); !errors.Is(err, ErrEmptyPattern) {
			t.Errorf("pattern %q: error = %v, want ErrEmptyPattern", p, err)
		}
	}
}

func TestShortenClass(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pump", "PUMP"},
		{"IfcPump", "PUMP"},
		{"IfcValve", "VLV"},
		{"Tank", "TK"},
		{"IfcPipeSegment", "PIPE"},
		{"IfcPipeFitting", "FTG"},
		{"IfcBuildingElementProxy", "GEN"},
		{"Widget", "WIDGET"},
		{" agitator ", "AGITATOR"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ShortenClass(tt.in); got != tt.want {
				t.Errorf("ShortenClass(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUsedTags(t *testing.T) {
	s := tree.New()
	s.Nodes["o1"] = &tree.Node{ID: "o1", Kind: tree.KindObject, Tag: "V-2"}
	s.Nodes["o2"] = &tree.Node{ID: "o2", Kind: tree.KindObject, Tag: "V-1"}
	s.Nodes["o3"] = &tree.Node{ID: "o3", Kind: tree.KindObject}
	s.Nodes["g1"] = &tree.Node{ID: "g1", Kind: tree.KindClassGroup, Tag: "ignored"}

	got := UsedTags(s)
	want := []string{"V-1", "V-2"}
	if len(got) != len(want) {
		t.Fatalf("UsedTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("UsedTags = %v, want %v", got, want)
		}
	}
}
