package xlsx

import "testing"

func TestPosition_Ref(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{Position{Row: 0, Col: 0}, "A1"},
		{Position{Row: 0, Col: 25}, "Z1"},
		{Position{Row: 9, Col: 26}, "AA10"},
		{Position{Row: 99, Col: 52}, "BA100"},
		{Position{Row: -1, Col: 0}, ""},
	}

	for _, tt := range tests {
		if got := tt.pos.Ref(); got != tt.want {
			t.Errorf("%+v.Ref() = %q, want %q", tt.pos, got, tt.want)
		}
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		ref     string
		want    Position
		wantErr bool
	}{
		{"A1", Position{Row: 0, Col: 0}, false},
		{"AB12", Position{Row: 11, Col: 27}, false},
		{"$B$2", Position{Row: 1, Col: 1}, false},
		{"", Position{}, true},
		{"12", Position{}, true},
		{"A0", Position{}, true},
	}

	for _, tt := range tests {
		got, err := ParsePosition(tt.ref)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePosition(%q) expected error", tt.ref)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePosition(%q) = %+v, %v, want %+v", tt.ref, got, err, tt.want)
		}
	}
}

func TestParseMergedRegion(t *testing.T) {
	tests := []struct {
		ref     string
		want    MergedRegion
		wantErr bool
	}{
		{"A2:A3", MergedRegion{StartRow: 1, StartCol: 0, EndRow: 2, EndCol: 0}, false},
		{"B2:D4", MergedRegion{StartRow: 1, StartCol: 1, EndRow: 3, EndCol: 3}, false},
		{"D4:B2", MergedRegion{StartRow: 1, StartCol: 1, EndRow: 3, EndCol: 3}, false},
		{"$A$1:$B$1", MergedRegion{StartRow: 0, StartCol: 0, EndRow: 0, EndCol: 1}, false},
		{"C3", MergedRegion{StartRow: 2, StartCol: 2, EndRow: 2, EndCol: 2}, false},
		{"A1:", MergedRegion{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParseMergedRegion(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMergedRegion(%q) expected error", tt.ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMergedRegion(%q) unexpected error: %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("ParseMergedRegion(%q) = %+v, want %+v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestMergedRegion_Contains(t *testing.T) {
	m := MergedRegion{StartRow: 1, StartCol: 1, EndRow: 2, EndCol: 3}

	if !m.Contains(Position{Row: 1, Col: 1}) {
		t.Error("anchor should be contained")
	}
	if !m.Contains(Position{Row: 2, Col: 3}) {
		t.Error("bottom-right corner should be contained")
	}
	if m.Contains(Position{Row: 0, Col: 1}) {
		t.Error("row above should not be contained")
	}
	if m.Contains(Position{Row: 1, Col: 4}) {
		t.Error("column to the right should not be contained")
	}
	if got := m.Anchor().Ref(); got != "B2" {
		t.Errorf("Anchor().Ref() = %q, want B2", got)
	}
}

func TestNewMergeMap(t *testing.T) {
	mm := NewMergeMap([]MergedRegion{
		{StartRow: 1, StartCol: 0, EndRow: 2, EndCol: 0}, // A2:A3
		{StartRow: 0, StartCol: 1, EndRow: 1, EndCol: 2}, // B1:C2
	})

	// Two regions with 2 and 4 cells, minus one anchor each.
	if len(mm) != 4 {
		t.Fatalf("len(MergeMap) = %d, want 4", len(mm))
	}

	tests := []struct {
		ref    string
		anchor string
		merged bool
	}{
		{"A2", "", false},
		{"A3", "A2", true},
		{"B1", "", false},
		{"C1", "B1", true},
		{"B2", "B1", true},
		{"C2", "B1", true},
		{"D1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			p, err := ParsePosition(tt.ref)
			if err != nil {
				t.Fatal(err)
			}
			a, ok := mm.Anchor(p)
			if ok != tt.merged {
				t.Fatalf("Anchor(%s) merged = %v, want %v", tt.ref, ok, tt.merged)
			}
			if ok && a.Ref() != tt.anchor {
				t.Errorf("Anchor(%s) = %s, want %s", tt.ref, a.Ref(), tt.anchor)
			}
		})
	}
}
