package level

import "testing"

func TestRepair(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{
			name:     "strips BOM",
			in:       "\uFEFF{\"a\": 1}",
			expected: "{\"a\": 1}",
		},
		{
			name:     "collapses escape-newline artifact",
			in:       "{\"a\": \"x\\\ny\"}",
			expected: "{\"a\": \"x\\ny\"}",
		},
		{
			name:     "removes trailing comma before brace",
			in:       "{\"a\": 1, }",
			expected: "{\"a\": 1 }",
		},
		{
			name:     "removes trailing comma before bracket",
			in:       "[1, 2,]",
			expected: "[1, 2]",
		},
		{
			name:     "inserts comma before decorations key",
			in:       "{\"actions\": []\n  \"decorations\": []}",
			expected: "{\"actions\": []\n ,\"decorations\": []}",
		},
		{
			name:     "does not double a comma already present",
			in:       "{\"actions\": [],\n  \"decorations\": []}",
			expected: "{\"actions\": [],\"decorations\": []}",
		},
		{
			name:     "collapses doubled comma",
			in:       "[1,, 2]",
			expected: "[1, 2]",
		},
		{
			name:     "clean text untouched",
			in:       "{\"pathData\": \"RRR\"}",
			expected: "{\"pathData\": \"RRR\"}",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Repair(tc.in)
			if got != tc.expected {
				t.Errorf("Repair(%q) = %q, expected %q", tc.in, got, tc.expected)
			}
		})
	}
}

func TestRepairedTextParses(t *testing.T) {
	// Typical damage seen in hand-edited files, all in one document.
	raw := "\uFEFF{\"pathData\": \"RRUL\", \"settings\": {\"bpm\": 120,},\n" +
		"\"actions\": [{\"floor\": 1, \"eventType\": \"Twirl\"},]\n" +
		"  \"decorations\": []}"

	lvl, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse after repair failed: %v", err)
	}
	if len(lvl.Headings) != 4 {
		t.Errorf("expected 4 headings, got %d", len(lvl.Headings))
	}
	if len(lvl.Actions) != 1 || lvl.Actions[0].Kind != KindTwirl {
		t.Errorf("expected one Twirl action, got %+v", lvl.Actions)
	}
}
