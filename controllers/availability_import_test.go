package controllers

import "testing"

func TestParseDayOfWeek(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"6", 6, false},
		{"7", 0, true},
		{"-1", 0, true},
		{"monday", 1, false},
		{"Mon", 1, false},
		{"WEDNESDAY", 3, false},
		{"sat", 6, false},
		{"su", 0, true}, // too short to disambiguate
		{"", 0, true},
		{"noday", 0, true},
	}

	for _, tc := range tests {
		got, err := parseDayOfWeek(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseDayOfWeek(%q) expected error, got %d", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDayOfWeek(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseDayOfWeek(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestBuildColumnIndex(t *testing.T) {
	index := buildColumnIndex([]string{"Trainer", " Day of Week ", "start time", "", "End Time"})

	expect := map[string]int{
		"trainer":     0,
		"day of week": 1,
		"start time":  2,
		"end time":    4,
	}
	for key, want := range expect {
		got, ok := index[key]
		if !ok {
			t.Errorf("missing column %q", key)
			continue
		}
		if got != want {
			t.Errorf("column %q = %d, want %d", key, got, want)
		}
	}
	if _, ok := index[""]; ok {
		t.Errorf("empty header should be skipped")
	}
}
