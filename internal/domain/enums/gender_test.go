package enums

import "testing"

func TestParseGender(t *testing.T) {
	tests := []struct {
		raw    string
		want   Gender
		wantOK bool
	}{
		{raw: "М", want: GenderMale, wantOK: true},
		{raw: "m", want: GenderMale, wantOK: true},
		{raw: " ПАРЕНЬ ", want: GenderMale, wantOK: true},
		{raw: "Ж", want: GenderFemale, wantOK: true},
		{raw: "F", want: GenderFemale, wantOK: true},
		{raw: "девушка", want: GenderFemale, wantOK: true},
		{raw: "x", wantOK: false},
		{raw: "", wantOK: false},
	}

	for _, tc := range tests {
		got, ok := ParseGender(tc.raw)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("ParseGender(%q) = %q, %v; want %q, %v", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}
