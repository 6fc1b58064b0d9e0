package version

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Version
		wantErr bool
	}{
		{input: "2.0.0", want: Version{2, 0, 0}},
		{input: "v1.9.12", want: Version{1, 9, 12}},
		{input: " 1.5.0 ", want: Version{1, 5, 0}},
		{input: "2.0", wantErr: true},
		{input: "2.0.0rc1", wantErr: true},
		{input: "a.b.c", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVersion) {
					t.Errorf("error %v does not wrap ErrInvalidVersion", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.9.0", "2.0.0", -1},
		{"2.0.0", "2.0.0", 0},
		{"2.1.0", "2.0.9", 1},
		{"2.0.10", "2.0.9", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			a, _ := Parse(tt.a)
			b, _ := Parse(tt.b)
			if got := a.Compare(b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
}
