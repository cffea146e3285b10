package errors

import (
	"strings"
	"testing"
)

func TestValidateStationID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "s1", false},
		{"valid with dash", "people-square", false},
		{"valid unicode", "人民广场", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"space", "foo bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStationID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStationID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTopology) {
				t.Errorf("ValidateStationID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidTopology)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/map.svg", false},
		{"absolute", "/tmp/map.svg", false},
		{"empty", "", true},
		{"null byte", "map\x00.svg", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColour(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#E3002B", false},
		{"#fff", false},
		{"#a1B2c3", false},
		{"red", true},
		{"#12345", true},
		{"", true},
		{`#fff" onload="x`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColour(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColour(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
