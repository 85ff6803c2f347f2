package errors

import (
	"testing"
)

func TestValidateColumnName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "radius", false},
		{"with space", "max temp", false},
		{"unicode", "température", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColumnNames(t *testing.T) {
	if err := ValidateColumnNames([]string{"a", "b"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateColumnNames([]string{"a", ""}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestValidateWindow(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"1960:1990", false},
		{" 1 : 2 ", false},
		{"", true},
		{"1960", true},
		{":1990", true},
		{"1960:", true},
		{"1:2:3", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateWindow(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWindow(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
