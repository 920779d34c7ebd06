package validation

import (
	"errors"
	"reflect"
	"testing"

	apperrors "github.com/arafalov/uncorpora/core/errors"
)

func TestParseCodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "EN", []string{"EN"}},
		{"several", "EN,FR,RU", []string{"EN", "FR", "RU"}},
		{"lower case", "en,zh", []string{"EN", "ZH"}},
		{"spaces", " EN , FR\t", []string{"EN", "FR"}},
		{"repeats dropped", "EN,FR,en", []string{"EN", "FR"}},
		{"numeric sessions", "55,56", []string{"55", "56"}},
		{"unknown codes parse", "DE", []string{"DE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCodes("langs", tt.input)
			if err != nil {
				t.Fatalf("ParseCodes(%q) failed: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCodes(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCodesSyntaxErrors(t *testing.T) {
	for _, input := range []string{"EN,", ",EN", "EN,,FR", "EN;FR", "EN FR", "E-N"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseCodes("langs", input)
			var pe *apperrors.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("ParseCodes(%q) error = %v, want ParseError", input, err)
			}
			if pe.Path != "langs" {
				t.Errorf("Path = %q, want langs", pe.Path)
			}
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Error("parse errors should be invalid input")
			}
		})
	}
}

func TestParseCodesEmpty(t *testing.T) {
	for _, input := range []string{"", "   "} {
		_, err := ParseCodes("sessions", input)
		var ve *apperrors.ValidationError
		if !errors.As(err, &ve) || ve.Field != "sessions" {
			t.Errorf("ParseCodes(%q) error = %v, want ValidationError for sessions", input, err)
		}
	}
}
