package validation

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/arafalov/uncorpora/core/errors"
)

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name      string
		opts      FilterOptions
		wantField string
		wantMsg   string
	}{
		{
			name: "minimal",
			opts: FilterOptions{Langs: []string{"EN"}},
		},
		{
			name: "everything",
			opts: FilterOptions{
				Input:    "in.tmx.xz",
				Output:   "out.tmx",
				Langs:    []string{"AR", "EN", "ES", "FR", "RU", "ZH"},
				Sessions: []string{"55", "62"},
				Ledger:   "runs.db",
				NoVote:   true,
			},
		},
		{
			name: "stdio paths",
			opts: FilterOptions{Input: "-", Output: "-", Langs: []string{"FR"}},
		},
		{
			name:      "no languages",
			opts:      FilterOptions{Langs: []string{}},
			wantField: "langs",
			wantMsg:   "at least one",
		},
		{
			name:      "nil languages",
			opts:      FilterOptions{},
			wantField: "langs",
		},
		{
			name:      "unknown language",
			opts:      FilterOptions{Langs: []string{"EN", "DE"}},
			wantField: "langs",
			wantMsg:   "not a valid language choice: DE",
		},
		{
			name:      "lower case language",
			opts:      FilterOptions{Langs: []string{"en"}},
			wantField: "langs",
		},
		{
			name:      "unknown session",
			opts:      FilterOptions{Langs: []string{"EN"}, Sessions: []string{"54"}},
			wantField: "sessions",
			wantMsg:   "not a valid session: 54",
		},
		{
			name:      "bad ledger path",
			opts:      FilterOptions{Langs: []string{"EN"}, Ledger: "runs\x00.db"},
			wantField: "ledger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOptions(tt.opts)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateOptions() unexpected error: %v", err)
				}
				return
			}

			var ve *apperrors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ValidateOptions() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
			if !strings.Contains(ve.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", ve.Message, tt.wantMsg)
			}
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Error("validation errors should be invalid input")
			}
		})
	}
}

func TestValidateOptionsSameFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.tmx")
	err := ValidateOptions(FilterOptions{Input: path, Output: path, Langs: []string{"EN"}})

	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) || ve.Field != "output" {
		t.Errorf("ValidateOptions() error = %v, want ValidationError for output", err)
	}
}

func TestValidatorIsShared(t *testing.T) {
	if Validator() != Validator() {
		t.Error("Validator() should return the same instance")
	}
}
