// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type queryStruct struct {
	MovieID string `validate:"required,movieid"`
	K       int    `validate:"min=0,max=100"`
}

type settingsStruct struct {
	Provider  string `validate:"oneof=hashing openai tei"`
	BaseURL   string `validate:"omitempty,http_url"`
	BatchSize int    `validate:"gte=1"`
	Inner     innerStruct
}

type innerStruct struct {
	Name string `validate:"required,max=5"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"numeric id", &queryStruct{MovieID: "42", K: 10}},
		{"uuid id", &queryStruct{MovieID: "0190b9e2-7a3c-7000-8000-000000000001"}},
		{"unicode id", &queryStruct{MovieID: "amélie-2001", K: 100}},
		{"settings", &settingsStruct{Provider: "tei", BaseURL: "http://tei:8080", BatchSize: 32, Inner: innerStruct{Name: "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantTag   string
		wantField string
	}{
		{"empty id", &queryStruct{}, "required", "queryStruct.MovieID"},
		{"blank id", &queryStruct{MovieID: "   "}, "movieid", "queryStruct.MovieID"},
		{"slash in id", &queryStruct{MovieID: "../etc"}, "movieid", "queryStruct.MovieID"},
		{"control char in id", &queryStruct{MovieID: "a\x00b"}, "movieid", "queryStruct.MovieID"},
		{"k too large", &queryStruct{MovieID: "1", K: 101}, "max", "queryStruct.K"},
		{"negative k", &queryStruct{MovieID: "1", K: -1}, "min", "queryStruct.K"},
		{"bad provider", &settingsStruct{Provider: "word2vec", BatchSize: 1, Inner: innerStruct{Name: "a"}}, "oneof", "settingsStruct.Provider"},
		{"bad url", &settingsStruct{Provider: "tei", BaseURL: "not a url", BatchSize: 1, Inner: innerStruct{Name: "a"}}, "http_url", "settingsStruct.BaseURL"},
		{"nested", &settingsStruct{Provider: "tei", BatchSize: 1, Inner: innerStruct{Name: "toolong"}}, "max", "settingsStruct.Inner.Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errs Errors
			if !errors.As(ValidateStruct(tt.input), &errs) {
				t.Fatal("ValidateStruct() expected Errors")
			}
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
			}
			if errs[0].Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", errs[0].Tag, tt.wantTag)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestIsValidMovieID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"1", true},
		{"tt0111161", true},
		{"", false},
		{" ", false},
		{"a/b", false},
		{`a\b`, false},
		{"tab\there", false},
		{strings.Repeat("x", MaxMovieIDLength), true},
		{strings.Repeat("x", MaxMovieIDLength+1), false},
	}

	for _, tt := range tests {
		if got := IsValidMovieID(tt.id); got != tt.want {
			t.Errorf("IsValidMovieID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidateStruct_MultipleErrorsJoined(t *testing.T) {
	var errs Errors
	if !errors.As(ValidateStruct(&queryStruct{MovieID: "", K: -5}), &errs) {
		t.Fatal("expected Errors")
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(errs))
	}
	want := "queryStruct.MovieID is required; queryStruct.K must be at least 0"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	err := ValidateStruct(42)
	if err == nil {
		t.Fatal("expected error for non-struct input")
	}
	var errs Errors
	if errors.As(err, &errs) {
		t.Error("non-struct input should not produce field errors")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"required", &queryStruct{}, "queryStruct.MovieID is required"},
		{"oneof", &settingsStruct{Provider: "x", BatchSize: 1, Inner: innerStruct{Name: "a"}}, "settingsStruct.Provider must be one of: hashing openai tei"},
		{"gte", &settingsStruct{Provider: "tei", BatchSize: 0, Inner: innerStruct{Name: "a"}}, "settingsStruct.BatchSize must be greater than or equal to 1"},
		{"string max", &settingsStruct{Provider: "tei", BatchSize: 1, Inner: innerStruct{Name: "abcdef"}}, "settingsStruct.Inner.Name must be at most 5 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}
