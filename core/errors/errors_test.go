package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "override", ID: "John 3:16"},
			wantMsg:  "override not found: John 3:16",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "witness bible"},
			wantMsg:  "witness bible not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("disk error")
		err := &NotFoundError{Resource: "input file", ID: "verses.json", Err: underlyingErr}
		if got := err.Error(); got != "input file not found: verses.json" {
			t.Errorf("Error() = %q, want %q", got, "input file not found: verses.json")
		}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with field",
			err:      &ValidationError{Field: "verse_ref", Message: "must not be empty"},
			wantMsg:  "validation failed for verse_ref: must not be empty",
			wantBase: ErrInvalidInput,
		},
		{
			name:     "without field",
			err:      &ValidationError{Message: "input must be a list of verse objects"},
			wantMsg:  "validation failed: input must be a list of verse objects",
			wantBase: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Setting: "short-name-mode", Value: "aggressive", Message: `must be one of "kjv-only", "witnessed", "off"`}
	wantMsg := `invalid configuration for short-name-mode: must be one of "kjv-only", "witnessed", "off"`
	if got := err.Error(); got != wantMsg {
		t.Errorf("Error() = %q, want %q", got, wantMsg)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("ConfigError should unwrap to ErrInvalidConfig")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("ConfigError must not unwrap to ErrInvalidInput")
	}
}

func TestIOError(t *testing.T) {
	underlyingErr := fmt.Errorf("permission denied")
	err := &IOError{Operation: "write", Path: "overrides.json", Err: underlyingErr}
	wantMsg := "failed to write overrides.json: permission denied"
	if got := err.Error(); got != wantMsg {
		t.Errorf("Error() = %q, want %q", got, wantMsg)
	}
	if got := err.Unwrap(); got != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ParseError
		wantMsg string
	}{
		{
			name:    "with path",
			err:     &ParseError{Format: "JSON", Path: "overrides.json", Message: "unexpected end of input"},
			wantMsg: "failed to parse JSON at overrides.json: unexpected end of input",
		},
		{
			name:    "without path",
			err:     &ParseError{Format: "verse reference", Message: "no chapter:verse found"},
			wantMsg: "failed to parse verse reference: no chapter:verse found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Error("ParseError should unwrap to ErrInvalidInput")
			}
		})
	}
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupported("format", "unknown selector: yaml")
	wantMsg := "unsupported format: unknown selector: yaml"
	if got := err.Error(); got != wantMsg {
		t.Errorf("Error() = %q, want %q", got, wantMsg)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Error("UnsupportedError should unwrap to ErrUnsupported")
	}
}

func TestHelpers(t *testing.T) {
	t.Run("NewNotFound", func(t *testing.T) {
		err := NewNotFound("override", "Psalms 68:4")
		if err.Resource != "override" || err.ID != "Psalms 68:4" {
			t.Errorf("NewNotFound() = %+v", err)
		}
	})
	t.Run("NewValidation", func(t *testing.T) {
		err := NewValidation("format", "unknown format")
		if err.Field != "format" || err.Message != "unknown format" {
			t.Errorf("NewValidation() = %+v", err)
		}
	})
	t.Run("NewConfig", func(t *testing.T) {
		err := NewConfig("log-level", "loud", "unknown level")
		if err.Setting != "log-level" || err.Value != "loud" {
			t.Errorf("NewConfig() = %+v", err)
		}
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if got := Wrap(nil, "context"); got != nil {
			t.Errorf("Wrap(nil) = %v, want nil", got)
		}
	})
	t.Run("wraps with context", func(t *testing.T) {
		base := errors.New("base")
		got := Wrap(base, "loading store")
		if got.Error() != "loading store: base" {
			t.Errorf("Wrap() = %q", got.Error())
		}
		if !errors.Is(got, base) {
			t.Error("wrapped error should match base via errors.Is")
		}
	})
	t.Run("wrapf formats", func(t *testing.T) {
		base := errors.New("base")
		got := Wrapf(base, "verse %s", "John 3:16")
		if got.Error() != "verse John 3:16: base" {
			t.Errorf("Wrapf() = %q", got.Error())
		}
	})
}
