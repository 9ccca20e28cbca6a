package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFileNotFound, cause, "open blocks")

	if err.Code != ErrCodeFileNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFileNotFound)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	if got, want := err.Error(), "FILE_NOT_FOUND: open blocks: underlying error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeParse, "bad")
	wrapped := Wrap(ErrCodeInternal, err, "outer")

	if !Is(err, ErrCodeParse) {
		t.Error("Is(err, PARSE_ERROR) = false, want true")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is(err, INTERNAL_ERROR) = true, want false")
	}
	// Is stops at the first *Error in the chain.
	if !Is(wrapped, ErrCodeInternal) {
		t.Error("Is(wrapped, INTERNAL_ERROR) = false, want true")
	}
	if Is(errors.New("plain"), ErrCodeParse) {
		t.Error("Is(plain, PARSE_ERROR) = true, want false")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTooLarge, "x")); got != ErrCodeTooLarge {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeTooLarge)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", New(ErrCodeInvalidFormat, "unknown format %q", "gif"), `unknown format "gif"`},
		{"wrapped", Wrap(ErrCodeFileNotFound, errors.New("no such file"), "open a.block"), "open a.block"},
		{"plain", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	err := Parse("ami33.block", 4, "expected %d fields, got %d", 3, 2)

	if err.Code != ErrCodeParse {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeParse)
	}
	if got, want := err.Message, "ami33.block:4: expected 3 fields, got 2"; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatal("errors.As(*ParseError) = false")
	}
	if pe.Line != 4 {
		t.Errorf("Line = %d, want 4", pe.Line)
	}
}

func TestWithFile(t *testing.T) {
	err := WithFile(Parse("", 7, "bad token"), "ami33.nets")
	if got, want := UserMessage(err), "ami33.nets:7: bad token"; got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
	if got, want := err.Error(), "PARSE_ERROR: ami33.nets:7: bad token"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrCodeParse) {
		t.Error("WithFile should keep PARSE_ERROR")
	}

	plain := errors.New("io")
	if WithFile(plain, "x") != plain {
		t.Error("WithFile should return non-parse errors unchanged")
	}
}
