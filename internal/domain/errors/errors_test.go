package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrEmptyText", ErrEmptyText, "input text cannot be empty"},
		{"ErrMissingCredential", ErrMissingCredential, "missing credential"},
		{"ErrUnsupportedProvider", ErrUnsupportedProvider, "unsupported provider"},
		{"ErrEncodingUnavailable", ErrEncodingUnavailable, "tokenizer encoding unavailable"},
		{"ErrConflictingInput", ErrConflictingInput, "conflicting input sources"},
		{"ErrInvalidPricing", ErrInvalidPricing, "invalid pricing dataset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokcountError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *TokcountError
		want string
	}{
		{
			name: "with cause",
			err:  Validation("invalid request", ErrEmptyText),
			want: "[VALIDATION] invalid request: input text cannot be empty",
		},
		{
			name: "without cause",
			err:  NewError(CodeDependency, "tokenizer not loaded", nil),
			want: "[DEPENDENCY] tokenizer not loaded",
		},
		{
			name: "missing credential",
			err:  MissingCredential("set ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"),
			want: "[CONFIG] set ANTHROPIC_API_KEY: missing credential",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := Configuration("bad config", ErrInvalidPricing)
	if !errors.Is(err, ErrInvalidPricing) {
		t.Error("errors.Is should find the cause")
	}

	wrapped := fmt.Errorf("loading: %w", err)
	var te *TokcountError
	if !As(wrapped, &te) {
		t.Fatal("As should find TokcountError through wrapping")
	}
	if te.Code != CodeConfiguration {
		t.Errorf("Code = %s, want CONFIG", te.Code)
	}
}

func TestWithContext(t *testing.T) {
	err := &TokcountError{Code: CodeValidation, Message: "x"}
	WithContext(WithContext(err, "provider", "openai"), "model", "gpt-4o")

	if err.Context["provider"] != "openai" || err.Context["model"] != "gpt-4o" {
		t.Errorf("unexpected context: %v", err.Context)
	}
}

func TestMissingCredentialContext(t *testing.T) {
	err := MissingCredential("no key", "GOOGLE_API_KEY", "GEMINI_API_KEY")
	env, ok := err.Context["env"].([]string)
	if !ok || len(env) != 2 {
		t.Fatalf("expected env context, got %v", err.Context)
	}
	if !Is(err, ErrMissingCredential) {
		t.Error("expected ErrMissingCredential")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"validation", Validation("empty", ErrEmptyText), CodeValidation},
		{"wrapped config", fmt.Errorf("ctx: %w", Configuration("x", nil)), CodeConfiguration},
		{"dependency", Dependency("x", ErrEncodingUnavailable), CodeDependency},
		{"foreign error", errors.New("401 unauthorized"), CodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sentinel cause hidden", Validation("Input text cannot be empty", ErrEmptyText), "Input text cannot be empty"},
		{"no cause", Configuration("bad config", nil), "bad config"},
		{"real cause shown", Validation("cannot read input file a.txt", errors.New("permission denied")), "cannot read input file a.txt: permission denied"},
		{"wrapped local error", fmt.Errorf("outer: %w", MissingCredential("key required", "ANTHROPIC_API_KEY")), "key required"},
		{"foreign error", errors.New("POST /v1/messages/count_tokens: 401 Unauthorized"), "POST /v1/messages/count_tokens: 401 Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
