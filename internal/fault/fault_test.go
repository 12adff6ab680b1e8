package fault

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "plain fault",
			err:  New(Validation, "no file provided"),
			want: Validation,
		},
		{
			name: "wrapped fault",
			err:  fmt.Errorf("pipeline: %w", Wrap(Conversion, "ffmpeg failed", errors.New("exit status 1"))),
			want: Conversion,
		},
		{
			name: "non-fault error",
			err:  errors.New("boom"),
			want: "",
		},
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := Wrap(Storage, "write scratch file", errors.New("disk full"))

	if !IsKind(err, Storage) {
		t.Error("expected IsKind(err, Storage) to be true")
	}
	if IsKind(err, Persistence) {
		t.Error("expected IsKind(err, Persistence) to be false")
	}
}

func TestFaultUnwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(Conversion, "ffmpeg failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestFaultError(t *testing.T) {
	err := Wrap(Transcription, "upstream error", errors.New("status 429"))
	msg := err.Error()

	if !strings.Contains(msg, "transcription") {
		t.Errorf("error message %q missing kind", msg)
	}
	if !strings.Contains(msg, "status 429") {
		t.Errorf("error message %q missing cause", msg)
	}

	bare := New(Validation, "no file provided")
	if got := bare.Error(); got != "validation: no file provided" {
		t.Errorf("Error() = %q", got)
	}
}
