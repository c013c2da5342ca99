// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/dirstore/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "key not found",
			wantStr: "[NOT_FOUND] key not found",
		},
		{
			name:    "storage_error",
			code:    errors.ErrStorage,
			message: "root path inaccessible",
			wantStr: "[STORAGE] root path inaccessible",
		},
		{
			name:    "value_kind_error",
			code:    errors.ErrValueKind,
			message: "slice step cannot be zero",
			wantStr: "[VALUE_KIND] slice step cannot be zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		format  string
		args    []interface{}
		wantMsg string
	}{
		{
			name:    "format_with_string",
			code:    errors.ErrNotFound,
			format:  "no entry for key %q",
			args:    []interface{}{"alpha"},
			wantMsg: `no entry for key "alpha"`,
		},
		{
			name:    "format_with_multiple_args",
			code:    errors.ErrConsistency,
			format:  "cached length %d but enumeration found %d",
			args:    []interface{}{3, 4},
			wantMsg: "cached length 3 but enumeration found 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.Newf(tt.code, tt.format, tt.args...)

			if err.Message != tt.wantMsg {
				t.Errorf("Newf() message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrStorage, "write failed")

		if err.Code != errors.ErrStorage {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrStorage)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve the wrapped error")
		}

		if !stderrors.Is(err, baseErr) {
			t.Error("errors.Is should find the wrapped error")
		}

		wantStr := "[STORAGE] write failed: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_returns_nil", func(t *testing.T) {
		if err := errors.Wrap(nil, errors.ErrStorage, "ignored"); err != nil {
			t.Errorf("Wrap(nil) = %v, want nil", err)
		}
	})

	t.Run("wrapf_formats_message", func(t *testing.T) {
		err := errors.Wrapf(baseErr, errors.ErrStorage, "write %s failed", "/tmp/x")

		if err.Message != "write /tmp/x failed" {
			t.Errorf("Wrapf() message = %q", err.Message)
		}
	})
}

func TestIs(t *testing.T) {
	err := errors.New(errors.ErrNotFound, "missing")

	if !stderrors.Is(err, errors.New(errors.ErrNotFound, "other message")) {
		t.Error("errors with the same code should match via errors.Is")
	}

	if stderrors.Is(err, errors.New(errors.ErrStorage, "missing")) {
		t.Error("errors with different codes should not match")
	}
}

func TestIsErrorCode(t *testing.T) {
	wrapped := errors.Wrap(
		errors.New(errors.ErrNotFound, "inner"),
		errors.ErrStorage,
		"outer",
	)

	// The outermost code wins
	if !errors.IsErrorCode(wrapped, errors.ErrStorage) {
		t.Error("IsErrorCode should match the outermost StoreError code")
	}

	if errors.IsErrorCode(stderrors.New("plain"), errors.ErrStorage) {
		t.Error("IsErrorCode should be false for plain errors")
	}

	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(plain) = %v, want %v", got, errors.ErrUnknown)
	}

	if got := errors.GetErrorCode(wrapped); got != errors.ErrStorage {
		t.Errorf("GetErrorCode(wrapped) = %v, want %v", got, errors.ErrStorage)
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrNotFound, "missing").
		WithDetail("key", "alpha").
		WithDetail("path", "/store/m")

	details := errors.GetErrorDetails(err)
	if details["key"] != "alpha" {
		t.Errorf("details[key] = %v, want alpha", details["key"])
	}
	if details["path"] != "/store/m" {
		t.Errorf("details[path] = %v, want /store/m", details["path"])
	}

	if errors.GetErrorDetails(stderrors.New("plain")) != nil {
		t.Error("GetErrorDetails should be nil for plain errors")
	}
}
