package dctxerr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     Kind
		wantCode int
	}{
		{"config error", KindConfig, ExitSuccess},
		{"io error", KindIO, ExitSuccess},
		{"format error", KindFormat, ExitSuccess},
		{"fatal error", KindFatal, ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := New(tt.kind, "something failed", errors.New("cause"))
			assert.Equal(t, tt.wantCode, err.ExitCode())
		})
	}
}

func TestFatal_Kind(t *testing.T) {
	t.Parallel()

	err := Fatal("resolving target path", errors.New("no such file"))
	assert.Equal(t, KindFatal, err.Kind)
	assert.Equal(t, ExitError, err.ExitCode())
}

func TestFormat_Kind(t *testing.T) {
	t.Parallel()

	err := Format("bad archive signature", errors.New("short read"))
	assert.Equal(t, KindFormat, err.Kind)
	assert.Equal(t, ExitSuccess, err.ExitCode())
}

func TestIO_Kind(t *testing.T) {
	t.Parallel()

	err := IO("reading file", errors.New("permission denied"))
	assert.Equal(t, KindIO, err.Kind)
	assert.Equal(t, ExitSuccess, err.ExitCode())
}

func TestError_ErrorWithUnderlying(t *testing.T) {
	t.Parallel()

	underlying := errors.New("disk full")
	err := Fatal("writing archive", underlying)
	assert.Equal(t, "writing archive: disk full", err.Error())
}

func TestError_ErrorWithoutUnderlying(t *testing.T) {
	t.Parallel()

	err := New(KindConfig, "malformed ignore line", nil)
	assert.Equal(t, "malformed ignore line", err.Error())
}

func TestError_ErrorMessageFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     *Error
		wantMsg string
	}{
		{
			name:    "fatal with underlying",
			err:     Fatal("walking target directory", errors.New("permission denied")),
			wantMsg: "walking target directory: permission denied",
		},
		{
			name:    "format without underlying",
			err:     Format("bad signature", nil),
			wantMsg: "bad signature",
		},
		{
			name:    "io with underlying",
			err:     IO("5 files failed", errors.New("timeout")),
			wantMsg: "5 files failed: timeout",
		},
		{
			name:    "config with nil underlying",
			err:     New(KindConfig, "generic failure", nil),
			wantMsg: "generic failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("root cause")
	err := Fatal("wrapper", underlying)

	assert.Equal(t, underlying, err.Unwrap())
}

func TestError_UnwrapNil(t *testing.T) {
	t.Parallel()

	err := New(KindConfig, "no underlying", nil)
	assert.Nil(t, err.Unwrap())
}

func TestError_ErrorsIs(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel error")
	dErr := Fatal("wrapped sentinel", sentinel)

	assert.True(t, errors.Is(dErr, sentinel),
		"errors.Is should find the sentinel through Error.Unwrap")
}

func TestError_ErrorsIsChained(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("deep sentinel")
	wrapped := fmt.Errorf("mid-level: %w", sentinel)
	dErr := Fatal("top-level", wrapped)

	assert.True(t, errors.Is(dErr, sentinel),
		"errors.Is should traverse the full chain")
}

func TestError_ErrorsAs(t *testing.T) {
	t.Parallel()

	dErr := IO("partial", errors.New("some failed"))
	wrappedErr := fmt.Errorf("command failed: %w", dErr)

	var target *Error
	require.True(t, errors.As(wrappedErr, &target),
		"errors.As should extract Error from wrapped chain")
	assert.Equal(t, KindIO, target.Kind)
	assert.Equal(t, "partial", target.Message)
}

func TestError_ImplementsErrorInterface(t *testing.T) {
	t.Parallel()

	var _ error = (*Error)(nil)

	var err error = Fatal("test", nil)
	assert.NotNil(t, err)
	assert.Equal(t, "test", err.Error())
}

func TestError_ErrorsIsWithStdlibErrors(t *testing.T) {
	t.Parallel()

	dErr := IO("file not found", fs.ErrNotExist)

	assert.True(t, errors.Is(dErr, fs.ErrNotExist),
		"errors.Is should find fs.ErrNotExist through Error")
}

func TestError_ErrorsIsNonMatching(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("expected sentinel")
	other := errors.New("different sentinel")
	dErr := Fatal("wrapped", sentinel)

	assert.False(t, errors.Is(dErr, other),
		"errors.Is should return false when sentinel does not match")
}

func TestNew_PreservesMessage(t *testing.T) {
	t.Parallel()

	err := New(KindFormat, "custom message", errors.New("cause"))
	assert.Equal(t, "custom message", err.Message)
}
