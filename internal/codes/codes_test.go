package codes

import (
	"fmt"
	"testing"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error is success",
			err:  nil,
			want: ExitSuccess,
		},
		{
			name: "usage error",
			err:  errors.New(errors.CodeInvalidInput, "requires at least 2 arg(s)"),
			want: ExitUsage,
		},
		{
			name: "unknown platform",
			err:  errors.New(errors.CodeInvalidConfig, "unknown platform \"pc_dx12\""),
			want: ExitUnknownPlatform,
		},
		{
			name: "source not found",
			err:  errors.New(errors.CodeNotFound, "effect source not found"),
			want: ExitSourceNotFound,
		},
		{
			name: "compile failure wrapped twice",
			err:  fmt.Errorf("build: %w", errors.New(errors.CodeBuildFailed, "compile failed")),
			want: ExitCompileFailure,
		},
		{
			name: "publish failure",
			err:  errors.New(errors.CodePublishFailed, "destination is a directory"),
			want: ExitPublishFailure,
		},
		{
			name: "config failure",
			err:  errors.New(errors.CodeSchemaFailed, "bad yaml"),
			want: ExitConfig,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("boom"),
			want: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitCode_NeverZeroForErrors(t *testing.T) {
	for code := range ExitCodes {
		err := errors.New(code, "failure")
		assert.NotEqual(t, ExitSuccess, ExitCode(err), "code %s", code)
	}

	assert.NotEqual(t, ExitSuccess, ExitCode(errors.New(CodeCorruptArtifact, "truncated")))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{ExitSuccess, "Success"},
		{ExitUsage, "Invalid usage"},
		{ExitUnknownPlatform, "Unknown platform"},
		{ExitCompileFailure, "Effect compilation failed"},
		{ExitPublishFailure, "Cannot copy artifact to destination"},
		{99, "Unknown error"},
		{-1, "Unknown error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.code), "Describe(%d)", tt.code)
	}
}
