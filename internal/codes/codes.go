package codes

import (
	"github.com/jmgilman/go/errors"
)

// CodeCorruptArtifact marks an artifact whose header could not be decoded.
// It is absorbed by the cache validator and never reaches the process exit.
const CodeCorruptArtifact errors.ErrorCode = "CORRUPT_ARTIFACT"

// Process exit codes
const (
	ExitSuccess         = 0
	ExitUsage           = 1
	ExitUnknownPlatform = 2
	ExitSourceNotFound  = 3
	ExitCompileFailure  = 4
	ExitPublishFailure  = 5
	ExitConfig          = 6
)

// ExitCodes maps error codes to the exit code the CLI terminates with
var ExitCodes = map[errors.ErrorCode]int{
	errors.CodeInvalidInput:  ExitUsage,
	errors.CodeInvalidConfig: ExitUnknownPlatform,
	errors.CodeNotFound:      ExitSourceNotFound,
	errors.CodeBuildFailed:   ExitCompileFailure,
	errors.CodePublishFailed: ExitPublishFailure,
	errors.CodeSchemaFailed:  ExitConfig,
}

// Descriptions maps exit codes to their descriptions
var Descriptions = map[int]string{
	ExitSuccess:         "Success",
	ExitUsage:           "Invalid usage",
	ExitUnknownPlatform: "Unknown platform",
	ExitSourceNotFound:  "Effect source not found",
	ExitCompileFailure:  "Effect compilation failed",
	ExitPublishFailure:  "Cannot copy artifact to destination",
	ExitConfig:          "Cannot load configuration",
}

// ExitCode returns the exit code for an error chain. Errors without a
// known code exit with 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if code, ok := ExitCodes[errors.GetCode(err)]; ok {
		return code
	}

	return ExitUsage
}

// Describe returns the description for a given exit code, or a generic message if unknown
func Describe(code int) string {
	if msg, ok := Descriptions[code]; ok {
		return msg
	}

	return "Unknown error"
}
