package pipeline

import "errors"

var (
	// ErrMissingArtifact means a stage input has not been produced yet.
	ErrMissingArtifact = errors.New("missing input artifact")

	// ErrInvalidArtifact means a stage input exists but cannot be decoded.
	ErrInvalidArtifact = errors.New("invalid input artifact")

	// ErrInvalidOutput means the model returned JSON of the right shape that
	// failed schema validation.
	ErrInvalidOutput = errors.New("generated output failed validation")

	// ErrGenerationFailed wraps orchestrator failures.
	ErrGenerationFailed = errors.New("structured generation failed")

	// ErrEmptyDescription is returned by Describe for blank input.
	ErrEmptyDescription = errors.New("project description is empty")

	// ErrUnknownStage is returned by RunStage for an unknown name.
	ErrUnknownStage = errors.New("unknown stage")
)
