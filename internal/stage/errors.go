package stage

import (
	"errors"
	"fmt"
)

// ErrEmptyText is returned when the speech stage is asked to synthesize
// nothing; the external process is never started in that case.
var ErrEmptyText = errors.New("text to synthesize is empty")

// MissingVoiceModelError means the Piper .onnx voice file is absent.
type MissingVoiceModelError struct {
	Path string
}

func (e *MissingVoiceModelError) Error() string {
	return fmt.Sprintf("piper voice model not found: %s (run `sad-cli setup --models-only`, or place the .onnx under models/voices/)", e.Path)
}

// MissingCheckpointError means a required animation-engine checkpoint is
// absent from the checkpoints directory.
type MissingCheckpointError struct {
	Path string
}

func (e *MissingCheckpointError) Error() string {
	return fmt.Sprintf("sadtalker checkpoint not found: %s (run `sad-cli setup --models-only`)", e.Path)
}

// EmptyArtifactError means an external process reported success but its
// output file is missing or zero bytes - a silent failure of the engine.
type EmptyArtifactError struct {
	Path string
}

func (e *EmptyArtifactError) Error() string {
	return fmt.Sprintf("empty artifact generated: %s", e.Path)
}
