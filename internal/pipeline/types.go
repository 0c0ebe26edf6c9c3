// Package pipeline composes configuration resolution, workspace
// allocation, the speech and animation stages and artifact discovery
// into one end-to-end run.
package pipeline

import (
	"fmt"
	"time"

	"github.com/t2ne/sad-cli/internal/artifact"
)

// Preprocessing modes accepted by the animation engine.
const (
	PreprocessCrop    = "crop"
	PreprocessFull    = "full"
	PreprocessExtFull = "extfull"
)

// Output resolutions the engine supports.
const (
	Size256 = 256
	Size512 = 512
)

// Enhancer selections.
const (
	EnhancerNone   = "none"
	EnhancerGFPGAN = "gfpgan"
)

// Voice selections for the TTS stage.
const (
	VoiceMale   = "male"
	VoiceFemale = "female"
)

// RunRequest carries the caller's explicit choices. Zero values mean
// "not chosen"; the resolver fills those from config defaults. Exactly
// one of Text and AudioPath must end up set: text drives the TTS stage,
// a supplied audio file skips it.
type RunRequest struct {
	Text      string
	AudioPath string
	ImagePath string
	Voice     string

	Preprocess string
	Size       int
	Enhancer   string
	BatchSize  int
}

// RunConfig is the fully resolved, validated configuration of one run.
// It is read-only once built and shared by reference between stages.
type RunConfig struct {
	Text       string
	AudioPath  string // empty until the TTS stage fills it in text mode
	ImagePath  string
	VoiceModel string

	Preprocess string
	Size       int
	Enhancer   string // EnhancerNone or EnhancerGFPGAN
	BatchSize  int
	Still      bool // implied by full-image preprocessing
}

// TextDriven reports whether the run needs the TTS stage.
func (rc *RunConfig) TextDriven() bool { return rc.AudioPath == "" }

// stillFor derives the still flag from the preprocessing mode: both
// full-image modes suppress head-pose motion.
func stillFor(preprocess string) bool {
	return preprocess == PreprocessFull || preprocess == PreprocessExtFull
}

// ConfigError is a failed parameter resolution: a value outside its
// domain, or a required path that does not exist.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// WorkspaceError is a filesystem failure while setting up the run's
// directory tree. Always fatal, never retried.
type WorkspaceError struct {
	Err error
}

func (e *WorkspaceError) Error() string {
	return fmt.Sprintf("allocating workspace: %v", e.Err)
}

func (e *WorkspaceError) Unwrap() error { return e.Err }

// Result is what a completed run hands back to the caller. Video is nil
// (and Found false) when the engine exited zero but no output could be
// located; that is reported softly, not as an error.
type Result struct {
	RunID     string
	ResultDir string
	SaveDir   string
	AudioPath string
	Video     *artifact.Artifact
	Found     bool
	Elapsed   time.Duration
}
