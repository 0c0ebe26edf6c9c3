// Package stage wraps the two external engines - Piper TTS and the
// SadTalker inference module - behind argument construction and output
// verification. Processes are run through an invoker.Invoker.
package stage

import (
	"fmt"
	"os"
	"strings"

	"github.com/t2ne/sad-cli/internal/invoker"
)

// Speech produces a wav from text by invoking the piper CLI.
type Speech struct {
	Piper   string // piper executable, usually just "piper"
	Invoker invoker.Invoker
}

// Synthesize writes speech for text to outputWav using the given voice
// model and returns outputWav. The wav is verified to be non-empty even
// when piper exits zero.
func (s *Speech) Synthesize(text, voiceModel, outputWav string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if _, err := os.Stat(voiceModel); err != nil {
		return "", &MissingVoiceModelError{Path: voiceModel}
	}

	args := []string{"-m", voiceModel, "-t", text, "-f", outputWav}
	if err := s.Invoker.Invoke(s.Piper, args, ""); err != nil {
		return "", fmt.Errorf("piper: %w", err)
	}

	info, err := os.Stat(outputWav)
	if err != nil || info.Size() == 0 {
		return "", &EmptyArtifactError{Path: outputWav}
	}
	return outputWav, nil
}
