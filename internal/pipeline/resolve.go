package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/t2ne/sad-cli/internal/config"
)

// Resolve layers the caller's explicit choices over the configured
// defaults and validates every field against its domain. It performs no
// I/O beyond existence checks on path-valued fields.
func Resolve(cfg *config.Config, req RunRequest) (*RunConfig, error) {
	rc := &RunConfig{
		Text:      req.Text,
		AudioPath: req.AudioPath,
	}

	if rc.Text != "" && rc.AudioPath != "" {
		return nil, &ConfigError{Field: "input", Reason: "text and audio are mutually exclusive"}
	}
	if rc.Text == "" && rc.AudioPath == "" {
		return nil, &ConfigError{Field: "input", Reason: "either text or an audio file is required"}
	}
	if rc.AudioPath != "" {
		info, err := os.Stat(rc.AudioPath)
		if err != nil {
			return nil, &ConfigError{Field: "audio", Reason: fmt.Sprintf("file not found: %s", rc.AudioPath)}
		}
		if info.Size() == 0 {
			return nil, &ConfigError{Field: "audio", Reason: fmt.Sprintf("file is empty: %s", rc.AudioPath)}
		}
		rc.AudioPath = absolute(rc.AudioPath)
	}

	rc.ImagePath = req.ImagePath
	if rc.ImagePath == "" {
		rc.ImagePath = cfg.General.AvatarFace
	}
	if _, err := os.Stat(rc.ImagePath); err != nil {
		return nil, &ConfigError{Field: "image", Reason: fmt.Sprintf("file not found: %s", rc.ImagePath)}
	}
	rc.ImagePath = absolute(rc.ImagePath)

	if rc.Text != "" {
		voice := req.Voice
		if voice == "" {
			voice = cfg.DefaultVoice()
		}
		switch voice {
		case VoiceMale:
			rc.VoiceModel = cfg.Voices.Male
		case VoiceFemale:
			rc.VoiceModel = cfg.Voices.Female
		default:
			return nil, &ConfigError{Field: "voice", Reason: fmt.Sprintf("%q is not one of male, female", voice)}
		}
	}

	rc.Preprocess = req.Preprocess
	if rc.Preprocess == "" {
		rc.Preprocess = cfg.Sadtalker.Preprocess
	}
	switch rc.Preprocess {
	case PreprocessCrop, PreprocessFull, PreprocessExtFull:
	default:
		return nil, &ConfigError{Field: "preprocess", Reason: fmt.Sprintf("%q is not one of crop, full, extfull", rc.Preprocess)}
	}
	rc.Still = stillFor(rc.Preprocess)

	rc.Size = req.Size
	if rc.Size == 0 {
		rc.Size = cfg.Sadtalker.Size
	}
	if rc.Size != Size256 && rc.Size != Size512 {
		return nil, &ConfigError{Field: "size", Reason: fmt.Sprintf("%d is not one of 256, 512", rc.Size)}
	}

	rc.Enhancer = req.Enhancer
	if rc.Enhancer == "" {
		rc.Enhancer = cfg.Sadtalker.Enhancer
	}
	switch rc.Enhancer {
	case "":
		rc.Enhancer = EnhancerNone
	case EnhancerNone, EnhancerGFPGAN:
	default:
		return nil, &ConfigError{Field: "enhancer", Reason: fmt.Sprintf("%q is not one of none, gfpgan", rc.Enhancer)}
	}

	rc.BatchSize = req.BatchSize
	if rc.BatchSize == 0 {
		rc.BatchSize = cfg.Sadtalker.BatchSize
	}
	if rc.BatchSize < 1 {
		return nil, &ConfigError{Field: "batch size", Reason: fmt.Sprintf("%d is not a positive integer", rc.BatchSize)}
	}

	return rc, nil
}

// absolute makes p absolute so it survives the working-directory switch
// when the animation engine is spawned. Paths we cannot resolve are
// passed through unchanged.
func absolute(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
