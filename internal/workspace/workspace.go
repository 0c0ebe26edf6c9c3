// Package workspace allocates the per-run directory tree under the
// results root. Each run gets a uuid-named result directory and a
// timestamped save directory inside it.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the save-directory name format. It must match the
// format the animation engine uses for its own save directory
// (strftime "%Y_%m_%d_%H.%M.%S", local time); both sides computing the
// same name is what keeps the intermediate files in one place.
const TimestampLayout = "2006_01_02_15.04.05"

// SpeechFileName is the wav the TTS stage writes inside the save dir.
const SpeechFileName = "piper.wav"

// LogFileName is the run transcript kept next to the other artifacts.
const LogFileName = "run.log"

// Workspace is the on-disk home of a single run. The run ID doubles as
// the result directory name, which is the only thing isolating
// concurrent runs sharing one results root.
type Workspace struct {
	RunID     string
	ResultDir string
	SaveDir   string
}

// Allocate creates the results root (if absent), a fresh uuid-named
// result directory and the timestamped save directory inside it.
func Allocate(resultsRoot string) (*Workspace, error) {
	if err := os.MkdirAll(resultsRoot, 0755); err != nil {
		return nil, fmt.Errorf("creating results root: %w", err)
	}

	runID := uuid.NewString()
	resultDir := filepath.Join(resultsRoot, runID)
	saveDir := filepath.Join(resultDir, time.Now().Format(TimestampLayout))

	if err := os.MkdirAll(saveDir, 0755); err != nil {
		return nil, fmt.Errorf("creating run workspace: %w", err)
	}

	return &Workspace{
		RunID:     runID,
		ResultDir: resultDir,
		SaveDir:   saveDir,
	}, nil
}

// SpeechPath returns where the TTS stage should write its wav.
func (w *Workspace) SpeechPath() string {
	return filepath.Join(w.SaveDir, SpeechFileName)
}

// LogPath returns the run transcript location.
func (w *Workspace) LogPath() string {
	return filepath.Join(w.SaveDir, LogFileName)
}
