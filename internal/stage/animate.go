package stage

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/t2ne/sad-cli/internal/invoker"
)

// AnimateParams are the resolved arguments for one animation run.
// Enhancer is empty when no enhancer pass is wanted.
type AnimateParams struct {
	AudioPath  string
	ImagePath  string
	ResultDir  string
	SaveDir    string
	Size       int
	BatchSize  int
	Preprocess string
	Still      bool
	Enhancer   string
}

// Animation renders a talking-head video by invoking the SadTalker
// inference module (`python -m src.inference`) from the project root.
// It returns no artifact path: the engine names its output internally
// and discovery happens afterwards via the artifact locator.
type Animation struct {
	Python      string // python interpreter
	Module      string // inference module, e.g. "src.inference"
	WorkDir     string // project root containing src/ and models/
	Checkpoints string // checkpoints directory, for the preflight check
	Invoker     invoker.Invoker
}

// checkpointName returns the weights file the engine loads for a size.
func checkpointName(size int) string {
	return fmt.Sprintf("SadTalker_V0.0.2_%d.safetensors", size)
}

// Animate runs the engine to completion. The --still flag is passed only
// when set and --enhancer only when non-empty, matching the engine's CLI.
func (a *Animation) Animate(p AnimateParams) error {
	if a.Checkpoints != "" {
		ckpt := filepath.Join(a.Checkpoints, checkpointName(p.Size))
		if !fileExists(ckpt) {
			return &MissingCheckpointError{Path: ckpt}
		}
	}

	args := []string{
		"-m", a.Module,
		"--driven_audio", p.AudioPath,
		"--source_image", p.ImagePath,
		"--result_dir", p.ResultDir,
		"--save_dir", p.SaveDir,
		"--size", strconv.Itoa(p.Size),
		"--batch_size", strconv.Itoa(p.BatchSize),
		"--preprocess", p.Preprocess,
	}
	if p.Still {
		args = append(args, "--still")
	}
	if p.Enhancer != "" {
		args = append(args, "--enhancer", p.Enhancer)
	}

	if err := a.Invoker.Invoke(a.Python, args, a.WorkDir); err != nil {
		return fmt.Errorf("sadtalker: %w", err)
	}
	return nil
}
