// Package setup is the one-time installer: it fetches the animation
// engine checkpoints and enhancer weights from their upstream releases
// and verifies the model layout the pipeline depends on. The pipeline
// itself never repairs missing models; it only reports them.
package setup

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/t2ne/sad-cli/internal/config"
)

const downloadTimeout = 15 * time.Minute

// Item is one downloadable model file.
type Item struct {
	URL  string
	Dest string
}

// Manifest lists every file the animation engine and enhancer need,
// mirroring the upstream SadTalker release layout.
func Manifest(checkpointsDir, gfpganWeightsDir string) []Item {
	sadtalker := "https://github.com/OpenTalker/SadTalker/releases/download/v0.0.2-rc/"
	return []Item{
		{sadtalker + "mapping_00109-model.pth.tar", filepath.Join(checkpointsDir, "mapping_00109-model.pth.tar")},
		{sadtalker + "mapping_00229-model.pth.tar", filepath.Join(checkpointsDir, "mapping_00229-model.pth.tar")},
		{sadtalker + "SadTalker_V0.0.2_256.safetensors", filepath.Join(checkpointsDir, "SadTalker_V0.0.2_256.safetensors")},
		{sadtalker + "SadTalker_V0.0.2_512.safetensors", filepath.Join(checkpointsDir, "SadTalker_V0.0.2_512.safetensors")},

		{"https://github.com/xinntao/facexlib/releases/download/v0.1.0/alignment_WFLW_4HG.pth", filepath.Join(gfpganWeightsDir, "alignment_WFLW_4HG.pth")},
		{"https://github.com/xinntao/facexlib/releases/download/v0.1.0/detection_Resnet50_Final.pth", filepath.Join(gfpganWeightsDir, "detection_Resnet50_Final.pth")},
		{"https://github.com/TencentARC/GFPGAN/releases/download/v1.3.0/GFPGANv1.4.pth", filepath.Join(gfpganWeightsDir, "GFPGANv1.4.pth")},
		{"https://github.com/xinntao/facexlib/releases/download/v0.2.2/parsing_parsenet.pth", filepath.Join(gfpganWeightsDir, "parsing_parsenet.pth")},
	}
}

// Installer downloads model files.
type Installer struct {
	Client *http.Client
	Output io.Writer
}

// NewInstaller returns an installer with a download-sized timeout.
func NewInstaller(out io.Writer) *Installer {
	return &Installer{
		Client: &http.Client{Timeout: downloadTimeout},
		Output: out,
	}
}

// DownloadAll fetches every item that is not already on disk. It keeps
// going after individual failures and returns the first error at the
// end, so one dead link does not block the rest of the models.
func (i *Installer) DownloadAll(items []Item) error {
	var firstErr error
	for _, item := range items {
		if err := i.download(item); err != nil {
			i.printf("failed: %s: %v\n", item.URL, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (i *Installer) download(item Item) error {
	if info, err := os.Stat(item.Dest); err == nil {
		i.printf("already present (%s): %s\n", humanize.Bytes(uint64(info.Size())), item.Dest)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(item.Dest), 0755); err != nil {
		return err
	}

	i.printf("downloading %s\n", item.URL)
	resp, err := i.Client.Get(item.URL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	f, err := os.Create(item.Dest)
	if err != nil {
		return err
	}

	n, err := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		// A partial model file is worse than a missing one.
		os.Remove(item.Dest)
		return err
	}

	i.printf("downloaded %s (%s)\n", item.Dest, humanize.Bytes(uint64(n)))
	return nil
}

func (i *Installer) printf(format string, args ...any) {
	if i.Output != nil {
		fmt.Fprintf(i.Output, format, args...)
	}
}

// Verify checks that every file the pipeline needs exists, printing a
// per-file status line. It returns false when anything is missing.
func Verify(cfg *config.Config, out io.Writer) bool {
	required := []struct {
		label string
		path  string
	}{
		{"checkpoint 256", filepath.Join(cfg.General.CheckpointsDir, "SadTalker_V0.0.2_256.safetensors")},
		{"checkpoint 512", filepath.Join(cfg.General.CheckpointsDir, "SadTalker_V0.0.2_512.safetensors")},
		{"mapping 00109", filepath.Join(cfg.General.CheckpointsDir, "mapping_00109-model.pth.tar")},
		{"mapping 00229", filepath.Join(cfg.General.CheckpointsDir, "mapping_00229-model.pth.tar")},
		{"gfpgan weights", filepath.Join(cfg.General.GFPGANWeightsDir, "GFPGANv1.4.pth")},
		{"male voice", cfg.Voices.Male},
		{"female voice", cfg.Voices.Female},
		{"avatar image", cfg.General.AvatarFace},
	}

	ok := true
	for _, r := range required {
		info, err := os.Stat(r.path)
		if err != nil {
			fmt.Fprintf(out, "missing  %-15s %s\n", r.label, r.path)
			ok = false
			continue
		}
		fmt.Fprintf(out, "ok       %-15s %s (%s)\n", r.label, r.path, humanize.Bytes(uint64(info.Size())))
	}
	return ok
}

// CheckFFmpeg warns when ffmpeg is not on PATH; the engine needs it to
// write video.
func CheckFFmpeg(out io.Writer) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		fmt.Fprintln(out, "Warning: ffmpeg not found in PATH. Video writing may fail.")
	}
}
