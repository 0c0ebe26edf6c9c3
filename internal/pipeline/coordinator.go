package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/t2ne/sad-cli/internal/artifact"
	"github.com/t2ne/sad-cli/internal/config"
	"github.com/t2ne/sad-cli/internal/notify"
	"github.com/t2ne/sad-cli/internal/stage"
	"github.com/t2ne/sad-cli/internal/workspace"
)

// VideoExt is the container extension the engine writes.
const VideoExt = ".mp4"

// State is the coordinator's position in the run lifecycle.
type State string

const (
	StateConfiguring    State = "configuring"
	StateWorkspaceReady State = "workspace_ready"
	StateSynthesizing   State = "synthesizing"
	StateAnimating      State = "animating"
	StateLocating       State = "locating"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Synthesizer is the TTS stage as the coordinator sees it.
type Synthesizer interface {
	Synthesize(text, voiceModel, outputWav string) (string, error)
}

// Animator is the face-animation stage as the coordinator sees it.
type Animator interface {
	Animate(p stage.AnimateParams) error
}

// RunRecord is a persisted run for the history store.
type RunRecord struct {
	ID           string
	Mode         string // "text" or "audio"
	Text         string
	ImagePath    string
	AudioPath    string
	Preprocess   string
	Size         int
	BatchSize    int
	Enhancer     string
	Status       string
	VideoPath    string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// RunRecorder persists run history. Recording failures never fail the
// run itself.
type RunRecorder interface {
	SaveRun(r *RunRecord) error
	FinishRun(id, status, videoPath, errMsg string) error
}

// Coordinator drives one run through its states. Stages are injected
// so tests can substitute fakes; a nil Recorder or Notifier is skipped.
type Coordinator struct {
	Config    *config.Config
	Speech    Synthesizer
	Animation Animator
	Recorder  RunRecorder
	Notifier  notify.Notifier
	OnState   func(State)
	Output    io.Writer
}

// Run executes the pipeline: resolve config, allocate the workspace,
// synthesize speech unless audio was supplied, animate, then locate the
// produced video. The first failure halts the run; the workspace and any
// partial output stay on disk for inspection.
func (c *Coordinator) Run(req RunRequest) (*Result, error) {
	started := time.Now()
	c.setState(StateConfiguring)

	rc, err := Resolve(c.Config, req)
	if err != nil {
		c.setState(StateFailed)
		return nil, err
	}

	ws, err := workspace.Allocate(c.resultsRoot())
	if err != nil {
		c.setState(StateFailed)
		return nil, &WorkspaceError{Err: err}
	}
	c.setState(StateWorkspaceReady)

	logFile, err := os.Create(ws.LogPath())
	if err != nil {
		c.setState(StateFailed)
		return nil, &WorkspaceError{Err: err}
	}
	defer logFile.Close()

	c.record(rc, ws.RunID, started)
	c.logf(logFile, "run %s started", ws.RunID)
	c.logf(logFile, "image=%s preprocess=%s size=%d batch=%d enhancer=%s still=%t",
		rc.ImagePath, rc.Preprocess, rc.Size, rc.BatchSize, rc.Enhancer, rc.Still)

	if rc.TextDriven() {
		c.setState(StateSynthesizing)
		c.logf(logFile, "synthesizing speech with %s", rc.VoiceModel)
		audio, err := c.Speech.Synthesize(rc.Text, rc.VoiceModel, ws.SpeechPath())
		if err != nil {
			return nil, c.fail(logFile, ws.RunID, "speech stage", err)
		}
		rc.AudioPath = audio
	}

	c.setState(StateAnimating)
	c.logf(logFile, "animating %s with %s", rc.ImagePath, rc.AudioPath)

	stop := watchProgress(ws.ResultDir, c.Output)
	animErr := c.Animation.Animate(stage.AnimateParams{
		AudioPath:  rc.AudioPath,
		ImagePath:  rc.ImagePath,
		ResultDir:  ws.ResultDir,
		SaveDir:    ws.SaveDir,
		Size:       rc.Size,
		BatchSize:  rc.BatchSize,
		Preprocess: rc.Preprocess,
		Still:      rc.Still,
		Enhancer:   enhancerArg(rc.Enhancer),
	})
	stop()
	if animErr != nil {
		return nil, c.fail(logFile, ws.RunID, "animation stage", animErr)
	}

	c.setState(StateLocating)
	res := &Result{
		RunID:     ws.RunID,
		ResultDir: ws.ResultDir,
		SaveDir:   ws.SaveDir,
		AudioPath: rc.AudioPath,
	}

	video, err := artifact.Locate(ws.ResultDir, VideoExt)
	switch {
	case err == nil:
		res.Video = video
		res.Found = true
		c.logf(logFile, "video: %s", video.Path)
	case errors.Is(err, artifact.ErrNotFound):
		// Softer than a failure: the engine exited zero, there is just
		// nothing to show for it.
		c.logf(logFile, "completed, but no %s found under %s", VideoExt, ws.ResultDir)
	default:
		return nil, c.fail(logFile, ws.RunID, "artifact discovery", err)
	}

	res.Elapsed = time.Since(started)
	c.setState(StateDone)
	c.logf(logFile, "run %s done in %s", ws.RunID, res.Elapsed.Round(time.Second))
	c.finish(ws.RunID, "completed", videoPath(res), "")
	c.send(notify.RunFinished(videoPath(res), res.Elapsed))
	return res, nil
}

// resultsRoot anchors a relative results dir at the project root. The
// engine runs with ProjectRoot as its working directory, so a results
// dir left relative to our own working directory would have the engine
// and the locator looking at two different trees.
func (c *Coordinator) resultsRoot() string {
	dir := c.Config.General.ResultsDir
	if filepath.IsAbs(dir) {
		return dir
	}
	root := c.Config.General.ProjectRoot
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Join(root, dir)
}

func (c *Coordinator) fail(logFile io.Writer, runID, what string, err error) error {
	c.setState(StateFailed)
	c.logf(logFile, "%s failed: %v", what, err)
	c.finish(runID, "failed", "", err.Error())
	c.send(notify.RunFailed(what))
	return fmt.Errorf("%s: %w", what, err)
}

func (c *Coordinator) setState(s State) {
	if c.OnState != nil {
		c.OnState(s)
	}
}

func (c *Coordinator) logf(logFile io.Writer, format string, args ...any) {
	line := fmt.Sprintf(format+"\n", args...)
	if logFile != nil {
		io.WriteString(logFile, line)
	}
}

func (c *Coordinator) record(rc *RunConfig, runID string, started time.Time) {
	if c.Recorder == nil {
		return
	}
	mode := "audio"
	if rc.TextDriven() {
		mode = "text"
	}
	err := c.Recorder.SaveRun(&RunRecord{
		ID:         runID,
		Mode:       mode,
		Text:       rc.Text,
		ImagePath:  rc.ImagePath,
		AudioPath:  rc.AudioPath,
		Preprocess: rc.Preprocess,
		Size:       rc.Size,
		BatchSize:  rc.BatchSize,
		Enhancer:   rc.Enhancer,
		Status:     "running",
		StartedAt:  started,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record run %s: %v\n", runID, err)
	}
}

func (c *Coordinator) finish(runID, status, video, errMsg string) {
	if c.Recorder == nil {
		return
	}
	if err := c.Recorder.FinishRun(runID, status, video, errMsg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to update run %s: %v\n", runID, err)
	}
}

func (c *Coordinator) send(n notify.Notification) {
	if c.Notifier == nil {
		return
	}
	if err := c.Notifier.Send(n); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: notification failed: %v\n", err)
	}
}

func enhancerArg(enhancer string) string {
	if enhancer == EnhancerNone {
		return ""
	}
	return enhancer
}

func videoPath(res *Result) string {
	if res.Video == nil {
		return ""
	}
	return res.Video.Path
}
