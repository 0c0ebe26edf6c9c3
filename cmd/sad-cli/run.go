package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/t2ne/sad-cli/internal/config"
	"github.com/t2ne/sad-cli/internal/invoker"
	"github.com/t2ne/sad-cli/internal/notify"
	"github.com/t2ne/sad-cli/internal/pipeline"
	"github.com/t2ne/sad-cli/internal/prompt"
	"github.com/t2ne/sad-cli/internal/runstore"
	"github.com/t2ne/sad-cli/internal/stage"
)

var (
	stageStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var stateLabels = map[pipeline.State]string{
	pipeline.StateWorkspaceReady: "workspace ready",
	pipeline.StateSynthesizing:   "synthesizing speech",
	pipeline.StateAnimating:      "animating (this can take a while)",
	pipeline.StateLocating:       "locating output",
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := pipeline.RunRequest{
		Text:       runText,
		AudioPath:  runAudio,
		ImagePath:  runImage,
		Voice:      runVoice,
		Preprocess: runPreprocess,
		Size:       runSize,
		Enhancer:   runEnhancer,
		BatchSize:  runBatchSize,
	}

	// Without --text or --audio the run is interactive, like the
	// original questionnaire: every unset field gets asked.
	if req.Text == "" && req.AudioPath == "" {
		if err := fillInteractive(cfg, &req); err != nil {
			return err
		}
	}

	coord := buildCoordinator(cfg)
	if store, err := runstore.New(cfg.General.DatabasePath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run history unavailable: %v\n", err)
	} else {
		defer store.Close()
		coord.Recorder = store
	}

	res, err := coord.Run(req)
	if err != nil {
		return err
	}

	fmt.Println()
	if res.Found {
		fmt.Println(successStyle.Render(fmt.Sprintf("Done. Generated video: %s (%s, took %s)",
			res.Video.Path, humanize.Bytes(uint64(res.Video.Size)), res.Elapsed.Round(time.Second))))
	} else {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Done, but no %s found under %s. Check the results folder.",
			pipeline.VideoExt, res.ResultDir)))
	}
	return nil
}

func buildCoordinator(cfg *config.Config) *pipeline.Coordinator {
	inv := &invoker.Exec{Output: os.Stdout}

	coord := &pipeline.Coordinator{
		Config: cfg,
		Speech: &stage.Speech{
			Piper:   cfg.General.PiperBinary,
			Invoker: inv,
		},
		Animation: &stage.Animation{
			Python:      cfg.General.PythonBinary,
			Module:      "src.inference",
			WorkDir:     cfg.General.ProjectRoot,
			Checkpoints: cfg.General.CheckpointsDir,
			Invoker:     inv,
		},
		Notifier: notify.NewDesktopNotifier(cfg.Notifications.Desktop),
		Output:   os.Stdout,
		OnState: func(s pipeline.State) {
			if label, ok := stateLabels[s]; ok {
				fmt.Println(stageStyle.Render("==> " + label))
			}
		},
	}
	return coord
}

// fillInteractive asks for everything the flags left unset, in the same
// order the original questionnaire used.
func fillInteractive(cfg *config.Config, req *pipeline.RunRequest) error {
	p := prompt.New(os.Stdin, os.Stdout)

	text, err := p.Text("Type your message and press Enter")
	if err != nil {
		return err
	}
	req.Text = text

	if req.Voice == "" {
		def := "2"
		if cfg.DefaultVoice() == pipeline.VoiceMale {
			def = "1"
		}
		choice, err := p.Choice("Choose Piper voice", []prompt.Choice{
			{Key: "1", Label: "Male (Tuga)"},
			{Key: "2", Label: "Female (Dii)"},
		}, def)
		if err != nil {
			return err
		}
		req.Voice = pipeline.VoiceFemale
		if choice == "1" {
			req.Voice = pipeline.VoiceMale
		}
	}

	// The configured avatar is used silently when it exists; otherwise
	// ask for a substitute.
	if req.ImagePath == "" {
		if _, err := os.Stat(cfg.General.AvatarFace); err != nil {
			fmt.Printf("Default avatar not found at: %s\n", cfg.General.AvatarFace)
			path, err := p.Path("Enter avatar image path (png/jpg)")
			if err != nil {
				return err
			}
			req.ImagePath = path
		}
	}

	if req.Preprocess == "" {
		def := map[string]string{
			pipeline.PreprocessCrop:    "1",
			pipeline.PreprocessFull:    "2",
			pipeline.PreprocessExtFull: "3",
		}[cfg.Sadtalker.Preprocess]
		if def == "" {
			def = "1"
		}
		choice, err := p.Choice("Choose image preprocessing mode", []prompt.Choice{
			{Key: "1", Label: "crop   (portrait / face crop)"},
			{Key: "2", Label: "full   (full image)"},
			{Key: "3", Label: "extfull (full image, extended crop)"},
		}, def)
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			req.Preprocess = pipeline.PreprocessCrop
		case "2":
			req.Preprocess = pipeline.PreprocessFull
		default:
			req.Preprocess = pipeline.PreprocessExtFull
		}
	}

	if req.Size == 0 {
		def := "256"
		if cfg.Sadtalker.Size == pipeline.Size512 {
			def = "512"
		}
		choice, err := p.Choice("Choose output resolution", []prompt.Choice{
			{Key: "256", Label: "256x256 (faster, less memory)"},
			{Key: "512", Label: "512x512 (slower, more memory)"},
		}, def)
		if err != nil {
			return err
		}
		req.Size = pipeline.Size256
		if choice == "512" {
			req.Size = pipeline.Size512
		}
	}

	if req.Enhancer == "" {
		def := "1"
		if cfg.Sadtalker.Enhancer == pipeline.EnhancerGFPGAN {
			def = "2"
		}
		choice, err := p.Choice("Use face enhancer (GFPGAN)?", []prompt.Choice{
			{Key: "1", Label: "No enhancer"},
			{Key: "2", Label: "Yes, GFPGAN"},
		}, def)
		if err != nil {
			return err
		}
		req.Enhancer = pipeline.EnhancerNone
		if choice == "2" {
			req.Enhancer = pipeline.EnhancerGFPGAN
		}
	}

	if req.BatchSize == 0 {
		def := cfg.Sadtalker.BatchSize
		if def < 1 {
			def = 1
		}
		n, err := p.PositiveInt("Batch size (facerender)", def)
		if err != nil {
			return err
		}
		req.BatchSize = n
	}

	return nil
}
