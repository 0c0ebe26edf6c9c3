package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/t2ne/sad-cli/internal/config"
	"github.com/t2ne/sad-cli/internal/runstore"
	"github.com/t2ne/sad-cli/internal/setup"
)

var (
	runText       string
	runAudio      string
	runImage      string
	runVoice      string
	runPreprocess string
	runSize       int
	runEnhancer   string
	runBatchSize  int

	setupModelsOnly bool
	historyLimit    int
)

func init() {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a talking-head video",
		Long: `Run the pipeline once. With --text or --audio the run is fully
scriptable; without either, the missing answers are asked interactively.`,
		RunE: runRun,
	}
	runCmd.Flags().StringVar(&runText, "text", "", "text to speak (drives the TTS stage)")
	runCmd.Flags().StringVar(&runAudio, "audio", "", "driven audio file (skips the TTS stage)")
	runCmd.Flags().StringVar(&runImage, "image", "", "source portrait image")
	runCmd.Flags().StringVar(&runVoice, "voice", "", "piper voice: male or female")
	runCmd.Flags().StringVar(&runPreprocess, "preprocess", "", "preprocessing mode: crop, full or extfull")
	runCmd.Flags().IntVar(&runSize, "size", 0, "output resolution: 256 or 512")
	runCmd.Flags().StringVar(&runEnhancer, "enhancer", "", "face enhancer: none or gfpgan")
	runCmd.Flags().IntVar(&runBatchSize, "batch-size", 0, "facerender batch size")
	rootCmd.AddCommand(runCmd)

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Download model files and verify the installation",
		RunE:  runSetup,
	}
	setupCmd.Flags().BoolVar(&setupModelsOnly, "models-only", false, "download models without verifying the full layout")
	rootCmd.AddCommand(setupCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every required model file is present",
		RunE:  runVerify,
	}
	rootCmd.AddCommand(verifyCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		RunE:  runHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.Load(path)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	setup.CheckFFmpeg(os.Stdout)

	installer := setup.NewInstaller(os.Stdout)
	items := setup.Manifest(cfg.General.CheckpointsDir, cfg.General.GFPGANWeightsDir)
	if err := installer.DownloadAll(items); err != nil {
		return fmt.Errorf("downloading models: %w", err)
	}

	if setupModelsOnly {
		return nil
	}
	if !setup.Verify(cfg, os.Stdout) {
		return fmt.Errorf("setup is partial; see missing items above")
	}
	fmt.Println("Setup looks good. You can now run `sad-cli run`.")
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !setup.Verify(cfg, os.Stdout) {
		return fmt.Errorf("required files are missing; run `sad-cli setup`")
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := runstore.New(cfg.General.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRecent(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tMODE\tSTATUS\tVIDEO")
	for _, r := range runs {
		video := r.VideoPath
		if video == "" {
			video = "-"
		}
		fmt.Fprintf(w, "%.8s\t%s\t%s\t%s\t%s\n",
			r.ID, humanize.Time(r.StartedAt), r.Mode, r.Status, video)
	}
	return w.Flush()
}
