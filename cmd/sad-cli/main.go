package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "sad-cli",
		Short: "Talking-head videos from a portrait and a prompt",
		Long: `sad-cli turns a text prompt (or a supplied audio clip) plus a still
portrait into a talking-head video by chaining Piper TTS and the
SadTalker inference engine. Each run gets its own directory under the
results root; nothing a run writes is ever cleaned up automatically.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
