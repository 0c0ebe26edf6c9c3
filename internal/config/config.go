package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration. Values are layered:
// built-in defaults, then the TOML config file, then environment
// variables. Explicit user choices (flags, interactive answers) are
// applied later by the pipeline resolver and win over everything here.
type Config struct {
	General       GeneralConfig       `toml:"general"`
	Voices        VoicesConfig        `toml:"voices"`
	Sadtalker     SadtalkerConfig     `toml:"sadtalker"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// GeneralConfig holds paths and external-tool settings
type GeneralConfig struct {
	// ProjectRoot is the directory the animation engine runs in; it must
	// contain the src/ package and the models/ tree.
	ProjectRoot      string `toml:"project_root" env:"SADTALKER_ROOT"`
	ResultsDir       string `toml:"results_dir" env:"RESULTS_DIR"`
	DatabasePath     string `toml:"database_path" env:"SAD_CLI_DB"`
	AvatarFace       string `toml:"avatar_face" env:"AVATAR_FACE"`
	PythonBinary     string `toml:"python_binary" env:"SADTALKER_PYTHON"`
	PiperBinary      string `toml:"piper_binary" env:"PIPER_BIN"`
	CheckpointsDir   string `toml:"checkpoints_dir" env:"SADTALKER_CHECKPOINTS_DIR"`
	GFPGANWeightsDir string `toml:"gfpgan_weights_dir" env:"GFPGAN_WEIGHTS_DIR"`
}

// VoicesConfig holds the Piper voice model locations
type VoicesConfig struct {
	Dir     string `toml:"dir" env:"PIPER_VOICES_DIR"`
	Male    string `toml:"male" env:"PIPER_VOICE_MALE"`
	Female  string `toml:"female" env:"PIPER_VOICE_FEMALE"`
	Default string `toml:"default" env:"PIPER_VOICE_DEFAULT"`
}

// SadtalkerConfig holds default render settings
type SadtalkerConfig struct {
	Preprocess string `toml:"preprocess" env:"SADTALKER_PREPROCESS_DEFAULT"`
	Size       int    `toml:"size" env:"SADTALKER_SIZE_DEFAULT"`
	BatchSize  int    `toml:"batch_size" env:"SADTALKER_BATCH_SIZE_DEFAULT"`
	Enhancer   string `toml:"enhancer" env:"SADTALKER_ENHANCER_DEFAULT"`
}

// NotificationsConfig holds notification settings
type NotificationsConfig struct {
	Desktop bool `toml:"desktop" env:"SAD_CLI_NOTIFY"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		General: GeneralConfig{
			ProjectRoot:      ".",
			ResultsDir:       "results",
			DatabasePath:     filepath.Join(home, ".sad-cli", "runs.db"),
			AvatarFace:       filepath.Join("models", "avatar_examples", "avatar.jpg"),
			PythonBinary:     "python3",
			PiperBinary:      "piper",
			CheckpointsDir:   filepath.Join("models", "checkpoints"),
			GFPGANWeightsDir: filepath.Join("models", "gfpgan", "weights"),
		},
		Voices: VoicesConfig{
			Dir: filepath.Join("models", "voices"),
		},
		Sadtalker: SadtalkerConfig{
			Preprocess: "crop",
			Size:       256,
			BatchSize:  1,
		},
		Notifications: NotificationsConfig{
			Desktop: true,
		},
	}
}

// Load reads configuration from a TOML file, overlays environment
// variables, and fills in derived defaults. A missing file is not an
// error; built-in defaults are used instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	cfg.finalize()
	return cfg, nil
}

// finalize fills voice paths derived from the voices dir, expands ~ and
// anchors every engine-facing path at the project root. The engine runs
// with its working directory set to ProjectRoot, so any path still
// relative after this point would mean something different to the
// engine than to us.
func (c *Config) finalize() {
	if c.Voices.Male == "" {
		c.Voices.Male = filepath.Join(c.Voices.Dir, "pt_PT-tugao-medium.onnx")
	}
	if c.Voices.Female == "" {
		c.Voices.Female = filepath.Join(c.Voices.Dir, "dii_pt-PT.onnx")
	}
	if c.Voices.Default == "" {
		c.Voices.Default = c.Voices.Female
	}

	c.General.ProjectRoot = ExpandPath(c.General.ProjectRoot)
	if abs, err := filepath.Abs(c.General.ProjectRoot); err == nil {
		c.General.ProjectRoot = abs
	}
	root := c.General.ProjectRoot

	c.General.DatabasePath = ExpandPath(c.General.DatabasePath)
	c.General.ResultsDir = anchor(root, ExpandPath(c.General.ResultsDir))
	c.General.AvatarFace = anchor(root, ExpandPath(c.General.AvatarFace))
	c.General.CheckpointsDir = anchor(root, ExpandPath(c.General.CheckpointsDir))
	c.General.GFPGANWeightsDir = anchor(root, ExpandPath(c.General.GFPGANWeightsDir))
	c.Voices.Dir = anchor(root, ExpandPath(c.Voices.Dir))
	c.Voices.Male = anchor(root, ExpandPath(c.Voices.Male))
	c.Voices.Female = anchor(root, ExpandPath(c.Voices.Female))
	c.Voices.Default = anchor(root, ExpandPath(c.Voices.Default))
}

// anchor resolves p against root unless p is already absolute.
func anchor(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sad-cli", "config.toml")
}

// DefaultVoice returns "male" or "female" depending on which known voice
// file the configured default points at, falling back to female when the
// name matches neither.
func (c *Config) DefaultVoice() string {
	name := filepath.Base(c.Voices.Default)
	if name == filepath.Base(c.Voices.Male) {
		return "male"
	}
	return "female"
}
