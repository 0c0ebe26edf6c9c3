package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/t2ne/sad-cli/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.General.ResultsDir = filepath.Join(dir, "results")
	cfg.General.AvatarFace = filepath.Join(dir, "avatar.jpg")
	cfg.Voices.Male = filepath.Join(dir, "male.onnx")
	cfg.Voices.Female = filepath.Join(dir, "female.onnx")
	cfg.Voices.Default = cfg.Voices.Female

	for _, p := range []string{cfg.General.AvatarFace, cfg.Voices.Male, cfg.Voices.Female} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return cfg
}

func TestResolve_Defaults(t *testing.T) {
	cfg := testConfig(t)

	rc, err := Resolve(cfg, RunRequest{Text: "hello"})
	if err != nil {
		t.Fatal(err)
	}

	if rc.Preprocess != PreprocessCrop {
		t.Errorf("Preprocess = %q, want crop", rc.Preprocess)
	}
	if rc.Size != Size256 {
		t.Errorf("Size = %d, want 256", rc.Size)
	}
	if rc.Enhancer != EnhancerNone {
		t.Errorf("Enhancer = %q, want none", rc.Enhancer)
	}
	if rc.BatchSize != 1 {
		t.Errorf("BatchSize = %d, want 1", rc.BatchSize)
	}
	if rc.ImagePath != cfg.General.AvatarFace {
		t.Errorf("ImagePath = %q, want default avatar", rc.ImagePath)
	}
	if rc.VoiceModel != cfg.Voices.Female {
		t.Errorf("VoiceModel = %q, want default female voice", rc.VoiceModel)
	}
	if !rc.TextDriven() {
		t.Error("TextDriven() = false, want true")
	}
}

func TestResolve_AllValidCombinations(t *testing.T) {
	cfg := testConfig(t)

	for _, preprocess := range []string{PreprocessCrop, PreprocessFull, PreprocessExtFull} {
		for _, size := range []int{Size256, Size512} {
			for _, enhancer := range []string{EnhancerNone, EnhancerGFPGAN} {
				for _, batch := range []int{1, 2, 8} {
					rc, err := Resolve(cfg, RunRequest{
						Text:       "hi",
						Preprocess: preprocess,
						Size:       size,
						Enhancer:   enhancer,
						BatchSize:  batch,
					})
					if err != nil {
						t.Fatalf("Resolve(%s,%d,%s,%d): %v", preprocess, size, enhancer, batch, err)
					}
					if rc.Preprocess != preprocess || rc.Size != size || rc.Enhancer != enhancer || rc.BatchSize != batch {
						t.Errorf("resolved fields do not match explicit request: %+v", rc)
					}
				}
			}
		}
	}
}

func TestResolve_StillImpliedByFullModes(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		preprocess string
		still      bool
	}{
		{PreprocessCrop, false},
		{PreprocessFull, true},
		{PreprocessExtFull, true},
	}

	for _, tt := range tests {
		rc, err := Resolve(cfg, RunRequest{Text: "hi", Preprocess: tt.preprocess})
		if err != nil {
			t.Fatal(err)
		}
		if rc.Still != tt.still {
			t.Errorf("Still for %q = %t, want %t", tt.preprocess, rc.Still, tt.still)
		}
	}
}

func TestResolve_RejectsOutOfDomainValues(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name string
		req  RunRequest
	}{
		{"bad preprocess", RunRequest{Text: "hi", Preprocess: "zoom"}},
		{"bad size", RunRequest{Text: "hi", Size: 1024}},
		{"bad enhancer", RunRequest{Text: "hi", Enhancer: "esrgan"}},
		{"negative batch", RunRequest{Text: "hi", BatchSize: -2}},
		{"bad voice", RunRequest{Text: "hi", Voice: "robot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(cfg, tt.req)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want *ConfigError", err)
			}
		})
	}
}

func TestResolve_TextAndAudioExclusive(t *testing.T) {
	cfg := testConfig(t)

	audio := filepath.Join(t.TempDir(), "in.wav")
	if err := os.WriteFile(audio, []byte("wav"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Resolve(cfg, RunRequest{Text: "hi", AudioPath: audio}); err == nil {
		t.Error("expected error for text+audio")
	}
	if _, err := Resolve(cfg, RunRequest{}); err == nil {
		t.Error("expected error for neither text nor audio")
	}

	rc, err := Resolve(cfg, RunRequest{AudioPath: audio})
	if err != nil {
		t.Fatal(err)
	}
	if rc.TextDriven() {
		t.Error("TextDriven() = true for an audio-supplied run")
	}
	if rc.VoiceModel != "" {
		t.Errorf("VoiceModel = %q, want empty for audio run", rc.VoiceModel)
	}
}

func TestResolve_AudioMustExistAndBeNonEmpty(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()

	if _, err := Resolve(cfg, RunRequest{AudioPath: filepath.Join(dir, "missing.wav")}); err == nil {
		t.Error("expected error for missing audio file")
	}

	empty := filepath.Join(dir, "empty.wav")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(cfg, RunRequest{AudioPath: empty}); err == nil {
		t.Error("expected error for empty audio file")
	}
}

func TestResolve_MissingAvatar(t *testing.T) {
	cfg := testConfig(t)
	cfg.General.AvatarFace = filepath.Join(t.TempDir(), "gone.jpg")

	_, err := Resolve(cfg, RunRequest{Text: "hi"})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want *ConfigError", err)
	}
	if cfgErr.Field != "image" {
		t.Errorf("Field = %q, want image", cfgErr.Field)
	}
}

func TestResolve_MakesInputPathsAbsolute(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	for _, name := range []string{"face.png", "voice.wav"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	chdir(t, dir)

	rc, err := Resolve(cfg, RunRequest{AudioPath: "voice.wav", ImagePath: "face.png"})
	if err != nil {
		t.Fatal(err)
	}

	if !filepath.IsAbs(rc.AudioPath) {
		t.Errorf("AudioPath %q is not absolute", rc.AudioPath)
	}
	if filepath.Base(rc.AudioPath) != "voice.wav" {
		t.Errorf("AudioPath = %q, want the supplied voice.wav", rc.AudioPath)
	}
	if !filepath.IsAbs(rc.ImagePath) {
		t.Errorf("ImagePath %q is not absolute", rc.ImagePath)
	}
	if filepath.Base(rc.ImagePath) != "face.png" {
		t.Errorf("ImagePath = %q, want the supplied face.png", rc.ImagePath)
	}
}

func TestResolve_ExplicitVoice(t *testing.T) {
	cfg := testConfig(t)

	rc, err := Resolve(cfg, RunRequest{Text: "hi", Voice: VoiceMale})
	if err != nil {
		t.Fatal(err)
	}
	if rc.VoiceModel != cfg.Voices.Male {
		t.Errorf("VoiceModel = %q, want male voice %q", rc.VoiceModel, cfg.Voices.Male)
	}
}
