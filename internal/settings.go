package internal

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jhalter/articles-client/internal/api"
	"gopkg.in/yaml.v3"
)

var defaultTopics = []string{"JavaScript", "React", "Node"}

type Settings struct {
	BaseURL        string        `yaml:"BaseURL"`
	Username       string        `yaml:"Username"`
	StatePath      string        `yaml:"StatePath"`
	EnableSounds   bool          `yaml:"EnableSounds"`
	ConfirmDelete  bool          `yaml:"ConfirmDelete"`
	RequestTimeout time.Duration `yaml:"RequestTimeout"`
	Topics         []string      `yaml:"Topics"`
}

// DefaultSettings are used for any value the config file leaves out.
func DefaultSettings() *Settings {
	return &Settings{
		BaseURL:   api.DefaultBaseURL,
		StatePath: defaultStatePath(),
		Topics:    append([]string(nil), defaultTopics...),
	}
}

// ReadSettings loads the YAML config at cfgPath. A missing file is not an
// error; the defaults are returned and written on the first save.
func ReadSettings(cfgPath string) (*Settings, error) {
	prefs := DefaultSettings()

	fh, err := os.Open(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		return prefs, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = fh.Close()
	}()

	decoder := yaml.NewDecoder(fh)
	if err := decoder.Decode(prefs); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if prefs.BaseURL == "" {
		prefs.BaseURL = api.DefaultBaseURL
	}
	if prefs.StatePath == "" {
		prefs.StatePath = defaultStatePath()
	}
	if len(prefs.Topics) == 0 {
		prefs.Topics = append([]string(nil), defaultTopics...)
	}
	return prefs, nil
}

func writeSettings(cfgPath string, prefs *Settings) error {
	out, err := yaml.Marshal(prefs)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(cfgPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(cfgPath, out, 0o644)
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "articles-client-state.yaml"
	}
	return filepath.Join(dir, "articles-client", "state.yaml")
}
