// Package config loads and saves the wizard settings file (jianer.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SettingsFile is the name of the settings file inside the workspace.
const SettingsFile = "jianer.yaml"

// Defaults for the command-execution knobs on the advanced page.
const (
	DefaultCommandTimeout = 30 * time.Second
	DefaultMaxOutput      = 1 << 20 // 1 MB
)

// Settings holds every section of the setup wizard. Zero values mean
// defaults; the accessor methods supply them.
type Settings struct {
	Version  int              `yaml:"version"`
	Basic    BasicSettings    `yaml:"basic"`
	Advanced AdvancedSettings `yaml:"advanced"`
	AI       AISettings       `yaml:"ai"`
	TTS      TTSSettings      `yaml:"tts"`
	Others   OthersSettings   `yaml:"others"`
	Plugins  PluginSettings   `yaml:"plugins"`
}

// BasicSettings is the wizard's basic page.
type BasicSettings struct {
	BotName       string `yaml:"bot_name"`
	Account       string `yaml:"account"`
	MasterID      string `yaml:"master_id"`
	CommandPrefix string `yaml:"command_prefix"`
}

// AdvancedSettings is the wizard's advanced page, including the knobs
// for installation/configuration command execution.
type AdvancedSettings struct {
	LogLevel     string `yaml:"log_level"`
	AutoRestart  bool   `yaml:"auto_restart"`
	Proxy        string `yaml:"proxy"`
	RawTimeout   string `yaml:"command_timeout"`    // e.g. "30s", "5m"
	RawMaxOutput int    `yaml:"command_max_output"` // bytes
}

// AISettings is the wizard's AI page.
type AISettings struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
}

// TTSSettings is the wizard's text-to-speech page.
type TTSSettings struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"`
	Speed    int    `yaml:"speed"`
	Volume   int    `yaml:"volume"`
}

// OthersSettings holds the misc page: the bot's canned reactions.
type OthersSettings struct {
	PokeWords []string `yaml:"poke_words"`
	NiceWords []string `yaml:"nice_words"`
}

// PluginSettings is the wizard's plugin management page.
type PluginSettings struct {
	Dir     string   `yaml:"dir"`
	Enabled []string `yaml:"enabled"`
}

// CommandTimeout returns the configured command timeout or the default.
func (s *Settings) CommandTimeout() time.Duration {
	if s.Advanced.RawTimeout != "" {
		d, err := time.ParseDuration(s.Advanced.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultCommandTimeout
}

// MaxOutputBytes returns the configured output cap or the default.
func (s *Settings) MaxOutputBytes() int {
	if s.Advanced.RawMaxOutput > 0 {
		return s.Advanced.RawMaxOutput
	}
	return DefaultMaxOutput
}

// PluginDir resolves the plugin directory against the workspace.
// Defaults to the "plugins" subdirectory.
func (s *Settings) PluginDir(workspace string) string {
	dir := s.Plugins.Dir
	if dir == "" {
		dir = "plugins"
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(workspace, dir)
}

// Default returns the settings a fresh wizard run starts from.
func Default() *Settings {
	return &Settings{
		Version: 1,
		Basic: BasicSettings{
			BotName:       "Jianer",
			CommandPrefix: "/",
		},
		Advanced: AdvancedSettings{
			LogLevel: "info",
		},
		AI: AISettings{
			Provider:    "openai",
			Temperature: 0.7,
		},
		TTS: TTSSettings{
			Language: "zh-CN",
			Speed:    50,
			Volume:   80,
		},
		Others: OthersSettings{
			PokeWords: []string{"不要捣蛋"},
			NiceWords: []string{"感谢你的鼓励，可以给我主页点个赞吗"},
		},
	}
}

// Path returns the settings file path for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, SettingsFile)
}

// Load reads the settings file from the workspace. A missing file
// yields Default(); a malformed file is an error.
func Load(workspace string) (*Settings, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", SettingsFile, err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", SettingsFile, err)
	}
	return s, nil
}

// Save writes the settings file into the workspace.
func Save(workspace string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	if err := os.WriteFile(Path(workspace), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", SettingsFile, err)
	}
	return nil
}
