package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// AppName names the config directory and the environment prefix
const AppName = "jsonstudio"

// Config holds all application configuration
type Config struct {
	General GeneralConfig `mapstructure:"general" yaml:"general"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Tree    TreeConfig    `mapstructure:"tree" yaml:"tree"`
	Editor  EditorConfig  `mapstructure:"editor" yaml:"editor"`
	AI      AIConfig      `mapstructure:"ai" yaml:"ai"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
}

type GeneralConfig struct {
	RestoreLastDocument bool `mapstructure:"restore_last_document" yaml:"restore_last_document"`
	ConfirmClear        bool `mapstructure:"confirm_clear" yaml:"confirm_clear"`
	RecentFiles         int  `mapstructure:"recent_files" yaml:"recent_files"`
}

type UIConfig struct {
	Theme           string `mapstructure:"theme" yaml:"theme"`
	MouseEnabled    bool   `mapstructure:"mouse_enabled" yaml:"mouse_enabled"`
	ViewMode        string `mapstructure:"view_mode" yaml:"view_mode"`
	SplitRatio      int    `mapstructure:"split_ratio" yaml:"split_ratio"`
	CopyAckMillis   int    `mapstructure:"copy_ack_millis" yaml:"copy_ack_millis"`
	ToastMillis     int    `mapstructure:"toast_millis" yaml:"toast_millis"`
	SyntaxHighlight bool   `mapstructure:"syntax_highlight" yaml:"syntax_highlight"`
}

type TreeConfig struct {
	// InitialDepth < 0 picks the depth from the document size
	InitialDepth int `mapstructure:"initial_depth" yaml:"initial_depth"`
	PageSize     int `mapstructure:"page_size" yaml:"page_size"`
}

type EditorConfig struct {
	TabSize         int  `mapstructure:"tab_size" yaml:"tab_size"`
	FormatOnLoad    bool `mapstructure:"format_on_load" yaml:"format_on_load"`
	ShowLineNumbers bool `mapstructure:"show_line_numbers" yaml:"show_line_numbers"`
}

type AIConfig struct {
	Model          string `mapstructure:"model" yaml:"model"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

type HistoryConfig struct {
	Enabled         bool `mapstructure:"enabled" yaml:"enabled"`
	MaxEntries      int  `mapstructure:"max_entries" yaml:"max_entries"`
	AutosaveSeconds int  `mapstructure:"autosave_seconds" yaml:"autosave_seconds"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		General: GeneralConfig{
			RestoreLastDocument: true,
			ConfirmClear:        false,
			RecentFiles:         20,
		},
		UI: UIConfig{
			Theme:           "dark",
			MouseEnabled:    true,
			ViewMode:        "split",
			SplitRatio:      50,
			CopyAckMillis:   1500,
			ToastMillis:     3000,
			SyntaxHighlight: true,
		},
		Tree: TreeConfig{
			InitialDepth: -1,
			PageSize:     50,
		},
		Editor: EditorConfig{
			TabSize:         2,
			FormatOnLoad:    false,
			ShowLineNumbers: true,
		},
		AI: AIConfig{
			Model:          "auto",
			BaseURL:        "https://generativelanguage.googleapis.com/v1beta",
			TimeoutSeconds: 60,
		},
		History: HistoryConfig{
			Enabled:         true,
			MaxEntries:      200,
			AutosaveSeconds: 5,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("general.restore_last_document", d.General.RestoreLastDocument)
	v.SetDefault("general.confirm_clear", d.General.ConfirmClear)
	v.SetDefault("general.recent_files", d.General.RecentFiles)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("ui.view_mode", d.UI.ViewMode)
	v.SetDefault("ui.split_ratio", d.UI.SplitRatio)
	v.SetDefault("ui.copy_ack_millis", d.UI.CopyAckMillis)
	v.SetDefault("ui.toast_millis", d.UI.ToastMillis)
	v.SetDefault("ui.syntax_highlight", d.UI.SyntaxHighlight)
	v.SetDefault("tree.initial_depth", d.Tree.InitialDepth)
	v.SetDefault("tree.page_size", d.Tree.PageSize)
	v.SetDefault("editor.tab_size", d.Editor.TabSize)
	v.SetDefault("editor.format_on_load", d.Editor.FormatOnLoad)
	v.SetDefault("editor.show_line_numbers", d.Editor.ShowLineNumbers)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.base_url", d.AI.BaseURL)
	v.SetDefault("ai.timeout_seconds", d.AI.TimeoutSeconds)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("history.autosave_seconds", d.History.AutosaveSeconds)
}

// Load loads configuration. An explicit file must exist; otherwise
// config.yaml is searched in the user config directory, "." and
// "./config", and a missing file leaves the defaults. Environment
// variables such as JSONSTUDIO_UI_THEME override both.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")

		// 1. User config directory
		if dir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(dir)
		}
		// 2. Current directory
		v.AddConfigPath(".")
		// 3. Default config directory
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.normalize()
	return &cfg, nil
}

// normalize clamps values the UI cannot work with back to defaults
func (c *Config) normalize() {
	d := GetDefaults()
	if c.Tree.PageSize <= 0 {
		c.Tree.PageSize = d.Tree.PageSize
	}
	if c.UI.SplitRatio < 10 || c.UI.SplitRatio > 90 {
		c.UI.SplitRatio = d.UI.SplitRatio
	}
	if c.UI.CopyAckMillis <= 0 {
		c.UI.CopyAckMillis = d.UI.CopyAckMillis
	}
	if c.UI.ToastMillis <= 0 {
		c.UI.ToastMillis = d.UI.ToastMillis
	}
	if c.Editor.TabSize <= 0 {
		c.Editor.TabSize = d.Editor.TabSize
	}
	if c.AI.Model == "" {
		c.AI.Model = d.AI.Model
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = d.AI.TimeoutSeconds
	}
}

// Save writes cfg as YAML to path, creating the directory
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// DefaultFile returns the config.yaml path inside the user config directory
func DefaultFile() (string, error) {
	dir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
