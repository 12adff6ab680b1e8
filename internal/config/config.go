// Package config loads the server configuration from an optional YAML
// file, then applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server struct {
		Host string `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
		Port int    `yaml:"port" env:"PORT" env-default:"3000"`
	} `yaml:"server"`

	Auth struct {
		Password     string `yaml:"password" env:"APP_PASSWORD"`
		SecureCookie bool   `yaml:"secure_cookie" env:"SECURE_COOKIE"`
	} `yaml:"auth"`

	Transcription struct {
		APIKey  string `yaml:"api_key" env:"OPENAI_API_KEY"`
		BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
		Model   string `yaml:"model" env:"TRANSCRIPTION_MODEL" env-default:"whisper-1"`
	} `yaml:"transcription"`

	FFmpeg struct {
		Binary string `yaml:"binary" env:"FFMPEG_BINARY" env-default:"ffmpeg"`
	} `yaml:"ffmpeg"`

	Storage struct {
		ScratchDir string `yaml:"scratch_dir" env:"SCRATCH_DIR" env-default:"uploads"`
		Database   string `yaml:"database" env:"DATABASE_PATH" env-default:"transcripts.db"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes" env:"CLEANUP_INTERVAL_MINUTES" env-default:"30"`
		MaxAgeHours     int `yaml:"max_age_hours" env:"CLEANUP_MAX_AGE_HOURS" env-default:"24"`
	} `yaml:"cleanup"`

	Limits struct {
		MaxUploadMB int `yaml:"max_upload_mb" env:"MAX_UPLOAD_MB" env-default:"100"`
	} `yaml:"limits"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file" env:"DRIVE_CREDENTIALS_FILE"`
		TokenFile       string `yaml:"token_file" env:"DRIVE_TOKEN_FILE"`
		FolderName      string `yaml:"folder_name" env:"DRIVE_FOLDER_NAME" env-default:"Transcripts"`
	} `yaml:"google_drive"`
}

// Load reads the YAML file at path (skipped when absent) and then lets
// environment variables override it.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Env-only configuration is fine.
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	return &cfg, nil
}

// Validate enforces the settings without which the server must not
// start.
func (c *Config) Validate() error {
	if c.Transcription.APIKey == "" {
		return errors.New("transcription API key is not set (OPENAI_API_KEY)")
	}
	if c.Auth.Password == "" {
		return errors.New("shared password is not set (APP_PASSWORD)")
	}
	return nil
}
