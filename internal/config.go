package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Sheet    SheetConfig       `yaml:"sheet"`
	Chat     ChatConfig        `yaml:"chat"`
	Admin    AdminConfig       `yaml:"admin"`
	Uploads  UploadsConfig     `yaml:"uploads"`
	Snapshot SnapshotConfig    `yaml:"snapshot"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Sheet.Validate(); err != nil {
		return err
	}
	if err := c.Chat.Validate(); err != nil {
		return err
	}
	if err := c.Admin.Validate(); err != nil {
		return err
	}
	if err := c.Uploads.Validate(); err != nil {
		return err
	}
	return c.Snapshot.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SheetConfig holds the spreadsheet web-app endpoint configuration.
type SheetConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the sheet configuration.
func (c *SheetConfig) Validate() error {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
	)
}

// ChatConfig holds the assistant configuration. The API key is usually
// left empty here and resolved from the environment instead.
type ChatConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"api_key"`
}

// Validate validates the chat configuration.
func (c *ChatConfig) Validate() error {
	if c.Model == "" {
		c.Model = "gemini-2.5-flash"
	}
	return nil
}

// AdminConfig holds the admin login gate configuration.
type AdminConfig struct {
	Password    string        `yaml:"password"`
	MaxAttempts int           `yaml:"max_attempts"`
	Lockout     time.Duration `yaml:"lockout"`
}

// Validate validates the admin configuration.
func (c *AdminConfig) Validate() error {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.Lockout == 0 {
		c.Lockout = 30 * time.Second
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Password, validation.Required, validation.Length(8, 0)),
	)
}

// UploadsConfig holds the media uploads directory configuration.
type UploadsConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the uploads configuration.
func (c *UploadsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SnapshotConfig holds the SQLite snapshot cache configuration.
type SnapshotConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the snapshot configuration.
func (c *SnapshotConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Sheet: SheetConfig{
			Timeout: 30 * time.Second,
		},
		Chat: ChatConfig{
			Model: "gemini-2.5-flash",
		},
		Admin: AdminConfig{
			MaxAttempts: 3,
			Lockout:     30 * time.Second,
		},
		Uploads: UploadsConfig{
			Path: "./uploads",
		},
		Snapshot: SnapshotConfig{
			Path: "./sekolahku.db",
		},
	}
}
