package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranslator(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranslator() error {
	switch c.Translator.Provider {
	case "google":
		return nil
	case "openai":
		if c.Translator.OpenAIAPIKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/dubboard/config.toml"
			}
			return fmt.Errorf("translator.openai_api_key is required when translator.provider is \"openai\". Set OPENAI_API_KEY env var or edit %s", defaultPath)
		}
		return nil
	default:
		return fmt.Errorf("translator.provider must be \"google\" or \"openai\", got %q", c.Translator.Provider)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

func (c *Config) validatePipeline() error {
	if c.Paths.TempDir == c.Paths.OutputDir {
		return errors.New("paths.temp_dir and paths.output_dir must differ: temp files are deleted after every job")
	}
	return nil
}
