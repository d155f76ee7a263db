package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeTranslator()
	if err := c.normalizePipeline(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.TempDir, err = ExpandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.OutputDir, err = ExpandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.YtDlp) == "" {
		c.Tools.YtDlp = defaultYtDlp
	}
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		c.Tools.FFmpeg = defaultFFmpeg
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		c.Tools.FFprobe = defaultFFprobe
	}
	if strings.TrimSpace(c.Tools.Whisper) == "" {
		c.Tools.Whisper = defaultWhisperCmd
	}
	if c.Tools.DownloadTimeout <= 0 {
		c.Tools.DownloadTimeout = defaultDownloadTimeout
	}
	if c.Tools.ExtractionTimeout <= 0 {
		c.Tools.ExtractionTimeout = defaultExtractionTimeout
	}
	if c.Tools.MixTimeout <= 0 {
		c.Tools.MixTimeout = defaultMixTimeout
	}
	if c.Tools.RemuxTimeout <= 0 {
		c.Tools.RemuxTimeout = defaultRemuxTimeout
	}
}

func (c *Config) normalizeTranslator() {
	c.Translator.Provider = strings.ToLower(strings.TrimSpace(c.Translator.Provider))
	if c.Translator.Provider == "" {
		c.Translator.Provider = defaultTranslateProvider
	}
	if c.Translator.RequestTimeout <= 0 {
		c.Translator.RequestTimeout = defaultTranslateTimeout
	}
	if c.Translator.OpenAIAPIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Translator.OpenAIAPIKey = value
		}
	}
	if strings.TrimSpace(c.Translator.OpenAIModel) == "" {
		c.Translator.OpenAIModel = defaultOpenAIModel
	}
	if c.TTS.RequestTimeout <= 0 {
		c.TTS.RequestTimeout = defaultTTSTimeout
	}
}

func (c *Config) normalizePipeline() error {
	c.Pipeline.ContainerExt = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Pipeline.ContainerExt)), ".")
	if c.Pipeline.ContainerExt == "" {
		c.Pipeline.ContainerExt = defaultContainerExt
	}
	if c.Pipeline.MinOutputKB <= 0 {
		c.Pipeline.MinOutputKB = defaultMinOutputKB
	}
	// Relative history/lock paths live under the log directory.
	if c.Pipeline.HistoryDB == "" {
		c.Pipeline.HistoryDB = defaultHistoryDB
	}
	if !filepath.IsAbs(c.Pipeline.HistoryDB) {
		c.Pipeline.HistoryDB = filepath.Join(c.Paths.LogDir, c.Pipeline.HistoryDB)
	}
	if c.Pipeline.LockFile == "" {
		c.Pipeline.LockFile = defaultLockFile
	}
	if !filepath.IsAbs(c.Pipeline.LockFile) {
		c.Pipeline.LockFile = filepath.Join(c.Paths.LogDir, c.Pipeline.LockFile)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
	if c.Dashboard.Seed == 0 {
		c.Dashboard.Seed = defaultDashboardSeed
	}
}
