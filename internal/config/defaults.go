package config

const (
	defaultTempDir           = "~/.local/share/dubboard/temp"
	defaultOutputDir         = "~/.local/share/dubboard/output"
	defaultLogDir            = "~/.local/share/dubboard/logs"
	defaultAPIBind           = "127.0.0.1:8750"
	defaultYtDlp             = "yt-dlp"
	defaultFFmpeg            = "ffmpeg"
	defaultFFprobe           = "ffprobe"
	defaultWhisperCmd        = "whisper"
	defaultDownloadTimeout   = 600
	defaultExtractionTimeout = 120
	defaultMixTimeout        = 300
	defaultRemuxTimeout      = 300
	defaultWhisperModel      = "base"
	defaultWhisperTimeout    = 1800
	defaultTranslateProvider = "google"
	defaultTranslateTimeout  = 15
	defaultOpenAIModel       = "gpt-4o-mini"
	defaultTTSTimeout        = 30
	defaultContainerExt      = "mp4"
	defaultMinOutputKB       = 1
	defaultHistoryDB         = "history.db"
	defaultLockFile          = "pipeline.lock"
	defaultNtfyTimeout       = 10
	defaultDashboardSeed     = 42
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TempDir:   defaultTempDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Tools: Tools{
			YtDlp:             defaultYtDlp,
			FFmpeg:            defaultFFmpeg,
			FFprobe:           defaultFFprobe,
			Whisper:           defaultWhisperCmd,
			DownloadTimeout:   defaultDownloadTimeout,
			ExtractionTimeout: defaultExtractionTimeout,
			MixTimeout:        defaultMixTimeout,
			RemuxTimeout:      defaultRemuxTimeout,
		},
		Whisper: Whisper{
			Model:   defaultWhisperModel,
			Timeout: defaultWhisperTimeout,
		},
		Translator: Translator{
			Provider:       defaultTranslateProvider,
			RequestTimeout: defaultTranslateTimeout,
			OpenAIModel:    defaultOpenAIModel,
		},
		TTS: TTS{
			RequestTimeout: defaultTTSTimeout,
		},
		Pipeline: Pipeline{
			ContainerExt: defaultContainerExt,
			MinOutputKB:  defaultMinOutputKB,
			HistoryDB:    defaultHistoryDB,
			LockFile:     defaultLockFile,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Dashboard: Dashboard{
			Seed: defaultDashboardSeed,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
