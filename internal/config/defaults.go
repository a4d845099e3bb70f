package config

const (
	defaultWorkDir      = "~/.local/share/jimaku/work"
	defaultLogDir       = ""
	defaultModelPath    = "ggml-kotoba-whisper-v2.0-q5_0.bin"
	defaultLanguage     = "ja"
	defaultFFmpegBinary = "ffmpeg"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultHistoryPath  = "~/.local/share/jimaku/history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Transcription: Transcription{
			ModelPath:    defaultModelPath,
			Language:     defaultLanguage,
			FFmpegBinary: defaultFFmpegBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
	}
}
