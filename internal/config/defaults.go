package config

const (
	defaultConfigPath        = "~/.config/hevcpress/config.toml"
	defaultSourceDir         = "~/Videos/hevcpress/source"
	defaultDestinationDir    = "~/Videos/hevcpress/encoded"
	defaultLogDir            = "~/.local/share/hevcpress/logs"
	defaultEncoderBinary     = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultQuality           = 24
	defaultOutputSuffix      = "hevc"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 30
	defaultDeleteSource      = true
	defaultDeletePermanently = false

	// Placeholders recognised in encoder.arguments.
	PlaceholderInput   = "{input}"
	PlaceholderOutput  = "{output}"
	PlaceholderQuality = "{quality}"
)

// DefaultEncoderArguments is the NVENC HEVC constant-QP command line.
func DefaultEncoderArguments() []string {
	return []string{
		"-hwaccel_output_format", "cuda",
		"-i", PlaceholderInput,
		"-map", "0:v",
		"-map", "0:a",
		"-map_metadata", "0",
		"-c:v", "hevc_nvenc",
		"-rc", "constqp",
		"-qp", PlaceholderQuality,
		"-b:v", "0K",
		"-c:a", "copy",
		"-movflags", "+faststart",
		"-movflags", "use_metadata_tags",
		"-y", PlaceholderOutput,
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir:      defaultSourceDir,
			DestinationDir: defaultDestinationDir,
			LogDir:         defaultLogDir,
		},
		Encoder: Encoder{
			Binary:        defaultEncoderBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Quality:       defaultQuality,
			OutputSuffix:  defaultOutputSuffix,
			Arguments:     DefaultEncoderArguments(),
		},
		Files: Files{
			DeleteSource:      defaultDeleteSource,
			DeletePermanently: defaultDeletePermanently,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
