package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Storage     StorageConfig
	Media       MediaConfig
	Transcriber TranscriberConfig
	Completion  CompletionConfig
	Redis       RedisConfig
	S3          S3Config
	Worker      WorkerConfig
	Logger      Logger
}

type ServerConfig struct {
	AppVersion string
	Port       string
	Mode       string
	BaseURL    string
}

// StorageConfig selects the job store backend and the artifact directories.
// JobStore is one of "memory", "redis", "sqlite".
type StorageConfig struct {
	JobStore        string
	UploadDir       string
	ClipsDir        string
	SqlitePath      string
	MaxUploadSizeMB int
	JobTTLMinutes   int
}

type MediaConfig struct {
	FFmpegPath  string
	FFprobePath string
}

// TranscriberConfig drives the external speech-to-text integration.
// Enabled is forced off when no API key is configured, so the fallback
// path is an explicit mode rather than a silent branch.
type TranscriberConfig struct {
	Enabled        bool
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// CompletionConfig drives the text-completion service shared by the
// viral ranker and the translator.
type CompletionConfig struct {
	Enabled        bool
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	UseTLS        bool
}

type S3Config struct {
	Enabled      bool
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	OutputBucket string
}

type WorkerConfig struct {
	MaxConcurrentJobs int
	MaxCPUUsage       float64
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Storage.JobStore == "" {
		c.Storage.JobStore = "memory"
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "uploads"
	}
	if c.Storage.ClipsDir == "" {
		c.Storage.ClipsDir = "clips"
	}
	if c.Storage.MaxUploadSizeMB <= 0 {
		c.Storage.MaxUploadSizeMB = 500
	}
	if c.Storage.JobTTLMinutes <= 0 {
		c.Storage.JobTTLMinutes = 1440
	}
	if c.Storage.SqlitePath == "" {
		c.Storage.SqlitePath = "data/clipforge.db"
	}
	if c.Media.FFmpegPath == "" {
		c.Media.FFmpegPath = "ffmpeg"
	}
	if c.Media.FFprobePath == "" {
		c.Media.FFprobePath = "ffprobe"
	}
	if c.Transcriber.TimeoutSeconds <= 0 {
		c.Transcriber.TimeoutSeconds = 120
	}
	if c.Completion.TimeoutSeconds <= 0 {
		c.Completion.TimeoutSeconds = 120
	}
	if c.Worker.MaxConcurrentJobs <= 0 {
		c.Worker.MaxConcurrentJobs = 4
	}
	if c.Worker.MaxCPUUsage <= 0 {
		c.Worker.MaxCPUUsage = 90.0
	}
	// Absent credentials activate the offline fallbacks explicitly.
	if c.Transcriber.APIKey == "" {
		c.Transcriber.Enabled = false
	}
	if c.Completion.APIKey == "" {
		c.Completion.Enabled = false
	}
}
