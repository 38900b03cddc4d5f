package types

// Config represents the overall application configuration
type Config struct {
	App        AppConfig        `yaml:"app" json:"app"`
	Storage    StorageConfig    `yaml:"storage" json:"storage"`
	Providers  ProvidersConfig  `yaml:"providers" json:"providers"`
	Summarizer SummarizerConfig `yaml:"summarizer" json:"summarizer"`
	Speech     SpeechConfig     `yaml:"speech" json:"speech"`
}

// AppConfig holds session-level settings
type AppConfig struct {
	Language string `yaml:"language" json:"language"`   // "en" or "pt-BR"
	LogLevel string `yaml:"log_level" json:"log_level"` // debug, info, warn, error
}

// StorageConfig defines where documents are read from
type StorageConfig struct {
	Adapter string           `yaml:"adapter" json:"adapter"` // "local", "s3" or "gcs"
	Local   LocalStorageOpts `yaml:"local" json:"local"`
	S3      S3StorageOpts    `yaml:"s3" json:"s3"`
	GCS     GCSStorageOpts   `yaml:"gcs" json:"gcs"`
}

// LocalStorageOpts configures the local filesystem adapter
type LocalStorageOpts struct {
	BasePath string `yaml:"base_path" json:"base_path"`
}

// S3StorageOpts configures the S3-compatible adapter
type S3StorageOpts struct {
	Endpoint        string `yaml:"endpoint" json:"endpoint"`
	Region          string `yaml:"region" json:"region"`
	Bucket          string `yaml:"bucket" json:"bucket"`
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key"`
}

// GCSStorageOpts configures the Google Cloud Storage adapter
type GCSStorageOpts struct {
	Bucket          string `yaml:"bucket" json:"bucket"`
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`
}

// ProvidersConfig holds all provider configurations
type ProvidersConfig struct {
	LLM []LLMProviderConfig `yaml:"llm" json:"llm"`
	TTS []TTSProviderConfig `yaml:"tts" json:"tts"`
}

// LLMProviderConfig configures an LLM provider
type LLMProviderConfig struct {
	Name     string            `yaml:"name" json:"name"`
	Type     string            `yaml:"type" json:"type"` // "gemini", "openai" or "stub"
	Enabled  bool              `yaml:"enabled" json:"enabled"`
	Endpoint string            `yaml:"endpoint" json:"endpoint"`
	APIKey   string            `yaml:"api_key" json:"api_key"`
	Model    string            `yaml:"model" json:"model"`
	Options  map[string]string `yaml:"options" json:"options"`
}

// TTSProviderConfig configures a TTS provider
type TTSProviderConfig struct {
	Name     string            `yaml:"name" json:"name"`
	Type     string            `yaml:"type" json:"type"` // "openai" or "stub"
	Enabled  bool              `yaml:"enabled" json:"enabled"`
	Endpoint string            `yaml:"endpoint" json:"endpoint"`
	APIKey   string            `yaml:"api_key" json:"api_key"`
	Options  map[string]string `yaml:"options" json:"options"`
}

// SummarizerConfig selects the LLM provider and generation settings
type SummarizerConfig struct {
	Provider    string  `yaml:"provider" json:"provider"`
	Model       string  `yaml:"model" json:"model"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
}

// SpeechConfig selects how summaries are read aloud
type SpeechConfig struct {
	Backend     string `yaml:"backend" json:"backend"`           // "system", "provider" or "none"
	Command     string `yaml:"command" json:"command"`           // system speech command override
	TTSProvider string `yaml:"tts_provider" json:"tts_provider"` // used by the provider backend
	Voice       string `yaml:"voice" json:"voice"`               // provider voice id
	Player      string `yaml:"player" json:"player"`             // audio player for provider output
}
