package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/unalkalkan/PaperVoice/pkg/types"
	"gopkg.in/yaml.v3"
)

// CredentialEnv is the environment variable holding the summarization API credential
const CredentialEnv = "API_KEY"

// DefaultModel is the generation model used when none is configured
const DefaultModel = "gemini-2.5-flash-preview-04-17"

// DefaultTemperature favors some fluency over strict determinism
const DefaultTemperature = 0.5

// Load reads and parses the configuration file.
// An empty configPath starts from GetDefault. A .env file in the working
// directory is loaded first when present; environment variables with the
// PV_ prefix override file values.
func Load(configPath string) (*types.Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	cfg := GetDefault()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid and fills defaults.
// A missing API credential is not a validation error; the session reports it at startup.
func Validate(cfg *types.Config) error {
	if cfg.App.Language == "" {
		cfg.App.Language = string(types.LanguageEnglish)
	}
	lang, err := types.ParseLanguage(cfg.App.Language)
	if err != nil {
		return err
	}
	cfg.App.Language = string(lang)

	switch cfg.Storage.Adapter {
	case "local":
		if cfg.Storage.Local.BasePath == "" {
			return fmt.Errorf("local storage base_path is required")
		}
	case "s3":
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("s3 region is required")
		}
	case "gcs":
		if cfg.Storage.GCS.Bucket == "" {
			return fmt.Errorf("gcs bucket is required")
		}
	default:
		return fmt.Errorf("invalid storage adapter: %s (must be 'local', 's3' or 'gcs')", cfg.Storage.Adapter)
	}

	if cfg.Summarizer.Provider == "" {
		return fmt.Errorf("summarizer provider is required")
	}
	if findLLM(cfg, cfg.Summarizer.Provider) == nil {
		return fmt.Errorf("summarizer provider not configured: %s", cfg.Summarizer.Provider)
	}
	if cfg.Summarizer.Model == "" {
		cfg.Summarizer.Model = DefaultModel
	}
	if cfg.Summarizer.Temperature < 0 || cfg.Summarizer.Temperature > 2 {
		return fmt.Errorf("invalid summarizer temperature: %.2f", cfg.Summarizer.Temperature)
	}

	switch cfg.Speech.Backend {
	case "", "system", "none":
	case "provider":
		if cfg.Speech.TTSProvider == "" {
			return fmt.Errorf("speech tts_provider is required for the provider backend")
		}
	default:
		return fmt.Errorf("invalid speech backend: %s (must be 'system', 'provider' or 'none')", cfg.Speech.Backend)
	}
	if cfg.Speech.Backend == "" {
		cfg.Speech.Backend = "system"
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Environment variables are prefixed with PV_ (PaperVoice).
func applyEnvOverrides(cfg *types.Config) {
	if val := os.Getenv("PV_LANGUAGE"); val != "" {
		cfg.App.Language = val
	}
	if val := os.Getenv("PV_LOG_LEVEL"); val != "" {
		cfg.App.LogLevel = val
	}

	// Storage overrides
	if val := os.Getenv("PV_STORAGE_ADAPTER"); val != "" {
		cfg.Storage.Adapter = val
	}
	if val := os.Getenv("PV_STORAGE_LOCAL_BASE_PATH"); val != "" {
		cfg.Storage.Local.BasePath = val
	}
	if val := os.Getenv("PV_STORAGE_S3_BUCKET"); val != "" {
		cfg.Storage.S3.Bucket = val
	}
	if val := os.Getenv("PV_STORAGE_S3_REGION"); val != "" {
		cfg.Storage.S3.Region = val
	}
	if val := os.Getenv("PV_STORAGE_S3_ENDPOINT"); val != "" {
		cfg.Storage.S3.Endpoint = val
	}
	if val := os.Getenv("PV_STORAGE_S3_ACCESS_KEY_ID"); val != "" {
		cfg.Storage.S3.AccessKeyID = val
	}
	if val := os.Getenv("PV_STORAGE_S3_SECRET_ACCESS_KEY"); val != "" {
		cfg.Storage.S3.SecretAccessKey = val
	}
	if val := os.Getenv("PV_STORAGE_GCS_BUCKET"); val != "" {
		cfg.Storage.GCS.Bucket = val
	}
	if val := os.Getenv("PV_STORAGE_GCS_CREDENTIALS_FILE"); val != "" {
		cfg.Storage.GCS.CredentialsFile = val
	}

	// Summarizer overrides
	if val := os.Getenv("PV_SUMMARIZER_PROVIDER"); val != "" {
		cfg.Summarizer.Provider = val
	}
	if val := os.Getenv("PV_SUMMARIZER_MODEL"); val != "" {
		cfg.Summarizer.Model = val
	}
	if val := os.Getenv("PV_SUMMARIZER_TEMPERATURE"); val != "" {
		if t, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Summarizer.Temperature = t
		}
	}

	// Speech overrides
	if val := os.Getenv("PV_SPEECH_BACKEND"); val != "" {
		cfg.Speech.Backend = val
	}
	if val := os.Getenv("PV_SPEECH_PLAYER"); val != "" {
		cfg.Speech.Player = val
	}

	applyProviderEnvOverrides(cfg)
	applyCredential(cfg)
}

// applyProviderEnvOverrides applies provider-specific env vars
func applyProviderEnvOverrides(cfg *types.Config) {
	for i := range cfg.Providers.LLM {
		prefix := fmt.Sprintf("PV_LLM_%s_", envName(cfg.Providers.LLM[i].Name))
		if val := os.Getenv(prefix + "API_KEY"); val != "" {
			cfg.Providers.LLM[i].APIKey = val
		}
		if val := os.Getenv(prefix + "ENDPOINT"); val != "" {
			cfg.Providers.LLM[i].Endpoint = val
		}
	}

	for i := range cfg.Providers.TTS {
		prefix := fmt.Sprintf("PV_TTS_%s_", envName(cfg.Providers.TTS[i].Name))
		if val := os.Getenv(prefix + "API_KEY"); val != "" {
			cfg.Providers.TTS[i].APIKey = val
		}
		if val := os.Getenv(prefix + "ENDPOINT"); val != "" {
			cfg.Providers.TTS[i].Endpoint = val
		}
	}
}

// applyCredential fills the selected summarizer provider's key from API_KEY when unset
func applyCredential(cfg *types.Config) {
	val := os.Getenv(CredentialEnv)
	if val == "" {
		return
	}
	if llm := findLLM(cfg, cfg.Summarizer.Provider); llm != nil && llm.APIKey == "" {
		llm.APIKey = val
	}
}

// HasCredential reports whether the selected summarizer provider can authenticate.
// Stub providers and Vertex AI (application default credentials) need no key.
func HasCredential(cfg *types.Config) bool {
	llm := findLLM(cfg, cfg.Summarizer.Provider)
	if llm == nil {
		return false
	}
	if llm.Type == "stub" {
		return true
	}
	if llm.Type == "gemini" && llm.Options["backend"] == "vertex" {
		return true
	}
	return llm.APIKey != ""
}

func findLLM(cfg *types.Config, name string) *types.LLMProviderConfig {
	for i := range cfg.Providers.LLM {
		if cfg.Providers.LLM[i].Name == name {
			return &cfg.Providers.LLM[i]
		}
	}
	return nil
}

func envName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// GetDefault returns a default configuration: Gemini summarizer keyed by API_KEY,
// local files relative to the working directory and the host speech command.
func GetDefault() *types.Config {
	basePath, err := os.Getwd()
	if err != nil {
		basePath = "."
	}
	basePath, _ = filepath.Abs(basePath)

	return &types.Config{
		App: types.AppConfig{
			Language: string(types.LanguageEnglish),
			LogLevel: "info",
		},
		Storage: types.StorageConfig{
			Adapter: "local",
			Local: types.LocalStorageOpts{
				BasePath: basePath,
			},
		},
		Providers: types.ProvidersConfig{
			LLM: []types.LLMProviderConfig{
				{
					Name:    "gemini",
					Type:    "gemini",
					Enabled: true,
				},
			},
		},
		Summarizer: types.SummarizerConfig{
			Provider:    "gemini",
			Model:       DefaultModel,
			Temperature: DefaultTemperature,
		},
		Speech: types.SpeechConfig{
			Backend: "system",
		},
	}
}
