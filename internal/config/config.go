package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpoint  = "http://localhost:5000"
	DefaultLocale    = "en-US"
	DefaultAPIKeyEnv = "DEEPGRAM_API_KEY"
	DefaultModel     = "nova-3"
	DefaultVoice     = "aura-2-thalia-en"
	DefaultLogFile   = "tonechat.log"
	DefaultBackend   = BackendMiniaudio
)

const (
	BackendMiniaudio = "miniaudio"
	BackendPortaudio = "portaudio"
)

type Config struct {
	Endpoint EndpointConfig `yaml:"endpoint"`
	Speech   SpeechConfig   `yaml:"speech"`
	Deepgram DeepgramConfig `yaml:"deepgram"`
	Audio    AudioConfig    `yaml:"audio"`
	Log      LogConfig      `yaml:"log"`
}

type EndpointConfig struct {
	// BaseURL is where /process-speech is served.
	BaseURL string `yaml:"base_url"`
}

type SpeechConfig struct {
	Locale         string `yaml:"locale"`
	InterimResults bool   `yaml:"interim_results"`
}

type DeepgramConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"` // listen model, e.g. nova-3
	Voice     string `yaml:"voice"` // speak model, e.g. aura-2-thalia-en
}

type AudioConfig struct {
	Backend string `yaml:"backend"` // miniaudio or portaudio

	// FramesPerBuffer is only used by the portaudio backend.
	FramesPerBuffer int `yaml:"frames_per_buffer"`
}

type LogConfig struct {
	File string `yaml:"file"`
}

func Default() Config {
	return Config{
		Endpoint: EndpointConfig{BaseURL: DefaultEndpoint},
		Speech:   SpeechConfig{Locale: DefaultLocale},
		Deepgram: DeepgramConfig{
			APIKeyEnv: DefaultAPIKeyEnv,
			Model:     DefaultModel,
			Voice:     DefaultVoice,
		},
		Audio: AudioConfig{Backend: DefaultBackend},
		Log:   LogConfig{File: DefaultLogFile},
	}
}

// Load reads the YAML file at path over the defaults and applies the
// TONECHAT_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("TONECHAT_ENDPOINT")); v != "" {
		cfg.Endpoint.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TONECHAT_LOCALE")); v != "" {
		cfg.Speech.Locale = v
	}
	if v := strings.TrimSpace(os.Getenv("TONECHAT_INTERIM_RESULTS")); v != "" {
		interim, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TONECHAT_INTERIM_RESULTS: %w", err)
		}
		cfg.Speech.InterimResults = interim
	}
	if v := strings.TrimSpace(os.Getenv("TONECHAT_VOICE")); v != "" {
		cfg.Deepgram.Voice = v
	}
	if v := strings.TrimSpace(os.Getenv("TONECHAT_AUDIO_BACKEND")); v != "" {
		cfg.Audio.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("TONECHAT_LOG_FILE")); v != "" {
		cfg.Log.File = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Endpoint.BaseURL == "" {
		cfg.Endpoint.BaseURL = DefaultEndpoint
	}
	if cfg.Speech.Locale == "" {
		cfg.Speech.Locale = DefaultLocale
	}
	if cfg.Deepgram.APIKeyEnv == "" {
		cfg.Deepgram.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Deepgram.Model == "" {
		cfg.Deepgram.Model = DefaultModel
	}
	if cfg.Deepgram.Voice == "" {
		cfg.Deepgram.Voice = DefaultVoice
	}
	if cfg.Audio.Backend == "" {
		cfg.Audio.Backend = DefaultBackend
	}
}

func (c Config) Validate() error {
	endpoint, err := url.Parse(c.Endpoint.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid endpoint base url: %w", err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return fmt.Errorf("invalid endpoint base url %q: scheme must be http or https", c.Endpoint.BaseURL)
	}
	if endpoint.Host == "" {
		return fmt.Errorf("invalid endpoint base url %q: missing host", c.Endpoint.BaseURL)
	}
	switch c.Audio.Backend {
	case BackendMiniaudio, BackendPortaudio:
	default:
		return fmt.Errorf("unknown audio backend %q", c.Audio.Backend)
	}
	if c.Audio.FramesPerBuffer < 0 {
		return fmt.Errorf("invalid audio frames per buffer %d", c.Audio.FramesPerBuffer)
	}
	return nil
}

// APIKey returns the Deepgram key from the configured environment variable.
func (c Config) APIKey() string {
	return strings.TrimSpace(os.Getenv(c.Deepgram.APIKeyEnv))
}
