package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ServerConfig struct {
		Listen string `yaml:"listen" validate:"required,hostname_port"`
	}

	DatabaseConfig struct {
		Path string `yaml:"path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
	}

	StorageConfig struct {
		Bucket          string       `yaml:"bucket" validate:"required"`
		Region          string       `yaml:"region" validate:"required"`
		Endpoint        string       `yaml:"endpoint,omitempty" validate:"omitempty,url"`
		AccessKeyID     SecretString `yaml:"access_key_id,omitempty"`
		SecretAccessKey SecretString `yaml:"secret_access_key,omitempty"`
		URLTTLMinutes   int          `yaml:"url_ttl_minutes" validate:"min=1,max=720"`
	}

	TTSServiceConfig struct {
		BaseURL        string       `yaml:"base_url" validate:"required,url"`
		APIKey         SecretString `yaml:"api_key,omitempty"`
		TimeoutSeconds int          `yaml:"timeout_seconds" validate:"min=1"`
	}

	ReviewConfig struct {
		DefaultVoice string   `yaml:"default_voice" validate:"required"`
		Voices       []string `yaml:"voices" validate:"min=1,dive,required"`
	}

	Config struct {
		Version   int              `yaml:"version" validate:"eq=1"`
		Server    ServerConfig     `yaml:"server"`
		Database  DatabaseConfig   `yaml:"database"`
		Storage   StorageConfig    `yaml:"storage"`
		TTS       TTSServiceConfig `yaml:"tts_service"`
		Review    ReviewConfig     `yaml:"review"`
		Logging   LoggingConfig    `yaml:"logging"`
		Reporting ReporterConfig   `yaml:"reporting"`
	}
)

// URLTTL returns presigned URL lifetime as a duration.
func (c *StorageConfig) URLTTL() time.Duration {
	return time.Duration(c.URLTTLMinutes) * time.Minute
}

// Timeout returns remote call deadline as a duration.
func (c *TTSServiceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
