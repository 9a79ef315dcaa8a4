// Package config resolves, parses, validates, and defaults voxnote configuration.
package config

// Config is the fully materialized runtime configuration used by voxnote.
type Config struct {
	Recognizer RecognizerConfig `yaml:"recognizer"`
	Audio      AudioConfig      `yaml:"audio"`
	Store      StoreConfig      `yaml:"store"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Indicator  IndicatorConfig  `yaml:"indicator"`
}

// RecognizerConfig controls the streaming speech recognizer connection.
type RecognizerConfig struct {
	Mode          string `yaml:"mode"` // live, mock
	Endpoint      string `yaml:"endpoint"`
	APIKey        string `yaml:"api_key"`
	AuthEndpoint  string `yaml:"auth_endpoint"`
	HealthHTTP    string `yaml:"health_http"`
	HealthGRPC    string `yaml:"health_grpc"`
	Language      string `yaml:"language"`
	Model         string `yaml:"model"`
	Punctuate     bool   `yaml:"punctuate"`
	DialTimeoutMS int    `yaml:"dial_timeout_ms"`
}

// AudioConfig controls input-source selection and the capture format.
type AudioConfig struct {
	Input      string `yaml:"input"`
	Fallback   string `yaml:"fallback"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
}

// StoreConfig controls project persistence and its write-failure policy.
type StoreConfig struct {
	Path    string `yaml:"path"`
	ListKey string `yaml:"list_key"`
	OnError string `yaml:"on_error"` // log, fail
}

// TranscriptConfig controls transcript display behavior.
type TranscriptConfig struct {
	Prompt string `yaml:"prompt"`
}

// IndicatorConfig controls desktop notification behavior.
type IndicatorConfig struct {
	Enable         bool   `yaml:"enable"`
	AppName        string `yaml:"app_name"`
	ErrorTimeoutMS int    `yaml:"error_timeout_ms"`
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Message string
}
