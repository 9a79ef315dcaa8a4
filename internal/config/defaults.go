package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Recognizer: RecognizerConfig{
			Mode:          "live",
			Endpoint:      "ws://127.0.0.1:9090/v1/listen",
			AuthEndpoint:  "http://127.0.0.1:9090/v1/auth",
			HealthHTTP:    "http://127.0.0.1:9090/v1/health/ready",
			Language:      "en-US",
			Punctuate:     true,
			DialTimeoutMS: 3000,
		},
		Audio: AudioConfig{
			Input:      "default",
			Fallback:   "default",
			SampleRate: 16000,
			Channels:   1,
		},
		Store: StoreConfig{
			Path:    "", // resolved against XDG state dir when empty
			ListKey: "projects",
			OnError: "log",
		},
		Transcript: TranscriptConfig{
			Prompt: "Start speaking to see the transcript…",
		},
		Indicator: IndicatorConfig{
			Enable:         true,
			AppName:        "voxnote",
			ErrorTimeoutMS: 1600,
		},
	}
}
