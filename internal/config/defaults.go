package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Model      ModelConfig      `json:"model"`
	Breaker    BreakerConfig    `json:"breaker"`
	Workflow   WorkflowConfig   `json:"workflow"`
	Policy     PolicyConfig     `json:"policy"`
	Tools      ToolsConfig      `json:"tools"`
	Log        LogConfig        `json:"log"`
	Checkpoint CheckpointConfig `json:"checkpoint"`
}

type ModelConfig struct {
	Primary  string `json:"primary"`  // Default: gemini-2.5-pro
	Fallback string `json:"fallback"` // Default: gemini-2.5-flash; empty disables fallback

	RequestsPerMinute int `json:"requests_per_minute"` // Default: 60; 0 disables pacing
	MaxRetries        int `json:"max_retries"`         // Default: 2
	RetryBaseDelayMs  int `json:"retry_base_delay_ms"` // Default: 1000
}

type BreakerConfig struct {
	FailureThreshold int `json:"failure_threshold"` // Default: 2
	BackoffSeconds   int `json:"backoff_seconds"`   // Default: 60
}

type WorkflowConfig struct {
	MaxRounds int `json:"max_rounds"` // Default: 25
}

// PolicyConfig lists tools that are always allowed or always refused, by name.
type PolicyConfig struct {
	Allow []string `json:"allow"`
	Deny  []string `json:"deny"`
}

type ToolsConfig struct {
	// File Operations
	MaxFileSize int64 `json:"max_file_size"` // Default: 5 * 1024 * 1024 (5MB)

	// Directory Listing
	DefaultListDirectoryLimit int `json:"default_list_directory_limit"` // Default: 1000
	MaxListDirectoryLimit     int `json:"max_list_directory_limit"`     // Default: 10000

	// Command Execution
	MaxCommandOutputSize int `json:"max_command_output_size"` // Default: 1MB per stream
	DefaultShellTimeout  int `json:"default_shell_timeout"`   // Default: 120 (seconds)
	GracefulShutdownMs   int `json:"graceful_shutdown_ms"`    // Default: 2000

	// Content Search
	DefaultSearchContentLimit int `json:"default_search_content_limit"` // Default: 100
	MaxSearchContentLimit     int `json:"max_search_content_limit"`     // Default: 1000
	MaxLineLength             int `json:"max_line_length"`              // Default: 500

	// Fetch
	FetchTimeoutSeconds int    `json:"fetch_timeout_seconds"` // Default: 30
	MaxFetchBytes       int64  `json:"max_fetch_bytes"`       // Default: 2MB
	ProxyURL            string `json:"proxy_url"`             // e.g. socks5://127.0.0.1:1080
}

type LogConfig struct {
	Level string `json:"level"` // debug, info, warn, error. Default: info
	File  string `json:"file"`  // Default: ~/.local/state/warden/warden.log
}

type CheckpointConfig struct {
	Enabled bool   `json:"enabled"` // Default: true
	Dir     string `json:"dir"`     // Default: ~/.local/state/warden/sessions
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Primary:           "gemini-2.5-pro",
			Fallback:          "gemini-2.5-flash",
			RequestsPerMinute: 60,
			MaxRetries:        2,
			RetryBaseDelayMs:  1000,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 2,
			BackoffSeconds:   60,
		},
		Workflow: WorkflowConfig{
			MaxRounds: 25,
		},
		Tools: ToolsConfig{
			MaxFileSize:               5 * 1024 * 1024,
			DefaultListDirectoryLimit: 1000,
			MaxListDirectoryLimit:     10000,
			MaxCommandOutputSize:      1024 * 1024,
			DefaultShellTimeout:       120,
			GracefulShutdownMs:        2000,
			DefaultSearchContentLimit: 100,
			MaxSearchContentLimit:     1000,
			MaxLineLength:             500,
			FetchTimeoutSeconds:       30,
			MaxFetchBytes:             2 * 1024 * 1024,
		},
		Log: LogConfig{
			Level: "info",
		},
		Checkpoint: CheckpointConfig{
			Enabled: true,
		},
	}
}
