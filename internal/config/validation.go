package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config validation failed")

var logLevels = []string{"debug", "info", "warn", "error"}

var proxySchemes = []string{"http", "https", "socks5", "socks5h"}

// Validate checks config values for correctness and reports every violation at once.
func (c *Config) Validate() error {
	var errs []string

	// Model
	if c.Model.Primary == "" {
		errs = append(errs, "model.primary is required")
	}
	if c.Model.Fallback != "" && c.Model.Fallback == c.Model.Primary {
		errs = append(errs, "model.fallback must differ from model.primary")
	}
	if c.Model.RequestsPerMinute < 0 {
		errs = append(errs, "model.requests_per_minute must be >= 0")
	}
	if c.Model.MaxRetries < 0 {
		errs = append(errs, "model.max_retries must be >= 0")
	}
	if c.Model.RetryBaseDelayMs < 1 {
		errs = append(errs, "model.retry_base_delay_ms must be >= 1")
	}

	// Breaker
	if c.Breaker.FailureThreshold < 1 {
		errs = append(errs, "breaker.failure_threshold must be >= 1")
	}
	if c.Breaker.BackoffSeconds < 1 {
		errs = append(errs, "breaker.backoff_seconds must be >= 1")
	}

	if c.Workflow.MaxRounds < 1 {
		errs = append(errs, "workflow.max_rounds must be >= 1")
	}

	for _, name := range c.Policy.Allow {
		if slices.Contains(c.Policy.Deny, name) {
			errs = append(errs, fmt.Sprintf("policy: %q is in both allow and deny", name))
		}
	}

	// Tools
	if c.Tools.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}
	if c.Tools.DefaultListDirectoryLimit < 1 {
		errs = append(errs, "tools.default_list_directory_limit must be >= 1")
	}
	if c.Tools.MaxListDirectoryLimit < 1 {
		errs = append(errs, "tools.max_list_directory_limit must be >= 1")
	}
	if c.Tools.DefaultListDirectoryLimit > c.Tools.MaxListDirectoryLimit {
		errs = append(errs, "tools.default_list_directory_limit must be <= tools.max_list_directory_limit")
	}
	if c.Tools.DefaultSearchContentLimit < 1 {
		errs = append(errs, "tools.default_search_content_limit must be >= 1")
	}
	if c.Tools.DefaultSearchContentLimit > c.Tools.MaxSearchContentLimit {
		errs = append(errs, "tools.default_search_content_limit must be <= tools.max_search_content_limit")
	}
	if c.Tools.MaxLineLength < 1 {
		errs = append(errs, "tools.max_line_length must be >= 1")
	}
	if c.Tools.MaxCommandOutputSize < 1 {
		errs = append(errs, "tools.max_command_output_size must be >= 1")
	}
	if c.Tools.DefaultShellTimeout < 1 {
		errs = append(errs, "tools.default_shell_timeout must be >= 1")
	}
	if c.Tools.GracefulShutdownMs < 1 {
		errs = append(errs, "tools.graceful_shutdown_ms must be >= 1")
	}
	if c.Tools.FetchTimeoutSeconds < 1 {
		errs = append(errs, "tools.fetch_timeout_seconds must be >= 1")
	}
	if c.Tools.MaxFetchBytes < 1 {
		errs = append(errs, "tools.max_fetch_bytes must be >= 1")
	}
	if c.Tools.ProxyURL != "" {
		u, err := url.Parse(c.Tools.ProxyURL)
		if err != nil || !slices.Contains(proxySchemes, u.Scheme) || u.Host == "" {
			errs = append(errs, fmt.Sprintf("tools.proxy_url must be a %v URL", proxySchemes))
		}
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Sprintf("log.level must be one of %v", logLevels))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, errs)
	}

	return nil
}
