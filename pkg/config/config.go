package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvEmail          = "CHATFLUX_EMAIL"
	EnvPassword       = "CHATFLUX_PASSWORD"
	EnvPipelineOutput = "GITHUB_OUTPUT"
	EnvGitHubActions  = "GITHUB_ACTIONS"
)

const (
	// DefaultLoginURL is the ChatFlux login page.
	DefaultLoginURL = "https://alpha.chatflux.ai/login"

	// DefaultSessionCookie is the cookie set by ChatFlux once a user is authenticated.
	DefaultSessionCookie = "_chatflux_app_session"

	// DefaultSuccessURLPattern matches any page inside the workspace.
	DefaultSuccessURLPattern = "**/Dd8F3m/**"

	// DefaultUserAgent is a desktop Chrome identity. The headless default trips bot detection.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// FlowMode selects how the login form is driven.
type FlowMode string

const (
	// FlowAuto picks single-step when the password field is visible on load
	FlowAuto FlowMode = "auto"
	// FlowSingle fills email and password on the same page
	FlowSingle FlowMode = "single"
	// FlowTwoStep submits the email first, then waits for the password field
	FlowTwoStep FlowMode = "two-step"
)

// CookieFormat controls how cookies are serialized into the output artifact.
type CookieFormat string

const (
	// FormatByFlow uses session for single-step and all for two-step logins
	FormatByFlow CookieFormat = ""
	// FormatSession writes only the session cookie as name=value
	FormatSession CookieFormat = "session"
	// FormatAll writes every first-party cookie joined with "; "
	FormatAll CookieFormat = "all"
)

// Config represents the configuration for a cookie refresh run
type Config struct {
	// Target site
	LoginURL          string `yaml:"login_url" json:"login_url"`
	SessionCookie     string `yaml:"session_cookie" json:"session_cookie"`
	SuccessURLPattern string `yaml:"success_url_pattern" json:"success_url_pattern"`

	// Login form handling
	Flow      FlowMode       `yaml:"flow" json:"flow"`
	Selectors SelectorConfig `yaml:"selectors" json:"selectors"`
	Timeouts  TimeoutConfig  `yaml:"timeouts" json:"timeouts"`
	Browser   BrowserConfig  `yaml:"browser" json:"browser"`
	Output    OutputConfig   `yaml:"output" json:"output"`
	Logging   LoggingConfig  `yaml:"logging" json:"logging"`

	// Credentials are never read from the config file
	Credentials Credentials `yaml:"-" json:"-"`
}

// Credentials is the login pair supplied through the environment.
type Credentials struct {
	Email    string
	Password string
}

// SelectorConfig lists CSS selectors tried in priority order for each logical field.
type SelectorConfig struct {
	Email    []string `yaml:"email" json:"email"`
	Password []string `yaml:"password" json:"password"`
	Continue []string `yaml:"continue" json:"continue"`
	Submit   []string `yaml:"submit" json:"submit"`
}

// TimeoutConfig bounds every wait performed during a run
type TimeoutConfig struct {
	Navigation    time.Duration `yaml:"navigation" json:"navigation"`
	Field         time.Duration `yaml:"field" json:"field"`
	PasswordField time.Duration `yaml:"password_field" json:"password_field"`
	Login         time.Duration `yaml:"login" json:"login"`
	Settle        time.Duration `yaml:"settle" json:"settle"`
	Run           time.Duration `yaml:"run" json:"run"`
}

// BrowserConfig configures the Chromium instance.
type BrowserConfig struct {
	Headless       bool   `yaml:"headless" json:"headless"`
	UserAgent      string `yaml:"user_agent" json:"user_agent"`
	ViewportWidth  int    `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height" json:"viewport_height"`
	Install        bool   `yaml:"install" json:"install"`
}

// OutputConfig defines where the cookie and diagnostics are written
type OutputConfig struct {
	CookieFile     string       `yaml:"cookie_file" json:"cookie_file"`
	ScreenshotFile string       `yaml:"screenshot_file" json:"screenshot_file"`
	CookieFormat   CookieFormat `yaml:"cookie_format" json:"cookie_format"`
	PipelineKey    string       `yaml:"pipeline_key" json:"pipeline_key"`
	Clipboard      bool         `yaml:"clipboard" json:"clipboard"`

	// Populated from the environment
	PipelineFile string `yaml:"-" json:"-"`
	MaskSecrets  bool   `yaml:"-" json:"-"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`

	// File optionally receives a copy of the console output
	File string `yaml:"file" json:"file"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		LoginURL:          DefaultLoginURL,
		SessionCookie:     DefaultSessionCookie,
		SuccessURLPattern: DefaultSuccessURLPattern,
		Flow:              FlowAuto,
		Selectors: SelectorConfig{
			Email: []string{
				`input[type="email"]`,
				`input[name="email"]`,
				`input[placeholder*="email" i]`,
				`#email`,
			},
			Password: []string{
				`input[type="password"]`,
				`input[name="password"]`,
				`#password`,
			},
			Continue: []string{
				`button[type="submit"]`,
				`button:has-text("Continuar")`,
				`button:has-text("Continue")`,
				`input[type="submit"]`,
			},
			Submit: []string{
				`button[type="submit"]`,
				`button:has-text("Login")`,
				`button:has-text("Entrar")`,
				`input[type="submit"]`,
			},
		},
		Timeouts: TimeoutConfig{
			Navigation:    30 * time.Second,
			Field:         10 * time.Second,
			PasswordField: 15 * time.Second,
			Login:         30 * time.Second,
			Settle:        3 * time.Second,
			Run:           3 * time.Minute,
		},
		Browser: BrowserConfig{
			Headless:       true,
			UserAgent:      DefaultUserAgent,
			ViewportWidth:  1280,
			ViewportHeight: 720,
			Install:        true,
		},
		Output: OutputConfig{
			CookieFile:     "cookie.txt",
			ScreenshotFile: "error-screenshot.png",
			PipelineKey:    "cookie",
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// LoadFile loads configuration from a YAML file on top of DefaultConfig.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv fills credentials and pipeline settings from the environment.
// getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.Credentials = Credentials{
		Email:    getenv(EnvEmail),
		Password: getenv(EnvPassword),
	}
	c.Output.PipelineFile = getenv(EnvPipelineOutput)
	c.Output.MaskSecrets = getenv(EnvGitHubActions) == "true"
}

// Validate checks everything except credentials, which are checked by
// Credentials.Validate right before a run starts.
func (c *Config) Validate() error {
	if c.LoginURL == "" {
		return fmt.Errorf("login_url is required")
	}
	u, err := url.Parse(c.LoginURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid login_url: %s", c.LoginURL)
	}

	if c.SessionCookie == "" {
		return fmt.Errorf("session_cookie is required")
	}

	switch c.Flow {
	case FlowAuto, FlowSingle, FlowTwoStep:
	default:
		return fmt.Errorf("invalid flow: %s (must be 'auto', 'single' or 'two-step')", c.Flow)
	}

	switch c.Output.CookieFormat {
	case FormatByFlow, FormatSession, FormatAll:
	default:
		return fmt.Errorf("invalid cookie_format: %s (must be 'session' or 'all')", c.Output.CookieFormat)
	}

	if len(c.Selectors.Email) == 0 {
		return fmt.Errorf("at least one email selector is required")
	}
	if len(c.Selectors.Password) == 0 {
		return fmt.Errorf("at least one password selector is required")
	}
	if len(c.Selectors.Submit) == 0 {
		return fmt.Errorf("at least one submit selector is required")
	}
	if c.Flow == FlowTwoStep && len(c.Selectors.Continue) == 0 {
		return fmt.Errorf("two-step flow requires at least one continue selector")
	}

	if c.Output.CookieFile == "" {
		return fmt.Errorf("output.cookie_file is required")
	}

	t := c.Timeouts
	if t.Navigation < 0 || t.Field < 0 || t.PasswordField < 0 || t.Login < 0 || t.Settle < 0 || t.Run < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

// Validate reports which credential is missing.
func (c Credentials) Validate() error {
	switch {
	case c.Email == "" && c.Password == "":
		return fmt.Errorf("%s and %s are required", EnvEmail, EnvPassword)
	case c.Email == "":
		return fmt.Errorf("%s is required", EnvEmail)
	case c.Password == "":
		return fmt.Errorf("%s is required", EnvPassword)
	}
	return nil
}
