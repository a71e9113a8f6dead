// Package main provides chatflux-cookie, which logs into ChatFlux with a
// headless browser and writes a fresh session cookie for the workflow steps
// that follow it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/chatflux-cookie/pkg/acquirer"
	"github.com/entrhq/chatflux-cookie/pkg/browser"
	"github.com/entrhq/chatflux-cookie/pkg/config"
	"github.com/entrhq/chatflux-cookie/pkg/logging"
	"github.com/entrhq/chatflux-cookie/pkg/output"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// cliOptions holds command-line overrides. Only flags the user actually set
// are applied on top of the configuration file.
type cliOptions struct {
	ConfigFile     string
	LoginURL       string
	Flow           string
	CookieFile     string
	ScreenshotFile string
	Headless       bool
	Timeout        time.Duration
	Verbosity      string
	Clipboard      bool
	SkipInstall    bool
	ShowVersion    bool
}

func main() {
	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
		cancel()
	}()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
	cancel()
}

// newRootCommand creates the root cobra command
func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "chatflux-cookie",
		Short: "Refresh the ChatFlux session cookie",
		Long: `chatflux-cookie logs into ChatFlux with a headless Chromium using the
CHATFLUX_EMAIL and CHATFLUX_PASSWORD environment variables and writes the
session cookie to a file. Inside GitHub Actions the cookie is also masked
in the logs and exported as the "cookie" step output.`,
		Example: `  # Refresh with defaults
  chatflux-cookie

  # Watch the browser while debugging selectors
  chatflux-cookie --headless=false --verbosity debug

  # Use a configuration file
  chatflux-cookie --config chatflux-cookie.example.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ShowVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "chatflux-cookie v%s\n", version)
				return nil
			}

			cfg, err := buildConfig(cmd, opts, os.Getenv)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ Error: %v\n", err)
				return err
			}
			return run(cmd.Context(), cfg, opts.SkipInstall)
		},
	}

	bindFlags(cmd, opts)

	return cmd
}

// bindFlags registers the command-line flags on cmd
func bindFlags(cmd *cobra.Command, opts *cliOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flags.StringVar(&opts.LoginURL, "login-url", config.DefaultLoginURL, "Login page URL")
	flags.StringVar(&opts.Flow, "flow", string(config.FlowAuto), "Login flow: auto, single or two-step")
	flags.StringVar(&opts.CookieFile, "cookie-file", "cookie.txt", "File the cookie is written to")
	flags.StringVar(&opts.ScreenshotFile, "screenshot", "error-screenshot.png", "Screenshot path on failure (empty disables)")
	flags.BoolVar(&opts.Headless, "headless", true, "Run the browser without a window")
	flags.DurationVar(&opts.Timeout, "timeout", 3*time.Minute, "Overall run timeout")
	flags.StringVarP(&opts.Verbosity, "verbosity", "v", "normal", "Logging level: quiet, normal, verbose or debug")
	flags.BoolVar(&opts.Clipboard, "clipboard", false, "Also copy the cookie to the clipboard")
	flags.BoolVar(&opts.SkipInstall, "skip-install", false, "Do not install the browser driver before running")
	flags.BoolVar(&opts.ShowVersion, "version", false, "Show version and exit")
}

// buildConfig loads the configuration file (or defaults), applies the flags
// that were set explicitly and then the environment.
func buildConfig(cmd *cobra.Command, opts *cliOptions, getenv func(string) string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.ConfigFile != "" {
		loaded, err := config.LoadFile(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("login-url") {
		cfg.LoginURL = opts.LoginURL
	}
	if flags.Changed("flow") {
		cfg.Flow = config.FlowMode(opts.Flow)
	}
	if flags.Changed("cookie-file") {
		cfg.Output.CookieFile = opts.CookieFile
	}
	if flags.Changed("screenshot") {
		cfg.Output.ScreenshotFile = opts.ScreenshotFile
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = opts.Headless
	}
	if flags.Changed("timeout") {
		cfg.Timeouts.Run = opts.Timeout
	}
	if flags.Changed("verbosity") {
		cfg.Logging.Verbosity = opts.Verbosity
	}
	if flags.Changed("clipboard") {
		cfg.Output.Clipboard = opts.Clipboard
	}

	cfg.ApplyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// run executes one cookie refresh
func run(ctx context.Context, cfg *config.Config, skipInstall bool) error {
	var console io.Writer = os.Stdout
	if cfg.Logging.File != "" {
		logFile, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		console = io.MultiWriter(os.Stdout, logFile)
	}

	level := logging.ParseLevel(cfg.Logging.Verbosity)
	logger := logging.NewLogger(level, console)
	logger.Header(fmt.Sprintf("ChatFlux cookie refresh v%s", version))
	logger.Verbosef("login page: %s", cfg.LoginURL)

	if cfg.Timeouts.Run > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeouts.Run)
		defer cancel()
	}

	manager := browser.NewManager()
	if level >= logging.LevelDebug {
		manager.Output = console
	}
	defer func() {
		if err := manager.Shutdown(); err != nil {
			logger.Debugf("%v", err)
		}
	}()

	// The driver is started on first launch so that a run with missing
	// credentials never touches the browser.
	launcher := acquirer.LauncherFunc(func(ctx context.Context) (acquirer.Page, error) {
		install := cfg.Browser.Install && !skipInstall
		if install {
			logger.Verbosef("installing browser driver")
		}
		if err := manager.Initialize(install); err != nil {
			return nil, err
		}
		session, err := manager.Launch(ctx, browser.Options{
			Headless:  cfg.Browser.Headless,
			UserAgent: cfg.Browser.UserAgent,
			Viewport: &browser.Viewport{
				Width:  cfg.Browser.ViewportWidth,
				Height: cfg.Browser.ViewportHeight,
			},
			Timeout: cfg.Timeouts.Navigation,
		})
		if err != nil {
			return nil, err
		}
		return session, nil
	})

	sink := output.NewFileSink(output.Config{
		CookieFile:   cfg.Output.CookieFile,
		PipelineFile: cfg.Output.PipelineFile,
		PipelineKey:  cfg.Output.PipelineKey,
		Mask:         cfg.Output.MaskSecrets,
		Clipboard:    cfg.Output.Clipboard,
	}, logger)

	acq, err := acquirer.New(cfg, launcher, sink, logger)
	if err != nil {
		logger.Summary(err)
		return err
	}

	result, err := acq.Run(ctx)
	if err != nil {
		if hint := failureHint(err); hint != "" {
			logger.Warningf("%s", hint)
		}
		logger.Summary(err)
		return err
	}

	logger.Successf("Cookie saved to %s (%s flow)", sink.CookieFile(), result.Flow)
	if cfg.Output.PipelineFile != "" {
		logger.Verbosef("exported step output %q", cfg.Output.PipelineKey)
	}
	logger.Summary(nil)
	return nil
}
