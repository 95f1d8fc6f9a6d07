package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"login-agent/internal/di"
	"login-agent/internal/infrastructure/config"
	"login-agent/internal/infrastructure/env"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errRunFailed marks a terminal pipeline failure already reported on the console.
var errRunFailed = errors.New("login run failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "login-agent [url]",
		Short: "Find, fill and submit the login form of an unfamiliar page",
		Long: `login-agent opens a page, asks an inference provider which element opens
the login form and which inputs take which credentials, then fills and
submits the form.

Credentials come from COMMON_APP_ID, COMMON_APP_PASSWORD, STUDENT_YEAR and
DEPARTMENT (environment or .env / .env.<APP_ENV>).

Example:
  login-agent https://portal.example.edu --provider anthropic --headless --no-hold`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Set("url", args[0])
			}
			return run(cmd.Context(), v, cfgFile)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	f.String("url", config.DefaultURL, "page to open")
	f.String("provider", "openai", "inference provider: openai, openrouter, anthropic, gemini")
	f.String("model", "", "model override")
	f.String("base-url", "", "API base URL override")
	f.Bool("headless", false, "run the browser without a window")
	f.Bool("no-sandbox", false, "disable the Chromium sandbox")
	f.String("browser-bin", "", "browser executable (default: auto-download)")
	f.Duration("navigate-timeout", 0, "page load timeout")
	f.Duration("settle-delay", 0, "pause after clicking the login trigger")
	f.Duration("form-timeout", 0, "how long to wait for a form")
	f.Int("max-candidates", 0, "login trigger candidates sent to the provider")
	f.Int("scan-limit", 0, "elements inspected while collecting candidates")
	f.Bool("no-hold", false, "exit right after the run instead of keeping the browser open")
	f.String("screenshot", "", "write a JPEG of the final page here")
	f.Bool("restrict-submit", false, "only consider submit fallbacks inside a form")
	f.String("log-level", "", "debug, info, warn or error")
	f.Bool("log-console", false, "mirror the JSON log to stderr")

	// Only flags the operator actually set override file and env values.
	for key, name := range config.FlagKeys {
		cobra.CheckErr(v.BindPFlag(key, f.Lookup(name)))
	}

	return cmd
}

func run(parent context.Context, v *viper.Viper, cfgFile string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	envService := env.NewEnvService(".")

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	data := envService.UserData()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer container.Close()

	container.Logger.Info("Environment loaded",
		"appEnv", envService.AppEnv(),
		"files", envService.Loaded(),
		"fields", data.Keys())
	container.Logger.Debug("Dotenv files not found", "files", envService.Skipped())

	if data.Len() == 0 {
		container.Logger.Warn("No login data in environment",
			"username", env.KeyUsername, "password", env.KeyPassword)
		container.UI.ShowWarning(ctx, fmt.Sprintf("No login data: set %s and %s", env.KeyUsername, env.KeyPassword))
	}

	report, err := container.LoginExecutor.Execute(ctx, cfg.URL, data)
	if err != nil {
		container.Logger.Error("Login run failed", "error", err)
		return errRunFailed
	}

	container.Logger.Info("Login run completed",
		"submitted", report.Submitted,
		"absorbed", len(report.Errors))
	return nil
}
