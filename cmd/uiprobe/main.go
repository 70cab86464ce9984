// Package main provides the uiprobe command line tool: one-shot browser
// checks (navigate, wait for an element, capture artifacts) on top of
// the uiprobe library.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/probelab/uiprobe/pkg/artifact"
	"github.com/probelab/uiprobe/pkg/browser"
	"github.com/probelab/uiprobe/pkg/logging"
)

const version = "0.1.0"

var (
	flagConfig    string
	flagLogLevel  string
	flagBrowser   string
	flagSizeClass string
	flagHeadless  bool
	flagTimeout   time.Duration
	flagArtifacts string
	flagTitle     string
)

func main() {
	root := &cobra.Command{
		Use:           "uiprobe",
		Short:         "Browser automation checks built on condition polling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(flagLogLevel, os.Stderr)
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML session config")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	check := &cobra.Command{
		Use:   "check <url> <selector>",
		Short: "Open a session, navigate, and wait for a selector to become visible",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], args[1])
		},
	}
	check.Flags().StringVar(&flagBrowser, "browser", "", "browser kind (chromium, firefox, webkit)")
	check.Flags().StringVar(&flagSizeClass, "size-class", "", "viewport size class (desktop, laptop, tablet, mobile)")
	check.Flags().BoolVar(&flagHeadless, "headless", true, "run the browser without a window")
	check.Flags().DurationVar(&flagTimeout, "timeout", 0, "wait budget for the selector (0 means the session default)")
	check.Flags().StringVar(&flagArtifacts, "artifacts", "artifacts", "directory for screenshots")
	check.Flags().StringVar(&flagTitle, "title", "check", "scenario title used in artifact names")
	root.AddCommand(check)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the uiprobe version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("uiprobe v%s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "uiprobe:", err)
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command, url, selector string) error {
	log := logging.New("check")

	cfg, err := loadSessionConfig(cmd)
	if err != nil {
		return err
	}

	store, err := artifact.NewStore(afero.NewOsFs(), flagArtifacts)
	if err != nil {
		return err
	}

	manager := browser.NewSessionManager()
	if err := manager.Initialize(); err != nil {
		return err
	}
	defer manager.Shutdown()

	session, err := manager.StartSession("check", cfg)
	if err != nil {
		return err
	}
	defer manager.CloseSession("check", 0)

	if err := session.Navigate(url, browser.NavigateOptions{}); err != nil {
		return err
	}

	waitErr := session.WaitVisible(browser.CSS(selector), browser.ActionOptions{Timeout: flagTimeout})

	status := artifact.StatusPassed
	if waitErr != nil {
		status = artifact.StatusFailed
	}
	if png, shotErr := session.Screenshot(); shotErr == nil {
		meta := artifact.Meta{Status: status, SizeClass: session.SizeClass, Title: flagTitle}
		if path, saveErr := store.SaveScreenshot(meta, png); saveErr == nil {
			log.WithField("path", path).Info("screenshot captured")
		}
	}

	if waitErr != nil {
		return waitErr
	}
	log.WithField("selector", selector).Info("check passed")
	return nil
}

// loadSessionConfig merges the optional config file with the check
// command's flags; flags win.
func loadSessionConfig(cmd *cobra.Command) (browser.Config, error) {
	var cfg browser.Config
	if flagConfig != "" {
		loaded, err := browser.LoadConfig(flagConfig)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if flagBrowser != "" {
		cfg.Browser = flagBrowser
	}
	if flagSizeClass != "" {
		cfg.SizeClass = flagSizeClass
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = &flagHeadless
	}
	return cfg, nil
}
