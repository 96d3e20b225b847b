package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	apppkg "github.com/kk-code-lab/tdir/internal/app"
	"github.com/kk-code-lab/tdir/internal/config"
	"github.com/kk-code-lab/tdir/internal/logging"
	"github.com/kk-code-lab/tdir/internal/shellsetup"
	"github.com/kk-code-lab/tdir/internal/sortmode"
	"github.com/spf13/cobra"
)

// setupAuto is the --setup value meaning "detect the shell".
const setupAuto = "auto"

type rootFlags struct {
	configPath string
	setup      string
	logPath    string
	logLevel   string
	sortMode   string
	hidden     bool
}

var (
	parentShellDetector = shellsetup.DetectParentShellName
	runBrowser          = runApplication
)

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "tdir [PATH]",
		Short: "Keyboard-driven terminal file browser",
		Long: `tdir browses directories in three columns: parent, current and preview.

Press q to quit where you started or x to quit and leave the shell in the
current directory (requires the function printed by --setup).`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("setup") {
				shell := flags.setup
				if shell == setupAuto {
					shell = ""
				}
				return shellsetup.PrintSetup(cmd.OutOrStdout(), shell, shellsetup.Config{DetectParent: parentShellDetector})
			}

			start := ""
			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				info, err := os.Stat(abs)
				if err != nil {
					return err
				}
				if !info.IsDir() {
					return fmt.Errorf("%s is not a directory", abs)
				}
				start = abs
			}

			cfg, err := loadConfig(cmd.ErrOrStderr(), flags.configPath)
			if err != nil {
				return err
			}
			opts, err := browserOptions(cfg, flags, start)
			if err != nil {
				return err
			}

			closer, err := setupLogging(cfg, flags)
			if err != nil {
				warn(cmd.ErrOrStderr(), "logging disabled: %v", err)
			} else {
				defer func() {
					_ = closer.Close()
				}()
			}

			return runBrowser(opts, cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tdir/config.toml)")
	f.StringVarP(&flags.setup, "setup", "s", "", "print the shell integration function, optionally for SHELL")
	f.Lookup("setup").NoOptDefVal = setupAuto
	f.StringVar(&flags.logPath, "log", "", "append debug log to FILE (or set "+logging.EnvVar+")")
	f.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&flags.sortMode, "sort", "", "initial sort mode: natural, lexical, mtime, size")
	f.BoolVarP(&flags.hidden, "all", "a", false, "show hidden files")
	return cmd
}

// loadConfig reads the explicit config path, or the default location where
// a missing file is fine.
func loadConfig(stderr io.Writer, path string) (config.Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return config.Default(), fmt.Errorf("config: %w", err)
		}
		return config.Load(path)
	}
	def, err := config.DefaultPath()
	if err != nil {
		warn(stderr, "%v", err)
		return config.Default(), nil
	}
	cfg, err := config.Load(def)
	if err != nil {
		// A broken default config should not lock the user out.
		warn(stderr, "%v; using defaults", err)
		return config.Default(), nil
	}
	return cfg, nil
}

func browserOptions(cfg config.Config, flags rootFlags, start string) (apppkg.Options, error) {
	sortOpts, err := cfg.SortOptions()
	if err != nil {
		return apppkg.Options{}, err
	}
	if flags.sortMode != "" {
		mode, err := sortmode.ParseMode(flags.sortMode)
		if err != nil {
			return apppkg.Options{}, err
		}
		sortOpts.Mode = mode
	}
	if flags.hidden {
		sortOpts.ShowHidden = true
	}
	return apppkg.Options{
		StartPath: start,
		Sort:      sortOpts,
		MaxTabs:   cfg.MaxTabs(),
		Commands: apppkg.Commands{
			Editor:    cfg.Commands.Editor,
			Pager:     cfg.Commands.Pager,
			Clipboard: cfg.Commands.Clipboard,
		},
	}, nil
}

// setupLogging picks the log file from --log, then $TDIR_LOG, then the
// config file.
func setupLogging(cfg config.Config, flags rootFlags) (io.Closer, error) {
	path := flags.logPath
	if path == "" {
		path = os.Getenv(logging.EnvVar)
	}
	if path == "" {
		path = cfg.Log.File
	}
	level := flags.logLevel
	if level == "" {
		level = cfg.Log.Level
	}
	return logging.Setup(path, level)
}

func runApplication(opts apppkg.Options, stderr io.Writer) error {
	app, err := apppkg.NewApplication(opts)
	if err != nil {
		return fmt.Errorf("cannot start: %w", err)
	}

	app.Run()
	if err := app.Close(); err != nil {
		logging.L().WithError(err).Warn("closing screen")
	}

	// The shell function reads this file after we exit; the pid keeps
	// concurrent instances apart.
	if path := app.GetCurrentPath(); path != "" {
		resultFile := shellsetup.ResultFile(os.Getpid())
		if err := os.WriteFile(resultFile, []byte(path), 0o600); err != nil {
			warn(stderr, "could not write result file: %v", err)
		}
	}
	return nil
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.YellowString("warning:"), fmt.Sprintf(format, args...))
}
