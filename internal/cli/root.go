// Package cli implements the ngi command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/ngi/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the exit code a failed command should end with.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps err to a process exit code. Errors that carry no code are
// user errors, which covers cobra's argument and flag validation.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// options holds the global flags and the state PersistentPreRunE derives
// from them.
type options struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string

	cfg *viper.Viper
	log *slog.Logger
}

// NewRootCmd creates the top-level "ngi" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "ngi",
		Short: "Read and edit ngi section/property files",
		Long: "ngi manages plain-text files made of named sections holding\n" +
			"name: value properties, keeping an in-memory tree in sync with the file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory for the search index (default: platform data dir)")
	root.PersistentFlags().BoolVar(&opts.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(opts),
		newShowCmd(opts),
		newGetCmd(opts),
		newSetCmd(opts),
		newAddCmd(opts),
		newRenameCmd(opts),
		newRmCmd(opts),
		newRecacheCmd(opts),
		newWatchCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newSearchCmd(opts),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (o *options) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(o.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	o.cfg = cfg

	level := o.logLevel
	if level == "" {
		level = cfg.GetString(cfgKeyLogLevel)
	}
	log, err := newLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return userError(err)
	}
	o.log = log
	o.log.Debug("config loaded", "dir", configDir, "file", cfg.ConfigFileUsed())
	return nil
}

// resolveDataDir returns the data directory: --data-dir > config.yaml
// data_dir > NGI_DATA_DIR > platform default.
func (o *options) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(o.dataDir, o.cfg.GetString(cfgKeyDataDir))
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}
