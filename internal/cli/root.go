// Package cli wires the todo command line: subcommands that drive a list
// server, the server itself, and the interactive list.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/liststore"
	"github.com/idilsaglam/todolist/internal/rpc"
	"github.com/idilsaglam/todolist/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// exitCode carries an exit status for a failure that was already reported.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

// Env is what the commands need from the outside world.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	// Backend opens the list the data commands operate on. Defaults to an
	// rpc.Client for cfg.Client.
	Backend func(cfg config.Config) liststore.Backend
}

func DefaultEnv() Env {
	return Env{Stdout: os.Stdout, Stderr: os.Stderr}
}

// app is the per-invocation state shared by subcommands.
type app struct {
	env     Env
	v       *viper.Viper
	cfgPath string
	verbose bool
	cfg     config.Config
	out     *ui.Printer
}

func (a *app) backend() liststore.Backend {
	if a.env.Backend != nil {
		return a.env.Backend(a.cfg)
	}
	return rpc.NewClient(a.cfg.Client.Endpoint, a.cfg.Client.Timeout)
}

// NewRootCommand builds the command tree bound to env.
func NewRootCommand(env Env) *cobra.Command {
	a := &app{env: env, v: config.New()}
	// usable before PersistentPreRunE runs, e.g. for config errors
	a.out = ui.NewPrinter(env.Stdout, env.Stderr, ui.ThemeByName("classic"), ui.ColorNever)

	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - an ordered todo list served over JSON-RPC",
		Long: `todo keeps an ordered list of elements in a server process and lets you
edit it by position from the command line or an interactive view.

Indexes on the command line are 1-based.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return exitCode(ExitUsage)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "f", "", "config file (YAML); defaults to $TODO_CONFIG or the user config dir")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.String("endpoint", "", "server JSON-RPC endpoint")
	pf.String("theme", "", "output theme: classic | neon | mono")
	pf.String("color", "", "color output: auto | always | never")
	_ = a.v.BindPFlag("client.endpoint", pf.Lookup("endpoint"))
	_ = a.v.BindPFlag("ui.theme", pf.Lookup("theme"))
	_ = a.v.BindPFlag("ui.color", pf.Lookup("color"))

	root.AddCommand(
		a.lsCmd(),
		a.addCmd(),
		a.insertCmd(),
		a.doneCmd(),
		a.editCmd(),
		a.rmCmd(),
		a.serveCmd(),
		a.tuiCmd(),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgPath)
	if err != nil {
		return err
	}
	mode, err := ui.ParseColorMode(cfg.UI.Color)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.out = ui.NewPrinter(a.env.Stdout, a.env.Stderr, ui.ThemeByName(cfg.UI.Theme), mode)
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, env Env) int {
	root := NewRootCommand(env)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	var code exitCode
	if errors.As(err, &code) {
		return int(code)
	}
	printer := ui.NewPrinter(env.Stdout, env.Stderr, ui.ThemeByName("classic"), ui.ColorNever)
	printer.Fail(err.Error())
	if isUsageError(err) {
		return ExitUsage
	}
	return ExitError
}

// usageError marks argument problems found by cobra validators.
type usageError struct{ error }

func (u usageError) Unwrap() error { return u.error }

func isUsageError(err error) bool {
	var u usageError
	if errors.As(err, &u) {
		return true
	}
	return strings.HasPrefix(err.Error(), "unknown command")
}

// usageArgs wraps a cobra.PositionalArgs so its failures map to ExitUsage.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{fmt.Errorf("usage: %s: %w", cmd.UseLine(), err)}
		}
		return nil
	}
}
