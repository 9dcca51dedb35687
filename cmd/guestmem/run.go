package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/guestmem/errors"
)

type runOptions struct {
	funcName    string
	args        []string
	list        bool
	interactive bool
}

func newRunCmd(a *app) *cobra.Command {
	var o runOptions

	cmd := &cobra.Command{
		Use:   "run <file.wasm>",
		Short: "Run a guest module against the guestmem host module",
		Long: `Instantiates a core wasm module next to WASI and the "guestmem" host
module, then calls one of its exports. A trap from a host function aborts the
call and is reported; it does not crash the runner.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.interactive {
				return a.runInteractive(args[0])
			}
			return a.run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], o)
		},
	}

	cmd.Flags().StringVarP(&o.funcName, "func", "f", "", "export to call (default: entry from config, then _start, run, main)")
	cmd.Flags().StringSliceVarP(&o.args, "args", "a", nil, "comma separated arguments, parsed by parameter type")
	cmd.Flags().BoolVarP(&o.list, "list", "l", false, "list exported functions and exit")
	cmd.Flags().BoolVarP(&o.interactive, "interactive", "i", false, "interactive mode with TUI")
	return cmd
}

func (a *app) run(ctx context.Context, stdout, stderr io.Writer, path string, o runOptions) error {
	s, err := a.open(ctx, path, stdout, stderr)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	if o.list {
		fmt.Fprintf(stdout, "Exported functions:\n")
		for _, name := range s.names() {
			fmt.Fprintf(stdout, "  %s\n", signature(name, s.funcs[name]))
		}
		return nil
	}

	name, err := s.entry(o.funcName, a.cfg.Entry)
	if err != nil {
		return err
	}
	def := s.funcs[name]
	params, err := parseArgs(name, def, o.args)
	if err != nil {
		return err
	}

	a.logger.Debug("calling guest", zap.String("function", name), zap.Strings("args", o.args))
	results, err := s.guest.ExportedFunction(name).Call(ctx, params...)
	if err != nil {
		var exit *sys.ExitError
		if stderrors.As(err, &exit) {
			if exit.ExitCode() == 0 {
				return nil
			}
			return exitStatus(exit.ExitCode())
		}
		a.logger.Debug("guest call failed", zap.String("function", name), zap.Error(err))
		fmt.Fprintln(stderr, errorStyle.Render("trap: "+describeTrap(err)))
		return exitStatus(1)
	}

	fmt.Fprintf(stdout, "%s(%s) = %s\n", name, strings.Join(o.args, ", "), formatResults(def, results))
	return nil
}

func exitedCleanly(err error) bool {
	var exit *sys.ExitError
	return stderrors.As(err, &exit) && exit.ExitCode() == 0
}

// exitStatus is returned once a failed guest call has been reported. main
// exits with it and prints nothing more.
type exitStatus uint32

func (s exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", uint32(s))
}

// describeTrap prefers the structured error raised by a host function over
// wazero's wrapper, which carries a multi-line stack trace.
func describeTrap(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Error()
	}
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}
