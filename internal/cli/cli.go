package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vk/comfyargs/internal/app"
	"github.com/vk/comfyargs/internal/options"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Execute runs the command tree against args, not including the program
// name. Usage errors come back as an *ExitError with code 2; any other
// failure as an *ExitError with code 1.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(options.NormalizeArgs(args))

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var usageErr *options.UsageError
	if errors.As(err, &usageErr) {
		return &ExitError{
			Code:    2,
			Message: fmt.Sprintf("error: %s\nRun '%s --help' for usage.", usageErr.Msg, root.Name()),
		}
	}
	return &ExitError{Code: 1, Message: fmt.Sprintf("error: %v", err)}
}

type globalFlags struct {
	storePath string
	logLevel  string
	logFormat string
}

// NewRootCommand builds the command tree:
//
//	comfyargs [option flags]        parse, persist and print
//	comfyargs show [option flags]   load the persisted options
//	comfyargs set PATH...           apply HCL override files
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "comfyargs",
		Short:         "Parse and persist server options",
		Long:          "comfyargs parses the server's options, persists them so that later invocations can recover them, and prints the result as JSON.",
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &options.UsageError{Msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.storePath, "store-path", "", "Path of the persisted options document (default \"temp/temp_args.json\").")
	pf.StringVar(&g.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&g.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	src := bindOptions(root.Flags())
	root.RunE = func(cmd *cobra.Command, _ []string) error {
		a, err := g.newApp(outW, errW, src)
		if err != nil {
			return err
		}
		_, err = a.Parse(cmd.Context(), src)
		return err
	}

	root.AddCommand(newShowCommand(g, outW, errW), newSetCommand(g, outW, errW))
	return root
}

func newShowCommand(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [option flags]",
		Short: "Print the persisted options",
		Long:  "Load the persisted options and print them. If no usable document exists, the given option flags are parsed and persisted instead.",
		Args:  usageArgs(cobra.NoArgs),
	}
	src := bindOptions(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		a, err := g.newApp(outW, errW, src)
		if err != nil {
			return err
		}
		_, err = a.Show(cmd.Context())
		return err
	}
	return cmd
}

func newSetCommand(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "set PATH...",
		Short: "Persist options from HCL override files",
		Long:  "Read top-level attributes from HCL files (or directories of .hcl files), treat them as a complete option mapping, persist and print the result.",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.newApp(outW, errW, options.Mapping{})
			if err != nil {
				return err
			}
			_, err = a.Set(cmd.Context(), args...)
			return err
		},
	}
}

func (g *globalFlags) newApp(outW, errW io.Writer, commandLine options.Source) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		StorePath: g.storePath,
		LogLevel:  g.logLevel,
		LogFormat: g.logFormat,
	})
	if err != nil {
		return nil, &options.UsageError{Msg: err.Error()}
	}
	return app.New(outW, errW, cfg, commandLine), nil
}

// bindOptions registers the option flags on fs in declaration order.
func bindOptions(fs *pflag.FlagSet) options.Source {
	fs.SortFlags = false
	return options.Bind(fs)
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &options.UsageError{Msg: err.Error()}
		}
		return nil
	}
}
