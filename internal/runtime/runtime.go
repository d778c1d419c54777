// Package runtime assembles the cobra command trees for the suite's tools
// and drives the dispatch pipeline behind them.
package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stevengum97/botbuilder-tools/internal/executor"
	"github.com/stevengum97/botbuilder-tools/pkg/config"
	"github.com/stevengum97/botbuilder-tools/pkg/manifest"
	"github.com/stevengum97/botbuilder-tools/pkg/payload"
	"github.com/stevengum97/botbuilder-tools/pkg/progress"
	"github.com/stevengum97/botbuilder-tools/pkg/settings"
	"github.com/stevengum97/botbuilder-tools/pkg/wizard"
)

// configFlags maps configuration fields to the flags that override them.
var configFlags = map[string]string{
	config.FieldAuthoringKey: "authoring-key",
	config.FieldEndpointBase: "endpoint-base",
	config.FieldAppID:        "app-id",
	config.FieldVersionID:    "version-id",
}

// OperationExecutor dispatches one validated operation to the remote
// service. A result document shaped like a service error counts as a
// failure even when the call itself reports none.
type OperationExecutor interface {
	Execute(ctx context.Context, cfg *config.Configuration, op *manifest.Operation, params map[string]string, payload any) (any, error)
}

// Runtime carries the collaborators the command trees need. The zero value
// works: every field falls back to its production default.
type Runtime struct {
	Version     string
	SettingsDir string            // defaults to the current directory
	Executor    OperationExecutor // defaults to the HTTP client
	Manifest    *manifest.Table   // defaults to the embedded manifest
	Stdin       io.Reader         // defaults to os.Stdin

	// StreamTimeout bounds the wait for the first byte of piped input.
	StreamTimeout time.Duration

	// Prompt overrides the wizard's terminal prompt. Used by tests.
	Prompt func(message string) (string, error)

	// Quiet suppresses spinners and status prints, leaving only document
	// output and errors.
	Quiet bool
}

// NewLUISCommand builds the luis root command: one positional operation
// name, the configuration override flags, and the init subcommand.
func (r *Runtime) NewLUISCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "luis <operation>",
		Short:         "Dispatch authoring operations to a language understanding service",
		Long:          r.luisLongHelp(),
		Version:       r.version(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			if len(args) > 1 {
				return &manifest.ArgumentError{
					Message: fmt.Sprintf("expected a single operation, got %d arguments", len(args)),
				}
			}
			return r.execute(cmd, args[0])
		},
	}

	addConfigFlags(cmd.Flags())
	cmd.Flags().String("in", "", "path of the input document for operations that take one")
	cmd.Flags().String("out", "", "write the result to this path instead of stdout")
	cmd.Flags().String("skip", "", "number of entries to skip on list operations")
	cmd.Flags().String("take", "", "number of entries to return on list operations")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "print dispatch details while executing")

	cmd.AddCommand(r.newInitCommand())
	return cmd
}

func addConfigFlags(flags *pflag.FlagSet) {
	flags.String("authoring-key", "", "authoring key used to authenticate against the service")
	flags.String("endpoint-base", "", "endpoint base URL, for example https://westus.api.cognitive.microsoft.com")
	flags.String("app-id", "", "application the operation targets")
	flags.String("version-id", "", "application version the operation targets")
}

// luisLongHelp lists the dispatchable operations so bare invocations and
// --help show what the tool can do.
func (r *Runtime) luisLongHelp() string {
	long := "luis dispatches authoring operations to a remote language understanding service.\n" +
		"Configuration comes from flags, a .luisrc settings file, and LUIS_* environment\n" +
		"variables, in that order. Run `luis init` to create the settings file."
	table, err := r.table()
	if err != nil {
		return long
	}
	long += "\n\nOperations:"
	for _, name := range table.Names() {
		long += fmt.Sprintf("\n  %-16s %s", name, table.Lookup(name).Summary)
	}
	return long
}

// execute runs the dispatch pipeline: resolve configuration, validate the
// operation against its input, acquire the payload, call the service, emit
// the result. Each gate fails before the next one starts.
func (r *Runtime) execute(cmd *cobra.Command, opName string) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		pterm.EnableDebugMessages()
	}

	table, err := r.table()
	if err != nil {
		return err
	}

	cfg, err := r.resolveConfiguration(cmd)
	if err != nil {
		return err
	}
	pterm.Debug.Printfln("configuration: endpoint %s, app %s, version %s", cfg.EndpointBase, cfg.AppID, cfg.VersionID)

	inPath, _ := cmd.Flags().GetString("in")
	op, err := table.Select(opName, inPath != "")
	if err != nil {
		return err
	}
	pterm.Debug.Printfln("dispatching %s %s", op.Method, op.Path)
	if op.Deprecated && !r.Quiet {
		pterm.Warning.Printfln("The %s operation is deprecated and may stop working without notice", op.Name)
	}

	var doc any
	if op.RequiresInput {
		doc, err = payload.ReadDocument(inPath)
		if err != nil {
			return err
		}
	}

	result, err := r.dispatch(cmd.Context(), cfg, op, r.queryParams(cmd, op), doc)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	written, err := payload.Emit(cmd.OutOrStdout(), result, outPath)
	if err != nil {
		return err
	}
	if written != payload.Console && !r.Quiet {
		pterm.Success.Printfln("Result written to %s", written)
	}
	return nil
}

// dispatch calls the executor under a spinner and normalizes error-shaped
// result documents into failures.
func (r *Runtime) dispatch(ctx context.Context, cfg *config.Configuration, op *manifest.Operation, params map[string]string, doc any) (any, error) {
	tracker := progress.NewTracker(!r.Quiet)
	tracker.Start(fmt.Sprintf("Calling %s", op.Name))

	result, err := r.executor().Execute(ctx, cfg, op, params, doc)
	if err == nil {
		if msg, ok := executor.ErrorDocument(result); ok {
			err = &executor.ServiceError{Message: msg}
		}
	}

	if err != nil {
		tracker.Fail(fmt.Sprintf("%s failed", op.Name))
		return nil, err
	}
	tracker.Success(fmt.Sprintf("%s completed", op.Name))
	return result, nil
}

// resolveConfiguration merges flag overrides, the settings file, and the
// environment into a complete configuration.
func (r *Runtime) resolveConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	args := config.Source{}
	for field, flag := range configFlags {
		if value, _ := cmd.Flags().GetString(flag); value != "" {
			args[field] = value
		}
	}
	fileSource := settings.Load(r.settingsDir()).Source()
	return config.Resolve(args, fileSource, config.EnvSource(os.Getenv))
}

// queryParams collects values for the operation's declared query parameters
// from identically named flags.
func (r *Runtime) queryParams(cmd *cobra.Command, op *manifest.Operation) map[string]string {
	params := map[string]string{}
	for _, name := range op.QueryParams {
		if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
			params[name] = flag.Value.String()
		}
	}
	return params
}

func (r *Runtime) newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a settings file through a guided setup",
		Long: "init asks for the authoring key, region, app ID and version ID, shows the\n" +
			"collected settings, and writes them to a .luisrc file once confirmed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := wizard.New(r.settingsDir())
			w.Out = cmd.OutOrStdout()
			if r.Prompt != nil {
				w.Prompt = r.Prompt
			}

			saved, err := w.Run()
			if err != nil {
				return err
			}
			if r.Quiet {
				return nil
			}
			if saved {
				pterm.Success.Printfln("Settings written to %s", settings.Path(r.settingsDir()))
			} else {
				pterm.Info.Println("Setup canceled, nothing was written")
			}
			return nil
		},
	}
}

func (r *Runtime) table() (*manifest.Table, error) {
	if r.Manifest == nil {
		table, err := manifest.Load()
		if err != nil {
			return nil, err
		}
		r.Manifest = table
	}
	return r.Manifest, nil
}

func (r *Runtime) executor() OperationExecutor {
	if r.Executor == nil {
		r.Executor = executor.NewClient(nil)
	}
	return r.Executor
}

func (r *Runtime) settingsDir() string {
	if r.SettingsDir != "" {
		return r.SettingsDir
	}
	return "."
}

func (r *Runtime) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Runtime) streamTimeout() time.Duration {
	if r.StreamTimeout > 0 {
		return r.StreamTimeout
	}
	return payload.DefaultStreamTimeout
}

func (r *Runtime) version() string {
	if r.Version != "" {
		return r.Version
	}
	return "dev"
}
