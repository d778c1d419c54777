package runtime

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/stevengum97/botbuilder-tools/pkg/payload"
	"github.com/stevengum97/botbuilder-tools/pkg/transcript"
)

// NewChatdownCommand builds the chatdown root command. The tool reads a
// dialog script from --in or stdin and emits the converted transcript.
func (r *Runtime) NewChatdownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatdown",
		Short: "Convert a dialog script into a transcript of activities",
		Long: "chatdown turns scripted dialog text into a sequence of timestamped message\n" +
			"activities. Scripts come from --in or piped stdin; the transcript goes to\n" +
			"stdout or the --out path.",
		Version:       r.version(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          r.runChatdown,
	}
	cmd.Flags().String("in", "", "path of the dialog script to convert")
	cmd.Flags().String("out", "", "write the transcript to this path instead of stdout")
	return cmd
}

func (r *Runtime) runChatdown(cmd *cobra.Command, args []string) error {
	inPath, _ := cmd.Flags().GetString("in")

	var script string
	if inPath != "" {
		data, err := os.ReadFile(inPath)
		if err != nil {
			return err
		}
		script = string(data)
	} else {
		text, err := payload.ReadStream(cmd.Context(), r.stdin(), r.streamTimeout())
		if err != nil {
			return err
		}
		script = text
	}

	activities, err := transcript.Parse(script, transcript.Options{})
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	written, err := payload.Emit(cmd.OutOrStdout(), activities, outPath)
	if err != nil {
		return err
	}
	if written != payload.Console && !r.Quiet {
		pterm.Success.Printfln("Transcript written to %s", written)
	}
	return nil
}
