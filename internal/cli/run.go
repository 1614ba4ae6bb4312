package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mbndr/gnize/internal/gnizecfg"

	flag "github.com/spf13/pflag"
)

// BuildCommand constructs the single Command a program (gn or cog)
// exposes, given the resolved ambient config and the program's stdin.
type BuildCommand func(cfg gnizecfg.Config, stdin io.Reader) *Command

// Run is the shared entry point for gn and cog: resolve global flags,
// load configuration, build the program's single command, and execute
// it. Mirrors the teacher's multi-command Run, narrowed to the
// one-command-per-binary shape spec.md §6 describes.
// sigCh can be nil if signal handling is not needed (e.g., in tests).
func Run(programName string, stdin io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal, build BuildCommand) int {
	globalFlags := flag.NewFlagSet(programName, flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.Usage = func() {}
	globalFlags.SetOutput(&strings.Builder{})
	// The command's own flags share the argument list with the global
	// ones; they are parsed again, with the globals, by the command.
	globalFlags.ParseErrorsWhitelist.UnknownFlags = true

	flagHelp := globalFlags.BoolP("help", "h", false, "Show help")
	flagCwd := globalFlags.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagConfig := globalFlags.StringP("config", "c", "", "Use specified config `file`")

	if err := globalFlags.Parse(args[1:]); err != nil {
		fprintln(errOut, "error:", err)
		printGlobalOptions(errOut, programName)

		return 1
	}

	cfg, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: *flagCwd,
		ConfigPath:      *flagConfig,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)
		printGlobalOptions(errOut, programName)

		return 1
	}

	cmd := build(cfg, stdin)
	cmd.Flags.AddFlagSet(globalFlags)

	if *flagHelp {
		cmdIO := NewIO(out, errOut)
		cmd.PrintHelp(programName, cmdIO)

		return 0
	}

	cmdIO := NewIO(out, errOut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run command in goroutine so we can handle signals.
	done := make(chan int, 1)

	go func() {
		done <- cmd.Run(ctx, programName, cmdIO, args[1:])
	}()

	// Wait for completion or first signal (nil channel never fires).
	select {
	case exitCode := <-done:
		if exitCode != 0 {
			return exitCode
		}

		return cmdIO.Finish()
	case <-sigCh:
		fprintln(errOut, "shutting down with 5s timeout...")
		cancel()
	}

	// Wait for completion, timeout, or second signal.
	select {
	case <-done:
		fprintln(errOut, "graceful shutdown ok (130)")

		return 130
	case <-time.After(5 * time.Second):
		fprintln(errOut, "graceful shutdown timed out, forced exit (130)")

		return 130
	case <-sigCh:
		fprintln(errOut, "graceful shutdown interrupted, forced exit (130)")

		return 130
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printGlobalOptions(w io.Writer, programName string) {
	fprintln(w, "Usage:", programName, "[flags] [command flags]")
	fprintln(w)
	fprintln(w, "Global flags:")
	fprintln(w, "  -h, --help             Show help")
	fprintln(w, "  -C, --cwd <dir>        Run as if started in <dir>")
	fprintln(w, "  -c, --config <file>    Use specified config file")
	fprintln(w)
	fprintln(w, "Run '"+programName+" --help' for command-specific flags.")
}
