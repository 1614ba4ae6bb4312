// Command cog reads UTF-8 text from stdin as noise and launches an
// interactive editor for extracting a signal from it.
//
// Usage:
//
//	cog [flags] < input.txt
//
// Flags:
//
//	--debug   Dump the alignment state trace after every edit
//
// Commands (in the REPL):
//
//	noise                    Show the noise buffer
//	signal                   Show the current signal buffer
//	edit <text>              Replace the signal buffer
//	fix                      Run align-and-fix, show the struck-through rendering
//	map                      Show the interval map (find-gaps + reconcile)
//	save <file>              Atomically write the interval-map JSON to file
//	help                     Show this help
//	exit / quit / q          Exit
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
	"github.com/peterh/liner"

	"github.com/mbndr/gnize/internal/cli"
	"github.com/mbndr/gnize/internal/gnizecfg"
	"github.com/mbndr/gnize/pkg/align"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	if info, err := os.Stdin.Stat(); err == nil && (info.Mode()&os.ModeCharDevice) != 0 {
		os.Stderr.WriteString("error: cog reads noise text on stdin; pipe input or redirect from a file\n")
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	exitCode := cli.Run("cog", os.Stdin, os.Stdout, os.Stderr, os.Args, env, sigCh, buildCommand)

	os.Exit(exitCode)
}

func buildCommand(cfg gnizecfg.Config, stdin io.Reader) *cli.Command {
	flags := flag.NewFlagSet("cog", flag.ContinueOnError)

	debug := flags.Bool("debug", false, "Dump the alignment state trace after every edit")
	printConfig := flags.Bool("print-config", false, "Print the effective configuration and exit")

	return &cli.Command{
		Flags: flags,
		Usage: "[flags] < input.txt",
		Short: "Launch the interactive signal-extraction editor",
		Long:  "Reads UTF-8 noise text from stdin and launches a REPL for extracting a signal from it.",
		Exec: func(_ context.Context, o *cli.IO, _ []string) error {
			if *printConfig {
				o.Println(cli.PrintConfig(cfg))
				return nil
			}

			raw, err := io.ReadAll(stdin)
			if err != nil {
				return err
			}

			noise := string(raw)

			repl := &REPL{noise: noise, debug: *debug, out: o}

			return repl.Run()
		},
	}
}

// REPL is the interactive signal-extraction loop: the user builds a
// signal buffer by editing, and the engine classifies every noise
// position the signal implies was kept, dropped, or changed.
type REPL struct {
	noise  string
	signal string
	debug  bool
	out    *cli.IO
	liner  *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".cog_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	r.out.Println(fmt.Sprintf("cog - signal extraction editor (%d bytes of noise)", len(r.noise)))
	r.out.Println("Type 'help' for available commands.")
	r.out.Println()

	for {
		line, err := r.liner.Prompt("cog> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				r.out.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		cmd, rest, _ := strings.Cut(line, " ")
		cmd = strings.ToLower(cmd)

		switch cmd {
		case "exit", "quit", "q":
			r.out.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "noise":
			r.out.Println(r.noise)

		case "signal":
			r.out.Println(r.signal)

		case "edit":
			r.signal = rest
			r.out.Println("signal buffer updated")

			if r.debug {
				r.printTrace()
			}

		case "fix":
			r.cmdFix()

		case "map":
			r.cmdMap()

		case "save":
			r.cmdSave(strings.TrimSpace(rest))

		default:
			r.out.Println(fmt.Sprintf("Unknown command: %s (type 'help' for commands)", cmd))
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"noise", "signal", "edit", "fix", "map", "save",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			completions = append(completions, c)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	r.out.Println("Commands:")
	r.out.Println("  noise                    Show the noise buffer")
	r.out.Println("  signal                   Show the current signal buffer")
	r.out.Println("  edit <text>              Replace the signal buffer")
	r.out.Println("  fix                      Run align-and-fix, show the struck-through rendering")
	r.out.Println("  map                      Show the interval map (find-gaps + reconcile)")
	r.out.Println("  save <file>              Atomically write the interval-map JSON to file")
	r.out.Println("  help                     Show this help")
	r.out.Println("  exit / quit / q          Exit")
}

func (r *REPL) cmdFix() {
	signals, gaps, rendered := align.AlignAndFix(r.signal, r.noise)

	r.out.Println(rendered)

	if r.debug {
		r.out.Println(fmt.Sprintf("signals: %d, gaps: %d", len(signals), len(gaps)))
	}
}

func (r *REPL) cmdMap() {
	m, err := r.reconciledMap()
	if err != nil {
		r.out.Println("error:", err.Error())
		return
	}

	for _, iv := range m.All() {
		r.printInterval(iv)
	}
}

func (r *REPL) cmdSave(path string) {
	if path == "" {
		r.out.Println("usage: save <file>")
		return
	}

	m, err := r.reconciledMap()
	if err != nil {
		r.out.Println("error:", err.Error())
		return
	}

	data, err := json.MarshalIndent(intervalRecords(m.All()), "", "  ")
	if err != nil {
		r.out.Println("error:", err.Error())
		return
	}

	if err := atomic.WriteFile(path, strings.NewReader(string(data))); err != nil {
		r.out.Println("error:", err.Error())
		return
	}

	r.out.Println("saved to", path)
}

// reconciledMap runs find-gaps over the current noise/signal pair and
// resolves every Error interval per spec.md §4.3.4, so the returned
// map always satisfies the "no Error intervals" invariant.
func (r *REPL) reconciledMap() (*align.IntervalMap, error) {
	m := align.FindGaps(r.signal, r.noise)
	strategies := align.Reconcile(m)

	return align.ApplyEditStrategy(m, strategies), nil
}

func (r *REPL) printInterval(iv align.Interval) {
	line := fmt.Sprintf("[%d, %d) %s %q", iv.Start, iv.End, iv.Kind, iv.Content)
	if iv.Kind == align.Error {
		line += fmt.Sprintf(" original=%q user_change=%q", iv.Original, iv.UserChange)
	}

	r.out.Println(line)
}

func (r *REPL) printTrace() {
	m := align.FindGaps(r.signal, r.noise)

	r.out.Println("-- trace: find_gaps --")

	for _, iv := range m.All() {
		r.printInterval(iv)
	}

	strategies := align.Reconcile(m)

	r.out.Println("-- trace: reconcile --")

	for pos, strat := range strategies {
		r.out.Println(fmt.Sprintf("  %d -> %s", pos, strat))
	}
}

// intervalRecord is the JSON shape spec.md §6 mandates for
// interval-map output: {start, end, kind, content, [original,
// user_change]}, in ascending start order.
type intervalRecord struct {
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Kind       string `json:"kind"`
	Content    string `json:"content"`
	Original   string `json:"original,omitempty"`
	UserChange string `json:"user_change,omitempty"`
}

func intervalRecords(intervals []align.Interval) []intervalRecord {
	out := make([]intervalRecord, len(intervals))

	for i, iv := range intervals {
		out[i] = intervalRecord{
			Start:   iv.Start,
			End:     iv.End,
			Kind:    iv.Kind.String(),
			Content: iv.Content,
		}

		if iv.Kind == align.Error {
			out[i].Original = iv.Original
			out[i].UserChange = iv.UserChange
		}
	}

	return out
}
