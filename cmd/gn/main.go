// Command gn reads UTF-8 text from stdin and emits its fingerprints.
//
// Usage:
//
//	gn [flags] < input.txt
//
// Flags:
//
//	--stats       Print engine statistics (prefix/feature hit counts) to stderr
//	--no-prints   Suppress the fingerprint listing itself (useful with --stats alone)
//	--all         Disable threshold filtering (skip_prefix, feature_threshold=0xFFFF)
//	--serial      Disable parallel batching
//	--json        Emit JSON instead of the human-readable listing
//	-o, --out     Atomically write the JSON output to `file` as well as stdout
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/mbndr/gnize/internal/cli"
	"github.com/mbndr/gnize/internal/gnizecfg"
	"github.com/mbndr/gnize/pkg/fingerprint"
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
		os.Stderr.WriteString("error: gn reads text on stdin; pipe input or redirect from a file\n")
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	exitCode := cli.Run("gn", os.Stdin, os.Stdout, os.Stderr, os.Args, env, sigCh, buildCommand)

	os.Exit(exitCode)
}

func buildCommand(cfg gnizecfg.Config, stdin io.Reader) *cli.Command {
	flags := flag.NewFlagSet("gn", flag.ContinueOnError)

	stats := flags.Bool("stats", false, "Print engine statistics to stderr")
	noPrints := flags.Bool("no-prints", false, "Suppress the fingerprint listing")
	all := flags.Bool("all", false, "Disable threshold filtering")
	serial := flags.Bool("serial", false, "Disable parallel batching")
	asJSON := flags.Bool("json", false, "Emit JSON instead of human-readable output")
	out := flags.StringP("out", "o", "", "Atomically write JSON output to `file`")
	printConfig := flags.Bool("print-config", false, "Print the effective configuration and exit")

	return &cli.Command{
		Flags: flags,
		Usage: "[flags] < input.txt",
		Short: "Emit fingerprints for text read from stdin",
		Long:  "Reads UTF-8 text from stdin and emits its fingerprints, human-readable by default.",
		Exec: func(_ context.Context, o *cli.IO, _ []string) error {
			if *printConfig {
				o.Println(cli.PrintConfig(cfg))
				return nil
			}

			return execFingerprint(o, stdin, cfg, execFlags{
				stats:    *stats,
				noPrints: *noPrints,
				all:      *all,
				serial:   *serial,
				asJSON:   *asJSON,
				out:      *out,
			})
		},
	}
}

type execFlags struct {
	stats    bool
	noPrints bool
	all      bool
	serial   bool
	asJSON   bool
	out      string
}

func execFingerprint(o *cli.IO, stdin io.Reader, cfg gnizecfg.Config, f execFlags) error {
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return err
	}

	text := string(raw)

	params := cfg.Params()
	if f.all {
		params.SkipPrefix = true
		params.FeatureThreshold = 0xFFFF
	}

	if f.serial {
		params.Parallel = false
	}

	fps, stats, err := fingerprint.AllSubs(text, params)
	if err != nil {
		if errors.Is(err, fingerprint.ErrBadEncoding) {
			return &cli.ExitError{Err: err, Code: 2}
		}

		return err
	}

	if f.stats {
		o.ErrPrintln(stats.String())
	}

	if !f.noPrints {
		if f.asJSON || f.out != "" {
			o.Printf("%s\n", fps.JSON())
		} else {
			o.Println(fps.Human())
		}
	}

	if f.out != "" {
		if err := atomic.WriteFile(f.out, strings.NewReader(string(fps.JSON()))); err != nil {
			return err
		}
	}

	return nil
}
