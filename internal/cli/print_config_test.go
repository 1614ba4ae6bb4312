package cli_test

import (
	"testing"

	"github.com/mbndr/gnize/internal/cli"
	"github.com/mbndr/gnize/internal/gnizecfg"
)

func TestPrintConfig_DefaultsOnly(t *testing.T) {
	t.Parallel()

	cfg := gnizecfg.DefaultConfig()
	cfg.EffectiveCwd = "/tmp/work"

	out := cli.PrintConfig(cfg)

	cli.AssertContains(t, out, "effective_cwd=/tmp/work")
	cli.AssertContains(t, out, "channel=963")
	cli.AssertContains(t, out, "(defaults only)")
}

func TestPrintConfig_ListsSources(t *testing.T) {
	t.Parallel()

	cfg := gnizecfg.DefaultConfig()
	cfg.Sources.Global = "/home/u/.config/gnize/config.json"
	cfg.Sources.Project = "/work/.gnize.json"

	out := cli.PrintConfig(cfg)

	cli.AssertContains(t, out, "global_config=/home/u/.config/gnize/config.json")
	cli.AssertContains(t, out, "project_config=/work/.gnize.json")
	cli.AssertNotContains(t, out, "(defaults only)")
}
