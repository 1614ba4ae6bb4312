package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mbndr/gnize/internal/gnizecfg"
)

// PrintConfig renders the effective configuration and which files it
// was loaded from, for a command's --print-config diagnostic flag.
// Adapted from the teacher's print-config command, which did the same
// for ticket.Config.
func PrintConfig(cfg gnizecfg.Config) string {
	var b strings.Builder

	fmt.Fprintln(&b, "effective_cwd="+cfg.EffectiveCwd)
	fmt.Fprintln(&b, "channel="+strconv.Itoa(int(cfg.Params().Channel)))
	fmt.Fprintln(&b, "max_prefix_len="+strconv.Itoa(cfg.MaxPrefixLen))
	fmt.Fprintln(&b, "retry_percent="+strconv.FormatFloat(cfg.RetryPercent, 'g', -1, 64))
	fmt.Fprintln(&b, "feature_threshold="+strconv.Itoa(int(cfg.FeatureThreshold)))
	fmt.Fprintln(&b, "max_feature_len="+strconv.Itoa(cfg.MaxFeatureLen))
	fmt.Fprintln(&b, "parallel="+strconv.FormatBool(cfg.Params().Parallel))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		fmt.Fprintln(&b, "(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			fmt.Fprintln(&b, "global_config="+cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			fmt.Fprintln(&b, "project_config="+cfg.Sources.Project)
		}
	}

	return b.String()
}
