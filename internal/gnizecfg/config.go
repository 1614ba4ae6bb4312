// Package gnizecfg resolves the ambient configuration shared by the gn
// and cog commands: the fingerprint engine's tunable parameters, loaded
// through the same defaults → global → project → explicit → CLI-flag
// precedence chain the teacher's ticket config loader uses.
package gnizecfg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/mbndr/gnize/pkg/fingerprint"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	//
	// Channel is a pointer, like Parallel below, because 0 is a
	// legitimate channel number (spec.md's channel domain is
	// `[0, 2^15)`) and so cannot double as the "not configured"
	// sentinel a plain uint16 would need.
	Channel              *uint16  `json:"channel,omitempty"`
	MaxPrefixLen         int      `json:"max_prefix_len,omitempty"`
	RetryPercent         float64  `json:"retry_percent,omitempty"`
	PrefixThresholds     []uint16 `json:"prefix_thresholds,omitempty"`
	FeatureThreshold     uint16   `json:"feature_threshold,omitempty"`
	MaxFeatureLen        int      `json:"max_feature_len,omitempty"`
	Parallel             *bool    `json:"parallel,omitempty"`
	BatchSizeDivisor     int      `json:"batch_size_divisor,omitempty"`
	BatchIncreaseDivisor int      `json:"batch_increase_divisor,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to the last project or explicit config loaded, empty otherwise
}

// DefaultConfig returns the default configuration, mirroring
// fingerprint.DefaultParams().
func DefaultConfig() Config {
	d := fingerprint.DefaultParams()
	parallel := d.Parallel
	channel := d.Channel

	return Config{
		Channel:              &channel,
		MaxPrefixLen:         d.MaxPrefixLen,
		RetryPercent:         d.RetryPercent,
		PrefixThresholds:     d.PrefixThresholds,
		FeatureThreshold:     d.FeatureThreshold,
		MaxFeatureLen:        d.MaxFeatureLen,
		Parallel:             &parallel,
		BatchSizeDivisor:     d.BatchSizeDivisor,
		BatchIncreaseDivisor: d.BatchIncreaseDivisor,
	}
}

// Params converts the resolved config into fingerprint.Params.
func (c Config) Params() fingerprint.Params {
	parallel := true
	if c.Parallel != nil {
		parallel = *c.Parallel
	}

	channel := uint16(963)
	if c.Channel != nil {
		channel = *c.Channel
	}

	return fingerprint.Params{
		Channel:              channel,
		MaxPrefixLen:         c.MaxPrefixLen,
		RetryPercent:         c.RetryPercent,
		PrefixThresholds:     c.PrefixThresholds,
		FeatureThreshold:     c.FeatureThreshold,
		MaxFeatureLen:        c.MaxFeatureLen,
		Parallel:             parallel,
		BatchSizeDivisor:     c.BatchSizeDivisor,
		BatchIncreaseDivisor: c.BatchIncreaseDivisor,
	}
}

// ConfigFileName is the default config file name.
const ConfigFileName = ".gnize.json"

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/gnize/config.json if set, otherwise
// ~/.config/gnize/config.json. Returns empty string if home directory
// cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "gnize", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "gnize", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	ChannelOverride *uint16           // channel override; nil means no override
	SerialOverride  bool              // forces Parallel=false
	Env             map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest
// wins):
//  1. Defaults
//  2. Global user config (~/.config/gnize/config.json or
//     $XDG_CONFIG_HOME/gnize/config.json)
//  3. Project config file at default location (.gnize.json, if exists)
//  4. Explicit config file via configPath (if non-empty)
//  5. CLI overrides.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, "")
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if input.ConfigPath != "" {
		explicitCfg, explicitPath, err := loadProjectConfig(workDir, input.ConfigPath)
		if err != nil {
			return Config{}, err
		}

		cfg.Sources.Project = explicitPath
		cfg = mergeConfig(cfg, explicitCfg)
	}

	if input.ChannelOverride != nil {
		cfg.Channel = input.ChannelOverride
	}

	if input.SerialOverride {
		serial := false
		cfg.Parallel = &serial
	}

	validateErr := validateConfig(cfg)
	if validateErr != nil {
		return Config{}, validateErr
	}

	cfg.EffectiveCwd = workDir

	return cfg, nil
}

func loadGlobalConfig(env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return globalCfg, globalCfgPath, nil
}

func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		if _, statErr := os.Stat(cfgFile); statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	fileCfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return fileCfg, cfgFile, nil
}

func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Channel != nil {
		base.Channel = overlay.Channel
	}

	if overlay.MaxPrefixLen != 0 {
		base.MaxPrefixLen = overlay.MaxPrefixLen
	}

	if overlay.RetryPercent != 0 {
		base.RetryPercent = overlay.RetryPercent
	}

	if len(overlay.PrefixThresholds) > 0 {
		base.PrefixThresholds = overlay.PrefixThresholds
	}

	if overlay.FeatureThreshold != 0 {
		base.FeatureThreshold = overlay.FeatureThreshold
	}

	if overlay.MaxFeatureLen != 0 {
		base.MaxFeatureLen = overlay.MaxFeatureLen
	}

	if overlay.Parallel != nil {
		base.Parallel = overlay.Parallel
	}

	if overlay.BatchSizeDivisor != 0 {
		base.BatchSizeDivisor = overlay.BatchSizeDivisor
	}

	if overlay.BatchIncreaseDivisor != 0 {
		base.BatchIncreaseDivisor = overlay.BatchIncreaseDivisor
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.Channel == nil {
		return ErrChannelUnset
	}

	return nil
}
