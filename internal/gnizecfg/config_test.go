package gnizecfg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbndr/gnize/internal/gnizecfg"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func Test_LoadConfig_Defaults_When_Nothing_Configured(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	})

	require.NoError(t, err)
	require.NotNil(t, cfg.Channel)
	assert.Equal(t, uint16(963), *cfg.Channel)
	assert.Equal(t, dir, cfg.EffectiveCwd)
	assert.Empty(t, cfg.Sources.Global)
	assert.Empty(t, cfg.Sources.Project)
}

func Test_LoadConfig_Project_File_Overrides_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gnize.json"), `{"channel": 964}`)

	cfg, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	})

	require.NoError(t, err)
	require.NotNil(t, cfg.Channel)
	assert.Equal(t, uint16(964), *cfg.Channel)
	assert.Equal(t, filepath.Join(dir, ".gnize.json"), cfg.Sources.Project)
}

func Test_LoadConfig_Tolerates_JSONC_Comments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gnize.json"), `{
		// prefer the small test channel
		"channel": 964,
	}`)

	cfg, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	})

	require.NoError(t, err)
	require.NotNil(t, cfg.Channel)
	assert.Equal(t, uint16(964), *cfg.Channel)
}

func Test_LoadConfig_Channel_Override_Wins_Over_Project_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gnize.json"), `{"channel": 964}`)

	override := uint16(963)

	cfg, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: dir,
		ChannelOverride: &override,
		Env:             map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	})

	require.NoError(t, err)
	require.NotNil(t, cfg.Channel)
	assert.Equal(t, uint16(963), *cfg.Channel)
}

func Test_LoadConfig_Channel_Override_Zero_Is_Honored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gnize.json"), `{"channel": 964}`)

	override := uint16(0)

	cfg, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: dir,
		ChannelOverride: &override,
		Env:             map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	})

	require.NoError(t, err)
	require.NotNil(t, cfg.Channel)
	assert.Equal(t, uint16(0), *cfg.Channel, "channel 0 is a valid channel, not 'no override'")
}

func Test_LoadConfig_Project_File_Channel_Zero_Is_Honored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gnize.json"), `{"channel": 0}`)

	cfg, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	})

	require.NoError(t, err)
	require.NotNil(t, cfg.Channel)
	assert.Equal(t, uint16(0), *cfg.Channel, "an explicit {\"channel\": 0} must not be silently dropped")
}

func Test_LoadConfig_Serial_Override_Forces_Parallel_False(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: dir,
		SerialOverride:  true,
		Env:             map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	})

	require.NoError(t, err)
	require.NotNil(t, cfg.Parallel)
	assert.False(t, *cfg.Parallel)
	assert.False(t, cfg.Params().Parallel)
}

func Test_LoadConfig_Explicit_Config_Not_Found(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: dir,
		ConfigPath:      "nonexistent.json",
		Env:             map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	})

	require.ErrorIs(t, err, gnizecfg.ErrConfigFileNotFound)
}

func Test_LoadConfig_Invalid_JSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gnize.json"), `{not json}`)

	_, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	})

	require.ErrorIs(t, err, gnizecfg.ErrConfigInvalid)
}

func Test_LoadConfig_Global_Config_Loaded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdgDir := t.TempDir()
	writeFile(t, filepath.Join(xdgDir, "gnize", "config.json"), `{"channel": 964}`)

	cfg, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"XDG_CONFIG_HOME": xdgDir},
	})

	require.NoError(t, err)
	require.NotNil(t, cfg.Channel)
	assert.Equal(t, uint16(964), *cfg.Channel)
	assert.Equal(t, filepath.Join(xdgDir, "gnize", "config.json"), cfg.Sources.Global)
}

func Test_LoadConfig_Project_Overrides_Global(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdgDir := t.TempDir()
	writeFile(t, filepath.Join(xdgDir, "gnize", "config.json"), `{"channel": 964}`)
	writeFile(t, filepath.Join(dir, ".gnize.json"), `{"channel": 963}`)

	cfg, err := gnizecfg.LoadConfig(gnizecfg.LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"XDG_CONFIG_HOME": xdgDir},
	})

	require.NoError(t, err)
	require.NotNil(t, cfg.Channel)
	assert.Equal(t, uint16(963), *cfg.Channel)
}
