package snapshotcfg

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchCompiledInConstants(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, 100, cfg.StructuralWarningCap)
	require.Equal(t, 10000, cfg.ProgressMilestoneGranularity)
	require.Equal(t, 65536, cfg.WeakMapPatternCacheSize)
	require.Zero(t, cfg.BaseSystemDistanceOverride)
}

func TestLoadNilViperReturnsDefaults(t *testing.T) {
	cfg := Load(nil)
	require.Equal(t, Defaults(), cfg)
}

func TestLoadHonorsExplicitOverride(t *testing.T) {
	v := viper.New()
	v.Set("structural_warning_cap", 5)
	v.Set("base_system_distance_override", 42)
	cfg := Load(v)
	require.Equal(t, 5, cfg.StructuralWarningCap)
	require.EqualValues(t, 42, cfg.BaseSystemDistanceOverride)
	require.Equal(t, 10000, cfg.ProgressMilestoneGranularity)
}

func TestLoadLeavesOverridesZeroWhenUnset(t *testing.T) {
	v := viper.New()
	cfg := Load(v)
	require.Zero(t, cfg.BaseSystemDistanceOverride)
	require.Zero(t, cfg.BaseUnreachableDistanceOverride)
}
