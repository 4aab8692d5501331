// Package snapshotcfg loads the engine's tunables through viper, with
// compiled-in defaults matching the constants the engine would otherwise
// hard-code, so a host can override them from a config file or env vars
// without a code change.
package snapshotcfg

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the engine's tunables. Initialize reads only
// StructuralWarningCap; the other fields are loaded and carried but no
// engine pass reads them.
type Config struct {
	// StructuralWarningCap bounds how many structural-warning entries
	// WarningReport keeps verbatim before switching to a dropped-count.
	StructuralWarningCap int

	// ProgressMilestoneGranularity is a progress-reporting interval. The
	// engine reports each Initialize stage once and does not read it.
	ProgressMilestoneGranularity int

	// WeakMapPatternCacheSize is a size for the essential-edge predicate's
	// negative-match cache. The cache is unbounded and does not read it.
	WeakMapPatternCacheSize int

	// BaseSystemDistanceOverride and BaseUnreachableDistanceOverride hold
	// substitute values for the distance constants; zero means unset. The
	// distance engine always uses the compiled-in constants.
	BaseSystemDistanceOverride      int32
	BaseUnreachableDistanceOverride int32
}

// Defaults returns the engine's compiled-in tunables.
func Defaults() Config {
	return Config{
		StructuralWarningCap:        100,
		ProgressMilestoneGranularity: 10000,
		WeakMapPatternCacheSize:      65536,
	}
}

// Load reads engine tunables from v, falling back to Defaults for any key
// v does not have set. Callers typically build v with viper.New(),
// optionally call SetConfigFile/AutomaticEnv, then pass it here.
func Load(v *viper.Viper) Config {
	cfg := Defaults()
	if v == nil {
		return cfg
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetDefault("structural_warning_cap", cfg.StructuralWarningCap)
	v.SetDefault("progress_milestone_granularity", cfg.ProgressMilestoneGranularity)
	v.SetDefault("weak_map_pattern_cache_size", cfg.WeakMapPatternCacheSize)

	cfg.StructuralWarningCap = v.GetInt("structural_warning_cap")
	cfg.ProgressMilestoneGranularity = v.GetInt("progress_milestone_granularity")
	cfg.WeakMapPatternCacheSize = v.GetInt("weak_map_pattern_cache_size")
	if v.IsSet("base_system_distance_override") {
		cfg.BaseSystemDistanceOverride = int32(v.GetInt("base_system_distance_override"))
	}
	if v.IsSet("base_unreachable_distance_override") {
		cfg.BaseUnreachableDistanceOverride = int32(v.GetInt("base_unreachable_distance_override"))
	}
	return cfg
}
