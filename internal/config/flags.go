package config

import "github.com/spf13/pflag"

// BindScanFlags registers the scan flags with cfg's current values as
// defaults, so flags override the file and environment layers.
func BindScanFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.StringVarP(&cfg.Path, "path", "p", cfg.Path, "Sets the path to the target directory (default: working directory)")
	flags.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Directory that receives snapshot files")
	flags.StringVar(&cfg.Format, "format", cfg.Format, "Snapshot format: json or yaml")
	flags.BoolVar(&cfg.SkipUnreadable, "skip-unreadable", cfg.SkipUnreadable, "Skip unreadable directories and files with a warning instead of aborting")
	flags.BoolVar(&cfg.LegacyRootTotal, "legacy-root-total", cfg.LegacyRootTotal, "Total the root from its subdirectories only, ignoring files directly in the root")
}

// BindOutputFlags registers the flags shared by commands that only read
// snapshots or history.
func BindOutputFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Directory that holds snapshot files")
	flags.StringVar(&cfg.Theme, "theme", cfg.Theme, "Colour theme: dark or light")
}
