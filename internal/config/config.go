// Package config wires the shared CLI flags and environment variables
// both cmd/prep and cmd/recon bind to, via cobra flags bound through
// viper so every flag also has an env-var equivalent.
package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Prep holds cmd/prep's resolved configuration.
type Prep struct {
	OutDir  string
	NoCache bool
}

// Recon holds cmd/recon's resolved configuration.
type Recon struct {
	WithoutValidation bool
}

// LogLevel is shared by both commands via the LOG_LEVEL env var / --log-level flag.
func LogLevel() string {
	return viper.GetString("log_level")
}

// BindCommon registers the flags and env bindings every subcommand
// shares (currently just log level), following the usual cobra+viper
// idiom of binding a flag's value through viper so LOG_LEVEL works the
// same as --log-level.
func BindCommon(cmd *cobra.Command) {
	cmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("marketreplay")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("log_level", "LOG_LEVEL")
}

// BindPrep registers cmd/prep's flags.
func BindPrep(cmd *cobra.Command) {
	cmd.Flags().String("out-dir", ".", "output directory for prepped files")
	cmd.Flags().Bool("no-cache", false, "reprocess files even if a .done sentinel is present")
	viper.BindPFlag("out_dir", cmd.Flags().Lookup("out-dir"))
	viper.BindPFlag("no_cache", cmd.Flags().Lookup("no-cache"))
}

// ResolvePrep reads cmd/prep's bound flags into a Prep.
func ResolvePrep() Prep {
	return Prep{OutDir: viper.GetString("out_dir"), NoCache: viper.GetBool("no_cache")}
}

// BindRecon registers cmd/recon's flags.
func BindRecon(cmd *cobra.Command) {
	cmd.Flags().Bool("without-validation", false, "skip the book's queue count/volume integrity check")
	viper.BindPFlag("without_validation", cmd.Flags().Lookup("without-validation"))
}

// ResolveRecon reads cmd/recon's bound flags into a Recon.
func ResolveRecon() Recon {
	return Recon{WithoutValidation: viper.GetBool("without_validation")}
}
