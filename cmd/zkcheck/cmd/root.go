// Package cmd implements the zkcheck command line.
package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables overriding flags, e.g. ZKCHECK_CURVE.
const EnvPrefix = "ZKCHECK"

const (
	flagCurve    = "curve"
	flagWorkers  = "workers"
	flagLogLevel = "log-level"
	flagValues   = "values"
	flagExpected = "expected"
	flagSession  = "session"
	flagDomain   = "domain"
)

// NewRootCmd creates the root command. Every flag can also be set through the environment.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "zkcheck",
		Short:         "Private equality checks between a user and a server",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return v.BindPFlags(cmd.Flags())
		},
	}
	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().String(flagCurve, "secp256k1", "group to run the protocol in (secp256k1, ristretto255)")
	rootCmd.PersistentFlags().Int(flagWorkers, 0, "number of workers for per position work, 0 uses every CPU")

	rootCmd.AddCommand(newRunCmd(v))
	return rootCmd
}

func newLogger(cmd *cobra.Command, v *viper.Viper) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(v.GetString(flagLogLevel))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid %s: %w", flagLogLevel, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().Timestamp().
		Logger(), nil
}
