package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config keys, also accepted as AVROSCHEMA_* environment variables.
const (
	keyImplicitNullable    = "implicit-nullable"
	keyImplicitNullDefault = "implicit-null-default"
	keyPathStrategy        = "path-strategy"
	keyStripSuffixes       = "strip-suffixes"
	keySegmentTransform    = "segment-transform"
	keyDebug               = "debug"
)

// errIncompatible is returned by compat when the schemas do not resolve.
var errIncompatible = errors.New("schemas are incompatible")

type rootOpts struct {
	cfgFile string
	v       *viper.Viper
	log     *logrus.Logger
}

var longRootCmdDescription = `avroschema parses Avro-style schema documents (JSON or YAML), checks
reader/writer compatibility between them, and rewrites them in canonical,
formatted or projected form.
`

// NewRootCmd builds the command tree with its own configuration and logger.
func NewRootCmd() *cobra.Command {
	opts := &rootOpts{v: viper.New(), log: logrus.New()}

	rootCmd := &cobra.Command{
		Use:           "avroschema",
		Short:         "Parse, compare and rewrite Avro-style schemas.",
		Long:          longRootCmdDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.BoolP(keyDebug, "d", false, "turn on debug logging")
	flags.Bool(keyImplicitNullable, true, "wrap every field type T into the union [null, T]")
	flags.Bool(keyImplicitNullDefault, true, "give fields without a default a null default")
	flags.String(keyPathStrategy, "nested", "projection path strategy: nested or namespaced")
	flags.StringSlice(keyStripSuffixes, nil, "namespace segment suffixes stripped by the namespaced strategy")
	flags.String(keySegmentTransform, "identity", "namespace segment transform: identity, lower or normalize")

	rootCmd.AddCommand(
		newCanonicalCmd(opts),
		newFormatCmd(opts),
		newCompatCmd(opts),
		newProjectCmd(opts),
		newInspectCmd(opts),
	)

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errIncompatible) {
			logrus.Errorf("avroschema: %v", err)
		}

		os.Exit(1)
	}
}

// initConfig binds flags, environment and the optional config file.
func (o *rootOpts) initConfig(cmd *cobra.Command) error {
	o.v.SetEnvPrefix("AVROSCHEMA")
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()

	if err := o.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)

		if err := o.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", o.cfgFile, err)
		}
	}

	o.log.SetOutput(cmd.ErrOrStderr())
	o.log.SetLevel(logrus.InfoLevel)

	if o.v.GetBool(keyDebug) {
		o.log.SetLevel(logrus.DebugLevel)
	}

	o.log.WithField("config", o.v.ConfigFileUsed()).Debug("configuration loaded")

	return nil
}
