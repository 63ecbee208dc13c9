package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tmapmcp/internal/config"
	"tmapmcp/internal/tmap"
)

// app carries the settings shared by every subcommand. Settings resolve in
// the order flag, TMAP_* environment variable, config file.
type app struct {
	v *viper.Viper
}

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "tmapctl",
		Short: "tmapctl queries the Tmap search, geocoding, route and congestion APIs.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file (default $HOME/.tmapctl.yaml)")
	cmd.PersistentFlags().String("app-key", "", "Tmap app key (env TMAP_APP_KEY)")
	cmd.PersistentFlags().String("base-url", tmap.DefaultBaseURL, "API gateway root")
	cmd.PersistentFlags().Duration("timeout", tmap.DefaultTimeout, "timeout of each API call")
	cmd.PersistentFlags().String("log-level", "warn", "debug, info, warn or error")
	for _, name := range []string{"app-key", "base-url", "timeout", "log-level"} {
		_ = a.v.BindPFlag(name, cmd.PersistentFlags().Lookup(name))
	}

	cmd.AddCommand(
		poiCmd(a),
		poiDetailCmd(a),
		coordCmd(a),
		addressCmd(a),
		geocodeCmd(a),
		geocodeFullCmd(a),
		reverseCmd(a),
		routeCmd(a),
		transitCmd(a),
		congestionCmd(a),
		staticMapCmd(a),
		historyCmd(a),
		setupCmd(a),
	)

	return cmd
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".tmapctl")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("TMAP")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file %s: %w", a.v.ConfigFileUsed(), err)
		}
	}
	return nil
}

func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	level := config.ParseLevel(a.v.GetString("log-level"))
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (a *app) client(cmd *cobra.Command) (*tmap.Client, error) {
	return tmap.New(tmap.Config{
		AppKey:  a.v.GetString("app-key"),
		BaseURL: a.v.GetString("base-url"),
		Timeout: a.v.GetDuration("timeout"),
		Logger:  a.logger(cmd),
	})
}

// printResult writes v as indented JSON. An ErrNoResults failure is reported
// as "no results" and is not an error.
func printResult(cmd *cobra.Command, v any, err error) error {
	if errors.Is(err, tmap.ErrNoResults) {
		fmt.Fprintln(cmd.OutOrStdout(), "no results")
		return nil
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func homePath(elem ...string) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}
