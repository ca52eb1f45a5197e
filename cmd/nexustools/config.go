// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/nexus-tools/internal/secrets"
	"github.com/pdiddy/nexus-tools/pkg/types"
)

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nexustools")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nexustools"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("NEXUSTOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Reading config file:", err)
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", string(types.EnvProduction))
	v.SetDefault("output_dir", ".")
	v.SetDefault("timeout", "0s")
	v.SetDefault("user_agent", "nexustools/"+version)
	v.SetDefault("toast_lifetime", "4s")
	v.SetDefault("history_dir", ".nexustools")
	v.SetDefault("history_max_results", 20)
	v.SetDefault("secrets_dir", secrets.DefaultDir)
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.max_upload_mb", 200)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.workers", 4)
}

// loadConfig assembles the component configuration from v. The API token
// from the secrets directory applies to both the client and the server
// unless the config sets one explicitly.
func loadConfig(v *viper.Viper, token string) (types.AppConfig, error) {
	env, err := types.ParseEnvironment(v.GetString("environment"))
	if err != nil {
		return types.AppConfig{}, err
	}
	httpCfg := types.HTTPConfig{
		Timeout:   v.GetDuration("timeout"),
		UserAgent: v.GetString("user_agent"),
	}

	cfg := types.AppConfig{
		Client: types.ClientConfig{
			HTTPConfig:  httpCfg,
			Environment: env,
			BaseURL:     v.GetString("base_url"),
			APIToken:    firstNonEmpty(v.GetString("api_token"), token),
			OutputDir:   v.GetString("output_dir"),
		},
		Notify: types.NotifyConfig{
			Lifetime: v.GetDuration("toast_lifetime"),
		},
		History: types.HistoryConfig{
			Dir:        v.GetString("history_dir"),
			MaxResults: v.GetInt("history_max_results"),
		},
		Server: types.ServerConfig{
			HTTPConfig:      httpCfg,
			Addr:            v.GetString("server.addr"),
			MaxUploadMB:     v.GetInt64("server.max_upload_mb"),
			APIToken:        firstNonEmpty(v.GetString("server.api_token"), token),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
	}
	if cfg.Server.MaxUploadMB < 0 {
		return types.AppConfig{}, fmt.Errorf("server.max_upload_mb must not be negative")
	}
	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
