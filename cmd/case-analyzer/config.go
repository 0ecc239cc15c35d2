// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/case-analyzer/internal/secrets"
	"github.com/pdiddy/case-analyzer/pkg/types"
)

// setDefaults registers every key of types.Defaults with v so that
// AutomaticEnv can resolve them and Unmarshal sees a complete tree.
func setDefaults(v *viper.Viper) {
	d := types.Defaults()
	v.SetDefault("ai.provider", string(d.AI.Provider))
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.temperature", d.AI.Temperature)
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("ai.user_agent", d.AI.UserAgent)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.session_ttl", d.Server.SessionTTL)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.analyses_per_minute", d.Server.AnalysesPerMinute)
	v.SetDefault("telemetry.log_level", d.Telemetry.LogLevel)
	v.SetDefault("telemetry.log_json", d.Telemetry.LogJSON)
	v.SetDefault("telemetry.tracing", d.Telemetry.Tracing)
}

// loadConfig reads the global viper instance into a Config. The API key
// falls back to the provider's file in .secrets/.
func loadConfig() (types.Config, error) {
	return decodeConfig(viper.GetViper(), loadedSecrets)
}

func decodeConfig(v *viper.Viper, keys map[string]string) (types.Config, error) {
	setDefaults(v)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = keys[secrets.KeyFor(cfg.AI.Provider)]
	}
	return cfg, nil
}
