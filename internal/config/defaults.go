package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jonesrussell/philosophy/internal/logger"
	"github.com/jonesrussell/philosophy/internal/transport"
	"github.com/jonesrussell/philosophy/internal/wiki"
)

// Game defaults
const (
	DefaultTarget  = "Philosophy"
	DefaultMaxHops = 100
)

// SetDefaults sets default configuration values
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        "philosophy",
		"environment": "production",
		"debug":       false,
	})

	v.SetDefault("logger", map[string]any{
		"level":        string(logger.DefaultLevel),
		"development":  false,
		"encoding":     logger.DefaultEncoding,
		"output_paths": logger.DefaultOutputPaths,
	})

	v.SetDefault("game", map[string]any{
		"target":   DefaultTarget,
		"max_hops": DefaultMaxHops,
	})

	v.SetDefault("wiki", map[string]any{
		"host":         wiki.DefaultHost,
		"article_path": wiki.DefaultArticlePath,
		"api_path":     wiki.DefaultAPIPath,
	})

	v.SetDefault("transport", map[string]any{
		"user_agent":      transport.DefaultUserAgent,
		"request_timeout": transport.DefaultRequestTimeout.String(),
		"delay":           "0s",
	})

	v.SetDefault("cache", map[string]any{
		"dir": "",
	})
}

// BindEnv enables environment overrides. Nested keys map to upper-case
// names with underscores, and a few keys get shorter aliases.
func BindEnv(v *viper.Viper) error {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindings := []struct {
		key  string
		envs []string
	}{
		{"app.environment", []string{"APP_ENV"}},
		{"app.debug", []string{"APP_DEBUG"}},
		{"logger.level", []string{"LOG_LEVEL"}},
		{"logger.encoding", []string{"LOG_FORMAT"}},
		{"game.target", []string{"PHILOSOPHY_TARGET"}},
		{"game.max_hops", []string{"PHILOSOPHY_MAX_HOPS"}},
		{"wiki.host", []string{"WIKI_HOST"}},
		{"transport.user_agent", []string{"PHILOSOPHY_USER_AGENT"}},
		{"cache.dir", []string{"PHILOSOPHY_CACHE_DIR"}},
	}

	for _, b := range bindings {
		args := append([]string{b.key}, b.envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", strings.Join(b.envs, ", "), err)
		}
	}
	return nil
}

// ApplyDevelopment adjusts logging for the debug flag and the development
// environment. Debug raises the level; development only changes formatting.
func ApplyDevelopment(v *viper.Viper, debugFlag bool) {
	debug := debugFlag || v.GetBool("app.debug")
	if debug {
		v.Set("app.debug", true)
		v.Set("logger.level", string(logger.DebugLevel))
	}

	if v.GetString("app.environment") == "development" {
		v.Set("logger.development", true)
		v.Set("logger.encoding", "console")
	}
}
