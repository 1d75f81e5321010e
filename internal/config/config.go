// Package config loads and saves dexfinal's run configuration, mirroring
// the layout tangzhangming-nova's internal/pkg config loader uses for
// sola.toml: read the file, unmarshal with go-toml, wrap errors, and keep
// a commented-skeleton writer so a user can hand-edit the result.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/tangzhangming/dexfinal/internal/finalinline"
)

// FileName is the configuration file name dexfinal -init writes its
// skeleton to. Without -config, dexfinal does not read it and runs on
// built-in defaults.
const FileName = "dexfinal.toml"

// Config is the on-disk shape of dexfinal.toml: the pass configuration
// plus the handful of settings that belong to the host binary rather
// than to the pass itself.
type Config struct {
	Pass PassConfig `toml:"pass"`
	Run  RunConfig  `toml:"run"`
}

// PassConfig mirrors finalinline.Config field for field so the TOML
// table names stay stable independent of the Go identifiers chosen for
// the pass package itself.
type PassConfig struct {
	ReplaceEncodableClinits   bool     `toml:"replace_encodable_clinits"`
	PropagateStaticFinals     bool     `toml:"propagate_static_finals"`
	RemoveClassMemberPrefixes []string `toml:"remove_class_member_prefixes"`
	KeepClassMembers          []string `toml:"keep_class_members"`
}

// RunConfig holds the settings the pass core never needs to know about.
type RunConfig struct {
	// OutputPath is where the transformed class bundle is written; empty
	// means overwrite the input.
	OutputPath string `toml:"output_path"`

	// LogLevel is one of zap's level names: debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// ToPassConfig converts the on-disk table into the finalinline.Config
// the pass's Run entry point expects.
func (c *Config) ToPassConfig() finalinline.Config {
	return finalinline.Config{
		ReplaceEncodableClinits:   c.Pass.ReplaceEncodableClinits,
		PropagateStaticFinals:     c.Pass.PropagateStaticFinals,
		RemoveClassMemberPrefixes: c.Pass.RemoveClassMemberPrefixes,
		KeepClassMembers:          c.Pass.KeepClassMembers,
	}
}

// Default returns the configuration dexfinal runs with when no -config
// file is given: every transformation enabled, info-level
// logging, input overwritten in place.
func Default() *Config {
	def := finalinline.DefaultConfig()
	return &Config{
		Pass: PassConfig{
			ReplaceEncodableClinits:   def.ReplaceEncodableClinits,
			PropagateStaticFinals:     def.PropagateStaticFinals,
			RemoveClassMemberPrefixes: def.RemoveClassMemberPrefixes,
			KeepClassMembers:          def.KeepClassMembers,
		},
		Run: RunConfig{
			LogLevel: "info",
		},
	}
}

// Load reads path and parses it as TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Save writes c to path as a commented TOML skeleton, the counterpart
// to Load.
func (c *Config) Save(path string) error {
	content := generateConfigWithComments(c)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func generateConfigWithComments(c *Config) string {
	var sb strings.Builder

	sb.WriteString("[pass]\n")
	sb.WriteString("# Replace static initializers made entirely of constant-to-static-final stores\n")
	sb.WriteString("# with encoded defaults (component C).\n")
	sb.WriteString(fmt.Sprintf("replace_encodable_clinits = %t\n\n", c.Pass.ReplaceEncodableClinits))
	sb.WriteString("# Propagate constants across static finals initialised from other static\n")
	sb.WriteString("# finals (component D).\n")
	sb.WriteString(fmt.Sprintf("propagate_static_finals = %t\n\n", c.Pass.PropagateStaticFinals))
	sb.WriteString("# Classes matching any of these substrings become eligible for dead-field\n")
	sb.WriteString("# removal even when not independently marked deletable.\n")
	sb.WriteString(fmt.Sprintf("remove_class_member_prefixes = %s\n\n", tomlStringArray(c.Pass.RemoveClassMemberPrefixes)))
	sb.WriteString("# Field names exempt from dead-field removal regardless of use-site count.\n")
	sb.WriteString(fmt.Sprintf("keep_class_members = %s\n\n", tomlStringArray(c.Pass.KeepClassMembers)))

	sb.WriteString("[run]\n")
	sb.WriteString("# Where to write the transformed bundle; empty overwrites the input.\n")
	sb.WriteString(fmt.Sprintf("output_path = %q\n\n", c.Run.OutputPath))
	sb.WriteString("# One of: debug, info, warn, error.\n")
	sb.WriteString(fmt.Sprintf("log_level = %q\n", c.Run.LogLevel))

	return sb.String()
}

func tomlStringArray(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
