package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const scaffoldHeader = `# placefeed configuration.
#
# Values can be overridden with PLACEFEED_* environment variables,
# e.g. PLACEFEED_SERVER_BASE_URL, and with CLI flags.
`

// WriteScaffold writes a starter config file with the defaults to path.
// Refuses to overwrite an existing file.
func WriteScaffold(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(scaffoldHeader), data...), 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
