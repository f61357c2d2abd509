package da

import (
	"fmt"
	"os"
	"strings"

	"github.com/dymensionxyz/gerr-cosmos/gerrc"
)

// LoadSecret resolves a credential. The environment variable envName wins when set, then the
// content of filePath, then directValue. name is only used in error messages.
func LoadSecret(envName, filePath, directValue, name string) (string, error) {
	if envName != "" {
		if value := os.Getenv(envName); value != "" {
			return value, nil
		}
	}

	if filePath != "" {
		data, err := os.ReadFile(filePath) //nolint:gosec // path comes from operator config
		if err != nil {
			return "", fmt.Errorf("read %s file %s: %w", name, filePath, err)
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			return value, nil
		}
	}

	if directValue != "" {
		return directValue, nil
	}

	sources := []string{}
	if envName != "" {
		sources = append(sources, "env "+envName)
	}
	if filePath != "" {
		sources = append(sources, "file "+filePath)
	}
	sources = append(sources, name+" field")

	return "", gerrc.ErrNotFound.Wrapf("%s: tried %s", name, strings.Join(sources, ", "))
}
