package ownership

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// instanceTagFile is the name of the generated-tag file within the
// adapter's state directory.
const instanceTagFile = "instance-tag"

// EnsureInstanceTag returns a stable instance tag for shared-account mode
// when none is configured. The first call under a given stateDir generates
// a UUID-derived tag and persists it; subsequent calls (including across
// process restarts) return the same value, so ownership-set membership
// keyed on this tag stays meaningful (spec.md §6: instance_tag identifies
// one running adapter for the lifetime of its ownership claims, not just a
// single process).
func EnsureInstanceTag(stateDir string) (string, error) {
	if stateDir == "" {
		return "", fmt.Errorf("ownership: cannot persist a generated instance tag without a state directory")
	}

	path := filepath.Join(stateDir, instanceTagFile)

	if data, err := os.ReadFile(path); err == nil {
		tag := strings.TrimSpace(string(data))
		if tag != "" {
			return tag, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("ownership: reading %s: %w", path, err)
	}

	tag := "auto-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]

	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return "", fmt.Errorf("ownership: creating state directory %s: %w", stateDir, err)
	}

	if err := os.WriteFile(path, []byte(tag+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("ownership: writing %s: %w", path, err)
	}

	return tag, nil
}
