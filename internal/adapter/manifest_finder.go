package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const recursiveSuffix = "/..."

var manifestExtensions = []string{".yaml", ".yml"}

// ExpandLocations turns local directories into the manifest files they
// contain. A trailing "/..." also descends into subdirectories. Plain files
// and URLs with a scheme are kept as given. Duplicates are dropped.
func ExpandLocations(locations []string) ([]string, error) {
	seen := make(map[string]struct{})

	var out []string

	add := func(location, key string) {
		if _, ok := seen[key]; ok {
			return
		}

		seen[key] = struct{}{}
		out = append(out, location)
	}

	for _, location := range locations {
		if strings.Contains(location, "://") {
			add(location, location)

			continue
		}

		root, recursive, err := normalizeRootPath(location)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("manifest location %s: %w", location, err)
		}

		if !info.IsDir() {
			add(location, root)

			continue
		}

		err = walk(root, recursive, func(path string, info os.FileInfo) {
			if !info.IsDir() && isManifestFile(path) {
				add(path, path)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("manifest location %s: %w", location, err)
		}
	}

	return out, nil
}

// walk visits root in lexical order, skipping subdirectories unless
// recursive is set.
func walk(root string, recursive bool, fn func(path string, info os.FileInfo)) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && !recursive && path != root {
			return filepath.SkipDir
		}

		fn(path, info)

		return nil
	})
}

func isManifestFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	for _, candidate := range manifestExtensions {
		if ext == candidate {
			return true
		}
	}

	return false
}

func normalizeRootPath(root string) (string, bool, error) {
	rootStr, recursive := parseRootPath(root)

	if strings.HasPrefix(rootStr, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, err
		}

		suffix := strings.TrimPrefix(rootStr, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		rootStr = filepath.Join(home, suffix)
	}

	if rootStr == "" {
		rootStr = "."
	}

	abs, err := filepath.Abs(rootStr)
	if err != nil {
		return "", false, err
	}

	return abs, recursive, nil
}

func parseRootPath(root string) (string, bool) {
	if rest, ok := strings.CutSuffix(root, recursiveSuffix); ok {
		return rest, true
	}

	return root, false
}
