package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ManifestExtension is the file extension for wiring manifests
const ManifestExtension = ".synapse"

// Scanner locates wiring manifests beneath the paths given on the command
// line. It supports Go-style "./..." patterns for recursive scanning.
type Scanner struct{}

// NewScanner creates a new manifest scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan resolves each argument to a set of manifest files:
//   - "dir/..." scans dir recursively
//   - "dir" scans only the directory itself
//   - "file.synapse" is used as-is
//
// Results are de-duplicated and sorted for deterministic output.
func (s *Scanner) Scan(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		if strings.HasSuffix(arg, "/...") || arg == "..." {
			baseDir := strings.TrimSuffix(arg, "...")
			baseDir = strings.TrimSuffix(baseDir, "/")
			if baseDir == "" {
				baseDir = "."
			}
			found, err := s.scanRecursive(baseDir)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := s.scanDirectory(arg)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
			continue
		}

		if filepath.Ext(arg) != ManifestExtension {
			return nil, fmt.Errorf("%s is not a %s manifest", arg, ManifestExtension)
		}
		add(filepath.Clean(arg))
	}

	sort.Strings(files)
	return files, nil
}

// scanRecursive walks a directory tree collecting manifests. Hidden,
// vendor, and underscore-prefixed directories are skipped.
func (s *Scanner) scanRecursive(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) == ManifestExtension {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return files, nil
}

// scanDirectory collects manifests directly inside a directory, without
// recursing into subdirectories
func (s *Scanner) scanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ManifestExtension {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
