// Package fsutil resolves dictionary, user-dictionary, and config file
// locations across install layouts: a packaged binary with dictionaries
// alongside it, a development checkout run from the repo root, and a
// user's XDG-style config home for the mutable session config.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver resolves the above locations relative to the running
// executable, the user's home, and the current working directory.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver determines the executable's location (resolving
// symlinks) and the platform's config directory.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("fsutil: locating executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, fmt.Errorf("fsutil: resolving executable symlinks: %w", err)
	}
	execDir := filepath.Dir(execPath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("fsutil: could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     platformConfigDir(homeDir),
	}
	log.Debugf("fsutil: execDir=%s configDir=%s", execDir, pr.configDir)
	return pr, nil
}

// platformConfigDir returns the conventional per-platform config
// directory for "nlp" under homeDir.
func platformConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "nlp")
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "nlp")
		}
		return filepath.Join(homeDir, ".config", "nlp")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "nlp")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "nlp")
	default:
		return filepath.Join(homeDir, ".nlp")
	}
}

// candidates returns, in preference order, the locations userPath could
// resolve to: itself if absolute, otherwise relative to the executable and
// (if different) relative to the current working directory.
func (pr *PathResolver) candidates(userPath string) []string {
	if filepath.IsAbs(userPath) {
		return []string{userPath}
	}

	out := []string{filepath.Join(pr.executableDir, userPath)}
	if cwd, err := os.Getwd(); err == nil {
		if cwdPath := filepath.Join(cwd, userPath); cwdPath != out[0] {
			out = append(out, cwdPath)
		}
	}
	return out
}

// GetDictionaryDir resolves the directory holding base .fldic dictionary
// files: the first candidate that exists and contains at least one
// *.fldic file. If none do, it returns the first candidate (userPath itself
// when absolute, else the executable-relative one) without an error.
func (pr *PathResolver) GetDictionaryDir(userPath string) (string, error) {
	candidates := pr.candidates(userPath)
	for _, dir := range candidates {
		if hasDictionaryFiles(dir) {
			log.Debugf("fsutil: found dictionary directory %s", dir)
			return dir, nil
		}
		log.Debugf("fsutil: %s has no .fldic files", dir)
	}
	return candidates[0], nil
}

func hasDictionaryFiles(dir string) bool {
	stat, err := os.Stat(dir)
	if err != nil || !stat.IsDir() {
		return false
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.fldic"))
	return err == nil && len(matches) > 0
}

// GetUserDictionaryPath resolves the mutable user dictionary file path.
// Unlike GetDictionaryDir, a missing file is not a resolution failure: the
// session creates an empty user dictionary on first use, so this returns
// the first candidate that already exists, or else the executable-relative
// candidate with its parent directory created so the session can persist
// to it later. Returns "" if userPath is empty (no user dictionary
// configured).
func (pr *PathResolver) GetUserDictionaryPath(userPath string) (string, error) {
	if userPath == "" {
		return "", nil
	}

	candidates := pr.candidates(userPath)
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	target := candidates[0]
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("fsutil: creating user dictionary directory for %s: %w", target, err)
	}
	return target, nil
}

// GetConfigPath returns the full path for a config file, ensuring the
// containing directory exists and is writable, falling back to well-known
// alternatives (home, temp, executable dir) otherwise.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	if ensureWritableDir(pr.configDir) {
		return filepath.Join(pr.configDir, filename), nil
	}

	for _, dir := range []string{
		filepath.Join(pr.homeDir, ".nlp"),
		filepath.Join(os.TempDir(), "nlp"),
		pr.executableDir,
	} {
		if ensureWritableDir(dir) {
			path := filepath.Join(dir, filename)
			log.Warnf("fsutil: using fallback config location %s", path)
			return path, nil
		}
	}

	path := filepath.Join(os.TempDir(), filename)
	log.Warnf("fsutil: using temporary config file %s", path)
	return path, nil
}

func ensureWritableDir(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Debugf("fsutil: cannot create %s: %v", dir, err)
		return false
	}
	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
		log.Debugf("fsutil: %s is not writable: %v", dir, err)
		return false
	}
	os.Remove(probe)
	return true
}
