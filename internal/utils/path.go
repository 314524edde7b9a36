package utils

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "spellserve"

// DefaultDictNames are tried, in order, when no dictionary path is given.
var DefaultDictNames = []string{"words.sptr", "words.bin", "words.txt", "words.dic", "words.z"}

// PathResolver locates config, dictionary and cache files for the spellserve binary
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := newPathResolver(execPath, homeDir, getConfigDir(homeDir))
	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", pr.executablePath, pr.configDir)
	return pr, nil
}

func newPathResolver(execPath, homeDir, configDir string) *PathResolver {
	return &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		homeDir:        homeDir,
		configDir:      configDir,
	}
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", appName)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, appName)
		}
		return filepath.Join(homeDir, ".config", appName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appName)
	default:
		return filepath.Join(homeDir, "."+appName)
	}
}

// dictCandidates lists where a dictionary may live, most specific first
func (pr *PathResolver) dictCandidates(userPath string) []string {
	var candidates []string

	if userPath != "" {
		if filepath.IsAbs(userPath) {
			return []string{userPath}
		}
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, userPath))
		}
		candidates = append(candidates,
			filepath.Join(pr.executableDir, userPath),
			filepath.Join(pr.configDir, userPath),
		)
		return candidates
	}

	dirs := []string{
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(filepath.Dir(pr.executableDir), "data"),
		filepath.Join(pr.configDir, "data"),
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append([]string{filepath.Join(cwd, "data")}, dirs...)
	}
	for _, dir := range dirs {
		for _, name := range DefaultDictNames {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	return candidates
}

// GetDictPath resolves the dictionary file to load.
// A relative userPath is tried against the working directory, the executable
// directory and the config directory. An empty userPath searches the data
// directories for DefaultDictNames.
func (pr *PathResolver) GetDictPath(userPath string) (string, error) {
	for _, path := range pr.dictCandidates(userPath) {
		if FileExists(path) {
			log.Debugf("Found dictionary: %s", path)
			return path, nil
		}
		log.Debugf("Dictionary candidate not found: %s", path)
	}
	if userPath == "" {
		return "", fmt.Errorf("no dictionary found in the data directories: %w", os.ErrNotExist)
	}
	return "", fmt.Errorf("dictionary %s: %w", userPath, os.ErrNotExist)
}

// GetCachePath returns where the compiled form of dictPath is cached.
// The file name carries a hash of the absolute path, so lists with the same
// name in different directories get separate caches.
func (pr *PathResolver) GetCachePath(dictPath string) string {
	abs := GetAbsolutePath(dictPath)
	base := filepath.Base(abs)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	h := fnv.New32a()
	h.Write([]byte(abs))
	return filepath.Join(pr.configDir, "cache", fmt.Sprintf("%s-%08x.sptr", name, h.Sum32()))
}

// GetConfigPath returns the full path for a config file
// It ensures the config directory exists and handles read-only filesystem issues
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	if CheckDirStatus(pr.configDir).Writable {
		return filepath.Join(pr.configDir, filename), nil
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, "."+appName),
		filepath.Join(os.TempDir(), appName),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if CheckDirStatus(dir).Writable {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}
	return "", fmt.Errorf("no writable location for %s", filename)
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

// GetExecutableDir returns the directory containing the executable
func (pr *PathResolver) GetExecutableDir() string {
	return pr.executableDir
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"executable_path": pr.executablePath,
		"executable_dir":  pr.executableDir,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"config_dir":      pr.configDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}
	for _, envVar := range []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"} {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}
