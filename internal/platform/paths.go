// Package platform resolves per-OS config and log locations.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const defaultAppName = "projboard"

// Paths holds the resolved locations for one app name.
type Paths struct {
	ConfigDir  string
	ConfigPath string
	LogDir     string
}

// Options selects the app name and dev-mode suffix.
type Options struct {
	AppName string
	DevMode bool
}

// Environment is the host state paths are resolved from.
type Environment struct {
	GOOS      string
	Home      string
	ConfigDir string
	Getenv    func(string) string
}

// DefaultPaths resolves paths for the default app name.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{})
}

// DefaultPathsWithOptions resolves paths against the current host.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user home dir: %w", err)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	return Resolve(Environment{
		GOOS:      runtime.GOOS,
		Home:      home,
		ConfigDir: configDir,
		Getenv:    os.Getenv,
	}, AppDirName(opts))
}

// AppDirName returns the directory name for opts, with "-dev" appended in dev mode.
func AppDirName(opts Options) string {
	name := strings.TrimSpace(opts.AppName)
	if name == "" {
		name = defaultAppName
	}
	if opts.DevMode {
		name += "-dev"
	}
	return name
}

// Resolve computes paths for appName under env.
// Logs go to the XDG state home on linux, ~/Library/Logs on darwin and LOCALAPPDATA on windows.
func Resolve(env Environment, appName string) (Paths, error) {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, errors.New("empty app name")
	}
	if env.Home == "" || env.ConfigDir == "" {
		return Paths{}, errors.New("empty base dirs")
	}
	getenv := env.Getenv
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	lookup := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	configBase := env.ConfigDir
	var logDir string
	switch env.GOOS {
	case "linux":
		configBase = lookup("XDG_CONFIG_HOME", configBase)
		logDir = filepath.Join(lookup("XDG_STATE_HOME", filepath.Join(env.Home, ".local", "state")), appName, "log")
	case "windows":
		configBase = lookup("APPDATA", configBase)
		logDir = filepath.Join(lookup("LOCALAPPDATA", configBase), appName, "log")
	case "darwin":
		logDir = filepath.Join(env.Home, "Library", "Logs", appName)
	default:
		logDir = filepath.Join(configBase, appName, "log")
	}

	configDir := filepath.Join(configBase, appName)
	return Paths{
		ConfigDir:  configDir,
		ConfigPath: filepath.Join(configDir, "config.toml"),
		LogDir:     logDir,
	}, nil
}
