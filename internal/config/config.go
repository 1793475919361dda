// Package config resolves the client's configuration directory.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the mudshell configuration directory. Respects
// XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "mudshell")
}

// DataDir returns the directory persisted history.json and servers.json
// live in. Respects XDG_DATA_HOME on Unix, falling back to the config
// directory when it is unset and on Windows (mirroring the teacher's
// single-directory layout,
// since mudshell has no other XDG_DATA_HOME consumer to justify splitting
// it out).
func DataDir() string {
	if runtime.GOOS != "windows" {
		if base := os.Getenv("XDG_DATA_HOME"); base != "" {
			return filepath.Join(base, "mudshell")
		}
	}
	return Dir()
}

// InitFile returns the path to init.lua.
func InitFile() string {
	return filepath.Join(Dir(), "init.lua")
}

// HistoryFile returns the path to the persisted command history.
func HistoryFile() string {
	return filepath.Join(DataDir(), "history.json")
}

// ServersFile returns the path to the persisted server bookmarks.
func ServersFile() string {
	return filepath.Join(DataDir(), "servers.json")
}
