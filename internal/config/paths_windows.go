//go:build windows

package config

import (
	"os"
	"path/filepath"
)

func configSearchPaths() []string {
	return []string{
		filepath.Join(os.Getenv("APPDATA"), "rctop", "config.yaml"),
		filepath.Join(os.Getenv("ProgramData"), "rctop", "config.yaml"),
	}
}
