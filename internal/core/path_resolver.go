package core

import (
	"os"
	"path/filepath"
	"strings"
)

// PathResolver turns relative paths and paths starting with '~' into
// absolute paths.
type PathResolver struct {
	baseDir string // root for relative paths
}

func NewPathResolver(baseDir string) PathResolver {
	return PathResolver{baseDir: baseDir}
}

func (pr PathResolver) Resolve(ip string) (string, error) {
	if ip == "~" || strings.HasPrefix(ip, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		ip = filepath.Join(homeDir, strings.TrimPrefix(ip, "~"))
	}

	if filepath.IsAbs(ip) {
		return filepath.Clean(ip), nil
	}

	if pr.baseDir != "" {
		return filepath.Join(pr.baseDir, ip), nil
	}

	return filepath.Abs(ip)
}
