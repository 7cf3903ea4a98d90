package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot walks up from the working directory to the first directory holding both
// input/ and data/, so the tools run from the repo root or from cmd/*.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := cwd
	for range 10 {
		if isDir(filepath.Join(dir, "input")) && isDir(filepath.Join(dir, "data")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("cannot find app root from %q (expected input/ and data/ in this dir or any parent)", cwd)
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
