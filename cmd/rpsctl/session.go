package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rpsctl-session"
	}
	return filepath.Join(home, ".rpsctl-session")
}

func saveSession(path, token string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

func loadSession(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", errors.New("session file is empty")
	}
	return tok, nil
}
