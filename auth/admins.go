package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// AdminsConfig holds the sources of the admin allow-list.
type AdminsConfig struct {
	Inline []string `mapstructure:"inline"` // Admin emails from config
	File   string   `mapstructure:"file"`   // Path to JSON array of admin emails
}

// LoadAdminsFromFile reads a JSON array of admin emails.
// Blank entries are dropped.
func LoadAdminsFromFile(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return nil, fmt.Errorf("read admins file: %w", err)
	}

	var emails []string
	if err := json.Unmarshal(data, &emails); err != nil {
		return nil, fmt.Errorf("parse admins file: %w", err)
	}

	return compact(emails), nil
}

// LoadAdmins merges inline and file admins, dropping blanks and duplicates.
// Order is inline first, then file.
func LoadAdmins(cfg AdminsConfig) ([]string, error) {
	emails := append([]string(nil), cfg.Inline...)

	if cfg.File != "" {
		fromFile, err := LoadAdminsFromFile(cfg.File)
		if err != nil {
			return nil, err
		}
		emails = append(emails, fromFile...)
	}

	return compact(emails), nil
}

func compact(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
