package clientcli

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is a saved endpoint and the bearer token used against it.
type Profile struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
}

// Config converts the profile into client settings.
func (p Profile) Config() Config {
	return Config{Endpoint: p.Endpoint, Token: p.Token}
}

// Profiles is the on-disk credentials file. Profiles are keyed by name and
// Current names the one used when no profile is requested.
type Profiles struct {
	Current string             `yaml:"current,omitempty"`
	Entries map[string]Profile `yaml:"profiles"`
}

// DefaultProfilesPath returns ~/.filekeep/config.yaml, or "" without a home
// directory.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".filekeep", "config.yaml")
}

// LoadProfiles reads the credentials file at path. A missing file is reported
// with an error wrapping os.ErrNotExist.
func LoadProfiles(path string) (*Profiles, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path comes from the user
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var p Profiles
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	if p.Entries == nil {
		p.Entries = map[string]Profile{}
	}
	return &p, nil
}

// LoadProfilesOrEmpty is LoadProfiles that treats a missing file as empty.
func LoadProfilesOrEmpty(path string) (*Profiles, error) {
	p, err := LoadProfiles(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Profiles{Entries: map[string]Profile{}}, nil
	}
	return p, err
}

// Save writes the file with owner-only permissions since it holds tokens.
func (p *Profiles) Save(path string) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}

// Resolve returns the named profile. An empty name selects Current, or the
// only profile when exactly one exists.
func (p *Profiles) Resolve(name string) (string, Profile, error) {
	if len(p.Entries) == 0 {
		return "", Profile{}, ErrNoProfiles
	}

	if name == "" {
		name = p.Current
	}
	if name == "" {
		if len(p.Entries) > 1 {
			return "", Profile{}, ErrNoCurrentProfile
		}
		for only := range p.Entries {
			name = only
		}
	}

	prof, ok := p.Entries[name]
	if !ok {
		return "", Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return name, prof, nil
}

// Put adds or replaces a profile. The first profile saved becomes current.
func (p *Profiles) Put(name string, prof Profile) {
	if p.Entries == nil {
		p.Entries = map[string]Profile{}
	}
	p.Entries[name] = prof
	if p.Current == "" {
		p.Current = name
	}
}

// Delete removes a profile and clears Current when it pointed at it.
func (p *Profiles) Delete(name string) error {
	if _, ok := p.Entries[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	delete(p.Entries, name)
	if p.Current == name {
		p.Current = ""
	}
	return nil
}

// Use makes name the current profile.
func (p *Profiles) Use(name string) error {
	if _, ok := p.Entries[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	p.Current = name
	return nil
}

// Names returns the profile names in sorted order.
func (p *Profiles) Names() []string {
	return slices.Sorted(maps.Keys(p.Entries))
}

// Summarize builds the summary of the named profile. The token is masked
// unless reveal is set.
func (p *Profiles) Summarize(name string, reveal bool, now time.Time) ProfileSummary {
	prof := p.Entries[name]
	s := ProfileSummary{
		Name:     name,
		Endpoint: prof.Endpoint,
		Token:    MaskToken(prof.Token),
		Current:  name == p.Current,
	}
	if reveal {
		s.Token = prof.Token
	}
	if info, err := InspectToken(prof.Token); err == nil {
		s.Subject = info.Subject
		s.Email = info.Email
		s.ExpiresAt = info.ExpiresAt
		s.Expired = info.Expired(now)
	}
	return s
}
