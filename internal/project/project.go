// Package project resolves the enclosing project: the nearest parent
// directory containing a shorebird.yaml. The resolved directory is where
// diff artifacts are written.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = "shorebird.yaml"

// ErrNotFound is returned when no parent directory contains a
// shorebird.yaml. Callers treat it as "no project", not as a failure.
var ErrNotFound = errors.New("no shorebird.yaml found")

// Config is the subset of shorebird.yaml this tool reads.
type Config struct {
	AppID      string `yaml:"app_id"`
	AutoUpdate *bool  `yaml:"auto_update,omitempty"`
}

// Project is a resolved project root and its parsed configuration.
type Project struct {
	Dir    string
	Config Config
}

// Find walks from startDir toward the filesystem root until it finds a
// shorebird.yaml. It returns ErrNotFound when none exists; a present but
// unparseable config is an error.
func Find(startDir string) (*Project, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		cfgPath := filepath.Join(dir, configFileName)
		if data, err := os.ReadFile(cfgPath); err == nil {
			var cfg Config
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
			}
			return &Project{Dir: dir, Config: cfg}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNotFound
		}
		dir = parent
	}
}
