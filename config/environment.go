package config

import (
	"os"
	"strings"
)

const (
	Development = "development"
	Staging     = "staging"
	Production  = "production"
)

// ProfileEnv selects the hosting environment and the profile overlay file.
const ProfileEnv = "APP_PROFILE"

// Environment describes where the host runs. It is handed to configuration
// extensions so they can add environment-specific sources.
type Environment struct {
	Name        string
	AppName     string
	ContentRoot string
}

// LoadEnvironment reads APP_PROFILE (production when unset) and uses the
// working directory as content root.
func LoadEnvironment(appName string) Environment {
	name := os.Getenv(ProfileEnv)
	if name == "" {
		name = Production
	}
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	return Environment{Name: name, AppName: appName, ContentRoot: root}
}

// Is compares the environment name case-insensitively.
func (e Environment) Is(name string) bool { return strings.EqualFold(e.Name, name) }

func (e Environment) IsDevelopment() bool { return e.Is(Development) }
func (e Environment) IsProduction() bool  { return e.Is(Production) }
