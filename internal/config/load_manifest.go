package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the top-level manifest file and the section files it names.
// Every section file is optional; a missing entry simply leaves that part of
// the manifest empty. A manifest that cannot be read or parsed is a hard
// precondition failure for the run.
func Load(manifestFile string) (Manifest, error) {
	main := struct {
		Manifest struct {
			PackagesFile string `yaml:"packages_file"`
			AppsFile     string `yaml:"apps_file"`
			ShellFile    string `yaml:"shell_file"`
			GitFile      string `yaml:"git_file"`
			FontsFile    string `yaml:"fonts_file"`
		} `yaml:"manifest"`
	}{}

	raw, err := os.ReadFile(manifestFile)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest %s: %w", manifestFile, err)
	}
	if err := yaml.Unmarshal(raw, &main); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", manifestFile, err)
	}

	// Section files are resolved relative to the manifest's directory so the
	// whole manifest tree can live in a dotfiles checkout.
	baseDir := filepath.Dir(manifestFile)

	var m Manifest

	var packages struct {
		Packages []Package `yaml:"packages"`
	}
	if err := loadSection(baseDir, main.Manifest.PackagesFile, &packages); err != nil {
		return Manifest{}, err
	}
	m.Packages = packages.Packages

	var apps struct {
		Apps struct {
			Casks []Cask     `yaml:"casks"`
			Store []StoreApp `yaml:"store"`
		} `yaml:"apps"`
	}
	if err := loadSection(baseDir, main.Manifest.AppsFile, &apps); err != nil {
		return Manifest{}, err
	}
	m.Casks = apps.Apps.Casks
	m.StoreApps = apps.Apps.Store

	var shell struct {
		Shell struct {
			Clones    []Clone    `yaml:"clones"`
			Runtimes  []Runtime  `yaml:"runtimes"`
			Fragments []Fragment `yaml:"fragments"`
		} `yaml:"shell"`
	}
	if err := loadSection(baseDir, main.Manifest.ShellFile, &shell); err != nil {
		return Manifest{}, err
	}
	m.Clones = shell.Shell.Clones
	m.Runtimes = shell.Shell.Runtimes
	m.Fragments = shell.Shell.Fragments

	var git struct {
		Git GitConfig `yaml:"git"`
	}
	if err := loadSection(baseDir, main.Manifest.GitFile, &git); err != nil {
		return Manifest{}, err
	}
	m.Git = git.Git

	var fonts struct {
		Fonts []Font `yaml:"fonts"`
	}
	if err := loadSection(baseDir, main.Manifest.FontsFile, &fonts); err != nil {
		return Manifest{}, err
	}
	m.Fonts = fonts.Fonts

	return m, nil
}

// loadSection reads one referenced section file into out. An empty name means
// the section was not declared and is skipped.
func loadSection(baseDir, name string, out any) error {
	if name == "" {
		return nil
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, name)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest section %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse manifest section %s: %w", path, err)
	}
	return nil
}
