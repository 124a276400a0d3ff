package config

// Kind discriminates manifest item types. The prober and the executor switch
// on it instead of guessing from ad hoc string checks.
type Kind string

const (
	KindPackage     Kind = "package"
	KindCask        Kind = "cask"
	KindStoreApp    Kind = "store-app"
	KindClone       Kind = "clone"
	KindRuntime     Kind = "runtime"
	KindFragment    Kind = "fragment"
	KindGitIdentity Kind = "git-identity"
	KindGitDefault  Kind = "git-default-email"
	KindFont        Kind = "font"
)

// Section groups items for the per-concern apply subcommands.
const (
	SectionPackages = "packages"
	SectionApps     = "apps"
	SectionShell    = "shell"
	SectionGit      = "git"
	SectionFonts    = "fonts"
)

// Package is a Homebrew formula.
type Package struct {
	Name    string `yaml:"name"`
	Formula string `yaml:"formula"` // brew token; defaults to Name
}

// Cask is a Homebrew cask (GUI application).
type Cask struct {
	Name  string `yaml:"name"`
	Token string `yaml:"token"` // cask token; defaults to Name
}

// StoreApp is a Mac App Store application installed via mas.
type StoreApp struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"` // numeric store identifier
}

// Fragment is an idempotently appendable block of text targeting one file.
// Marker is the substring whose presence means the fragment is already
// applied; idempotence is marker-gated, not content-diffed.
type Fragment struct {
	Name       string `yaml:"name"`
	TargetFile string `yaml:"target_file"` // supports a leading ~
	Marker     string `yaml:"marker"`
	Content    string `yaml:"content"`
}

// Clone is a git repository cloned to a fixed destination, used for the
// shell framework and the runtime version manager. Backup optionally names a
// file to snapshot before cloning, for installers that rewrite it.
type Clone struct {
	Name   string `yaml:"name"`
	Repo   string `yaml:"repo"`
	Dest   string `yaml:"dest"`
	Backup string `yaml:"backup"`
}

// Runtime is a language runtime installed through the version manager.
// Version is a semver constraint such as "^20".
type Runtime struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Font is a font archive published as a GitHub release asset.
type Font struct {
	Name string `yaml:"name"`
	Repo string `yaml:"repo"` // owner/repo
	Tag  string `yaml:"tag"`
}

// GitIdentity scopes a [user] email stanza to one directory via a
// directory-local config file plus an includeIf in the global config. An
// empty Email means the work email resolved at startup.
type GitIdentity struct {
	Dir   string `yaml:"dir"`
	Email string `yaml:"email"`
}

// GitConfig is the git section of the manifest. DefaultEmail is written to
// the global config only when user.email is not already set.
type GitConfig struct {
	DefaultEmail string        `yaml:"default_email"`
	Identities   []GitIdentity `yaml:"identities"`
}

// Manifest is the full declared desired state for one run.
type Manifest struct {
	Packages  []Package
	Casks     []Cask
	StoreApps []StoreApp
	Clones    []Clone
	Runtimes  []Runtime
	Fragments []Fragment
	Git       GitConfig
	Fonts     []Font
}

// Item is the tagged union handed to the prober and executor. Exactly the
// pointer matching Kind is set. Identifier is the probe lookup key: brew
// token, store id, marker, destination directory, and so on.
type Item struct {
	Kind        Kind   `json:"kind"`
	Section     string `json:"section"`
	Identifier  string `json:"identifier"`
	DisplayName string `json:"display_name"`

	Package     *Package     `json:"-"`
	Cask        *Cask        `json:"-"`
	StoreApp    *StoreApp    `json:"-"`
	Clone       *Clone       `json:"-"`
	Runtime     *Runtime     `json:"-"`
	Fragment    *Fragment    `json:"-"`
	GitIdentity *GitIdentity `json:"-"`
	Font        *Font        `json:"-"`
}

// Items flattens the manifest into the ordered item list the driver
// processes. Order is the declared manifest order: packages, casks, store
// apps, clones, runtimes, fragments, git configuration, fonts. There is no
// reordering and no dependency resolution.
func (m Manifest) Items() []Item {
	var items []Item

	for i := range m.Packages {
		p := &m.Packages[i]
		formula := p.Formula
		if formula == "" {
			formula = p.Name
		}
		items = append(items, Item{
			Kind:        KindPackage,
			Section:     SectionPackages,
			Identifier:  formula,
			DisplayName: p.Name,
			Package:     p,
		})
	}
	for i := range m.Casks {
		c := &m.Casks[i]
		token := c.Token
		if token == "" {
			token = c.Name
		}
		items = append(items, Item{
			Kind:        KindCask,
			Section:     SectionApps,
			Identifier:  token,
			DisplayName: c.Name,
			Cask:        c,
		})
	}
	for i := range m.StoreApps {
		a := &m.StoreApps[i]
		items = append(items, Item{
			Kind:        KindStoreApp,
			Section:     SectionApps,
			Identifier:  a.ID,
			DisplayName: a.Name,
			StoreApp:    a,
		})
	}
	for i := range m.Clones {
		c := &m.Clones[i]
		items = append(items, Item{
			Kind:        KindClone,
			Section:     SectionShell,
			Identifier:  c.Dest,
			DisplayName: c.Name,
			Clone:       c,
		})
	}
	for i := range m.Runtimes {
		r := &m.Runtimes[i]
		items = append(items, Item{
			Kind:        KindRuntime,
			Section:     SectionShell,
			Identifier:  r.Name,
			DisplayName: r.Name + "@" + r.Version,
			Runtime:     r,
		})
	}
	for i := range m.Fragments {
		f := &m.Fragments[i]
		items = append(items, Item{
			Kind:        KindFragment,
			Section:     SectionShell,
			Identifier:  f.Marker,
			DisplayName: f.Name,
			Fragment:    f,
		})
	}
	items = append(items, m.gitItems()...)
	for i := range m.Fonts {
		f := &m.Fonts[i]
		items = append(items, Item{
			Kind:        KindFont,
			Section:     SectionFonts,
			Identifier:  f.Name,
			DisplayName: f.Name,
			Font:        f,
		})
	}
	return items
}

// gitItems expands the git section: one identity item per scoped directory,
// one marker-gated includeIf fragment per directory targeting the global
// config, and the default email item when a default is declared.
func (m Manifest) gitItems() []Item {
	var items []Item
	for i := range m.Git.Identities {
		id := &m.Git.Identities[i]
		items = append(items, Item{
			Kind:        KindGitIdentity,
			Section:     SectionGit,
			Identifier:  id.Dir,
			DisplayName: "git identity for " + id.Dir,
			GitIdentity: id,
		})
		frag := IncludeIfFragment(id.Dir)
		items = append(items, Item{
			Kind:        KindFragment,
			Section:     SectionGit,
			Identifier:  frag.Marker,
			DisplayName: frag.Name,
			Fragment:    frag,
		})
	}
	if m.Git.DefaultEmail != "" {
		items = append(items, Item{
			Kind:        KindGitDefault,
			Section:     SectionGit,
			Identifier:  "user.email",
			DisplayName: "git default email",
			GitIdentity: &GitIdentity{Email: m.Git.DefaultEmail},
		})
	}
	return items
}

// IncludeIfFragment builds the global-gitconfig fragment that routes the
// scoped identity file for dir. The marker is the includeIf header, so the
// stanza is appended at most once no matter how often the run repeats.
func IncludeIfFragment(dir string) *Fragment {
	d := dir
	if d != "" && d[len(d)-1] != '/' {
		d += "/"
	}
	header := `[includeIf "gitdir:` + d + `"]`
	return &Fragment{
		Name:       "git includeIf for " + dir,
		TargetFile: "~/.gitconfig",
		Marker:     header,
		Content:    header + "\n\tpath = " + d + ".gitconfig\n",
	}
}
