package config

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/modfile"
)

// manifest reads a project name out of one kind of manifest file.
type manifest struct {
	file string
	name func(data []byte) string
}

// manifests are tried in order; the first non-empty name wins.
var manifests = []manifest{
	{file: "go.mod", name: goModuleName},
	{file: "package.json", name: npmPackageName},
	{file: "Cargo.toml", name: cratePackageName},
}

// DetectProjectName infers a dashboard title from the manifests in dir,
// falling back to the directory's base name. Unreadable or malformed
// manifests are skipped.
func DetectProjectName(dir string) string {
	for _, m := range manifests {
		data, err := os.ReadFile(filepath.Join(dir, m.file))
		if err != nil {
			continue
		}
		if name := m.name(data); name != "" {
			return name
		}
	}
	return filepath.Base(dir)
}

// goModuleName returns the last element of the module path.
func goModuleName(data []byte) string {
	if mod := modfile.ModulePath(data); mod != "" {
		return path.Base(mod)
	}
	return ""
}

func npmPackageName(data []byte) string {
	var pkg struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(data, &pkg) != nil {
		return ""
	}
	return pkg.Name
}

func cratePackageName(data []byte) string {
	var crate struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if _, err := toml.Decode(string(data), &crate); err != nil {
		return ""
	}
	return crate.Package.Name
}
