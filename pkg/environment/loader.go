package environment

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type definitionFile struct {
	Environments map[string]definition `json:"environments" yaml:"environments"`
}

type definition struct {
	Class    string `json:"class,omitempty" yaml:"class,omitempty"`
	Markdown bool   `json:"markdown,omitempty" yaml:"markdown,omitempty"`
	Script   string `json:"script,omitempty" yaml:"script,omitempty"`
	Caption  string `json:"caption,omitempty" yaml:"caption,omitempty"`
	Marker   string `json:"marker,omitempty" yaml:"marker,omitempty"`
}

// LoadFS walks the provided filesystem and registers every environment
// defined in JSON/YAML definition files. Files are visited in lexical order.
// A nil fsys is a no-op.
func LoadFS(fsys fs.FS, reg *Registry) error {
	if fsys == nil {
		return nil
	}
	if reg == nil {
		return fmt.Errorf("environment: registry is nil")
	}

	return fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("environment: read %s: %w", path, err)
		}
		return load(data, path, reg)
	})
}

// LoadFile registers the environments defined in a single JSON/YAML file.
func LoadFile(path string, reg *Registry) error {
	if reg == nil {
		return fmt.Errorf("environment: registry is nil")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("environment: read %s: %w", path, err)
	}
	return load(data, path, reg)
}

// Parse decodes a definition document without registering it. Environments
// are returned sorted by name.
func Parse(data []byte, source string) ([]Environment, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(doc.Environments))
	for name := range doc.Environments {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Environment, 0, len(names))
	for _, name := range names {
		raw := doc.Environments[name]
		env := Environment{
			Name:     strings.TrimSpace(name),
			Class:    strings.TrimSpace(raw.Class),
			Markdown: raw.Markdown,
			Script:   strings.TrimSpace(raw.Script),
			Caption:  strings.TrimSpace(raw.Caption),
			Marker:   raw.Marker,
		}
		if err := env.Validate(); err != nil {
			return nil, fmt.Errorf("environment: file %s: %w", source, err)
		}
		out = append(out, env)
	}
	return out, nil
}

func load(data []byte, source string, reg *Registry) error {
	envs, err := Parse(data, source)
	if err != nil {
		return err
	}
	for _, env := range envs {
		if err := reg.Register(env); err != nil {
			return fmt.Errorf("environment: file %s: %w", source, err)
		}
	}
	return nil
}

func parseDocument(data []byte, source string) (definitionFile, error) {
	var doc definitionFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return definitionFile{}, fmt.Errorf("environment: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = definitionFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return definitionFile{}, fmt.Errorf("environment: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Marshal encodes environments as a YAML definition document. Built-in
// environments are accepted but usually left out by callers.
func Marshal(envs []Environment) ([]byte, error) {
	doc := definitionFile{Environments: make(map[string]definition, len(envs))}
	for _, env := range envs {
		if err := env.Validate(); err != nil {
			return nil, err
		}
		doc.Environments[env.Name] = definition{
			Class:    env.Class,
			Markdown: env.Markdown,
			Script:   env.Script,
			Caption:  env.Caption,
			Marker:   env.Marker,
		}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("environment: encode definitions: %w", err)
	}
	return out, nil
}
