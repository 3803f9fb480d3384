package environment

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotFound is returned when a tag name has no registered environment.
	ErrNotFound = errors.New("environment: not found")
	// ErrDuplicate is returned when a tag name is registered twice.
	ErrDuplicate = errors.New("environment: already registered")
	// ErrInvalid is returned for definitions that cannot be rendered.
	ErrInvalid = errors.New("environment: invalid definition")
)

// Registry stores environments by tag name. Hosts populate it at start-up
// and only read from it afterwards.
type Registry struct {
	mu           sync.RWMutex
	environments map[string]Environment
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		environments: make(map[string]Environment),
	}
}

// DefaultRegistry returns a registry seeded with the built-in environments.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, env := range builtins {
		reg.MustRegister(env)
	}
	return reg
}

// Register adds an environment by its Name. Duplicate names return
// ErrDuplicate; invalid definitions return ErrInvalid.
func (r *Registry) Register(env Environment) error {
	if r == nil {
		return fmt.Errorf("environment: registry is nil")
	}
	if err := env.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.environments[env.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicate, env.Name)
	}

	r.environments[env.Name] = env
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(env Environment) {
	if err := r.Register(env); err != nil {
		panic(err)
	}
}

// Get retrieves an environment by tag name.
func (r *Registry) Get(name string) (Environment, error) {
	if r == nil {
		return Environment{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	env, ok := r.environments[name]
	if !ok {
		return Environment{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return env, nil
}

// MustGet panics if the environment is missing.
func (r *Registry) MustGet(name string) Environment {
	env, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return env
}

// Has reports whether an environment is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// List returns a sorted list of tag names.
func (r *Registry) List() []string {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.environments))
	for name := range r.environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Environments returns every registered environment sorted by tag name.
func (r *Registry) Environments() []Environment {
	if r == nil {
		return nil
	}
	names := r.List()
	out := make([]Environment, 0, len(names))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range names {
		out = append(out, r.environments[name])
	}
	return out
}

// Render renders content with the named environment.
func (r *Registry) Render(name, content, argument string) (string, error) {
	env, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return env.Render(content, argument), nil
}
