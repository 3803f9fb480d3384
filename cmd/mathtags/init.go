package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-mathtags/pkg/environment"
)

var scriptTypes = []string{"none", environment.ScriptTikZ, "text/vega"}

// exampleDefinitions is written by `init --yes`.
var exampleDefinitions = []environment.Environment{
	{Name: "conj", Class: "conjecture", Markdown: true},
	{Name: "rmk", Class: "remark", Markdown: true},
}

func (a *app) scaffold(ctx context.Context) error {
	opts := a.cli.Init

	if _, err := os.Stat(opts.Path); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", opts.Path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	reg, err := a.registry()
	if err != nil {
		return err
	}

	envs := exampleDefinitions
	if !opts.Yes {
		envs, err = a.askDefinitions(ctx, reg)
		if err != nil {
			return err
		}
	}

	data, err := environment.Marshal(envs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.Path, data, 0o644); err != nil {
		return fmt.Errorf("write definitions: %w", err)
	}
	a.logger.Info("definitions written", "path", opts.Path, "count", len(envs))
	return nil
}

func (a *app) askDefinitions(ctx context.Context, reg *environment.Registry) ([]environment.Environment, error) {
	var envs []environment.Environment
	taken := make(map[string]bool)

	for {
		name, err := a.prompter.Input(ctx, InputConfig{
			Message: "Tag name",
			Help:    "Used as {% name %}...{% endname %}",
			Validator: func(s string) error {
				s = strings.TrimSpace(s)
				if reg.Has(s) || taken[s] {
					return fmt.Errorf("%q is already registered", s)
				}
				return environment.Environment{Name: s, Class: "x"}.Validate()
			},
		})
		if err != nil {
			return nil, err
		}
		name = strings.TrimSpace(name)

		class, err := a.prompter.Input(ctx, InputConfig{
			Message: "Wrapper class",
			Default: name,
		})
		if err != nil {
			return nil, err
		}

		markdown, err := a.prompter.Confirm(ctx, ConfirmConfig{
			Message: "Parse the content as Markdown?",
			Default: true,
		})
		if err != nil {
			return nil, err
		}

		idx, err := a.prompter.Select(ctx, SelectConfig{
			Message: "Script type",
			Options: scriptTypes,
		})
		if err != nil {
			return nil, err
		}
		script := ""
		if idx > 0 {
			script = scriptTypes[idx]
		}

		env := environment.Environment{
			Name:     name,
			Class:    strings.TrimSpace(class),
			Markdown: markdown,
			Script:   script,
		}
		if err := env.Validate(); err != nil {
			return nil, err
		}
		envs = append(envs, env)
		taken[name] = true

		more, err := a.prompter.Confirm(ctx, ConfirmConfig{Message: "Add another environment?"})
		if err != nil {
			return nil, err
		}
		if !more {
			return envs, nil
		}
	}
}
