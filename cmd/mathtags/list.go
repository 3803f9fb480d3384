package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/goliatone/go-mathtags/pkg/xref"
)

func (a *app) listEnvironments() error {
	reg, err := a.registry()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tCLASS\tCAPTION\tMARKDOWN\tSCRIPT")
	for _, env := range reg.Environments() {
		if env.Figure() {
			fmt.Fprintf(w, "%s\t-\t%s\t-\t-\n", env.Name, env.Marker)
			continue
		}
		script := env.Script
		if script == "" {
			script = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", env.Name, env.Class, env.CaptionClass(), strconv.FormatBool(env.Markdown), script)
	}
	return w.Flush()
}

func (a *app) anchors() error {
	reg, err := a.registry()
	if err != nil {
		return err
	}

	f, err := os.Open(a.cli.Anchors.File)
	if err != nil {
		return err
	}
	defer f.Close()

	anchors, err := xref.Collect(f, reg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTAG\tCLASS")
	for _, anchor := range anchors {
		id := anchor.ID
		if id == "" {
			id = `""`
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, anchor.Environment, anchor.Class)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, id := range xref.Duplicates(anchors) {
		a.logger.Warn("duplicate anchor", "id", id)
	}
	return nil
}
