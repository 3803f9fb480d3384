package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-mathtags/pkg/page"
	"github.com/goliatone/go-mathtags/pkg/render/template/liquid"
	"github.com/goliatone/go-mathtags/pkg/xref"
)

var errDuplicateAnchors = errors.New("duplicate anchors")

func (a *app) render(ctx context.Context) error {
	opts := a.cli.Render

	reg, err := a.registry()
	if err != nil {
		return err
	}
	engine, err := liquid.New(liquid.WithRegistry(reg), liquid.WithLogger(a.logger))
	if err != nil {
		return err
	}
	renderer, err := page.New(
		page.WithEngine(engine),
		page.WithMarkdown(opts.Markdown),
		page.WithSanitize(opts.Sanitize),
		page.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	res, err := renderer.RenderFile(ctx, opts.File)
	if err != nil {
		return err
	}

	if opts.Check {
		anchors, err := xref.Collect(strings.NewReader(res.Body), reg)
		if err != nil {
			return err
		}
		if dups := xref.Duplicates(anchors); len(dups) > 0 {
			return fmt.Errorf("%s: %w: %s", opts.File, errDuplicateAnchors, strings.Join(dups, ", "))
		}
		a.logger.Debug("anchors checked", "file", opts.File, "count", len(anchors))
	}

	if opts.Output == "" {
		_, err = fmt.Fprint(a.stdout, res.Body)
		return err
	}
	if err := os.WriteFile(opts.Output, []byte(res.Body), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.Info("page written", "file", opts.File, "output", opts.Output)
	return nil
}
