package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-mathtags/pkg/environment"
)

// CLI is the mathtags command line.
type CLI struct {
	Definitions string `name:"environments" short:"e" help:"Environment definitions file or directory (JSON/YAML)" type:"path"`
	Verbose     bool   `short:"v" help:"Enable verbose logging"`

	Render struct {
		File     string `arg:"" help:"Page to render (front matter + Liquid)" type:"path"`
		Output   string `short:"o" help:"Output file (stdout if empty)" type:"path"`
		Markdown bool   `help:"Convert the expanded page from Markdown to HTML"`
		Sanitize bool   `help:"Sanitise the output for previews"`
		Check    bool   `help:"Fail when two environments share an id"`
	} `cmd:"" help:"Expand environment tags in a page"`

	List struct{} `cmd:"" name:"environments" help:"List registered environments"`

	Anchors struct {
		File string `arg:"" help:"Rendered HTML page" type:"path"`
	} `cmd:"" help:"List the cross-reference anchors of a rendered page"`

	Init struct {
		Path  string `help:"Definitions file to write" default:"environments.yaml" type:"path"`
		Yes   bool   `short:"y" help:"Write an example definition without prompting"`
		Force bool   `help:"Overwrite an existing file"`
	} `cmd:"" help:"Scaffold an environment definitions file"`
}

type app struct {
	cli      CLI
	stdout   io.Writer
	logger   *slog.Logger
	prompter Prompter
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, newSurveyPrompter()); err != nil {
		slog.Error("mathtags failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, prompter Prompter) error {
	a := &app{stdout: stdout, prompter: prompter}

	parser, err := kong.New(&a.cli,
		kong.Name("mathtags"),
		kong.Description("Render theorem, diagram and figure environments."),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if a.cli.Verbose {
		logLevel = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(a.logger)

	switch kctx.Command() {
	case "render <file>":
		return a.render(ctx)
	case "environments":
		return a.listEnvironments()
	case "anchors <file>":
		return a.anchors()
	case "init":
		return a.scaffold(ctx)
	default:
		return fmt.Errorf("unknown command %q", kctx.Command())
	}
}

// registry returns the built-in environments plus any loaded from
// --environments.
func (a *app) registry() (*environment.Registry, error) {
	reg := environment.DefaultRegistry()
	path := a.cli.Definitions
	if path == "" {
		return reg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("environments: %w", err)
	}
	if info.IsDir() {
		err = environment.LoadFS(os.DirFS(path), reg)
	} else {
		err = environment.LoadFile(path, reg)
	}
	if err != nil {
		return nil, err
	}

	a.logger.Debug("environments loaded", "path", path, "count", len(reg.List()))
	return reg, nil
}
