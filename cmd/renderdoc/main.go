// Command renderdoc loads a JSON render fixture (an EditorDocument plus a
// page geometry and an optional minimal style context) and dumps the
// resulting Layout, for driving and inspecting the render pipeline without
// a host editor attached.
//
// Grounded on cmd/fbc/main.go's cli.Command construction and graceful
// signal-cancellation wiring; trimmed of the report/reconfiguration/panic
// log machinery fbc needs for end-user distribution, since this is a
// developer-facing debug entrypoint rather than a shipped conversion tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"superdoc"
	"superdoc/internal/paint"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "renderdoc",
		Usage: "render a JSON document fixture through the layout pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Required: true, Usage: "path to the render fixture `FILE` (JSON)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "destination `FILE` for the painted layout (default: stdout)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "debug", Usage: "painter `FORMAT`: debug or ion"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log render progress to stderr"},
		},
		Action: runRenderdoc,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "renderdoc: %v\n", err)
		os.Exit(1)
	}
}

func runRenderdoc(ctx context.Context, cmd *cli.Command) error {
	data, err := os.ReadFile(cmd.String("in"))
	if err != nil {
		return fmt.Errorf("unable to read fixture: %w", err)
	}

	fx, err := parseFixture(data)
	if err != nil {
		return fmt.Errorf("unable to parse fixture: %w", err)
	}

	var log *zap.Logger
	if cmd.Bool("verbose") {
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("unable to build logger: %w", err)
		}
	} else {
		log = zap.NewNop()
	}
	defer log.Sync()

	sctx, err := fx.styleContext(log)
	if err != nil {
		return fmt.Errorf("unable to build style context: %w", err)
	}

	renderer := superdoc.NewRenderer(sctx, nil, nil, fx.Page, nil, log)
	result, err := renderer.Render(ctx, fx.Document)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Error())
	}

	var painter paint.Painter
	switch cmd.String("format") {
	case "ion":
		painter = paint.IonDumpPainter{}
	case "debug", "":
		painter = paint.DebugPainter{}
	default:
		return fmt.Errorf("unknown format %q (expected debug or ion)", cmd.String("format"))
	}

	out := os.Stdout
	if dest := cmd.String("out"); dest != "" {
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("unable to create destination file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := painter.Paint(result.Layout, out); err != nil {
		return fmt.Errorf("paint failed: %w", err)
	}
	return nil
}
