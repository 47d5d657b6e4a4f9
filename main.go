package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func run() error {
	var args cliArgs
	cliCtx := kong.Parse(
		&args,
		kong.Name("recrop"),
		kong.UsageOnError(),
	)
	if err := cliCtx.Run(); err != nil {
		return err
	}

	return nil
}

type serveCmd struct {
	RootDir string `arg:"" help:"Root directory to serve images from"`
	Open    bool   `help:"Open the browser automatically when the server starts" default:"true"`
	JSON    bool   `help:"Output export operations in JSON format without executing"`
	Once    bool   `help:"Run the server once and exit after export" default:"true"`
	Format  string `help:"Output image format" enum:"jpeg,webp" default:"jpeg"`
	Verbose bool   `help:"Enable verbose logging" default:"false"`
}

func (cmd *serveCmd) Run() error {
	level := zerolog.InfoLevel
	if cmd.Verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.NewConsoleWriter()).Level(level)
	zerolog.DefaultContextLogger = &log.Logger

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ctx = log.Logger.WithContext(ctx)

	renderer := NewImagingRenderer()
	renderer.Format = cmd.Format

	executor := ExportExecutor{
		BaseDir:   cmd.RootDir,
		OutputDir: filepath.Join(cmd.RootDir, "output"),
		Renderer:  renderer,
	}

	app := NewWebApp(Config{
		RootDir: cmd.RootDir,
		OnBeforeShutdown: func() {
			log.Ctx(ctx).Info().Msg("Shutting down web application...")
		},
		OnReady: func(addr string) {
			log.Ctx(ctx).Info().Msgf("Server started at %s", addr)
			if cmd.Open {
				if err := openBrowser(addr); err != nil {
					log.Error().Err(err).Msg("Failed to open browser")
				}
			}
		},
		OnExport: func(ops Exports) {
			if cmd.JSON {
				printJSONL(ops)
			} else {
				if err := executor.Exec(ctx, ops); err != nil {
					log.Ctx(ctx).Error().Err(err).Msg("Failed to execute exports")
				}
			}

			if cmd.Once {
				cancel()
			}
		},
	})

	if err := app.Run(ctx); err != nil {
		return err
	}

	return nil
}

type cliArgs struct {
	Serve serveCmd `cmd:"" default:"withargs"`
}

func printJSONL[T any](data []T) {
	enc := json.NewEncoder(os.Stdout)
	for _, item := range data {
		if err := enc.Encode(item); err != nil {
			log.Error().Err(err).Msg("Failed to encode item to JSON")
			continue
		}
	}
}

func openBrowser(addr string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", addr).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", addr).Start()
	default:
		return exec.Command("xdg-open", addr).Start()
	}
}
