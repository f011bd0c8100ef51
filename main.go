// Command marching compiles signed-distance-field scene scripts into GLSL
// ES 3.00 raymarching fragment shaders.
//
//	marching compile -in scene.lisp -out scene.frag [-config marching.toml]
//	marching watch   -in scene.lisp -out scene.frag [-config marching.toml]
//	marching preview -in scene.lisp -out preview.png [-config marching.toml]
//	marching mesh    -in scene.lisp -out scene.stl   [-config marching.toml]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"

	"github.com/chazu/marching/pkg/config"
	"github.com/chazu/marching/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		logging.Error(err.Error())
		os.Exit(1)
	}
}

// errUsage is returned for a missing or unknown subcommand.
var errUsage = errors.New("usage: marching compile|watch|preview|mesh -in FILE [-out FILE] [-config FILE]")

// options are the flags shared by every subcommand.
type options struct {
	in     string
	out    string
	config string
	level  string
}

func parseFlags(name string, args []string, defaultOut string) (options, error) {
	var o options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&o.in, "in", "", "scene script to compile")
	fs.StringVar(&o.out, "out", defaultOut, "output file; - writes to stdout")
	fs.StringVar(&o.config, "config", "", "TOML configuration file")
	fs.StringVar(&o.level, "log", "", "log level override (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.in == "" {
		return o, fmt.Errorf("%s: -in is required", name)
	}
	return o, nil
}

// setup loads configuration and applies the log level.
func setup(o options) (config.Config, error) {
	cfg, err := config.Load(o.config)
	if err != nil {
		return cfg, err
	}
	level := cfg.Log.Level
	if o.level != "" {
		level = o.level
	}
	if err := logging.SetLevel(level); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "compile":
		o, err := parseFlags(cmd, rest, "-")
		if err != nil {
			return err
		}
		cfg, err := setup(o)
		if err != nil {
			return err
		}
		return compileFile(NewApp(cfg), o.in, o.out, stdout)

	case "watch":
		o, err := parseFlags(cmd, rest, "-")
		if err != nil {
			return err
		}
		cfg, err := setup(o)
		if err != nil {
			return err
		}
		w, err := NewWatcher(NewApp(cfg), o.in, o.out, stdout)
		if err != nil {
			return err
		}
		return w.Run(ctx)

	case "preview":
		o, err := parseFlags(cmd, rest, "")
		if err != nil {
			return err
		}
		cfg, err := setup(o)
		if err != nil {
			return err
		}
		if o.out == "" {
			o.out = cfg.Preview.Output
		}
		return previewFile(ctx, NewApp(cfg), o.in, o.out)

	case "mesh":
		o, err := parseFlags(cmd, rest, "scene.stl")
		if err != nil {
			return err
		}
		cfg, err := setup(o)
		if err != nil {
			return err
		}
		return meshFile(NewApp(cfg), o.in, o.out)

	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

// compileFile compiles in and writes the shader to out, or to stdout when
// out is "-".
func compileFile(app *App, in, out string, stdout io.Writer) error {
	source, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	result := app.Compile(string(source))
	if err := reportErrors(in, result); err != nil {
		return err
	}

	if out == "-" {
		_, err = io.WriteString(stdout, result.Shader)
		return err
	}
	if err := os.WriteFile(out, []byte(result.Shader), 0o644); err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	logging.Info("wrote shader", "in", in, "out", out, "bytes", len(result.Shader))
	return nil
}

func previewFile(ctx context.Context, app *App, in, out string) error {
	source, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	img, result := app.Preview(ctx, string(source))
	if err := reportErrors(in, result); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("preview: encode %s: %w", out, err)
	}
	logging.Info("wrote preview", "in", in, "out", out, "size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	return nil
}

func meshFile(app *App, in, out string) error {
	source, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	if err := reportErrors(in, app.ExportSTL(string(source), out)); err != nil {
		return err
	}
	logging.Info("wrote mesh", "in", in, "out", out)
	return nil
}

// reportErrors logs every diagnostic and returns an error when the result
// failed.
func reportErrors(in string, result CompileResult) error {
	for _, d := range result.Errors {
		logging.Error(d.Message, "file", in, "line", d.Line, "node", d.Node)
	}
	if !result.OK() {
		return fmt.Errorf("%s: %d error(s)", in, len(result.Errors))
	}
	return nil
}
