// Command fireworks builds, saves and exports the running order of a fireworks show.
//
// Usage:
//
//	fireworks [console] [file]
//	fireworks print <file>
//	fireworks export [-format json|cue] [-name workspace] <file>
//	fireworks push <file>
//
// Configuration is read from the YAML file named by FIREWORKS_CONFIG and from
// FIREWORKS_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/zenibako/fireworks-golang/config"
	"github.com/zenibako/fireworks-golang/console"
	"github.com/zenibako/fireworks-golang/qlab"
	"github.com/zenibako/fireworks-golang/show"
	"github.com/zenibako/fireworks-golang/templates"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		stop()
		exitFunc(exitError)
		return
	}
	log.SetLevel(cfg.Level())

	code := cli(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

func cli(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	command := "console"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") && isCommand(args[0]) {
		command, args = args[0], args[1:]
	}

	var err error
	switch command {
	case "console":
		err = runConsole(ctx, cfg, args, stdout, stderr)
	case "print":
		err = runPrint(args, stdout, stderr)
	case "export":
		err = runExport(args, stdout, stderr)
	case "push":
		err = runPush(ctx, cfg, args, stdout, stderr)
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	default:
		fmt.Fprintf(stderr, "fireworks %s: %v\n", command, err)
		return exitError
	}
}

var errUsage = errors.New("usage")

func isCommand(name string) bool {
	switch name {
	case "console", "print", "export", "push":
		return true
	}
	return false
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// fileArg returns the single positional show file.
func fileArg(fs *flag.FlagSet, stderr io.Writer) (string, error) {
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "usage: fireworks %s [flags] <file>\n", fs.Name())
		fs.PrintDefaults()
		return "", errUsage
	}
	return fs.Arg(0), nil
}

func loadShow(path string, opts ...show.Option) (*show.Show, error) {
	s := show.New(opts...)
	if err := s.LoadShow(path); err != nil {
		return nil, err
	}
	if !s.Ordered() {
		log.Warn("Grand Finale fireworks are not at the end of the show", "path", path)
	}
	return s, nil
}

func runConsole(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("console", stderr)
	accessible := fs.Bool("accessible", os.Getenv("ACCESSIBLE") != "", "use plain line prompts")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "usage: fireworks console [flags] [file]")
		return errUsage
	}

	s := show.New(show.WithSeed(cfg.RandomSeed))
	if fs.NArg() == 1 {
		if err := s.LoadShow(fs.Arg(0)); err != nil {
			return err
		}
	}

	p := &workspacePusher{cfg: cfg}
	defer p.Close()

	c := console.New(s, console.NewFormPrompter(*accessible), stdout,
		console.WithDefaultPath(cfg.ShowPath),
		console.WithPusher(p),
	)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runPrint(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("print", stderr)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	path, err := fileArg(fs, stderr)
	if err != nil {
		return err
	}

	s, err := loadShow(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, console.RenderTable(s.Rows()))
	fmt.Fprintln(stdout, console.RenderTotals(s.Totals()))
	return nil
}

func runExport(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("export", stderr)
	format := fs.String("format", "json", "output format: json or cue")
	name := fs.String("name", "", "workspace name (default: file name)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	path, err := fileArg(fs, stderr)
	if err != nil {
		return err
	}

	s, err := loadShow(path)
	if err != nil {
		return err
	}

	workspaceName := *name
	if workspaceName == "" {
		workspaceName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	switch *format {
	case "json":
		out, err := qlab.ToJSON(workspaceName, s, true)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, out)
	case "cue":
		comment := fmt.Sprintf("Total run time %s", s.Totals().Overall())
		fmt.Fprint(stdout, qlab.WriteCueFile(workspaceName, qlab.CuesFromShow(s), comment))
	default:
		fmt.Fprintf(stderr, "unknown format %q: want json or cue\n", *format)
		return errUsage
	}
	return nil
}

func runPush(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("push", stderr)
	dryRun := fs.Bool("dry-run", cfg.QLabDryRun, "log OSC writes instead of sending them")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	path, err := fileArg(fs, stderr)
	if err != nil {
		return err
	}

	s, err := loadShow(path)
	if err != nil {
		return err
	}

	pushCfg := *cfg
	pushCfg.QLabDryRun = *dryRun
	p := &workspacePusher{cfg: &pushCfg}
	defer p.Close()

	result, err := p.Push(ctx, s)
	for _, e := range result.Errors {
		fmt.Fprintf(stderr, "warning: %s\n", e)
	}
	if err != nil {
		return err
	}
	if pushCfg.QLabDryRun {
		fmt.Fprintf(stdout, "[DRY RUN] Pushed %d cues; nothing was sent to QLab at %s:%d\n", len(result.CuesCreated), cfg.QLabHost, cfg.QLabPort)
		return nil
	}
	fmt.Fprintf(stdout, "Pushed %d cues to QLab at %s:%d\n", len(result.CuesCreated), cfg.QLabHost, cfg.QLabPort)
	return nil
}

// workspacePusher connects to QLab on first use.
type workspacePusher struct {
	cfg       *config.Config
	workspace *qlab.Workspace
}

func (p *workspacePusher) connect() error {
	if p.workspace != nil && p.workspace.IsConnected() {
		return nil
	}

	ws := qlab.NewWorkspace(p.cfg.QLabHost, p.cfg.QLabPort)
	ws.SetDryRun(p.cfg.QLabDryRun)
	ws.SetTimeout(p.cfg.QLabTimeoutSeconds)
	ws.SetMaxRetries(p.cfg.QLabMaxRetries)
	if err := ws.Init(p.cfg.QLabPasscode); err != nil {
		ws.Close()
		return err
	}
	p.workspace = ws
	return nil
}

func (p *workspacePusher) Push(ctx context.Context, s *show.Show) (templates.CueGenerationResult, error) {
	if err := p.connect(); err != nil {
		return templates.CueGenerationResult{}, err
	}
	return qlab.NewExporter(p.workspace).Push(ctx, s)
}

func (p *workspacePusher) Close() {
	if p.workspace != nil {
		p.workspace.Close()
	}
}
