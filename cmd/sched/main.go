package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"sched/internal/config"
	appLog "sched/internal/log"
	"sched/internal/store"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// flagConfig holds global CLI flags; non-empty values override config.
type flagConfig struct {
	configPath string
	file       string
	backend    string
	verbose    bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes one command and returns the process exit code. Every error
// path ends here; nothing below it exits the process.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sched", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs, stderr) }

	var flags flagConfig
	fs.StringVar(&flags.configPath, "config", "", "Path to YAML config file (created with defaults if missing)")
	fs.StringVar(&flags.file, "file", "", "Schedule store path (overrides config)")
	fs.StringVar(&flags.backend, "backend", "", "Store backend: json or sqlite (overrides config)")
	fs.BoolVar(&flags.verbose, "v", false, "Verbose logging to stderr")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	conf, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	level, err := appLog.ParseLevel(conf.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	if flags.verbose {
		level = appLog.LevelDebug
	}
	appLog.SetLevel(level)
	appLog.SetOutput(stderr)

	appLog.Debug("effective config",
		"config_path", flags.configPath,
		"backend", conf.Store.Backend,
		"path", conf.Store.Path,
		"log_level", level,
	)

	cmd, cmdArgs, err := lookupCommand(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		printUsage(fs, stderr)
		return exitUsage
	}
	req, err := cmd.parse(cmdArgs)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		fmt.Fprintf(stderr, "usage: sched %s\n", cmd.usage)
		return exitUsage
	}

	st, err := store.Open(conf.Store)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	defer func() {
		if err := st.Close(); err != nil {
			appLog.Error("close store failed", err, "path", st.Path())
		}
	}()
	appLog.Debug("store opened", "backend", conf.Store.Backend, "path", st.Path())

	if err := req.execute(ctx, st, stdout); err != nil {
		appLog.Debug("command failed", "command", cmd.name, "err", err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}

func loadConfig(flags flagConfig) (*config.Config, error) {
	conf, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	// CLI flags override file and environment.
	if flags.file != "" {
		conf.Store.Path = flags.file
	}
	if flags.backend != "" {
		conf.Store.Backend = flags.backend
		conf.Normalize()
		if err := conf.Validate(); err != nil {
			return nil, err
		}
	}
	return conf, nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "usage: sched [flags] <command> [args]")
	fmt.Fprintln(w, "\ncommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-30s %s\n", c.usage, c.summary)
	}
	fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}
