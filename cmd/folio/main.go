// cmd/folio/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"

	"github.com/bethropolis/folio/internal/app"
	"github.com/bethropolis/folio/internal/config"
	"github.com/bethropolis/folio/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// --- Argument & Flag Parsing ---
	flags := &config.Flags{}
	args, err := flags.ParseFlags(nil, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}

	cfg, err := config.LoadConfig(*flags.ConfigFilePath, flags)
	if err != nil {
		stlog.Printf("Warning: %v, using defaults", err)
	}

	// --- Logger Initialization ---
	logCloser, err := logger.Setup(cfg.Logger)
	if err != nil {
		stlog.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	logger.SetDebugFilter(*flags.DebugLog)

	// --- Scripted Mode ---
	if *flags.Script != "" {
		logger.Debugf("Running script with %d keys", len(args))
		if err := app.PrintScript(os.Stdout, app.Options{Config: cfg}, *flags.Script, args); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
			logCloser.Close()
			os.Exit(1)
		}
		return
	}

	// --- Playground ---
	var filePath string
	if len(args) > 0 {
		filePath = args[0]
	}
	if filePath == "" && !*flags.Interactive {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] FILE | -i | -e DOCUMENT KEY...\n", config.AppName)
		flag.PrintDefaults()
		logCloser.Close()
		os.Exit(2)
	}
	logger.Infof("Starting %s %s...", config.AppName, version)
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	}

	folioApp, err := app.NewApp(app.Options{Config: cfg, FilePath: filePath})
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		logCloser.Close()
		os.Exit(1)
	}
	if err := folioApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		logCloser.Close()
		os.Exit(1)
	}
	logger.Infof("%s finished.", config.AppName)
}
