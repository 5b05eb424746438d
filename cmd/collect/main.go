package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ontreportdb/internal/collector"
	"github.com/ontreportdb/internal/config"
	"github.com/ontreportdb/internal/logging"
)

func main() {
	var (
		configPath = flag.String("config", "./config.yaml", "Path to YAML config file")
		outputDir  = flag.String("out", "", "Dump output directory (overrides config)")
		only       = flag.String("only", "", "Collect from this target name only")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outputDir != "" {
		cfg.Collector.OutputDir = *outputDir
	}

	if err := logging.Initialize(&logging.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Console:    cfg.Logging.Console,
		JSON:       cfg.Logging.JSON,
	}); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	targets := buildTargets(cfg, *only)
	if len(targets) == 0 {
		fmt.Fprintln(os.Stderr, "No collector targets configured")
		os.Exit(1)
	}

	// Ctrl-C stops between targets, never mid-write
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := collector.New(cfg.Collector.OutputDir)
	paths := c.CollectAll(ctx, targets)

	fmt.Printf("Collected %d/%d dumps into %s\n", len(paths), len(targets), cfg.Collector.OutputDir)
	if len(paths) < len(targets) {
		os.Exit(1)
	}
}

// buildTargets converts config targets, optionally limited to one name
func buildTargets(cfg *config.Config, only string) []collector.Target {
	var targets []collector.Target
	for _, t := range cfg.Collector.Targets {
		if only != "" && t.Name != only {
			continue
		}
		targets = append(targets, collector.Target{
			Name:     t.Name,
			Address:  t.Address,
			Port:     t.Port,
			Username: t.Username,
			Password: t.Password,
			Ports:    t.Ports,
			Timeout:  cfg.Collector.Timeout,
		})
	}
	return targets
}
