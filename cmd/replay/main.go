package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/zeusync/polycollide/internal/config"
	"github.com/zeusync/polycollide/internal/injector"
	"github.com/zeusync/polycollide/internal/replay"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config (defaults when empty)")
	scriptPath := flag.String("script", "", "path to the YAML input script")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -script steps.yaml [-config config.yaml]")
		os.Exit(2)
	}

	if err := run(*configPath, *scriptPath); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath, scriptPath string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	script, err := replay.LoadScriptFile(scriptPath)
	if err != nil {
		return err
	}

	sc, err := injector.InitializeScene(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err = sc.Initialize(ctx); err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown(ctx) }()

	changes, err := replay.Play(sc, script)
	for _, c := range changes {
		if len(c.Report) == 0 {
			fmt.Printf("frame %d: no coalitions\n", c.Frame)
			continue
		}
		fmt.Printf("frame %d: %s\n", c.Frame, strings.Join(c.Report, "; "))
	}
	return err
}
