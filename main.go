package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samuli/diskscope/internal/core"
	"github.com/samuli/diskscope/internal/model"
	"github.com/samuli/diskscope/internal/scanner"
	"github.com/samuli/diskscope/internal/ui"
)

var version = "dev"

func main() {
	depth := flag.Int("depth", scanner.DefaultDepth, "directory depth to expand")
	comprehensive := flag.Bool("comprehensive", false, "compute exact sizes instead of estimating")
	hidden := flag.Bool("hidden", false, "include hidden (dot-prefixed) entries")
	jsonOut := flag.Bool("json", false, "scan and print the tree as JSON instead of starting the UI")
	volumes := flag.Bool("volumes", false, "print mounted volumes as JSON and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("diskscope", version)
		return
	}

	opts := scanner.Options{
		FastMode:   !*comprehensive,
		SkipHidden: !*hidden,
	}

	if *volumes {
		if err := printVolumes(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	path := flag.Arg(0)

	if *jsonOut {
		if path == "" {
			path = "."
		}
		if err := scanToJSON(path, *depth, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctrl := core.NewController()
	defer ctrl.Stop()

	p := tea.NewProgram(
		ui.NewApp(ctrl, ui.Config{
			Path:    path,
			Depth:   *depth,
			Options: opts,
			Version: version,
		}),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printVolumes writes the volume list to stdout as JSON.
func printVolumes() error {
	vols, err := model.ListVolumes()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(vols)
}

// scanToJSON runs a headless scan, reporting progress on stderr and writing
// the resulting tree to stdout.
func scanToJSON(path string, depth int, opts scanner.Options) error {
	ctrl := core.NewController()
	defer ctrl.Stop()

	events := ctrl.Bus().Subscribe(scanner.ProgressChannel)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			p, ok := event.Payload.(scanner.Progress)
			if !ok {
				continue
			}
			fmt.Fprintf(os.Stderr, "\r%5.1f%% (%d/%d) ", p.Percent, p.ProcessedItems, p.TotalItems)
			if p.ProcessedItems >= p.TotalItems && p.TotalItems > 0 {
				return
			}
		}
	}()

	root, err := ctrl.ScanDirectory(context.Background(), path, depth, opts)
	if err != nil {
		return err
	}
	<-done
	fmt.Fprintln(os.Stderr)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}
