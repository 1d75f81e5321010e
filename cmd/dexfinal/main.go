// Command dexfinal runs the final-static-field inlining and
// constant-propagation pass over a JSON-encoded class bundle fixture.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tangzhangming/dexfinal/internal/classfile"
	"github.com/tangzhangming/dexfinal/internal/config"
	"github.com/tangzhangming/dexfinal/internal/finalinline"
	"github.com/tangzhangming/dexfinal/internal/telemetry"
)

var (
	configPath = flag.String("config", "", "Path to dexfinal.toml (default: none, built-in defaults)")
	disasm     = flag.Bool("disasm", false, "Print disassembly of the transformed bundle")
	initOnly   = flag.Bool("init", false, "Write a commented dexfinal.toml skeleton and exit")
)

func main() {
	flag.Parse()

	if *initOnly {
		if err := config.Default().Save(config.FileName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", config.FileName)
		return
	}

	if flag.NArg() < 1 {
		fmt.Println("dexfinal - final-static-field inlining and constant propagation")
		fmt.Println()
		fmt.Println("Usage: dexfinal [options] <bundle.json>")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  -config string   Path to dexfinal.toml")
		fmt.Println("  -disasm          Print disassembly of the transformed bundle")
		fmt.Println("  -init            Write a commented dexfinal.toml skeleton and exit")
		os.Exit(0)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger, err := telemetry.NewLogger(cfg.Run.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	bundlePath := flag.Arg(0)
	scope, err := loadBundle(bundlePath)
	if err != nil {
		logger.Error("failed to load bundle", zap.Error(err))
		os.Exit(1)
	}

	resolver := classfile.NewTable(scope)
	metrics, err := finalinline.Run(scope, resolver, cfg.ToPassConfig())
	if err != nil {
		logger.Error("final-inline pass failed", zap.Error(err))
		os.Exit(1)
	}
	telemetry.LogMetrics(logger, len(scope), metrics)

	outPath := cfg.Run.OutputPath
	if outPath == "" {
		outPath = bundlePath
	}
	if err := saveBundle(outPath, scope); err != nil {
		logger.Error("failed to write bundle", zap.Error(err))
		os.Exit(1)
	}

	if *disasm {
		for _, class := range scope {
			fmt.Println(class.Disassemble())
		}
	}
}
