package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/simcore/internal/entity"
	"github.com/dshills/simcore/internal/item"
	"github.com/dshills/simcore/internal/rules"
	"github.com/dshills/simcore/internal/scheduler"
	"github.com/dshills/simcore/internal/selftest"
	"github.com/dshills/simcore/internal/snapshot"
	"github.com/dshills/simcore/internal/world"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "test":
		runTest(os.Args[2:])
	case "demo":
		runDemo(os.Args[2:])
	case "gen":
		runGen(os.Args[2:])
	case "-version", "--version":
		fmt.Printf("simcore version %s\n", version)
	case "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown subcommand %q\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`simcore: deterministic tick-driven simulation core test harness

Usage:
  simcore test [-run pattern]
  simcore demo -manifest <path> -rules <path> -items <path> -ticks <n> [-seed <uint32>] [-debug-svg <dir>]
  simcore gen -items <items.yaml> -rules <rules.yaml> -out <dir>
  simcore -version
  simcore -help`)
}

func runTest(args []string) {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	runPattern := fs.String("run", "", "substring filter over check names")
	fs.Parse(args)

	results := selftest.Run()
	if *runPattern != "" {
		filtered := results[:0]
		for _, r := range results {
			if containsSubstring(r.Name, *runPattern) {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	report, failures := selftest.Summarize(results)
	fmt.Print(report)
	if failures > 0 {
		fmt.Printf("%d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Printf("%d check(s) passed\n", len(results))
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func runDemo(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	manifestPath := fs.String("manifest", "", "path to world manifest YAML (required)")
	rulesPath := fs.String("rules", "", "path to rule table YAML")
	itemsPath := fs.String("items", "", "path to item definition table YAML")
	ticks := fs.Uint64("ticks", 10, "number of ticks to run")
	seed := fs.Uint("seed", 1, "world seed")
	debugSVGDir := fs.String("debug-svg", "", "directory to write one SVG snapshot per tick (optional)")
	fs.Parse(args)

	if *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -manifest flag is required")
		os.Exit(1)
	}

	if err := demo(*manifestPath, *rulesPath, *itemsPath, *ticks, uint32(*seed), *debugSVGDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func demo(manifestPath, rulesPath, itemsPath string, ticks uint64, seed uint32, debugSVGDir string) error {
	w, err := world.LoadManifestFile(manifestPath, seed)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}

	if rulesPath != "" {
		defs, err := rules.LoadRulesFile(rulesPath)
		if err != nil {
			return fmt.Errorf("loading rules: %w", err)
		}
		for _, d := range defs {
			if err := w.Rules.Add(d); err != nil {
				return fmt.Errorf("adding rule %d: %w", d.RuleID, err)
			}
		}
	}

	if itemsPath != "" {
		defs, err := item.LoadDefinitionsFile(itemsPath)
		if err != nil {
			return fmt.Errorf("loading items: %w", err)
		}
		for _, d := range defs {
			if err := w.Items.Add(d); err != nil {
				return fmt.Errorf("adding item %d: %w", d.DefID, err)
			}
		}
	}

	if debugSVGDir != "" {
		if err := os.MkdirAll(debugSVGDir, 0o755); err != nil {
			return fmt.Errorf("creating debug-svg directory: %w", err)
		}
	}

	sched := scheduler.New()
	allEntities := entitiesWithAnyComponent(w)

	for tick := uint64(0); tick < ticks; tick++ {
		sched.RunFixedTicks(w, 1)
		fmt.Printf("tick %d: applied=%d rejected=%d dropped=%d\n", tick, w.Cmds.Applied(), w.Cmds.Rejected(), w.Cmds.Dropped())

		if debugSVGDir != "" {
			snap := snapshot.Build(w, allEntities)
			path := filepath.Join(debugSVGDir, fmt.Sprintf("tick-%05d.svg", tick))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("writing debug SVG: %w", err)
			}
			snapshot.DumpSVG(f, snap)
			f.Close()
		}
	}
	return nil
}

// entitiesWithAnyComponent returns every allocated entity id, for the
// demo's debug snapshot, which errs toward showing too much rather than
// requiring the caller to know which ids are "visible."
func entitiesWithAnyComponent(w *world.World) []entity.ID {
	n := w.Allocator.Count()
	ids := make([]entity.ID, n)
	for i := range ids {
		ids[i] = entity.ID(i)
	}
	return ids
}

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	itemsPath := fs.String("items", "", "path to item definition table YAML")
	rulesPath := fs.String("rules", "", "path to rule table YAML")
	outDir := fs.String("out", ".", "output directory (created if missing; no files are written to it)")
	fs.Parse(args)

	if *itemsPath == "" && *rulesPath == "" {
		fmt.Fprintln(os.Stderr, "Error: at least one of -items or -rules is required")
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating output directory: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	if *itemsPath != "" {
		defs, err := item.LoadDefinitionsFile(*itemsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("compiled %d item definitions from %s\n", len(defs), *itemsPath)
	}
	if *rulesPath != "" {
		defs, err := rules.LoadRulesFile(*rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("compiled %d rules from %s\n", len(defs), *rulesPath)
	}
	fmt.Printf("done in %s\n", time.Since(start))
}

