// Command catalogcheck validates event packs against the item and
// placeholder rules and reports anything the engine would skip.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize/english"

	"github.com/talgya/tribute-arena/internal/catalog"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: catalogcheck [pack.yaml ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	for _, path := range flag.Args() {
		p, err := catalog.LoadPack(path)
		if err != nil {
			slog.Error("pack rejected", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("pack parsed", "path", path, "events", p.Count())
	}

	cat, err := catalog.Load(flag.Args()...)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	findings := catalog.Lint(cat)
	for _, f := range findings {
		fmt.Println(f)
	}
	if len(findings) > 0 {
		fmt.Printf("%s\n", english.Plural(len(findings), "problem", ""))
		os.Exit(1)
	}
	fmt.Println("catalog is clean")
}
