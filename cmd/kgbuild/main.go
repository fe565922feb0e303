// Command kgbuild builds the knowledge-graph artifact from one or more
// IMDb CSV datasets.
//
// Usage:
//
//	kgbuild -out imdb_kg.bin data/IMDb_Dataset.csv data/IMDb_Dataset_2.csv
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/StephenLER/MAP/internal/build"
	"github.com/StephenLER/MAP/pkg/kg"
)

func main() {
	outPath := flag.String("out", "imdb_kg.bin", "Path of the graph artifact to write")
	flag.Parse()

	csvPaths := flag.Args()
	if len(csvPaths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: kgbuild [-out artifact] dataset.csv [dataset2.csv ...]")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	rows, err := build.LoadCSVs(csvPaths)
	if err != nil {
		logger.Error("failed to load datasets", "error", err)
		os.Exit(1)
	}
	logger.Info("datasets loaded", "files", len(csvPaths), "rows", len(rows))

	nodes, edges, summary := build.Build(rows)
	logger.Info("graph assembled",
		"movies", summary.Movies,
		"people", summary.People,
		"genres", summary.Genres,
		"certificates", summary.Certs,
		"edges", summary.Edges,
	)

	store, err := kg.New(nodes, edges)
	if err != nil {
		logger.Error("assembled graph failed validation", "error", err)
		os.Exit(1)
	}

	if err := kg.WriteSnapshot(store, *outPath); err != nil {
		logger.Error("failed to write artifact", "error", err)
		os.Exit(1)
	}
	logger.Info("artifact written", "path", *outPath,
		"nodes", store.NodeCount(), "edges", store.EdgeCount())
}
