// Command kmeans clusters a point set from a CSV file and prints every iteration.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	kmeans "github.com/yyyoichi/kmeans_trace"
	"github.com/yyyoichi/kmeans_trace/internal/sample"
)

func main() {
	var (
		in       = flag.String("in", "", "CSV file with one point per row; - reads stdin")
		header   = flag.Bool("header", false, "skip the first CSV row")
		generate = flag.Int("generate", 0, "use N uniform random 2-D points instead of -in")
		k        = flag.Int("k", 3, "number of clusters")
		initName = flag.String("init", "kmeans++", "initialization: random, farthest_first, kmeans++")
		maxIter  = flag.Int("max-iter", kmeans.DefaultMaxIterations, "maximum number of iterations")
		seed     = flag.Uint64("seed", 0, "random seed; 0 draws one")
		format   = flag.String("format", "json", "output format: json or binary")
		out      = flag.String("out", "-", "output file; - writes stdout")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	points, err := loadPoints(*in, *header, *generate, *seed)
	if err != nil {
		logger.Fatal("Failed to load points", zap.Error(err))
	}

	opts := []kmeans.Option{
		kmeans.WithClusters(*k),
		kmeans.WithInitializationName(*initName),
		kmeans.WithMaxIterations(*maxIter),
	}
	if *seed != 0 {
		opts = append(opts, kmeans.WithSeed(*seed))
	}
	res, err := kmeans.Run(points, opts...)
	if err != nil {
		logger.Fatal("Failed to run k-means", zap.Error(err))
	}
	last, _ := res.History.Final()
	logger.Info("Fit finished",
		zap.Int("points", len(points)),
		zap.Int("iterations", len(res.History)),
		zap.Stringer("state", res.State),
		zap.Float64("inertia", last.Inertia(points)),
		zap.Uint64("seed", res.Seed),
	)

	w := os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Fatal("Failed to create output", zap.Error(err))
		}
		defer f.Close()
		w = f
	}
	if err := write(w, *format, res.History); err != nil {
		logger.Fatal("Failed to write history", zap.Error(err))
	}
}

func loadPoints(path string, header bool, generate int, seed uint64) ([]kmeans.Point, error) {
	if generate > 0 {
		if seed != 0 {
			return sample.Uniform(generate, 2, sample.NewSource(seed)), nil
		}
		return sample.Uniform(generate, 2, nil), nil
	}
	if path == "" {
		return nil, fmt.Errorf("either -in or -generate is required")
	}
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return readCSV(r, header)
}

func readCSV(r io.Reader, header bool) ([]kmeans.Point, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read csv: %w", err)
	}
	if header && len(rows) > 0 {
		rows = rows[1:]
	}
	points := make([]kmeans.Point, 0, len(rows))
	for i, row := range rows {
		p := make(kmeans.Point, len(row))
		for j, v := range row {
			if p[j], err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
		}
		points = append(points, p)
	}
	return points, nil
}

func write(w io.Writer, format string, history kmeans.History) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]kmeans.History{"history": history})
	case "binary":
		data, err := history.MarshalBinary()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}
