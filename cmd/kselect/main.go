// Command kselect reads a CSV of numeric observations, optionally
// standardizes it, and selects a cluster count over a candidate range by
// mean silhouette width.
//
//	kselect -input data.csv -kmin 2 -kmax 8 -scale
//	kselect -config kselect.yaml
//
// Per-candidate scores and the selected partition summary are logged;
// with -out, the winning labels are written one per row next to the
// input rows.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/dfreeman/cluster"
)

type options struct {
	Input     string  `yaml:"input"`
	Output    string  `yaml:"output"`
	KMin      int     `yaml:"k_min"`
	KMax      int     `yaml:"k_max"`
	Metric    string  `yaml:"metric"`
	Minkowski float64 `yaml:"minkowski_p"`
	Seeding   string  `yaml:"seeding"`
	Seed      int64   `yaml:"seed"`
	MaxIter   int     `yaml:"max_iterations"`
	Workers   int     `yaml:"workers"`
	Scale     bool    `yaml:"scale"`
	Header    bool    `yaml:"header"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	opts := options{KMin: 2, KMax: 8, Metric: "euclidean", Seeding: string(cluster.SeedFarthestFirst)}
	configPath := flag.String("config", "", "YAML config file; explicit flags override its values")
	flag.StringVar(&opts.Input, "input", opts.Input, "input CSV of numeric rows")
	flag.StringVar(&opts.Output, "out", opts.Output, "optional output CSV of cluster labels")
	flag.IntVar(&opts.KMin, "kmin", opts.KMin, "smallest candidate cluster count")
	flag.IntVar(&opts.KMax, "kmax", opts.KMax, "largest candidate cluster count")
	flag.StringVar(&opts.Metric, "metric", opts.Metric, "distance metric: euclidean, manhattan, chebyshev, cosine, minkowski")
	flag.Float64Var(&opts.Minkowski, "p", 3, "Minkowski order, used with -metric minkowski")
	flag.StringVar(&opts.Seeding, "seeding", opts.Seeding, "medoid seeding: farthest_first or random")
	flag.Int64Var(&opts.Seed, "seed", 0, "random seed for reproducible runs")
	flag.IntVar(&opts.MaxIter, "max-iter", 0, "per-candidate iteration bound (0 = default)")
	flag.IntVar(&opts.Workers, "workers", 0, "concurrent candidate evaluations (0 = all CPUs)")
	flag.BoolVar(&opts.Scale, "scale", false, "standardize features before clustering")
	flag.BoolVar(&opts.Header, "header", false, "skip the first CSV row")
	flag.Parse()

	if *configPath != "" {
		if err := loadConfig(*configPath, &opts); err != nil {
			log.Fatal().Err(err).Str("config", *configPath).Msg("failed to load config")
		}
	}
	if opts.Input == "" {
		log.Fatal().Msg("no input file; pass -input or set input in the config")
	}

	data, err := readCSV(opts.Input, opts.Header)
	if err != nil {
		log.Fatal().Err(err).Str("input", opts.Input).Msg("failed to read dataset")
	}
	log.Info().Int("rows", len(data)).Str("input", opts.Input).Msg("dataset loaded")

	if opts.Scale {
		data, _, _ = cluster.Standardize(data)
		log.Info().Msg("features standardized")
	}

	metric, err := metricByName(opts.Metric, opts.Minkowski)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid metric")
	}

	cfg := cluster.DefaultKSelectConfig()
	cfg.KMin = opts.KMin
	cfg.KMax = opts.KMax
	cfg.Metric = metric
	cfg.Seeding = cluster.Seeding(opts.Seeding)
	cfg.Seed = opts.Seed
	cfg.Workers = opts.Workers
	if opts.MaxIter > 0 {
		cfg.MaxIterations = opts.MaxIter
	}

	sel, err := cluster.SelectK(data, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("selection failed")
	}

	for _, cs := range sel.Scores {
		log.Info().Int("k", cs.K).Float64("silhouette", cs.Score).Msg("candidate evaluated")
	}
	evt := log.Info().
		Int("k", sel.K).
		Float64("silhouette", sel.Score).
		Ints("medoids", sel.Medoids)
	if !sel.Converged {
		evt = evt.Bool("converged", false)
	}
	evt.Msg("cluster count selected")
	if !sel.Converged {
		log.Warn().Msg("winning partition did not converge; consider a different seed or a larger -max-iter")
	}

	if opts.Output != "" {
		if err := writeLabels(opts.Output, sel.Labels); err != nil {
			log.Fatal().Err(err).Str("out", opts.Output).Msg("failed to write labels")
		}
		log.Info().Str("out", opts.Output).Msg("labels written")
	}
}

func loadConfig(path string, opts *options) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fileOpts := *opts
	if err := yaml.Unmarshal(raw, &fileOpts); err != nil {
		return err
	}
	// Flags passed explicitly on the command line win over the file.
	merged := fileOpts
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			merged.Input = opts.Input
		case "out":
			merged.Output = opts.Output
		case "kmin":
			merged.KMin = opts.KMin
		case "kmax":
			merged.KMax = opts.KMax
		case "metric":
			merged.Metric = opts.Metric
		case "p":
			merged.Minkowski = opts.Minkowski
		case "seeding":
			merged.Seeding = opts.Seeding
		case "seed":
			merged.Seed = opts.Seed
		case "max-iter":
			merged.MaxIter = opts.MaxIter
		case "workers":
			merged.Workers = opts.Workers
		case "scale":
			merged.Scale = opts.Scale
		case "header":
			merged.Header = opts.Header
		}
	})
	*opts = merged
	return nil
}

func metricByName(name string, p float64) (cluster.Metric, error) {
	switch name {
	case "euclidean", "":
		return cluster.Euclidean{}, nil
	case "manhattan":
		return cluster.Manhattan{}, nil
	case "chebyshev":
		return cluster.Chebyshev{}, nil
	case "cosine":
		return cluster.Cosine{}, nil
	case "minkowski":
		return cluster.Minkowski{P: p}, nil
	}
	return nil, fmt.Errorf("unknown metric %q", name)
}

func readCSV(path string, skipHeader bool) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if skipHeader && len(records) > 0 {
		records = records[1:]
	}

	data := make([][]float64, 0, len(records))
	for i, rec := range records {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
			row[j] = v
		}
		data = append(data, row)
	}
	return data, nil
}

func writeLabels(path string, labels []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, label := range labels {
		if err := w.Write([]string{strconv.Itoa(label)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
