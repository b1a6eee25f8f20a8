package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"noise-obliterator/internal/buffer"
	"noise-obliterator/internal/config"
	"noise-obliterator/internal/engine"
	"noise-obliterator/internal/filters"
	"noise-obliterator/internal/imaging"
	"noise-obliterator/internal/logger"
	"noise-obliterator/internal/metrics"
	"noise-obliterator/internal/optimize"
)

var (
	cfg     = config.Default()
	cfgPath string
	verbose bool

	// filter selection flags for the apply command
	filterName   string
	radius       int
	sigma        float64
	spatialSigma float64
	rangeSigma   float64
	searchRadius int
	patchRadius  int
	nlmStrength  float64
	tvLambda     float64
	tvIterations int
	tvStep       float64
	brightness   float64
	contrast     float64
	strength     float64
)

func main() {
	root := &cobra.Command{
		Use:           "noise-obliterator",
		Short:         "Image denoising and enhancement engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath == "" {
				return nil
			}
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			// Flags set on the command line win over the file.
			if !cmd.Flags().Changed("tile-size") {
				cfg.TileSize = loaded.TileSize
			}
			if !cmd.Flags().Changed("workers") {
				cfg.Workers = loaded.Workers
			}
			if !cmd.Flags().Changed("serial") {
				cfg.Parallel = loaded.Parallel
			}
			if !cmd.Flags().Changed("jpeg-quality") {
				cfg.JPEGQuality = loaded.JPEGQuality
			}
			cfg.LogLevel = loaded.LogLevel
			return nil
		},
	}

	var serial bool
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "TOML config file")
	root.PersistentFlags().IntVar(&cfg.TileSize, "tile-size", cfg.TileSize, "tile side length in pixels")
	root.PersistentFlags().IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel workers (0 = one per CPU)")
	root.PersistentFlags().BoolVar(&serial, "serial", false, "process tiles sequentially")
	root.PersistentFlags().IntVar(&cfg.JPEGQuality, "jpeg-quality", cfg.JPEGQuality, "JPEG output quality")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	apply := &cobra.Command{
		Use:   "apply <input> <output>",
		Short: "Apply one filter to an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("serial") {
				cfg.Parallel = !serial
			}
			return runApply(args[0], args[1])
		},
	}
	apply.Flags().StringVarP(&filterName, "filter", "f", "gaussian",
		"mean, gaussian, median, bilateral, nlm, tv, brightness-contrast or sharpen")
	apply.Flags().IntVarP(&radius, "radius", "r", 2, "window radius")
	apply.Flags().Float64Var(&sigma, "sigma", 1.5, "gaussian sigma")
	apply.Flags().Float64Var(&spatialSigma, "spatial-sigma", 2.0, "bilateral spatial sigma")
	apply.Flags().Float64Var(&rangeSigma, "range-sigma", 30.0, "bilateral range sigma")
	apply.Flags().IntVar(&searchRadius, "search-radius", 5, "nlm search window radius")
	apply.Flags().IntVar(&patchRadius, "patch-radius", 2, "nlm patch radius")
	apply.Flags().Float64Var(&nlmStrength, "h", 10.0, "nlm filtering strength")
	apply.Flags().Float64Var(&tvLambda, "lambda", 0.1, "tv regularization weight")
	apply.Flags().IntVar(&tvIterations, "iterations", 30, "tv iteration budget")
	apply.Flags().Float64Var(&tvStep, "step", 0.25, "tv step size")
	apply.Flags().Float64Var(&brightness, "brightness", 0, "brightness offset [-255, 255]")
	apply.Flags().Float64Var(&contrast, "contrast", 1, "contrast factor")
	apply.Flags().Float64Var(&strength, "strength", 1.0, "sharpen strength")

	auto := &cobra.Command{
		Use:   "auto <input> <output>",
		Short: "Search the filter catalog for the best-scoring result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("serial") {
				cfg.Parallel = !serial
			}
			return runAuto(args[0], args[1])
		},
	}

	analyze := &cobra.Command{
		Use:   "analyze <input>",
		Short: "Suggest brightness/contrast adjustments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0])
		},
	}

	root.AddCommand(apply, auto, analyze)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() logger.Logger {
	level := zerolog.InfoLevel
	if verbose || cfg.LogLevel == "debug" {
		level = zerolog.DebugLevel
	} else {
		switch cfg.LogLevel {
		case "warn":
			level = zerolog.WarnLevel
		case "error":
			level = zerolog.ErrorLevel
		}
	}
	return logger.NewConsoleLogger(level)
}

func engineOptions() engine.Options {
	return engine.Options{
		TileSize: cfg.TileSize,
		Parallel: cfg.Parallel,
		Workers:  cfg.Workers,
	}
}

func runApply(inPath, outPath string) error {
	log := newLogger()
	src, format, err := imaging.DecodeFile(inPath)
	if err != nil {
		return err
	}
	log.Debug("cli", "image decoded", map[string]interface{}{
		"path":     inPath,
		"format":   format,
		"size":     fmt.Sprintf("%dx%d", src.Width, src.Height),
		"channels": src.Channels,
	})

	params, err := buildParams()
	if err != nil {
		return err
	}

	scheduler := engine.NewScheduler(log, nil)
	out, elapsed, err := metrics.Measure(func() (*buffer.Buffer, error) {
		return scheduler.Process(context.Background(), src, params, engineOptions())
	})
	if err != nil {
		return err
	}

	if err := imaging.EncodeFile(outPath, out, cfg.JPEGQuality); err != nil {
		return err
	}
	log.Info("cli", "done", map[string]interface{}{
		"filter":     params.String(),
		"output":     outPath,
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return nil
}

func runAuto(inPath, outPath string) error {
	log := newLogger()
	src, _, err := imaging.DecodeFile(inPath)
	if err != nil {
		return err
	}

	scheduler := engine.NewScheduler(log, nil)
	optimizer := optimize.NewOptimizer(scheduler, nil, log, nil)
	result, err := optimizer.Run(context.Background(), src, optimize.DefaultCatalog(), engineOptions())
	if err != nil {
		return err
	}

	if err := imaging.EncodeFile(outPath, result.Output, cfg.JPEGQuality); err != nil {
		return err
	}
	log.Info("cli", "best candidate written", map[string]interface{}{
		"candidate":  result.Candidate.Name,
		"filter":     result.Candidate.Params.String(),
		"score":      result.Score,
		"evaluated":  result.Evaluated,
		"elapsed_ms": result.Elapsed.Milliseconds(),
		"output":     outPath,
	})
	return nil
}

func runAnalyze(inPath string) error {
	src, _, err := imaging.DecodeFile(inPath)
	if err != nil {
		return err
	}
	tone := optimize.AnalyzeTone(src)
	fmt.Printf("mean luminance: %.3f\n", tone.MeanLuminance)
	fmt.Printf("std deviation:  %.3f\n", tone.StdDev)
	fmt.Printf("brightness:     %+.2f (offset %+.1f)\n", tone.Brightness, tone.Offset)
	fmt.Printf("contrast:       %+.2f (factor %.2f)\n", tone.Contrast, tone.Factor)
	return nil
}

func buildParams() (filters.Params, error) {
	switch filterName {
	case "mean":
		return filters.NewMean(radius)
	case "gaussian":
		return filters.NewGaussian(radius, sigma)
	case "median":
		return filters.NewMedian(radius)
	case "bilateral":
		return filters.NewBilateral(radius, spatialSigma, rangeSigma)
	case "nlm":
		return filters.NewNonLocalMeans(searchRadius, patchRadius, nlmStrength)
	case "tv":
		return filters.NewTotalVariation(tvLambda, tvIterations, tvStep)
	case "brightness-contrast":
		return filters.NewBrightnessContrast(brightness, contrast)
	case "sharpen":
		return filters.NewSharpen(radius, strength)
	default:
		return filters.Params{}, fmt.Errorf("unknown filter %q", filterName)
	}
}
