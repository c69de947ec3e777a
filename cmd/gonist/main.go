package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gonist/adapters/postgres"
	"gonist/adapters/report"
	"gonist/adapters/sp800"
	"gonist/app"
	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/internal"
	"gonist/internal/cache"
	"gonist/internal/config"
)

func main() {
	// Missing .env is fine, environment variables still apply
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gonist",
		Short: "SP800-22 randomness test battery",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newTestsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var asBits bool
	var asJSON bool
	var excelFile string
	var testNames []string
	var significance float64
	var skipCache bool
	var failFast bool
	var persist bool

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run the battery against a binary sequence",
		Long: `Run the battery against a binary sequence read from a file, or from
stdin when no file is given. Input is raw bytes unpacked most significant
bit first; with --bits the input is ASCII '0'/'1' characters instead.

Example: gonist run sample.bin --excel results.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if significance != 0 {
				cfg.Battery.Significance = significance
			}
			if len(testNames) > 0 {
				cfg.Battery.Tests = testNames
			}
			if skipCache {
				cfg.Battery.SkipCache = true
			}
			if excelFile != "" {
				cfg.Report.ExcelFile = excelFile
			}

			seq, err := readSequence(args, asBits)
			if err != nil {
				return err
			}
			return runBattery(cmd.Context(), cfg, seq, asJSON, failFast, persist)
		},
	}

	cmd.Flags().BoolVar(&asBits, "bits", false, "Read input as ASCII '0'/'1' characters")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().StringVar(&excelFile, "excel", "", "Export the report to an xlsx file")
	cmd.Flags().StringSliceVar(&testNames, "tests", nil, "Run only the named tests (comma separated)")
	cmd.Flags().Float64Var(&significance, "significance", 0, "Score cutoff, defaults to 0.01")
	cmd.Flags().BoolVar(&skipCache, "no-cache", false, "Force re-evaluation of cached results")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failing test")
	cmd.Flags().BoolVar(&persist, "save", false, "Persist results to the database ledger")

	return cmd
}

func newTestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tests",
		Short: "List the battery tests in execution order",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, test := range sp800.Battery(cache.New()) {
				fmt.Printf("%-36s min %8d bits  %s\n", test.Name(), test.MinimumLength(), test.Description())
			}
			return nil
		},
	}
}

func readSequence(args []string, asBits bool) (*bitstream.Sequence, error) {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
	} else {
		data, err = readStdin()
		if err != nil {
			return nil, err
		}
	}

	if asBits {
		return parseASCIIBits(data)
	}
	return bitstream.NewFromBytes(data)
}

func readStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err == nil && stat.Mode()&os.ModeCharDevice != 0 {
		return nil, fmt.Errorf("no input file given and stdin is a terminal")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}

func parseASCIIBits(data []byte) (*bitstream.Sequence, error) {
	bits := make([]uint8, 0, len(data))
	for _, c := range data {
		switch c {
		case '0':
			bits = append(bits, 0)
		case '1':
			bits = append(bits, 1)
		case ' ', '\t', '\n', '\r', ',':
			// separators allowed between digits
		default:
			return nil, fmt.Errorf("unexpected character %q in bit input", c)
		}
	}
	return bitstream.New(bits)
}

func runBattery(ctx context.Context, cfg *config.Config, seq *bitstream.Sequence, asJSON, failFast, persist bool) error {
	logger := internal.DefaultLogger
	store := cache.New()

	tests := sp800.Battery(store)
	if len(cfg.Battery.Tests) > 0 {
		tests = sp800.Subset(tests, cfg.Battery.Tests...)
		if len(tests) == 0 {
			return fmt.Errorf("no battery test matches %s", strings.Join(cfg.Battery.Tests, ", "))
		}
	}

	runner := app.NewRunner(store)
	rep, err := runner.Run(ctx, seq, tests, app.Options{
		Significance:  cfg.Battery.Significance,
		SkipCache:     cfg.Battery.SkipCache,
		StopOnFailure: failFast,
	})
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(rep); err != nil {
			return err
		}
	} else {
		printReport(rep)
	}

	if cfg.Report.ExcelFile != "" {
		if err := report.NewExcelWriter(cfg.Report.ExcelFile).Write(rep); err != nil {
			return err
		}
		logger.Info("report exported to %s", cfg.Report.ExcelFile)
	}

	if persist {
		if !cfg.Database.Enabled {
			return fmt.Errorf("--save requires DATABASE_URL")
		}
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := postgres.NewRunRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := repo.SaveRun(ctx, rep.RunID, rep.SequenceFingerprint, rep.Results); err != nil {
			return err
		}
		logger.Info("run %s persisted", rep.RunID)
	}

	if rep.Summary.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

func printReport(rep *app.RunReport) {
	fmt.Printf("run %s  (%d bits, significance %g)\n\n", rep.RunID, rep.SequenceLength, rep.Significance)
	for _, result := range rep.Results {
		switch result.Status {
		case battery.StatusIneligible:
			fmt.Printf("  %-36s %-10s %s\n", result.Name, result.Status, result.Reason)
		default:
			marker := ""
			if result.CacheHit {
				marker = " (cached)"
			}
			fmt.Printf("  %-36s %-10s score %.6f%s\n", result.Name, result.Status, result.Score(), marker)
		}
	}
	fmt.Printf("\n%d/%d eligible tests passed (%.1f%%), mean score %.6f, in %s\n",
		rep.Summary.Passed, rep.Summary.Eligible, rep.Summary.PassRate*100,
		rep.Summary.MeanScore, rep.Elapsed)
}
