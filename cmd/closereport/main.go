package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"closecli/internal/app"
	"closecli/internal/config"
	"closecli/internal/exporter"
	"closecli/internal/fetcher"
	"closecli/internal/infrastructure"
)

const dateLayout = "2006-01-02"

// cliArgs holds the parsed command line
type cliArgs struct {
	Ticker     string
	AsOf       string
	Output     string
	ConfigFile string
}

func newFlagSet(args *cliArgs) *flag.FlagSet {
	fs := flag.NewFlagSet("closereport", flag.ContinueOnError)
	fs.StringVar(&args.Output, "output", "", "Excel file path (defaults to {ticker}_{as_of}_daily_closes.xlsx)")
	fs.StringVar(&args.ConfigFile, "config", "", "optional YAML config file")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			"Usage: %s [flags] <ticker> <as_of YYYY-MM-DD> [flags]\n\n"+
				"Download daily closing prices for a ticker, list the four-month window\n"+
				"around the reference date, compute the average, and store the results\n"+
				"in an Excel workbook.\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses flags and the two positional arguments. Flags are
// accepted both before and after the positionals, so the synopsis order
// "closereport IEF 2024-03-15 --output foo.xlsx" works.
func parseArgs(argv []string) (*cliArgs, error) {
	args := &cliArgs{}
	fs := newFlagSet(args)

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		fs.Usage()
		return nil, fmt.Errorf("expected <ticker> and <as_of> arguments, got %d", len(rest))
	}
	args.Ticker, args.AsOf = rest[0], rest[1]

	if len(rest) > 2 {
		if err := fs.Parse(rest[2:]); err != nil {
			return nil, err
		}
		if fs.NArg() != 0 {
			fs.Usage()
			return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
		}
	}
	return args, nil
}

func main() {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(args.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := infrastructure.InitializeLogger(cfg.Logging)
	ctx := infrastructure.ContextWithTraceID(context.Background())

	client := fetcher.NewClient(cfg.Provider)
	result, err := app.New(client).Run(ctx, app.Request{
		Ticker: args.Ticker,
		AsOf:   args.AsOf,
		Output: args.Output,
	})
	if err != nil {
		logger.ErrorContext(ctx, "report generation failed", "error", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	printReport(result)
}

// printReport echoes the report to stdout in the fixed console format
func printReport(result *app.Result) {
	report := result.Report

	outputPath := result.OutputPath
	if abs, err := filepath.Abs(outputPath); err == nil {
		outputPath = abs
	}

	fmt.Printf("Ticker: %s\n", report.Ticker)
	fmt.Printf("Reference date: %s\n", report.Reference.Format(dateLayout))
	fmt.Printf("Window: %s to %s\n",
		report.Window.Start.Format(dateLayout), report.Window.End.Format(dateLayout))
	fmt.Printf("Excel output: %s\n", outputPath)

	fmt.Println("\nDaily closing prices:")
	for _, row := range report.Rows {
		fmt.Printf("%s (%s): %s\n",
			row.Date.Format(dateLayout), row.Segment, exporter.FormatClose(row.Close))
	}

	fmt.Printf("\nFour-month average close: %s\n", exporter.FormatClose(report.Average))
}
