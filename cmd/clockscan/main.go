// Command clockscan is a thin CLI wrapper around the clockfmt scan
// engine: it compiles a format string once and scans one input against
// it, printing the resulting date record.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/clockfmt/clockfmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	format        string
	locale        string
	strict        bool
	extended      bool
	validate      bool
	centurySwitch int32
	verbose       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clockscan <input>",
	Short: "Scan a date/time string against a strftime-like format",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	rootCmd.Flags().StringVar(&format, "format", "%Y-%m-%dT%H:%M:%S", "scan format string")
	rootCmd.Flags().StringVar(&locale, "locale", "", "locale name passed to the word-list catalog")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "require exact whitespace matching")
	rootCmd.Flags().BoolVar(&extended, "extended", false, "don't let %s short-circuit field reconciliation")
	rootCmd.Flags().BoolVar(&validate, "validate", false, "request additional date validation")
	rootCmd.Flags().Int32Var(&centurySwitch, "century-switch", clockfmt.DefaultCenturySwitch, "two-digit-year century switch cutoff")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log scan diagnostics to stderr")
}

func runScan(cmd *cobra.Command, args []string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	h, err := clockfmt.CompileOrGet(format)
	if err != nil {
		return fmt.Errorf("compiling format %q: %w", format, err)
	}
	defer clockfmt.Release(h)

	opts := clockfmt.DefaultOptions()
	opts.Strict = strict
	opts.Extended = extended
	opts.Validate = validate
	if validate {
		opts.PostValidate = clockfmt.CheckDayOfWeek
	}
	opts.Locale = locale
	if centurySwitch != 0 {
		opts.CenturySwitch = centurySwitch
	}

	fields, err := clockfmt.Scan(h, args[0], opts, clockfmt.MondayCatalog{})
	if err != nil {
		if ce, ok := clockfmt.AsClockError(err); ok {
			return fmt.Errorf("%s: %w", ce.Kind, err)
		}
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(fields)
}
