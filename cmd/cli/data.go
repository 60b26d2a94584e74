package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/berrnk/bdz1/pkg/encoder"
	"github.com/berrnk/bdz1/pkg/importer"
	"github.com/berrnk/bdz1/pkg/models"
	"github.com/berrnk/bdz1/pkg/parser"
	"github.com/berrnk/bdz1/pkg/plan"
	"github.com/berrnk/bdz1/pkg/store"
)

func reportCmd() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show balances, category totals and the income/expense difference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, to, err := period(start, end)
			if err != nil {
				return err
			}
			ws.executor.SetOutput(cmd.OutOrStdout())
			ws.executor.Summary(from, to)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Period start (default: first day of the current month)")
	cmd.Flags().StringVar(&end, "end", "", "Period end (default: today)")
	return cmd
}

func period(start, end string) (time.Time, time.Time, error) {
	now := models.Day(time.Now())
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now
	var err error
	if start != "" {
		if from, err = models.ParseDate(start); err != nil {
			return from, to, err
		}
	}
	if end != "" {
		if to, err = models.ParseDate(end); err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <plan_file>",
		Short: "Preview a YAML plan of accounts, categories and operations (dry-run)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plan preview for %s\n", args[0])
			p.Fprint(out)
			fmt.Fprintln(out)
			ws.executor.SetOutput(out)
			_, err = ws.executor.Plan(p)
			return err
		},
	}
}

func applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <plan_file>",
		Short: "Create everything a YAML plan lists that the ledger does not hold yet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}
			report, err := ws.executor.Apply(p)
			if report == nil {
				return err
			}
			if saveErr := ws.save(); saveErr != nil {
				return saveErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied: %d created, %d already present\n", report.MissingCount(), report.ExistingCount())
			return err
		},
	}
}

func exportCmd() *cobra.Command {
	var single string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write accounts, categories and operations files in the configured format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := ws.cfg.DocumentFormat()
			enc, err := encoder.New(format)
			if err != nil {
				return err
			}
			ws.ledger.ExportData(enc)

			if single != "" {
				if err := encoder.WriteFile(enc, single); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %s\n", single)
				return nil
			}
			if err := os.MkdirAll(ws.cfg.DataDir, 0o755); err != nil {
				return err
			}
			a, c, o := ws.cfg.ExportPaths(format)
			if err := encoder.WriteFiles(enc, a, c, o); err != nil {
				return err
			}
			ws.logger.Info("export complete", "format", format, "accounts", a, "categories", c, "operations", o)
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s, %s, %s\n", a, c, o)
			return nil
		},
	}
	cmd.Flags().StringVarP(&single, "output", "o", "", "Write one importable document to this path instead")
	return cmd
}

func importCmd() *cobra.Command {
	var detect bool
	cmd := &cobra.Command{
		Use:   "import <path_or_glob>...",
		Short: "Merge documents into the ledger as written (balances are not recomputed)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var format models.Format
			if !detect {
				format = ws.cfg.DocumentFormat()
			}
			paths, err := expand(args)
			if err != nil {
				return err
			}
			imported := 0
			for _, path := range paths {
				report := ws.importer.ImportFile(path, format)
				fmt.Fprintln(cmd.OutOrStdout(), report)
				if !report.Failed() {
					imported++
				}
			}
			if imported == 0 {
				return nil
			}
			ws.ledger.SyncIdentifiers()
			return ws.save()
		},
	}
	cmd.Flags().BoolVar(&detect, "detect", false, "Detect each file's format from its extension")
	return cmd
}

// expand resolves glob patterns and directories into file paths.
func expand(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files found matching pattern %s", arg)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				out = append(out, m)
				continue
			}
			entries, err := os.ReadDir(m)
			if err != nil {
				return nil, fmt.Errorf("failed to read directory: %w", err)
			}
			for _, e := range entries {
				if !e.IsDir() {
					out = append(out, filepath.Join(m, e.Name()))
				}
			}
		}
	}
	return out, nil
}

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Re-encode a ledger document, formats taken from the file extensions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			to, err := models.DetectFormat(out)
			if err != nil {
				return err
			}
			s := store.New()
			report := importer.New(s, parser.New(ws.logger), ws.logger).ImportFile(in, "")
			if report.Failed() {
				return fmt.Errorf("%s", report)
			}
			enc, err := encoder.New(to)
			if err != nil {
				return err
			}
			for _, a := range s.Accounts() {
				enc.VisitAccount(a)
			}
			for _, c := range s.Categories() {
				enc.VisitCategory(c)
			}
			for _, o := range s.Operations() {
				enc.VisitOperation(o)
			}
			if err := encoder.WriteFile(enc, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted %d objects from %s to %s\n", report.Total(), in, out)
			return nil
		},
	}
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Pretty-print the whole ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := pp.New()
			printer.SetOutput(cmd.OutOrStdout())
			printer.SetColoringEnabled(false)
			for _, a := range ws.ledger.Accounts() {
				if _, err := printer.Println(a.Record()); err != nil {
					return err
				}
			}
			for _, c := range ws.ledger.Categories() {
				if _, err := printer.Println(c.Record()); err != nil {
					return err
				}
			}
			for _, o := range ws.ledger.Operations() {
				if _, err := printer.Println(o.Record()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
