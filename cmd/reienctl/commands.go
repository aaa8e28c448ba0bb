package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"reien/config"
	"reien/database"
	"reien/entities"
	"reien/pkg/inventory"
	"reien/pkg/inventory/remote"
	"reien/pkg/inventory/repository"
	"reien/pkg/inventory/repositoryImp"
	svc "reien/pkg/inventory/service"
	"reien/pkg/inventory/serviceImp"
	"reien/pkg/logging"
)

type options struct {
	source  string
	dbPath  string
	format  string
	verbose bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	cfg := config.Load()
	opts := &options{}

	root := &cobra.Command{
		Use:          "reienctl",
		Short:        "Plot inventory reports for the cemetery office",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := renderers[opts.format]; !ok {
				return fmt.Errorf("--format must be table, json or yaml (got %q)", opts.format)
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.source, "source", cfg.InventorySource, "inventory source: static, db or remote")
	pf.StringVar(&opts.dbPath, "db", cfg.DBPath, "snapshot database path")
	pf.StringVar(&opts.format, "format", "table", "output format: table, json or yaml")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log service activity to stderr")

	open := func(cmd *cobra.Command) (svc.InventoryService, func(), error) {
		return openService(cmd, cfg, opts)
	}

	root.AddCommand(
		summaryCmd(open, opts),
		periodsCmd(open, opts),
		areasCmd(open, opts),
		groupsCmd(open, opts),
		discrepanciesCmd(open, opts),
		exportCmd(open),
		importCmd(open, opts),
		seedCmd(open, opts),
	)
	return root
}

type opener func(cmd *cobra.Command) (svc.InventoryService, func(), error)

func openService(cmd *cobra.Command, cfg config.AppConfig, opts *options) (svc.InventoryService, func(), error) {
	level := "error"
	if opts.verbose {
		level = "debug"
	}
	log := logging.NewWithWriter(cmd.ErrOrStderr(), level, cfg.LogFormat)
	closeFn := func() {}

	var repo repository.InventoryRepository
	var src inventory.Source
	switch opts.source {
	case svc.ModeStatic:
	case svc.ModeDB:
		db, err := database.OpenSQLite(opts.dbPath)
		if err != nil {
			return nil, nil, err
		}
		closeFn = func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		repo = repositoryImp.New(db)
	case svc.ModeRemote:
		if cfg.APIURL == "" {
			return nil, nil, fmt.Errorf("remote source requires INVENTORY_API_URL")
		}
		src = remote.New(cfg.APIURL, cfg.APIKey, cfg.APITimeout)
	default:
		return nil, nil, fmt.Errorf("--source must be static, db or remote (got %q)", opts.source)
	}
	return serviceImp.New(opts.source, repo, src, log), closeFn, nil
}

func snapshot(cmd *cobra.Command, open opener) (*inventory.Dataset, error) {
	s, closeFn, err := open(cmd)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return s.Snapshot(cmd.Context())
}

func summaryCmd(open opener, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Grand totals and per-period usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := snapshot(cmd, open)
			if err != nil {
				return err
			}
			sum := ds.InventorySummary()
			if opts.format != "table" {
				return render(cmd.OutOrStdout(), opts.format, struct {
					inventory.InventorySummary `yaml:",inline"`
					Periods                    []inventory.PeriodSummary `json:"periods" yaml:"periods"`
				}{sum, ds.AllPeriodSummaries()}, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", titleStyle.Render("区画在庫 "+sum.LastUpdated))
			rows := periodRows(ds.AllPeriodSummaries())
			rows = append(rows, []string{"合計", itoa(sum.TotalCount), itoa(sum.UsedCount), itoa(sum.RemainingCount), pct(sum.UsageRate)})
			return renderTable(cmd.OutOrStdout(), []string{"期", "総数", "使用数", "残数", "使用率"}, rows)
		},
	}
}

func periodsCmd(open opener, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "Usage per period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := snapshot(cmd, open)
			if err != nil {
				return err
			}
			ps := ds.AllPeriodSummaries()
			return render(cmd.OutOrStdout(), opts.format, ps, &tableView{
				headers: []string{"期", "総数", "使用数", "残数", "使用率"},
				rows:    periodRows(ps),
			})
		},
	}
}

func areasCmd(open opener, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "areas [period]",
		Short: "Area totals per period, or the area rows of one period",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := snapshot(cmd, open)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				p, ok := entities.ParsePeriod(args[0])
				if !ok {
					return fmt.Errorf("unknown period %q", args[0])
				}
				items := ds.PlotsByAreaForPeriod(p)
				rows := make([][]string, 0, len(items))
				for _, it := range items {
					rows = append(rows, []string{sqm(it.AreaSqm), it.PlotType, itoa(it.TotalCount), itoa(it.UsedCount), itoa(it.RemainingCount), sqm(it.RemainingAreaSqm)})
				}
				return render(cmd.OutOrStdout(), opts.format, items, &tableView{
					headers: []string{"面積(㎡)", "種別", "総数", "使用数", "残数", "残面積(㎡)"},
					rows:    rows,
				})
			}
			ps := ds.AllPeriodAreaSummaries()
			rows := make([][]string, 0, len(ps)+1)
			for _, s := range ps {
				rows = append(rows, []string{string(s.Period), itoa(s.TotalCount), itoa(s.RemainingCount), pct(s.UsageRate), sqm(s.TotalAreaSqm), sqm(s.RemainingAreaSqm)})
			}
			t := ds.TotalAreaSummary()
			rows = append(rows, []string{"合計", itoa(t.TotalCount), itoa(t.RemainingCount), pct(t.UsageRate), sqm(t.TotalAreaSqm), sqm(t.RemainingAreaSqm)})
			return render(cmd.OutOrStdout(), opts.format, ps, &tableView{
				headers: []string{"期", "総数", "残数", "使用率", "総面積(㎡)", "残面積(㎡)"},
				rows:    rows,
			})
		},
	}
}

func groupsCmd(open opener, opts *options) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Inventory grouped by plot area or plot type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if by != "area" && by != "type" {
				return fmt.Errorf("--by must be area or type (got %q)", by)
			}
			ds, err := snapshot(cmd, open)
			if err != nil {
				return err
			}
			if by == "type" {
				gs := ds.GroupedByType()
				rows := make([][]string, 0, len(gs))
				for _, g := range gs {
					rows = append(rows, []string{g.PlotType, itoa(g.TotalCount), itoa(g.UsedCount), itoa(g.RemainingCount), sqm(g.RemainingAreaSqm)})
				}
				return render(cmd.OutOrStdout(), opts.format, gs, &tableView{
					headers: []string{"種別", "総数", "使用数", "残数", "残面積(㎡)"},
					rows:    rows,
				})
			}
			gs := ds.GroupedByArea()
			rows := make([][]string, 0, len(gs))
			for _, g := range gs {
				rows = append(rows, []string{sqm(g.AreaSqm), itoa(g.TotalCount), itoa(g.UsedCount), itoa(g.RemainingCount), sqm(g.RemainingAreaSqm)})
			}
			return render(cmd.OutOrStdout(), opts.format, gs, &tableView{
				headers: []string{"面積(㎡)", "総数", "使用数", "残数", "残面積(㎡)"},
				rows:    rows,
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "area", "group key: area or type")
	return cmd
}

func discrepanciesCmd(open opener, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "discrepancies",
		Short: "Ledger rows whose counts or areas do not add up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := snapshot(cmd, open)
			if err != nil {
				return err
			}
			ds2 := ds.Discrepancies()
			rows := make([][]string, 0, len(ds2))
			for _, d := range ds2 {
				where := d.Section
				if where == "" {
					where = sqm(d.AreaSqm) + "㎡ " + d.PlotType
				}
				rows = append(rows, []string{d.Kind, string(d.Period), where, d.Expected, d.Actual})
			}
			return render(cmd.OutOrStdout(), opts.format, ds2, &tableView{
				headers: []string{"種類", "期", "区画", "期待値", "実際"},
				rows:    rows,
			})
		},
	}
}

func exportCmd(open opener) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the inventory workbook (.xlsx)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := s.Export(cmd.Context(), f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", okStyle.Render("✓"), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "out", "o", "plot-inventory.xlsx", "output file")
	return cmd
}

func importCmd(open opener, opts *options) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the stored snapshot with a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("-f is required")
			}
			s, closeFn, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := s.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.format, "imported", res)
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "workbook to import")
	return cmd
}

func seedCmd(open opener, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store the built-in tables as the current snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := s.Seed(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.format, "seeded", res)
		},
	}
}

func printResult(w io.Writer, format, verb string, res *svc.ImportResult) error {
	if format != "table" {
		return render(w, format, res, nil)
	}
	fmt.Fprintf(w, "%s %s %d plots, %d area rows (%s)\n", okStyle.Render("✓"), verb, res.Plots, res.PlotsByArea, res.LastUpdated)
	for _, d := range res.Discrepancies {
		fmt.Fprintf(w, "%s %s\n", warnStyle.Render("⚠"), d.String())
	}
	return nil
}

func periodRows(ps []inventory.PeriodSummary) [][]string {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{string(p.Period), itoa(p.TotalCount), itoa(p.UsedCount), itoa(p.RemainingCount), pct(p.UsageRate)})
	}
	return rows
}

func itoa(n int) string { return strconv.Itoa(n) }

func pct(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) + "%" }

func sqm(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
