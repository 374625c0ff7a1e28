package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/trajectory-dev/trajectory/internal/config"
	"github.com/trajectory-dev/trajectory/internal/entities"
	"github.com/trajectory-dev/trajectory/internal/importer"
	"github.com/trajectory-dev/trajectory/internal/logger"
	"github.com/trajectory-dev/trajectory/internal/model"
	"github.com/trajectory-dev/trajectory/internal/timeseries"
)

type chartOptions struct {
	metric       string
	entitySpecs  []string
	format       string
	entitiesPath string
	logLevel     string
	quiet        bool
}

func newChartCommand() *cobra.Command {
	var opts chartOptions

	cmd := &cobra.Command{
		Use:   "chart [files or directories...]",
		Short: "Build a multi-entity timeseries from filing exports",
		Long: `Build a multi-entity timeseries from filing exports.

Entities are given as kind:id (committee:C00401224) or as a bare id that the
entity catalog or the loaded filings identify unambiguously. Without --entity
every entity present in the filings is charted. Without file arguments the
project's filings directory is read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			return runChart(cmd, cfgPath, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.metric, "metric", "m", "", "receipts, disbursements or cashEnding (default from config)")
	cmd.Flags().StringArrayVarP(&opts.entitySpecs, "entity", "e", nil, "entity to chart, repeatable")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "output format: json or table")
	cmd.Flags().StringVar(&opts.entitiesPath, "entities", "", "entity catalog CSV (default from config)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (default from config)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress log output")

	return cmd
}

func runChart(cmd *cobra.Command, cfgPath string, paths []string, opts chartOptions) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if opts.metric != "" {
		cfg.Chart.Metric = opts.metric
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var render renderer
	switch opts.format {
	case "json":
		render = writeJSON
	case "table":
		render = writeTable
	default:
		return fmt.Errorf("unknown format %q: want json or table", opts.format)
	}

	log := logger.Discard()
	if !opts.quiet {
		log = logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	}

	if len(paths) == 0 {
		paths = []string{projectPath(cfgPath, cfg.Data.Filings)}
	}
	res, err := importer.DefaultRegistry().Load(paths)
	if err != nil {
		return err
	}
	log.Info("loaded filings", "files", res.Files, "records", len(res.Records), "skipped", res.Skipped)

	catalog, err := loadCatalog(cfgPath, cfg, opts.entitiesPath, log)
	if err != nil {
		return err
	}

	refs, err := selectEntities(opts.entitySpecs, catalog, res.Records)
	if err != nil {
		return err
	}

	metric := cfg.Metric()
	series := timeseries.NewBuilder(cfg.TimeseriesOptions()).Build(res.Records, refs, metric)
	logStats(log, series.Stats)

	return render(cmd.OutOrStdout(), chartView{
		Metric:   metric,
		Entities: refs,
		Catalog:  catalog,
		Series:   series,
	})
}

// loadCatalog reads the entity catalog. An explicit path must exist; the
// configured default is optional.
func loadCatalog(cfgPath string, cfg *config.Config, explicit string, log *slog.Logger) (*entities.Service, error) {
	if explicit != "" {
		return entities.Load(explicit)
	}
	path := projectPath(cfgPath, cfg.Data.Entities)
	if path == "" || !exists(path) {
		log.Debug("no entity catalog", "path", path)
		return entities.NewService(nil), nil
	}
	return entities.Load(path)
}

func logStats(log *slog.Logger, s model.Stats) {
	log.Info("built series",
		"input", s.Input,
		"unselected", s.Unselected,
		"duplicates", s.Duplicates,
		"trimmed", s.Trimmed,
	)
	if s.Unkeyed > 0 || s.Unresolvable > 0 {
		log.Warn("dropped filings without a usable period",
			"unkeyed", s.Unkeyed,
			"unresolvable", s.Unresolvable,
		)
	}
}
