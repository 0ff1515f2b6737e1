package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/j-veylop/capacity-dashboard-tui/internal/config"
	"github.com/j-veylop/capacity-dashboard-tui/internal/dataset"
	"github.com/j-veylop/capacity-dashboard-tui/internal/filter"
	"github.com/j-veylop/capacity-dashboard-tui/internal/logger"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

// filterFlags are the selection flags shared by summary and export.
type filterFlags struct {
	providers []string
	sites     []string
	hours     string
	metric    string
	mode      string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&f.providers, "provider", "p", nil, "provider codes (default all)")
	fs.StringSliceVarP(&f.sites, "site", "s", nil, "site codes (default all)")
	fs.StringVar(&f.hours, "hours", "0-23", "inclusive hour range, e.g. 6-18")
	fs.StringVarP(&f.metric, "metric", "m", string(models.MetricTPHMedian), "tph_median, count_sum or avg_first_resp_delay_minute")
	fs.StringVar(&f.mode, "mode", models.ModeCustom.Slug(), "provider_focus, site_focus or custom")
}

// selection turns the flags into a Selection for ds. A code list left
// empty means every code in ds, except for the list the mode implies.
func (f *filterFlags) selection(ds *models.Dataset) (models.Selection, error) {
	mode, err := models.ParseFilterMode(f.mode)
	if err != nil {
		return models.Selection{}, err
	}
	hours, err := filter.ParseHourRange(f.hours)
	if err != nil {
		return models.Selection{}, err
	}
	metric, err := models.ParseMetric(f.metric)
	if err != nil {
		return models.Selection{}, err
	}

	sel := models.Selection{
		Mode:      mode,
		Providers: f.providers,
		Sites:     f.sites,
		Hours:     hours,
		Metric:    metric,
	}
	if len(sel.Providers) == 0 && mode != models.ModeSiteFocus {
		sel.Providers = filter.Providers(ds)
	}
	if len(sel.Sites) == 0 && mode != models.ModeProviderFocus {
		sel.Sites = filter.Sites(ds)
	}
	return sel, nil
}

// view resolves the flags against ds and returns the filtered records.
func (f *filterFlags) view(ds *models.Dataset) (models.FilterSpec, []models.MetricRecord, error) {
	sel, err := f.selection(ds)
	if err != nil {
		return models.FilterSpec{}, nil, err
	}
	spec, err := filter.Resolve(ds, sel)
	if err != nil {
		return models.FilterSpec{}, nil, err
	}
	view, err := filter.Apply(ds, spec)
	if err != nil {
		return models.FilterSpec{}, nil, err
	}
	return spec, view, nil
}

// loadDataset reads the configured data file. Dropped rows are reported on
// errOut; a load failure is returned unchanged.
func loadDataset(cfg *config.Config, errOut io.Writer) (*models.Dataset, error) {
	lvl, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(errOut, lvl)

	ds, err := dataset.LoadWithPolicy(cfg.DataPath, cfg.SchemaPolicy)
	if err != nil {
		return nil, err
	}
	if n := ds.DroppedCount(); n > 0 {
		_, _ = fmt.Fprintf(errOut, "%s %d invalid rows skipped\n", color.New(color.FgYellow).Sprint("warning:"), n)
	}
	return ds, nil
}
