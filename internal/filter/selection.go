package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

// customSiteDefault caps the sites preselected in custom mode.
const customSiteDefault = 10

// Providers lists distinct provider codes in first-seen order.
func Providers(ds *models.Dataset) []string {
	return distinct(ds, func(r *models.MetricRecord) (string, bool) {
		return r.ProviderCode, true
	})
}

// Sites lists distinct site codes in first-seen order.
func Sites(ds *models.Dataset) []string {
	return distinct(ds, func(r *models.MetricRecord) (string, bool) {
		return r.SiteCode, true
	})
}

// SitesFor lists the sites seen for any of providers.
func SitesFor(ds *models.Dataset, providers models.CodeSet) []string {
	return distinct(ds, func(r *models.MetricRecord) (string, bool) {
		return r.SiteCode, providers.Has(r.ProviderCode)
	})
}

// ProvidersFor lists the providers seen at any of sites.
func ProvidersFor(ds *models.Dataset, sites models.CodeSet) []string {
	return distinct(ds, func(r *models.MetricRecord) (string, bool) {
		return r.ProviderCode, sites.Has(r.SiteCode)
	})
}

func distinct(ds *models.Dataset, pick func(*models.MetricRecord) (string, bool)) []string {
	if ds == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for i := range ds.Records {
		code, ok := pick(&ds.Records[i])
		if !ok {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// Defaults returns the initial selection for mode: the first provider in
// provider focus, the first site in site focus, and every provider with up
// to ten of their sites in custom mode.
func Defaults(ds *models.Dataset, mode models.FilterMode) models.Selection {
	sel := models.Selection{
		Mode:   mode,
		Hours:  models.FullDay,
		Metric: models.MetricTPHMedian,
	}

	providers := Providers(ds)
	sites := Sites(ds)

	switch mode {
	case models.ModeProviderFocus:
		if len(providers) > 0 {
			sel.Providers = providers[:1]
		}
	case models.ModeSiteFocus:
		if len(sites) > 0 {
			sel.Sites = sites[:1]
		}
	case models.ModeCustom:
		sel.Providers = providers
		candidates := SitesFor(ds, models.NewCodeSet(providers...))
		if len(candidates) > customSiteDefault {
			candidates = candidates[:customSiteDefault]
		}
		sel.Sites = candidates
	}
	return sel
}

// Resolve expands a selection into a FilterSpec according to its mode.
// It fails with *InvalidRangeError when the hour range is unusable.
func Resolve(ds *models.Dataset, sel models.Selection) (models.FilterSpec, error) {
	if err := ValidateRange(sel.Hours); err != nil {
		return models.FilterSpec{}, err
	}

	spec := models.FilterSpec{
		Hours:  sel.Hours,
		Metric: sel.Metric,
	}
	if spec.Metric == "" {
		spec.Metric = models.MetricTPHMedian
	}

	switch sel.Mode {
	case models.ModeProviderFocus:
		spec.Providers = models.NewCodeSet(sel.Providers...)
		spec.Sites = models.NewCodeSet(SitesFor(ds, spec.Providers)...)
	case models.ModeSiteFocus:
		spec.Sites = models.NewCodeSet(sel.Sites...)
		spec.Providers = models.NewCodeSet(ProvidersFor(ds, spec.Sites)...)
	default:
		spec.Providers = models.NewCodeSet(sel.Providers...)
		spec.Sites = models.NewCodeSet(sel.Sites...)
	}
	return spec, nil
}

// FullSpec matches every record of ds for metric.
func FullSpec(ds *models.Dataset, metric models.Metric) models.FilterSpec {
	return models.FilterSpec{
		Providers: models.NewCodeSet(Providers(ds)...),
		Sites:     models.NewCodeSet(Sites(ds)...),
		Hours:     models.FullDay,
		Metric:    metric,
	}
}

// Sanitize drops codes that no longer exist in ds, for example after a
// reload or when restoring a saved selection.
func Sanitize(ds *models.Dataset, sel models.Selection) models.Selection {
	sel = sel.Clone()
	sel.Providers = keepKnown(sel.Providers, models.NewCodeSet(Providers(ds)...))
	sel.Sites = keepKnown(sel.Sites, models.NewCodeSet(Sites(ds)...))
	return sel
}

func keepKnown(codes []string, known models.CodeSet) []string {
	out := codes[:0]
	for _, c := range codes {
		if known.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// ParseHourRange parses "5-12", "5..12" or a single hour such as "7".
func ParseHourRange(s string) (models.HourRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.HourRange{}, fmt.Errorf("empty hour range")
	}

	sep := "-"
	if strings.Contains(s, "..") {
		sep = ".."
	}
	parts := strings.SplitN(s, sep, 2)

	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return models.HourRange{}, fmt.Errorf("invalid hour %q", parts[0])
	}
	hi := lo
	if len(parts) == 2 {
		if hi, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return models.HourRange{}, fmt.Errorf("invalid hour %q", parts[1])
		}
	}

	h := models.HourRange{Min: lo, Max: hi}
	if err := ValidateRange(h); err != nil {
		return models.HourRange{}, err
	}
	return h, nil
}
