package config

import (
	"fmt"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/spf13/viper"
)

// layoutSpec is the on-disk shape of one ledger kind inside a profile. Either
// an explicit column list, or exclusions and renames applied to the default.
type layoutSpec struct {
	Columns []domain.LayoutColumn `mapstructure:"columns"`
	Exclude []string              `mapstructure:"exclude"`
	Rename  map[string]string     `mapstructure:"rename"`
}

type profileSpec struct {
	Description   string     `mapstructure:"description"`
	GeneralLedger layoutSpec `mapstructure:"general_ledger"`
	PartnerLedger layoutSpec `mapstructure:"partner_ledger"`
}

// LoadLayoutProfiles reads the named layout profiles from a JSON (or any
// viper-readable) file with a top level "layouts" object.
func LoadLayoutProfiles(path string) (map[string]domain.LayoutProfile, error) {
	profiles := map[string]domain.LayoutProfile{}
	if path == "" {
		return profiles, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read layout file %s: %w", path, err)
	}
	if !v.IsSet("layouts") {
		return nil, fmt.Errorf("invalid layout configuration %s: missing 'layouts'", path)
	}

	var specs map[string]profileSpec
	if err := v.UnmarshalKey("layouts", &specs); err != nil {
		return nil, fmt.Errorf("failed to decode layouts in %s: %w", path, err)
	}

	for name, spec := range specs {
		gl, err := spec.GeneralLedger.apply(domain.DefaultGeneralLedgerLayout())
		if err != nil {
			return nil, fmt.Errorf("layout %s general_ledger: %w", name, err)
		}
		pl, err := spec.PartnerLedger.apply(domain.DefaultPartnerLedgerLayout())
		if err != nil {
			return nil, fmt.Errorf("layout %s partner_ledger: %w", name, err)
		}
		gl.Name, pl.Name = name, name
		profiles[name] = domain.LayoutProfile{Name: name, GeneralLedger: gl, PartnerLedger: pl}
	}
	return profiles, nil
}

func (s layoutSpec) apply(base domain.Layout) (domain.Layout, error) {
	known := make(map[domain.LedgerField]bool, len(base.Columns))
	for _, c := range base.Columns {
		known[c.Field] = true
	}

	if len(s.Columns) > 0 {
		for _, c := range s.Columns {
			if !known[c.Field] {
				return domain.Layout{}, fmt.Errorf("unknown field %q", c.Field)
			}
		}
		return domain.Layout{Columns: s.Columns}, nil
	}

	excluded := make(map[domain.LedgerField]bool, len(s.Exclude))
	for _, f := range s.Exclude {
		if !known[domain.LedgerField(f)] {
			return domain.Layout{}, fmt.Errorf("unknown excluded field %q", f)
		}
		excluded[domain.LedgerField(f)] = true
	}
	out := domain.Layout{Columns: make([]domain.LayoutColumn, 0, len(base.Columns))}
	for _, c := range base.Columns {
		if excluded[c.Field] {
			c.Included = false
		}
		if label, ok := s.Rename[string(c.Field)]; ok {
			c.Label = label
		}
		out.Columns = append(out.Columns, c)
	}
	return out, nil
}
