package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clebertsuconic/git-release-report/internal/config"
	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

// ErrZoneFlag indicates a --zone value not shaped as name=match:pattern.
var ErrZoneFlag = errors.New("zone must be name=match:pattern")

// configFlags selects the config file and preset; shared by every command
// that loads configuration.
type configFlags struct {
	path   string
	preset string
}

func (cf *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cf.path, "config", "c", "", "Config file (default: .releasereport.yaml in CWD or $HOME)")
	cmd.Flags().StringVar(&cf.preset, "preset", "",
		"Project preset: "+strings.Join(config.Presets(), ", "))
}

func (cf *configFlags) load() (*config.Config, error) {
	return config.LoadConfig(config.LoadOptions{Path: cf.path, Preset: cf.preset})
}

// ParseZone parses a --zone value such as "tests=contains:test" or
// "docs=prefix:docs/". The zone inherits the default suffixes.
func ParseZone(raw string) (zones.Zone, error) {
	name, rest, ok := strings.Cut(raw, "=")
	if !ok {
		return zones.Zone{}, fmt.Errorf("%w: %q", ErrZoneFlag, raw)
	}

	match, pattern, ok := strings.Cut(rest, ":")
	if !ok {
		return zones.Zone{}, fmt.Errorf("%w: %q", ErrZoneFlag, raw)
	}

	zone := zones.Zone{
		Name:    strings.TrimSpace(name),
		Match:   zones.MatchMode(strings.TrimSpace(match)),
		Pattern: pattern,
	}

	err := zone.Validate()
	if err != nil {
		return zones.Zone{}, fmt.Errorf("zone %q: %w", raw, err)
	}

	return zone, nil
}

// ParseZones parses every --zone value in order.
func ParseZones(raw []string) ([]zones.Zone, error) {
	out := make([]zones.Zone, 0, len(raw))

	for _, r := range raw {
		zone, err := ParseZone(r)
		if err != nil {
			return nil, err
		}

		out = append(out, zone)
	}

	return out, nil
}
