// Package zones routes changed paths into caller-configured interest zones
// such as tests or docs.
package zones

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// MatchMode selects how a zone pattern is compared with a path.
type MatchMode string

const (
	// MatchPrefix matches paths starting with the pattern.
	MatchPrefix MatchMode = "prefix"
	// MatchContains matches paths containing the pattern anywhere.
	MatchContains MatchMode = "contains"
)

// Sentinel validation errors.
var (
	ErrEmptyName    = errors.New("zone name must not be empty")
	ErrEmptyPattern = errors.New("zone pattern must not be empty")
	ErrUnknownMatch = errors.New("unknown zone match mode")
)

// Zone is one interest zone. An empty Suffixes list inherits the router's
// default source suffixes.
type Zone struct {
	Name     string    `mapstructure:"name" yaml:"name" json:"name"`
	Match    MatchMode `mapstructure:"match" yaml:"match" json:"match"`
	Pattern  string    `mapstructure:"pattern" yaml:"pattern" json:"pattern"`
	Suffixes []string  `mapstructure:"suffixes" yaml:"suffixes,omitempty" json:"suffixes,omitempty"`
}

// Validate checks the zone definition.
func (z Zone) Validate() error {
	if z.Name == "" {
		return ErrEmptyName
	}

	if z.Pattern == "" {
		return fmt.Errorf("%w: %s", ErrEmptyPattern, z.Name)
	}

	switch z.Match {
	case MatchPrefix, MatchContains:
		return nil
	default:
		return fmt.Errorf("%w: %q in zone %s", ErrUnknownMatch, z.Match, z.Name)
	}
}

func (z Zone) matchesPath(p string) bool {
	if z.Match == MatchPrefix {
		return strings.HasPrefix(p, z.Pattern)
	}

	return strings.Contains(p, z.Pattern)
}

// Router assigns paths to zones. It is immutable after construction.
type Router struct {
	zones           []Zone
	defaultSuffixes []string
}

// NewRouter validates the zones and builds a router. defaultSuffixes is used
// by zones that declare no suffixes of their own; when it is empty too, the
// zone accepts every suffix.
func NewRouter(zs []Zone, defaultSuffixes []string) (*Router, error) {
	for i := range zs {
		err := zs[i].Validate()
		if err != nil {
			return nil, fmt.Errorf("zone %d: %w", i, err)
		}
	}

	return &Router{
		zones:           append([]Zone(nil), zs...),
		defaultSuffixes: append([]string(nil), defaultSuffixes...),
	}, nil
}

// Zones returns the configured zones in declaration order.
func (r *Router) Zones() []Zone {
	return append([]Zone(nil), r.zones...)
}

// Len returns the number of zones.
func (r *Router) Len() int {
	return len(r.zones)
}

// Match returns, in declaration order, the indices of every zone whose
// pattern and suffix filter both accept p.
func (r *Router) Match(p string) []int {
	var matched []int

	for i, z := range r.zones {
		if !z.matchesPath(p) {
			continue
		}

		suffixes := z.Suffixes
		if len(suffixes) == 0 {
			suffixes = r.defaultSuffixes
		}

		if len(suffixes) > 0 && !HasSuffix(p, suffixes) {
			continue
		}

		matched = append(matched, i)
	}

	return matched
}

// HasSuffix reports whether p ends with any of suffixes.
func HasSuffix(p string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(p, s) {
			return true
		}
	}

	return false
}

// Span is an inclusive, 1-based line range.
type Span struct {
	Start int
	End   int
}

// Descriptor is what a zone column shows for one file of one commit.
type Descriptor struct {
	Label   string
	Path    string
	Commit  string
	Span    Span
	Deleted bool
}

// Describe builds the descriptor for a file. Deleted files carry no span
// since no line of the new tree can be referenced.
func Describe(commit, filePath string, deleted bool, span Span) Descriptor {
	d := Descriptor{
		Label:   path.Base(filePath),
		Path:    filePath,
		Commit:  commit,
		Deleted: deleted,
	}

	if !deleted {
		d.Span = span
	}

	return d
}
