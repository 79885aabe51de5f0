package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/viper"
)

// ErrUnknownPreset is returned for a preset name that is not registered.
var ErrUnknownPreset = errors.New("unknown preset")

// preset holds the settings a named project profile layers over the
// built-in defaults. Anything set in the file, the environment or on the
// command line still wins.
type preset map[string]any

var presets = map[string]preset{
	"artemis": {
		"host":              "https://github.com/apache/activemq-artemis",
		"suffixes":          []string{".java", ".md", ".c", ".sh", ".groovy"},
		"issues.prefix":     "ARTEMIS-",
		"issues.url":        "https://issues.apache.org/jira/browse/",
		"issues.bulk_query": "https://issues.apache.org/jira/issues/?jql=project%20%3D%20ARTEMIS%20AND%20key%20in%20",
		"zones": []map[string]any{
			{"name": "test", "match": "contains", "pattern": "test"},
			{"name": "docs", "match": "prefix", "pattern": "docs/"},
			{"name": "examples", "match": "prefix", "pattern": "examples/"},
		},
	},
	"wildfly": {
		"host":              "https://github.com/wildfly/wildfly",
		"suffixes":          []string{".java", ".md", ".c", ".sh", ".groovy"},
		"issues.prefix":     "WFLY-",
		"issues.url":        "https://issues.jboss.org/browse/",
		"issues.bulk_query": "https://issues.jboss.org/browse/WFLY-1?jql=project%20%3D%20WildFly%20AND%20KEY%20IN",
		"zones": []map[string]any{
			{"name": "test", "match": "contains", "pattern": "test"},
			{"name": "docs", "match": "prefix", "pattern": "docs/"},
		},
	},
}

// Presets returns the registered preset names in lexical order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func applyPreset(viperCfg *viper.Viper, name string) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("%w %q (known: %v)", ErrUnknownPreset, name, Presets())
	}

	for key, value := range p {
		viperCfg.SetDefault(key, value)
	}

	return nil
}
