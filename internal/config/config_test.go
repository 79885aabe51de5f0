package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clebertsuconic/git-release-report/internal/config"
	"github.com/clebertsuconic/git-release-report/pkg/walk"
	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".releasereport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(config.LoadOptions{Path: writeConfig(t, "")})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultRepo, cfg.Repo)
	assert.Equal(t, walk.BaseSequence, cfg.WalkMode())
	assert.Equal(t, config.DefaultSuffixes, cfg.Suffixes)
	assert.Empty(t, cfg.Zones)
	assert.Equal(t, config.DefaultContextLines, cfg.Diff.ContextLines)
	assert.False(t, cfg.Diff.DetectRenames)
	assert.Empty(t, cfg.Preset)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `repo: /src/artemis
host: https://github.com/apache/activemq-artemis/
base_mode: parent
suffixes: [".java", ".md"]
zones:
  - name: tests
    match: contains
    pattern: test
  - name: docs
    match: prefix
    pattern: docs/
    suffixes: [".md"]
issues:
  prefix: ARTEMIS-
  url: https://issues.apache.org/jira/browse/
  bulk_query: https://issues.apache.org/jira/issues/?jql=key%20in%20
diff:
  context_lines: 0
  detect_renames: true
output:
  summary: true
  max_message: 60
telemetry:
  log_level: debug
  sample_ratio: 0.5
`)

	cfg, err := config.LoadConfig(config.LoadOptions{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "/src/artemis", cfg.Repo)
	assert.Equal(t, walk.BaseParent, cfg.WalkMode())
	assert.Equal(t, []string{".java", ".md"}, cfg.Suffixes)
	require.Len(t, cfg.Zones, 2)
	assert.Equal(t, zones.Zone{Name: "tests", Match: zones.MatchContains, Pattern: "test"}, cfg.Zones[0])
	assert.Equal(t, []string{".md"}, cfg.Zones[1].Suffixes)
	assert.Equal(t, "ARTEMIS-", cfg.Issues.Prefix)
	assert.Equal(t, 0, cfg.DiffOptions().ContextLines)
	assert.True(t, cfg.DiffOptions().DetectRenames)
	assert.True(t, cfg.Output.Summary)
	assert.Equal(t, 60, cfg.Output.MaxMessage)
	assert.InDelta(t, 0.5, cfg.Telemetry.SampleRatio, 0.001)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_Preset(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(config.LoadOptions{Path: writeConfig(t, ""), Preset: "artemis"})
	require.NoError(t, err)

	assert.Equal(t, "artemis", cfg.Preset)
	assert.Equal(t, "ARTEMIS-", cfg.Issues.Prefix)
	assert.Equal(t, "https://github.com/apache/activemq-artemis", cfg.Host)
	require.Len(t, cfg.Zones, 3)
	assert.Equal(t, "examples", cfg.Zones[2].Name)
	assert.Equal(t, zones.MatchPrefix, cfg.Zones[2].Match)
}

func TestLoadConfig_FileOverridesPreset(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `preset: wildfly
issues:
  prefix: JBEAP-
zones:
  - name: it
    match: prefix
    pattern: testsuite/
`)

	cfg, err := config.LoadConfig(config.LoadOptions{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "wildfly", cfg.Preset)
	assert.Equal(t, "JBEAP-", cfg.Issues.Prefix)
	assert.Equal(t, "https://issues.jboss.org/browse/", cfg.Issues.URL)
	require.Len(t, cfg.Zones, 1)
	assert.Equal(t, "it", cfg.Zones[0].Name)
}

func TestLoadConfig_UnknownPreset(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(config.LoadOptions{Path: writeConfig(t, ""), Preset: "nope"})
	require.ErrorIs(t, err, config.ErrUnknownPreset)
}

func TestLoadConfig_SchemaRejectsUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(config.LoadOptions{Path: writeConfig(t, "repos: /tmp\n")})
	require.ErrorIs(t, err, config.ErrSchema)
}

func TestLoadConfig_SchemaRejectsBadZone(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `zones:
  - name: tests
    match: regex
    pattern: test
`)

	_, err := config.LoadConfig(config.LoadOptions{Path: path})
	require.ErrorIs(t, err, config.ErrSchema)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(config.LoadOptions{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("RELEASEREPORT_HOST", "https://example.com/repo")
	t.Setenv("RELEASEREPORT_DIFF_CONTEXT_LINES", "7")

	cfg, err := config.LoadConfig(config.LoadOptions{Path: writeConfig(t, "host: https://github.com/x/y\n")})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/repo", cfg.Host)
	assert.Equal(t, 7, cfg.Diff.ContextLines)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() config.Config {
		return config.Config{
			BaseMode: "sequence",
			Suffixes: []string{".java"},
			Zones:    []zones.Zone{{Name: "tests", Match: zones.MatchContains, Pattern: "test"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "zero", mutate: func(c *config.Config) { *c = config.Config{} }},
		{name: "base mode", mutate: func(c *config.Config) { c.BaseMode = "merge" }, wantErr: config.ErrInvalidBaseMode},
		{name: "context", mutate: func(c *config.Config) { c.Diff.ContextLines = -1 }, wantErr: config.ErrInvalidContextLines},
		{name: "max message", mutate: func(c *config.Config) { c.Output.MaxMessage = -1 }, wantErr: config.ErrInvalidMaxMessage},
		{name: "ratio", mutate: func(c *config.Config) { c.Telemetry.SampleRatio = 2 }, wantErr: config.ErrInvalidSampleRatio},
		{name: "log level", mutate: func(c *config.Config) { c.Telemetry.LogLevel = "loud" }, wantErr: config.ErrInvalidLogLevel},
		{name: "suffix", mutate: func(c *config.Config) { c.Suffixes = []string{"java"} }, wantErr: config.ErrInvalidSuffix},
		{
			name:    "zone suffix",
			mutate:  func(c *config.Config) { c.Zones[0].Suffixes = []string{"md"} },
			wantErr: config.ErrInvalidSuffix,
		},
		{
			name:    "duplicate zone",
			mutate:  func(c *config.Config) { c.Zones = append(c.Zones, c.Zones[0]) },
			wantErr: config.ErrDuplicateZone,
		},
		{name: "empty zone name", mutate: func(c *config.Config) { c.Zones[0].Name = "" }, wantErr: zones.ErrEmptyName},
		{
			name:    "bulk without prefix",
			mutate:  func(c *config.Config) { c.Issues.BulkQuery = "https://tracker/q" },
			wantErr: config.ErrBulkWithoutPrefix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPresets(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"artemis", "wildfly"}, config.Presets())
}

func TestValidateYAML(t *testing.T) {
	t.Parallel()

	require.NoError(t, config.ValidateYAML(nil))
	require.NoError(t, config.ValidateYAML([]byte("suffixes: ['.go']\n")))
	require.ErrorIs(t, config.ValidateYAML([]byte("suffixes: ['go']\n")), config.ErrSchema)
	require.ErrorIs(t, config.ValidateYAML([]byte("diff: {context_lines: -2}\n")), config.ErrSchema)
	require.Error(t, config.ValidateYAML([]byte("repo: [unterminated\n")))
	assert.NotEmpty(t, config.Schema())
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(config.LoadOptions{NoFile: true, Preset: "wildfly"})
	require.NoError(t, err)

	assert.Equal(t, "WFLY-", cfg.Issues.Prefix)
	assert.Equal(t, config.DefaultContextLines, cfg.Diff.ContextLines)
}
