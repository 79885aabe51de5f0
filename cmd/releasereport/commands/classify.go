package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/clebertsuconic/git-release-report/internal/release"
	"github.com/clebertsuconic/git-release-report/internal/report"
	"github.com/clebertsuconic/git-release-report/pkg/changes"
)

// FormatTable is the default classify output.
const FormatTable = "table"

// ClassifyCommand holds the flags of the classify command.
type ClassifyCommand struct {
	config configFlags

	zones    []string
	suffixes []string
	format   string
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand() *cobra.Command {
	cc := &ClassifyCommand{}

	cmd := &cobra.Command{
		Use:   "classify [patch-file]",
		Short: "Classify a unified diff into zones and line counts",
		Long: `Read a unified diff (git diff or git show output) from a file or stdin and
print, per file, its status, changed region, zones and added/replaced/deleted
line counts, using the same zones and suffixes as the report command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cc.run,
	}

	cc.config.register(cmd)

	cmd.Flags().StringArrayVar(&cc.zones, "zone", nil, "Interest zone name=match:pattern (repeatable)")
	cmd.Flags().StringArrayVar(&cc.suffixes, "suffix", nil, "Source file suffix (repeatable)")
	cmd.Flags().StringVar(&cc.format, "format", FormatTable, "Output format: table, json")

	return cmd
}

func (cc *ClassifyCommand) run(cmd *cobra.Command, args []string) error {
	if cc.format != FormatTable && cc.format != FormatJSON {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, cc.format)
	}

	cfg, err := cc.config.load()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("zone") {
		cfg.Zones, err = ParseZones(cc.zones)
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("suffix") {
		cfg.Suffixes = cc.suffixes
	}

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("validate flags: %w", err)
	}

	classifier, err := release.Classifier(cfg)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()

	if len(args) == 1 {
		f, openErr := os.Open(args[0])
		if openErr != nil {
			return fmt.Errorf("open patch: %w", openErr)
		}
		defer f.Close()

		in = f
	}

	patches, err := changes.ParseUnified(in)
	if err != nil {
		return err
	}

	digest := report.NewClassifyDigest(classifier.Classify(patches), classifier.Router().Zones())

	return writeClassify(cmd.OutOrStdout(), cc.format, digest)
}

func writeClassify(w io.Writer, format string, digest report.ClassifyDigest) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(digest); err != nil {
			return fmt.Errorf("encode classification: %w", err)
		}

		return nil
	}

	return report.RenderClassifyTable(w, digest)
}
