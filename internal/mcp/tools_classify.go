package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clebertsuconic/git-release-report/internal/config"
	"github.com/clebertsuconic/git-release-report/internal/report"
	"github.com/clebertsuconic/git-release-report/pkg/changes"
	"github.com/clebertsuconic/git-release-report/pkg/classify"
	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

func handleClassify(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input ClassifyInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Patch == "" {
		return errorResult(ErrEmptyPatch)
	}

	if len(input.Patch) > MaxPatchInputBytes {
		return errorResult(fmt.Errorf("%w: %d bytes (max %d)", ErrPatchTooLarge, len(input.Patch), MaxPatchInputBytes))
	}

	suffixes := input.Suffixes
	if len(suffixes) == 0 {
		suffixes = config.DefaultSuffixes
	}

	router, err := zones.NewRouter(input.Zones, suffixes)
	if err != nil {
		return errorResult(fmt.Errorf("build zones: %w", err))
	}

	patches, err := changes.ParseUnified(strings.NewReader(input.Patch))
	if err != nil {
		return errorResult(err)
	}

	classifier := classify.New(router, classify.NewSourceFilter(suffixes, nil, false))

	return jsonResult(report.NewClassifyDigest(classifier.Classify(patches), router.Zones()))
}
