package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

// Tool name constants.
const (
	ToolNameReport   = "release_report"
	ToolNameClassify = "classify_patch"
)

// Input size limits.
const (
	// MaxPatchInputBytes is the maximum allowed size for an inline patch (4 MB).
	MaxPatchInputBytes = 4 << 20
)

// Output formats of the release_report tool.
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyRepoPath indicates the repo_path parameter is empty.
	ErrEmptyRepoPath = errors.New("repo_path parameter is required and must not be empty")
	// ErrRepoPathNotAbsolute indicates the repo_path is not an absolute path.
	ErrRepoPathNotAbsolute = errors.New("repo_path must be an absolute path")
	// ErrRepoNotFound indicates the repository path does not exist.
	ErrRepoNotFound = errors.New("repository path does not exist")
	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("path is not a git repository")
	// ErrEmptyRevision indicates a missing from or to revision.
	ErrEmptyRevision = errors.New("from and to parameters are required and must not be empty")
	// ErrUnknownFormat indicates a format other than json or html.
	ErrUnknownFormat = errors.New("format must be json or html")
	// ErrEmptyPatch indicates the patch parameter is empty.
	ErrEmptyPatch = errors.New("patch parameter is required and must not be empty")
	// ErrPatchTooLarge indicates the patch input exceeds the size limit.
	ErrPatchTooLarge = errors.New("patch input exceeds maximum size")
)

// Input types (auto-generate JSON schemas via struct tags).

// ReportInput is the input schema for the release_report tool.
type ReportInput struct {
	BaseMode    string       `json:"base_mode,omitempty"    jsonschema:"diff base of each commit: sequence (default) or parent"`
	BulkQuery   string       `json:"bulk_query,omitempty"   jsonschema:"issue tracker search URL prefix for the all-issues link"`
	Format      string       `json:"format,omitempty"       jsonschema:"json (default) or html"`
	From        string       `json:"from"                   jsonschema:"exclusive lower bound revision (tag, branch or hash)"`
	Host        string       `json:"host,omitempty"         jsonschema:"web URL of the repository used for commit and file links"`
	IssuePrefix string       `json:"issue_prefix,omitempty" jsonschema:"issue id prefix such as ARTEMIS-"`
	IssueURL    string       `json:"issue_url,omitempty"    jsonschema:"URL prefix of a single issue page"`
	Preset      string       `json:"preset,omitempty"       jsonschema:"named project preset (artemis or wildfly)"`
	RepoPath    string       `json:"repo_path"              jsonschema:"absolute path to a Git repository"`
	Suffixes    []string     `json:"suffixes,omitempty"     jsonschema:"source file suffixes counted in line totals (default: .java)"`
	To          string       `json:"to"                     jsonschema:"inclusive upper bound revision (tag, branch or hash)"`
	Zones       []zones.Zone `json:"zones,omitempty"        jsonschema:"interest zones; replaces the preset zones when set"`
}

// ClassifyInput is the input schema for the classify_patch tool.
type ClassifyInput struct {
	Patch    string       `json:"patch"              jsonschema:"unified diff text as printed by git diff or git show"`
	Suffixes []string     `json:"suffixes,omitempty" jsonschema:"source file suffixes counted in line totals (default: .java)"`
	Zones    []zones.Zone `json:"zones,omitempty"    jsonschema:"interest zones"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// textResult builds a CallToolResult with plain text content.
func textResult(text string) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: text},
		},
	}, ToolOutput{Data: text}, nil
}

// validateRepoPath checks that path is an absolute git working tree.
func validateRepoPath(path string) error {
	if path == "" {
		return ErrEmptyRepoPath
	}

	if !filepath.IsAbs(path) {
		return ErrRepoPathNotAbsolute
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRepoNotFound, path)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRepoNotFound, path)
	}

	_, err = os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, path)
	}

	return nil
}
