package changes

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

const (
	devNull   = "/dev/null"
	oldPrefix = "a/"
	newPrefix = "b/"
)

// ParseUnified reads a multi-file unified diff (git diff / git show output)
// and converts every file into a FilePatch.
func ParseUnified(r io.Reader) ([]FilePatch, error) {
	fileDiffs, err := diff.NewMultiFileDiffReader(r).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("parse unified diff: %w", err)
	}

	patches := make([]FilePatch, 0, len(fileDiffs))

	for _, fd := range fileDiffs {
		patches = append(patches, convertFileDiff(fd))
	}

	return patches, nil
}

func convertFileDiff(fd *diff.FileDiff) FilePatch {
	patch := FilePatch{
		OldPath: trimSide(fd.OrigName, oldPrefix),
		NewPath: trimSide(fd.NewName, newPrefix),
		Binary:  isBinary(fd.Extended),
	}

	switch {
	case fd.NewName == devNull || hasExtended(fd.Extended, "deleted file mode"):
		patch.Status = StatusDeleted
		patch.NewPath = ""
	case fd.OrigName == devNull || hasExtended(fd.Extended, "new file mode"):
		patch.Status = StatusAdded
		patch.OldPath = ""
	case patch.OldPath != patch.NewPath:
		patch.Status = StatusRenamed
	default:
		patch.Status = StatusModified
	}

	patch.Hunks = make([]Hunk, 0, len(fd.Hunks))

	for _, h := range fd.Hunks {
		patch.Hunks = append(patch.Hunks, convertHunk(h))
	}

	return patch
}

func convertHunk(h *diff.Hunk) Hunk {
	hunk := Hunk{
		OldStart: int(h.OrigStartLine),
		OldLines: int(h.OrigLines),
		NewStart: int(h.NewStartLine),
		NewLines: int(h.NewLines),
	}

	builder := NewEditBuilder(hunk.OldStart, hunk.OldLines, hunk.NewStart, hunk.NewLines)
	body := bytes.TrimSuffix(h.Body, []byte("\n"))

	for _, line := range bytes.Split(body, []byte("\n")) {
		if len(line) == 0 {
			builder.Context()

			continue
		}

		switch line[0] {
		case '-':
			builder.Delete()
		case '+':
			builder.Insert()
		case '\\':
			// "\ No newline at end of file".
		default:
			builder.Context()
		}
	}

	hunk.Edits = builder.Edits()

	return hunk
}

func trimSide(name, prefix string) string {
	if name == devNull {
		return ""
	}

	return strings.TrimPrefix(name, prefix)
}

func isBinary(extended []string) bool {
	for _, line := range extended {
		if strings.HasPrefix(line, "Binary files") || strings.HasPrefix(line, "GIT binary patch") {
			return true
		}
	}

	return false
}

func hasExtended(extended []string, prefix string) bool {
	for _, line := range extended {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	return false
}
