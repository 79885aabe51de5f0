// Package changes holds the file-level patch model shared by the libgit2
// backend, the unified diff reader and the classifier.
package changes

// EditKind is the type of a single edit inside a hunk.
type EditKind int

const (
	// EditInsert adds lines on the new side only.
	EditInsert EditKind = iota
	// EditDelete removes lines from the old side only.
	EditDelete
	// EditReplace removes old lines and adds new lines at the same place.
	EditReplace
)

// String returns the upper-case name of the edit kind.
func (k EditKind) String() string {
	switch k {
	case EditInsert:
		return "INSERT"
	case EditDelete:
		return "DELETE"
	case EditReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// Edit is one contiguous change. Line numbers are 1-based and inclusive;
// an empty side has End == Begin-1 and Begin pointing at the line that
// follows the edit on that side.
type Edit struct {
	Kind     EditKind
	OldBegin int
	OldEnd   int
	NewBegin int
	NewEnd   int
}

// OldLines returns the number of old-side lines touched by the edit.
func (e Edit) OldLines() int {
	return e.OldEnd - e.OldBegin + 1
}

// NewLines returns the number of new-side lines touched by the edit.
func (e Edit) NewLines() int {
	return e.NewEnd - e.NewBegin + 1
}

// Hunk is a contiguous region of a file diff.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Edits    []Edit
}

// Status describes what happened to a file between two snapshots.
type Status int

const (
	// StatusModified means the file exists on both sides.
	StatusModified Status = iota
	// StatusAdded means the file only exists on the new side.
	StatusAdded
	// StatusDeleted means the file only exists on the old side.
	StatusDeleted
	// StatusRenamed means the file moved, possibly with edits.
	StatusRenamed
	// StatusCopied means the file was copied from another path.
	StatusCopied
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusCopied:
		return "copied"
	default:
		return "unknown"
	}
}

// FilePatch is the diff of a single file.
type FilePatch struct {
	OldPath string
	NewPath string
	Status  Status
	Binary  bool
	Hunks   []Hunk
}

// Deleted reports whether the new side of the file is absent.
func (p *FilePatch) Deleted() bool {
	return p.Status == StatusDeleted
}

// Path returns the new path, or the old path for deletions.
func (p *FilePatch) Path() string {
	if p.Deleted() || p.NewPath == "" {
		return p.OldPath
	}

	return p.NewPath
}

// EditCount returns the number of edits across all hunks.
func (p *FilePatch) EditCount() int {
	count := 0

	for i := range p.Hunks {
		count += len(p.Hunks[i].Edits)
	}

	return count
}
