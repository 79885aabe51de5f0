package changes

// EditBuilder turns the line stream of one hunk into edits.
// Consecutive deletions and insertions without a context line between them
// collapse into a single REPLACE edit.
type EditBuilder struct {
	edits    []Edit
	oldPos   int
	newPos   int
	delBegin int
	delCount int
	insBegin int
	insCount int
}

// NewEditBuilder starts a hunk from its header values. A side with zero
// lines names the line before the hunk, so the position is advanced by one.
func NewEditBuilder(oldStart, oldLines, newStart, newLines int) *EditBuilder {
	if oldLines == 0 {
		oldStart++
	}

	if newLines == 0 {
		newStart++
	}

	return &EditBuilder{oldPos: oldStart, newPos: newStart}
}

// Context records an unchanged line.
func (b *EditBuilder) Context() {
	b.flush()
	b.oldPos++
	b.newPos++
}

// Delete records a line removed from the old side.
func (b *EditBuilder) Delete() {
	if b.delCount == 0 {
		b.delBegin = b.oldPos
	}

	b.delCount++
	b.oldPos++
}

// Insert records a line added on the new side.
func (b *EditBuilder) Insert() {
	if b.insCount == 0 {
		b.insBegin = b.newPos
	}

	b.insCount++
	b.newPos++
}

// Edits closes the pending run and returns the edits of the hunk.
func (b *EditBuilder) Edits() []Edit {
	b.flush()

	return b.edits
}

func (b *EditBuilder) flush() {
	switch {
	case b.delCount > 0 && b.insCount > 0:
		b.edits = append(b.edits, Edit{
			Kind:     EditReplace,
			OldBegin: b.delBegin,
			OldEnd:   b.delBegin + b.delCount - 1,
			NewBegin: b.insBegin,
			NewEnd:   b.insBegin + b.insCount - 1,
		})
	case b.delCount > 0:
		b.edits = append(b.edits, Edit{
			Kind:     EditDelete,
			OldBegin: b.delBegin,
			OldEnd:   b.delBegin + b.delCount - 1,
			NewBegin: b.newPos,
			NewEnd:   b.newPos - 1,
		})
	case b.insCount > 0:
		b.edits = append(b.edits, Edit{
			Kind:     EditInsert,
			OldBegin: b.oldPos,
			OldEnd:   b.oldPos - 1,
			NewBegin: b.insBegin,
			NewEnd:   b.insBegin + b.insCount - 1,
		})
	}

	b.delCount = 0
	b.insCount = 0
}
