package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clebertsuconic/git-release-report/pkg/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	s := version.String("releasereport")

	assert.Contains(t, s, "releasereport ")
	assert.Contains(t, s, "commit: ")
	assert.Contains(t, s, "built: ")
}
