package usecase

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPackageDoc_DeclaredOnce checks that exactly one non-test file documents the package.
func TestPackageDoc_DeclaredOnce(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	var documented []string
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.PackageClauseOnly|parser.ParseComments)
		require.NoError(t, err)
		if f.Doc != nil {
			documented = append(documented, name)
		}
	}
	assert.Equal(t, []string{"auth_usecase.go"}, documented)
}
