package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alhadhrami/bizreport/internal/config"
	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

func TestCreateProject_Default(t *testing.T) {
	target := filepath.Join(t.TempDir(), "myreports")

	s := NewScaffolder(false)
	require.NoError(t, s.CreateProject("Acme", DefaultTemplate, target))

	for _, rel := range []string{
		bizreport.ConfigFileName,
		"data/sample_data.csv",
		".env.example",
	} {
		_, err := os.Stat(filepath.Join(target, rel))
		assert.NoError(t, err, "expected %s to exist", rel)
	}
}

func TestCreateProject_SubstitutesProjectName(t *testing.T) {
	target := filepath.Join(t.TempDir(), "proj")

	s := NewScaffolder(false)
	require.NoError(t, s.CreateProject("Acme", DefaultTemplate, target))

	data, err := os.ReadFile(filepath.Join(target, bizreport.ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Acme Business Report")
	assert.NotContains(t, string(data), "{{PROJECT_NAME}}")
}

// The generated project must load and validate as-is.
func TestCreateProject_GeneratedConfigIsValid(t *testing.T) {
	target := filepath.Join(t.TempDir(), "proj")

	s := NewScaffolder(false)
	require.NoError(t, s.CreateProject("Acme", DefaultTemplate, target))

	cfg, err := config.Load(target)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "data/sample_data.csv", cfg.Data.Path)
	assert.Equal(t, config.FrequencyDaily, cfg.Report.Frequency)
}

func TestCreateProject_RefusesNonEmptyDirectory(t *testing.T) {
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "existing.txt"), []byte("x"), 0644))

	s := NewScaffolder(false)
	err := s.CreateProject("Acme", DefaultTemplate, target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not empty")
}

func TestCreateProject_UnknownTemplate(t *testing.T) {
	s := NewScaffolder(false)
	err := s.CreateProject("Acme", "nope", filepath.Join(t.TempDir(), "proj"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListTemplates(t *testing.T) {
	templates, err := ListTemplates()
	require.NoError(t, err)
	assert.Contains(t, templates, DefaultTemplate)
}

func TestBuildFileTree(t *testing.T) {
	target := filepath.Join(t.TempDir(), "proj")
	s := NewScaffolder(false)
	require.NoError(t, s.CreateProject("Acme", DefaultTemplate, target))

	tree, err := BuildFileTree(target)
	require.NoError(t, err)
	assert.Contains(t, tree, bizreport.ConfigFileName)
	assert.Contains(t, tree, "data/")
	assert.True(t, strings.HasPrefix(tree, "/"), "tree starts with absolute path")
}

func TestEmbeddedTemplate_SampleDataParses(t *testing.T) {
	data, err := GetTemplatesFS().ReadFile("templates/default/data/sample_data.csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Greater(t, len(lines), 1)
	assert.Equal(t, "Date,Revenue,Sales,Customer_Count", lines[0])
}
