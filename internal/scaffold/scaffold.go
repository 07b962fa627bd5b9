// Package scaffold initializes new report projects from embedded
// starter templates.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// The all: prefix keeps dotfiles (.env.example) in the embed.
//
//go:embed all:templates
var templatesFS embed.FS

// GetTemplatesFS exposes the embedded starter files so tests can check
// their content without creating a project on disk.
func GetTemplatesFS() embed.FS {
	return templatesFS
}

// DefaultTemplate is the standard starter project layout: bizreport.yaml,
// a sample dataset, and .env.example.
const DefaultTemplate = "default"

// Scaffolder writes starter projects. Verbose mode narrates each created
// file to stderr.
type Scaffolder struct {
	verbose bool
}

func NewScaffolder(verbose bool) *Scaffolder {
	return &Scaffolder{
		verbose: verbose,
	}
}

// CreateProject materializes templateName into targetPath, substituting
// the project name into the starter files. The target must be empty or
// absent; existing files are never overwritten.
func (s *Scaffolder) CreateProject(projectName, templateName, targetPath string) error {
	templatePath := fmt.Sprintf("templates/%s", templateName)
	if _, err := templatesFS.ReadDir(templatePath); err != nil {
		return fmt.Errorf("template '%s' not found: %w", templateName, err)
	}

	isEmpty, err := isDirectoryEmpty(targetPath)
	if err != nil {
		return fmt.Errorf("failed to check target directory: %w", err)
	}
	if !isEmpty {
		return fmt.Errorf("target directory '%s' is not empty\n\nbizreport init requires an empty directory to avoid overwriting existing files.\n\nOptions:\n• Choose a different location\n• Remove existing files manually\n• Use a new directory name", targetPath)
	}

	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	s.logVerbose("Creating project '%s' at %s with template '%s'", projectName, targetPath, templateName)

	if err := s.copyTemplateFiles(templatePath, targetPath, projectName); err != nil {
		return fmt.Errorf("failed to copy template files: %w", err)
	}

	s.logVerbose("Project created successfully")
	return nil
}

// copyTemplateFiles walks the embedded template and writes each entry
// under targetPath with project-name substitution applied.
func (s *Scaffolder) copyTemplateFiles(templatePath, targetPath, projectName string) error {
	return fs.WalkDir(templatesFS, templatePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == templatePath {
			return nil
		}

		relPath, err := filepath.Rel(templatePath, path)
		if err != nil {
			return err
		}

		targetFilePath := filepath.Join(targetPath, relPath)

		if d.IsDir() {
			s.logVerbose("Creating directory: %s", relPath)
			return os.MkdirAll(targetFilePath, 0755)
		}

		content, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		processed := substituteProjectName(string(content), projectName)

		s.logVerbose("Creating file: %s", relPath)
		if err := os.WriteFile(targetFilePath, []byte(processed), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", targetFilePath, err)
		}

		return nil
	})
}

// substituteProjectName fills the {{PROJECT_NAME}} placeholder. The
// starter files carry no other variables.
func substituteProjectName(content, projectName string) string {
	return strings.ReplaceAll(content, "{{PROJECT_NAME}}", projectName)
}

func (s *Scaffolder) logVerbose(format string, args ...interface{}) {
	if s.verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}

// ListTemplates names the embedded template layouts.
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var templates []string
	for _, entry := range entries {
		if entry.IsDir() {
			templates = append(templates, entry.Name())
		}
	}

	return templates, nil
}

// isDirectoryEmpty treats a missing path as empty; init creates it.
func isDirectoryEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check directory: %w", err)
	}

	if !info.IsDir() {
		return false, fmt.Errorf("path exists but is not a directory")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("failed to read directory: %w", err)
	}

	return len(entries) == 0, nil
}

// BuildFileTree renders the created project as a box-drawing tree, shown
// after init so the user sees what landed on disk.
func BuildFileTree(rootPath string) (string, error) {
	var sb strings.Builder

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		absPath = rootPath
	}

	sb.WriteString(absPath + "/\n")

	err = filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if path == rootPath {
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}

		depth := strings.Count(relPath, string(os.PathSeparator))

		indent := ""
		for i := 0; i < depth; i++ {
			indent += "│   "
		}

		// Last sibling gets the corner branch and a blank continuation.
		parentDir := filepath.Dir(path)
		entries, err := os.ReadDir(parentDir)
		if err != nil {
			return err
		}

		isLast := false
		baseName := filepath.Base(path)
		for i, entry := range entries {
			if entry.Name() == baseName && i == len(entries)-1 {
				isLast = true
				break
			}
		}

		branch := "├── "
		if isLast {
			branch = "└── "
			if depth > 0 {
				indent = indent[:len(indent)-4] + "    "
			}
		}

		name := info.Name()
		if info.IsDir() {
			name += "/"
		}

		sb.WriteString(indent + branch + name + "\n")

		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to build file tree: %w", err)
	}

	return sb.String(), nil
}
