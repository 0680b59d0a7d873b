package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Unique identifier, the built-in name or the file path
	Name        string
	Description string
	Type        string // "builtin" or "file"
	FilePath    string // Path to the document (file type only)
}

type builtin struct {
	info SceneInfo
	doc  func() *Document
}

var builtins = []builtin{
	{SceneInfo{ID: "default", Name: "Default Scene", Description: "Spheres of several materials on a ground quad"}, NewDefaultDocument},
	{SceneInfo{ID: "cornell", Name: "Cornell Box", Description: "Cornell box with a metal and a glass sphere"}, NewCornellDocument},
	{SceneInfo{ID: "sphere-grid", Name: "Sphere Grid", Description: "10x10 grid of rainbow-colored metal spheres"}, func() *Document { return NewSphereGridDocument(10) }},
	{SceneInfo{ID: "materials", Name: "Materials", Description: "One sphere per material model"}, NewMaterialsDocument},
	{SceneInfo{ID: "triangle-mesh", Name: "Triangle Mesh", Description: "Instanced tessellated spheres"}, NewTriangleMeshDocument},
}

// Builtin returns a fresh copy of the named built-in scene document
func Builtin(name string) (*Document, error) {
	for _, b := range builtins {
		if b.info.ID == name {
			return b.doc(), nil
		}
	}
	return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
}

// BuiltinNames returns the names accepted by Builtin
func BuiltinNames() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.info.ID
	}
	return names
}

// ListBuiltins returns metadata of every built-in scene
func ListBuiltins() []SceneInfo {
	scenes := make([]SceneInfo, len(builtins))
	for i, b := range builtins {
		scenes[i] = b.info
		scenes[i].Type = "builtin"
	}
	return scenes
}

// ListSceneFiles scans dir for YAML scene documents. A missing directory is
// an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata reads a document's leading comment block. Lines of the
// form "# Scene: name" and "# Description: text" override the defaults
// derived from the file name.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       filePath,
		Name:     titleCase(nameWithoutExt),
		Type:     "file",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, fmt.Errorf("read scene metadata: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		switch {
		case strings.HasPrefix(content, "Scene:"):
			info.Name = strings.TrimSpace(strings.TrimPrefix(content, "Scene:"))
		case strings.HasPrefix(content, "Description:"):
			info.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		}
	}

	return info, scanner.Err()
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
