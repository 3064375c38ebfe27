package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ProjectFile is the project configuration file name.
const ProjectFile = "figkit.toml"

// Project represents the figkit.toml structure.
type Project struct {
	Render RenderConfig `toml:"render"`
	Images ImagesConfig `toml:"images"`
	Figma  FigmaConfig  `toml:"figma"`
}

type RenderConfig struct {
	// Platform is cocoa, uikit or wpf.
	Platform string `toml:"platform"`
	// Naming is the generated variable convention: camel, pascal or snake.
	Naming          string `toml:"naming"`
	TranslateLabels bool   `toml:"translate_labels"`
	RootName        string `toml:"root_name"`
	// Localizer is a format with one %s for the quoted label.
	Localizer string `toml:"localizer"`
}

type ImagesConfig struct {
	// Strategy is manifest, dir, remote or none.
	Strategy     string `toml:"strategy"`
	ResourcesDir string `toml:"resources_dir"`
	Format       string `toml:"format"`
	Concurrency  int    `toml:"concurrency"`
}

type FigmaConfig struct {
	FileKey string `toml:"file_key"`
	APIBase string `toml:"api_base"`
}

// DefaultProject returns the configuration used when no figkit.toml exists.
func DefaultProject() Project {
	return Project{
		Render: RenderConfig{Naming: "camel"},
		Images: ImagesConfig{Strategy: "none", Format: ".png", Concurrency: 4},
	}
}

// LoadProject reads figkit.toml from dir over the defaults.
// A missing file is not an error.
func LoadProject(dir string) (Project, error) {
	p := DefaultProject()
	path := filepath.Join(dir, ProjectFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("failed to read %s: %w", ProjectFile, err)
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}
	return p, nil
}

// SaveProject writes p to dir/figkit.toml.
func SaveProject(dir string, p Project) error {
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ProjectFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ProjectFile, err)
	}
	return nil
}
