package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// DefaultPlatform is used when nothing else names one.
const DefaultPlatform = "cocoa"

// Settings is the resolved configuration of one command.
type Settings struct {
	Token     string
	File      string
	Platform  string
	View      string
	Resources string

	Naming          string
	TranslateLabels bool
	RootName        string
	Localizer       string

	ImageStrategy string
	ImageFormat   string
	Concurrency   int

	FileKey string
	APIBase string
}

// Resolve merges, highest first: flags, FIGMA_TOKEN, .figkitrc in dir, the
// defaults remembered in store for the document, figkit.toml in dir, the
// store's default platform and built-in defaults. Zero-valued flag fields do
// not override.
func Resolve(dir string, flags Settings, store *Store) (Settings, error) {
	project, err := LoadProject(dir)
	if err != nil {
		return Settings{}, err
	}
	rc := ReadRCFile(filepath.Join(dir, RCFile))

	s := Settings{
		Platform:        project.Render.Platform,
		Naming:          project.Render.Naming,
		TranslateLabels: project.Render.TranslateLabels,
		RootName:        project.Render.RootName,
		Localizer:       project.Render.Localizer,
		ImageStrategy:   project.Images.Strategy,
		ImageFormat:     project.Images.Format,
		Resources:       project.Images.ResourcesDir,
		Concurrency:     project.Images.Concurrency,
		FileKey:         project.Figma.FileKey,
		APIBase:         project.Figma.APIBase,
	}

	if store != nil {
		if s.Platform == "" {
			p, err := store.DefaultPlatform()
			if err != nil {
				return Settings{}, err
			}
			s.Platform = p
		}

		// The document is known before the layers above it are applied.
		file := flags.File
		if file == "" {
			file = rc["FILE"]
		}
		if file != "" {
			doc, ok, err := store.Document(DocumentKey(dir, file))
			if err != nil {
				return Settings{}, err
			}
			if ok {
				override(&s.Platform, doc.Platform)
				override(&s.View, doc.View)
				override(&s.Resources, doc.Resources)
				override(&s.ImageStrategy, doc.ImageStrategy)
				override(&s.FileKey, doc.FileKey)
			}
		}
	}
	if s.Platform == "" {
		s.Platform = DefaultPlatform
	}

	if rc != nil {
		override(&s.Token, rc["FIGMA_TOKEN"])
		override(&s.File, rc["FILE"])
		override(&s.Platform, rc["PLATFORM"])
		override(&s.View, rc["VIEW"])
		override(&s.Resources, rc["RESOURCES"])
		override(&s.FileKey, rc["FILE_KEY"])
		if v, err := strconv.ParseBool(rc["TRANSLATE_LABELS"]); err == nil {
			s.TranslateLabels = v
		}
	}

	override(&s.Token, os.Getenv("FIGMA_TOKEN"))

	override(&s.Token, flags.Token)
	override(&s.File, flags.File)
	override(&s.Platform, flags.Platform)
	override(&s.View, flags.View)
	override(&s.Resources, flags.Resources)
	override(&s.Naming, flags.Naming)
	override(&s.RootName, flags.RootName)
	override(&s.Localizer, flags.Localizer)
	override(&s.ImageStrategy, flags.ImageStrategy)
	override(&s.ImageFormat, flags.ImageFormat)
	override(&s.FileKey, flags.FileKey)
	override(&s.APIBase, flags.APIBase)
	if flags.TranslateLabels {
		s.TranslateLabels = true
	}
	if flags.Concurrency > 0 {
		s.Concurrency = flags.Concurrency
	}
	return s, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
