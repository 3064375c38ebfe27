package preview

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/k-kohey/figkit/internal/config"
	"github.com/k-kohey/figkit/internal/figmaapi"
	"github.com/k-kohey/figkit/internal/host"
	"github.com/k-kohey/figkit/internal/images"
	"github.com/k-kohey/figkit/internal/render"
)

// HostOptions maps resolved settings onto delegate options.
func HostOptions(s config.Settings, logger *slog.Logger) (host.Options, error) {
	strategy, err := images.ParseStrategy(s.ImageStrategy)
	if err != nil {
		return host.Options{}, err
	}
	opts := host.Options{
		Images:       strategy,
		ResourcesDir: s.Resources,
		ImageFormat:  s.ImageFormat,
		Concurrency:  s.Concurrency,
		Logger:       logger,
		Reporter:     render.LogReporter{Logger: logger},
	}
	if strategy == images.StrategyManifest && s.Resources != "" {
		opts.Manifest = os.DirFS(s.Resources)
	}
	if s.Token != "" || strategy == images.StrategyRemote {
		client := figmaapi.NewClient(s.Token)
		if s.APIBase != "" {
			client.BaseURL = s.APIBase
		}
		opts.Figma = client
	}
	return opts, nil
}

// CodeOptions maps resolved settings onto code renderer options.
func CodeOptions(s config.Settings) (render.CodeOptions, error) {
	naming, err := render.ParseNaming(s.Naming)
	if err != nil {
		return render.CodeOptions{}, err
	}
	opts := render.CodeOptions{
		Naming:          naming,
		TranslateLabels: s.TranslateLabels,
		RootName:        s.RootName,
	}
	if s.Localizer != "" {
		opts.Localizer = render.FormatLocalizer(s.Localizer)
	}
	return opts, nil
}

// Mode selects what a request renders.
type Mode string

const (
	ModeTree Mode = "tree"
	ModeCode Mode = "code"
)

// ParseMode parses a mode name. Empty means tree.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "tree":
		return ModeTree, nil
	case "code":
		return ModeCode, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want tree or code)", s)
	}
}
