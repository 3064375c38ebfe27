package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/k-kohey/figkit/internal/config"
	"github.com/k-kohey/figkit/internal/render"
)

func TestPlatformsCommand(t *testing.T) {
	var buf bytes.Buffer
	platformsCmd.SetOut(&buf)
	defer platformsCmd.SetOut(nil)

	if err := platformsCmd.RunE(platformsCmd, nil); err != nil {
		t.Fatalf("platforms: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"PLATFORM", "cocoa", "AppKit.NSView", "uikit", "wpf", "System.Windows.Controls.Canvas"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestConfigPlatformCommands(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	configSetPlatformCmd.SetOut(&buf)
	configGetPlatformCmd.SetOut(&buf)
	defer configSetPlatformCmd.SetOut(nil)
	defer configGetPlatformCmd.SetOut(nil)

	if err := configSetPlatformCmd.RunE(configSetPlatformCmd, []string{"gtk"}); err == nil {
		t.Error("expected error for unknown platform")
	}
	if err := configSetPlatformCmd.RunE(configSetPlatformCmd, []string{"WPF"}); err != nil {
		t.Fatalf("set-platform: %v", err)
	}
	buf.Reset()
	if err := configGetPlatformCmd.RunE(configGetPlatformCmd, nil); err != nil {
		t.Fatalf("get-platform: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "wpf" {
		t.Errorf("get-platform = %q, want wpf", got)
	}

	if err := configClearPlatformCmd.RunE(configClearPlatformCmd, nil); err != nil {
		t.Fatalf("clear-platform: %v", err)
	}
	buf.Reset()
	if err := configGetPlatformCmd.RunE(configGetPlatformCmd, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "built-in default") {
		t.Errorf("get-platform after clear = %q", buf.String())
	}
}

func TestResolveSettingsFromRC(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".figkitrc"), []byte("FILE=window.json\nVIEW=Settings\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FIGMA_TOKEN", "")

	s, err := resolveSettings("")
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if s.View != "Settings" || filepath.Base(s.File) != "window.json" {
		t.Errorf("settings = %+v", s)
	}

	s, err = resolveSettings("other.json")
	if err != nil {
		t.Fatal(err)
	}
	if s.File != "other.json" {
		t.Errorf("File = %q, want the argument to win", s.File)
	}
}

func TestConfigDocumentCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FIGMA_TOKEN", "")

	saved := flags
	defer func() { flags = saved }()

	var buf bytes.Buffer
	configRememberCmd.SetOut(&buf)
	configDocumentsCmd.SetOut(&buf)
	defer configRememberCmd.SetOut(nil)
	defer configDocumentsCmd.SetOut(nil)

	t.Run("nothing to remember", func(t *testing.T) {
		flags = config.Settings{}
		if err := configRememberCmd.RunE(configRememberCmd, []string{"app.json"}); err == nil {
			t.Error("expected error without any flag")
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		flags = config.Settings{Platform: "gtk"}
		if err := configRememberCmd.RunE(configRememberCmd, []string{"app.json"}); err == nil {
			t.Error("expected error for unknown platform")
		}
		flags = config.Settings{ImageStrategy: "ftp"}
		if err := configRememberCmd.RunE(configRememberCmd, []string{"app.json"}); err == nil {
			t.Error("expected error for unknown image strategy")
		}
	})

	t.Run("remember feeds resolve", func(t *testing.T) {
		flags = config.Settings{Platform: "WPF", View: "Main"}
		if err := configRememberCmd.RunE(configRememberCmd, []string{"app.json"}); err != nil {
			t.Fatalf("remember: %v", err)
		}

		flags = config.Settings{}
		s, err := resolveSettings("app.json")
		if err != nil {
			t.Fatal(err)
		}
		if s.Platform != "wpf" || s.View != "Main" {
			t.Errorf("settings = %+v, want remembered wpf/Main", s)
		}

		flags = config.Settings{Platform: "uikit"}
		s, _ = resolveSettings("app.json")
		if s.Platform != "uikit" || s.View != "Main" {
			t.Errorf("settings = %+v, want the flag to win over the remembered platform", s)
		}
	})

	t.Run("documents and forget", func(t *testing.T) {
		buf.Reset()
		if err := configDocumentsCmd.RunE(configDocumentsCmd, nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), filepath.Join(dir, "app.json")) || !strings.Contains(buf.String(), "wpf") {
			t.Errorf("documents output:\n%s", buf.String())
		}

		if err := configForgetCmd.RunE(configForgetCmd, []string{"app.json"}); err != nil {
			t.Fatal(err)
		}
		buf.Reset()
		if err := configDocumentsCmd.RunE(configDocumentsCmd, nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "No remembered documents") {
			t.Errorf("documents after forget:\n%s", buf.String())
		}

		flags = config.Settings{}
		s, _ := resolveSettings("app.json")
		if s.View != "" {
			t.Errorf("View = %q after forget", s.View)
		}
	})
}

func TestRenderAndCodeFromURL(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "internal", "preview", "testdata", "window.json"))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FIGMA_TOKEN", "")

	saved := flags
	defer func() { flags = saved }()
	defer func() { renderURL, codeURL = "", "" }()

	var buf bytes.Buffer
	renderCmd.SetOut(&buf)
	codeCmd.SetOut(&buf)
	defer renderCmd.SetOut(nil)
	defer codeCmd.SetOut(nil)
	renderCmd.SetContext(context.Background())
	codeCmd.SetContext(context.Background())

	t.Run("render", func(t *testing.T) {
		buf.Reset()
		flags = config.Settings{Platform: "cocoa", View: "Settings"}
		renderURL = srv.URL + "/window.json"
		if err := renderCmd.RunE(renderCmd, nil); err != nil {
			t.Fatalf("render --url: %v", err)
		}
		if !strings.Contains(buf.String(), "Settings") {
			t.Errorf("output:\n%s", buf.String())
		}
	})

	t.Run("file and url", func(t *testing.T) {
		renderURL = srv.URL + "/window.json"
		if err := renderCmd.RunE(renderCmd, []string{"window.json"}); err == nil {
			t.Error("expected error when both a file and --url are given")
		}
	})

	t.Run("missing converters fail the command", func(t *testing.T) {
		buf.Reset()
		flags = config.Settings{Platform: "uikit", View: "Settings"}
		codeURL = srv.URL + "/window.json"
		err := codeCmd.RunE(codeCmd, nil)
		if !errors.Is(err, render.ErrNoConverter) {
			t.Errorf("code --url error = %v, want ErrNoConverter", err)
		}
		if buf.Len() == 0 {
			t.Error("expected the code of the supported nodes on stdout")
		}
	})
}
