package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir changes the working directory to dir and registers a cleanup
// to restore the original directory when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(orig)
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadRC(t *testing.T) {
	t.Run("parses key-value pairs", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, RCFile), "FILE=login.json\nPLATFORM=uikit\nVIEW=Login\n")
		chdir(t, dir)

		rc := ReadRC()
		if rc["FILE"] != "login.json" {
			t.Errorf("FILE = %q, want login.json", rc["FILE"])
		}
		if rc["PLATFORM"] != "uikit" {
			t.Errorf("PLATFORM = %q, want uikit", rc["PLATFORM"])
		}
		if rc["VIEW"] != "Login" {
			t.Errorf("VIEW = %q, want Login", rc["VIEW"])
		}
	})

	t.Run("skips comments and blank lines", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, RCFile), "# comment\n\nVIEW=Settings\n")
		chdir(t, dir)

		rc := ReadRC()
		if len(rc) != 1 {
			t.Errorf("expected 1 key, got %d: %v", len(rc), rc)
		}
	})

	t.Run("value may contain equals", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, RCFile), "FIGMA_TOKEN=abc=def\n")
		rc := ReadRCFile(filepath.Join(dir, RCFile))
		if rc["FIGMA_TOKEN"] != "abc=def" {
			t.Errorf("FIGMA_TOKEN = %q", rc["FIGMA_TOKEN"])
		}
	})

	t.Run("missing file returns nil", func(t *testing.T) {
		chdir(t, t.TempDir())
		if rc := ReadRC(); rc != nil {
			t.Errorf("expected nil, got %v", rc)
		}
	})
}

func TestProject(t *testing.T) {
	t.Run("defaults when missing", func(t *testing.T) {
		p, err := LoadProject(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if p.Images.Strategy != "none" || p.Render.Naming != "camel" {
			t.Errorf("got %+v", p)
		}
	})

	t.Run("parses toml over defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ProjectFile), `
[render]
platform = "wpf"
translate_labels = true
localizer = "Strings.Get(%s)"

[images]
strategy = "dir"
resources_dir = "Resources"

[figma]
file_key = "AbC"
`)
		p, err := LoadProject(dir)
		if err != nil {
			t.Fatal(err)
		}
		if p.Render.Platform != "wpf" || !p.Render.TranslateLabels || p.Render.Localizer != "Strings.Get(%s)" {
			t.Errorf("render = %+v", p.Render)
		}
		if p.Images.Strategy != "dir" || p.Images.ResourcesDir != "Resources" || p.Images.Format != ".png" {
			t.Errorf("images = %+v", p.Images)
		}
		if p.Figma.FileKey != "AbC" {
			t.Errorf("figma = %+v", p.Figma)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		dir := t.TempDir()
		want := DefaultProject()
		want.Render.Platform = "uikit"
		if err := SaveProject(dir, want); err != nil {
			t.Fatal(err)
		}
		got, err := LoadProject(dir)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("invalid toml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ProjectFile), "[render\n")
		if _, err := LoadProject(dir); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestStore(t *testing.T) {
	t.Run("load empty", func(t *testing.T) {
		store := NewStoreAt(filepath.Join(t.TempDir(), "config.json"))
		got, err := store.DefaultPlatform()
		if err != nil || got != "" {
			t.Errorf("got %q, %v", got, err)
		}
		keys, err := store.Documents()
		if err != nil || len(keys) != 0 {
			t.Errorf("Documents() = %v, %v", keys, err)
		}
	})

	t.Run("default platform", func(t *testing.T) {
		store := NewStoreAt(filepath.Join(t.TempDir(), "nested", "config.json"))
		if err := store.SetDefaultPlatform("wpf"); err != nil {
			t.Fatalf("SetDefaultPlatform: %v", err)
		}
		if got, _ := store.DefaultPlatform(); got != "wpf" {
			t.Errorf("got %q", got)
		}
		if err := store.SetDefaultPlatform(""); err != nil {
			t.Fatal(err)
		}
		if got, _ := store.DefaultPlatform(); got != "" {
			t.Errorf("after clear got %q", got)
		}
	})

	t.Run("document defaults", func(t *testing.T) {
		store := NewStoreAt(filepath.Join(t.TempDir(), "config.json"))
		store.now = func() time.Time { return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC) }
		key := DocumentKey("/work", "designs/app.json")
		if key != filepath.Clean("/work/designs/app.json") {
			t.Fatalf("DocumentKey = %q", key)
		}

		if err := store.Remember(key, DocumentDefaults{Platform: "uikit", View: "Login"}); err != nil {
			t.Fatalf("Remember: %v", err)
		}
		if err := store.Remember(key, DocumentDefaults{Resources: "Assets"}); err != nil {
			t.Fatal(err)
		}
		got, ok, err := store.Document(key)
		if err != nil || !ok {
			t.Fatalf("Document() = %+v, %v, %v", got, ok, err)
		}
		want := DocumentDefaults{Platform: "uikit", View: "Login", Resources: "Assets", UpdatedAt: store.now()}
		if got != want {
			t.Errorf("Document() = %+v, want %+v", got, want)
		}

		if err := store.Remember(DocumentKey("/work", "empty.json"), DocumentDefaults{}); err != nil {
			t.Fatal(err)
		}
		keys, _ := store.Documents()
		if len(keys) != 1 || keys[0] != key {
			t.Errorf("Documents() = %v, empty defaults should not be stored", keys)
		}

		if err := store.Forget(key); err != nil {
			t.Fatal(err)
		}
		if _, ok, _ := store.Document(key); ok {
			t.Error("document still remembered after Forget")
		}
	})

	t.Run("corrupted json", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.json")
		writeFile(t, p, "{invalid")
		if _, err := NewStoreAt(p).DefaultPlatform(); err == nil {
			t.Error("expected error")
		}
		if err := NewStoreAt(p).SetDefaultPlatform("wpf"); err == nil {
			t.Error("update must not overwrite an unreadable store")
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStoreAt(filepath.Join(dir, "config.json"))
		if err := store.SetDefaultPlatform("cocoa"); err != nil {
			t.Fatal(err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			t.Errorf("expected only config.json, got %d entries", len(entries))
		}
	})
}

func TestResolve(t *testing.T) {
	t.Setenv("FIGMA_TOKEN", "")

	t.Run("defaults", func(t *testing.T) {
		s, err := Resolve(t.TempDir(), Settings{}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if s.Platform != DefaultPlatform || s.Naming != "camel" {
			t.Errorf("got %+v", s)
		}
	})

	t.Run("precedence", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStoreAt(filepath.Join(t.TempDir(), "config.json"))
		if err := store.SetDefaultPlatform("wpf"); err != nil {
			t.Fatal(err)
		}

		s, _ := Resolve(dir, Settings{}, store)
		if s.Platform != "wpf" {
			t.Errorf("store: platform = %q", s.Platform)
		}

		writeFile(t, filepath.Join(dir, ProjectFile), "[render]\nplatform = \"uikit\"\n")
		s, _ = Resolve(dir, Settings{}, store)
		if s.Platform != "uikit" {
			t.Errorf("toml: platform = %q", s.Platform)
		}

		if err := store.Remember(DocumentKey(dir, "app.json"), DocumentDefaults{Platform: "wpf", View: "Main", ImageStrategy: "dir"}); err != nil {
			t.Fatal(err)
		}
		s, _ = Resolve(dir, Settings{File: "app.json"}, store)
		if s.Platform != "wpf" || s.View != "Main" || s.ImageStrategy != "dir" {
			t.Errorf("document: %+v", s)
		}
		s, _ = Resolve(dir, Settings{File: "other.json"}, store)
		if s.Platform != "uikit" || s.View != "" {
			t.Errorf("unrelated document: %+v", s)
		}

		writeFile(t, filepath.Join(dir, RCFile), "PLATFORM=cocoa\nFIGMA_TOKEN=from-rc\n")
		s, _ = Resolve(dir, Settings{}, store)
		if s.Platform != "cocoa" || s.Token != "from-rc" {
			t.Errorf("rc: %+v", s)
		}

		t.Setenv("FIGMA_TOKEN", "from-env")
		s, _ = Resolve(dir, Settings{}, store)
		if s.Token != "from-env" {
			t.Errorf("env: token = %q", s.Token)
		}

		s, _ = Resolve(dir, Settings{Platform: "wpf", Token: "from-flag"}, store)
		if s.Platform != "wpf" || s.Token != "from-flag" {
			t.Errorf("flags: %+v", s)
		}
	})
}
