package host

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/figmaapi"
	"github.com/k-kohey/figkit/internal/images"
	"github.com/k-kohey/figkit/internal/native"
	"github.com/k-kohey/figkit/internal/render"
)

func loadWindow(t *testing.T) *document.Document {
	t.Helper()
	doc, err := document.LoadFile(filepath.Join("testdata", "window.json"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return doc
}

func newDelegate(t *testing.T, platform string, opts Options) *Delegate {
	t.Helper()
	d, err := New(platform, opts)
	if err != nil {
		t.Fatalf("New(%q): %v", platform, err)
	}
	return d
}

func find(root *native.View, name string) *native.View {
	var found *native.View
	var walk func(v *native.View)
	walk = func(v *native.View) {
		if found != nil {
			return
		}
		if v.Name() == name {
			found = v
			return
		}
		for _, c := range v.Subviews() {
			walk(c)
		}
	}
	walk(root)
	return found
}

func property(t *testing.T, v *native.View, name string) string {
	t.Helper()
	got, ok := v.Property(name)
	if !ok {
		t.Fatalf("%s: property %s not set (have %v)", v.Name(), name, v.Properties())
	}
	return got
}

func TestLookup(t *testing.T) {
	t.Run("known platforms", func(t *testing.T) {
		for _, name := range []string{"cocoa", "UIKit", "wpf"} {
			v, err := Lookup(name)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", name, err)
			}
			if v.Name() != strings.ToLower(name) {
				t.Errorf("Name() = %q, want %q", v.Name(), strings.ToLower(name))
			}
		}
	})

	t.Run("unknown platform", func(t *testing.T) {
		_, err := Lookup("gtk")
		if err == nil || !strings.Contains(err.Error(), "cocoa, uikit, wpf") {
			t.Fatalf("Lookup(gtk) error = %v", err)
		}
	})
}

func TestConvertersBuildRegistry(t *testing.T) {
	for _, name := range Platforms() {
		t.Run(name, func(t *testing.T) {
			v, _ := Lookup(name)
			if _, err := render.NewRegistry(Converters(v)); err != nil {
				t.Fatalf("NewRegistry: %v", err)
			}
		})
	}
}

func TestCocoaRender(t *testing.T) {
	d := newDelegate(t, "cocoa", Options{})
	container := d.CreateEmptyView()

	res, err := d.LoadFigmaFromFrameEntity(context.Background(), container, loadWindow(t), "Settings", "")
	if err != nil {
		t.Fatalf("LoadFigmaFromFrameEntity: %v", err)
	}
	if res.Converted != 9 {
		t.Errorf("Converted = %d, want 9", res.Converted)
	}
	if got := property(t, container, "WantsLayer"); got != "true" {
		t.Errorf("container WantsLayer = %q", got)
	}

	t.Run("small combo box", func(t *testing.T) {
		v := find(container, "Server")
		if v.Class() != "AppKit.NSComboBox" {
			t.Errorf("Class() = %q", v.Class())
		}
		if got := property(t, v, "ControlSize"); got != "AppKit.NSControlSize.Small" {
			t.Errorf("ControlSize = %q", got)
		}
		if _, ok := v.Property("Font"); ok {
			t.Error("small combo box should keep the small control font")
		}
		if got := property(t, v, "StringValue"); got != "production" {
			t.Errorf("StringValue = %q", got)
		}
		calls := v.Invocations()
		if len(calls) != 1 || calls[0].Method != "Add" || calls[0].Args[0] != `new Foundation.NSString("production")` {
			t.Errorf("Invocations() = %+v", calls)
		}
		if len(v.Subviews()) != 0 {
			t.Errorf("combo box should consume its children, got %d subviews", len(v.Subviews()))
		}
	})

	t.Run("standard combo box", func(t *testing.T) {
		v := find(container, "Region")
		if got := property(t, v, "ControlSize"); got != "AppKit.NSControlSize.Regular" {
			t.Errorf("ControlSize = %q", got)
		}
		if got := property(t, v, "Font"); got != "AppKit.NSFont.SystemFontOfSize(AppKit.NSFont.SystemFontSize)" {
			t.Errorf("Font = %q", got)
		}
	})

	t.Run("dark button", func(t *testing.T) {
		v := find(container, "Apply")
		if got := property(t, v, "Appearance"); !strings.Contains(got, "NameDarkAqua") {
			t.Errorf("Appearance = %q", got)
		}
		if got := property(t, v, "Title"); got != "Apply" {
			t.Errorf("Title = %q", got)
		}
	})

	t.Run("flipped frame", func(t *testing.T) {
		v := find(container, "Title")
		if got := property(t, v, "Frame"); got != "new CoreGraphics.CGRect(20, 256, 200, 24)" {
			t.Errorf("Frame = %q", got)
		}
		if got := property(t, v, "Alignment"); got != "AppKit.NSTextAlignment.Center" {
			t.Errorf("Alignment = %q", got)
		}
		if n := len(container.Subviews()[0].Constraints()); n != 4 {
			t.Errorf("root constraints = %d, want 4", n)
		}
	})

	t.Run("image fill wins over rectangle", func(t *testing.T) {
		v := find(container, "Logo")
		if v.Class() != "AppKit.NSImageView" {
			t.Errorf("Class() = %q", v.Class())
		}
		var refs []string
		for _, img := range res.Images {
			refs = append(refs, img.ImageRef)
		}
		if strings.Join(refs, ",") != "abc123,1_12" {
			t.Errorf("image refs = %v", refs)
		}
	})

	t.Run("shapes", func(t *testing.T) {
		if got := property(t, find(container, "Divider"), "BoxType"); got != "AppKit.NSBoxType.Separator" {
			t.Errorf("BoxType = %q", got)
		}
		if got := property(t, find(container, "Badge"), "Layer.CornerRadius"); got != "10" {
			t.Errorf("CornerRadius = %q", got)
		}
	})
}

func TestUIKitReportsUnsupportedControls(t *testing.T) {
	var diags []render.Diagnostic
	d := newDelegate(t, "uikit", Options{Reporter: render.ReporterFunc(func(d render.Diagnostic) {
		diags = append(diags, d)
	})})
	container := d.CreateEmptyView()

	res, err := d.LoadFigmaFromFrameEntity(context.Background(), container, loadWindow(t), "Settings", "")
	if !errors.Is(err, render.ErrNoConverter) {
		t.Fatalf("error = %v, want ErrNoConverter", err)
	}
	if res.Converted != 7 {
		t.Errorf("Converted = %d, want 7", res.Converted)
	}
	if len(diags) != 2 || diags[0].Name != "Server" || diags[1].Name != "Region" {
		t.Errorf("diagnostics = %+v", diags)
	}
	if find(container, "Apply") == nil {
		t.Error("siblings of a failed node should still render")
	}
	if got := property(t, find(container, "Title"), "Frame"); got != "new CoreGraphics.CGRect(20, 20, 200, 24)" {
		t.Errorf("Frame = %q", got)
	}
}

func TestWPFRender(t *testing.T) {
	d := newDelegate(t, "wpf", Options{})
	container := d.CreateEmptyView()
	if container.Class() != "System.Windows.Controls.Canvas" {
		t.Fatalf("container class = %q", container.Class())
	}

	if _, err := d.LoadFigmaFromFrameEntity(context.Background(), container, loadWindow(t), "Settings", ""); err != nil {
		t.Fatalf("LoadFigmaFromFrameEntity: %v", err)
	}

	title := find(container, "Title")
	if got := property(t, title, "Margin"); got != "new System.Windows.Thickness(20, 20, 0, 0)" {
		t.Errorf("Margin = %q", got)
	}
	if got := property(t, title, "FontWeight"); got != "System.Windows.FontWeight.FromOpenTypeWeight(600)" {
		t.Errorf("FontWeight = %q", got)
	}
	if n := len(container.Subviews()[0].Constraints()); n != 0 {
		t.Errorf("WPF should not emit anchors, got %d", n)
	}
	server := find(container, "Server")
	if got := property(t, server, "FontSize"); got != "11" {
		t.Errorf("FontSize = %q", got)
	}
	if got := property(t, find(container, "Badge"), "Background"); got != "new System.Windows.Media.SolidColorBrush(System.Windows.Media.Color.FromArgb(255, 255, 0, 0))" {
		t.Errorf("Background = %q", got)
	}
}

func TestWPFSizeClass(t *testing.T) {
	if got := wpf.sizeClass(document.SizeStandard); got != nil {
		t.Errorf("Standard = %+v, want no assignments", got)
	}
	got := wpf.sizeClass(document.SizeSmall)
	if len(got) != 1 || got[0].Member != "FontSize" {
		t.Errorf("Small = %+v, want a FontSize assignment", got)
	}
}

func TestCocoaCode(t *testing.T) {
	d := newDelegate(t, "cocoa", Options{})
	doc := loadWindow(t)

	t.Run("small combo box", func(t *testing.T) {
		r, err := render.NewCodeRenderer(d, render.CodeOptions{}, nil)
		if err != nil {
			t.Fatal(err)
		}
		n, err := doc.FindView("Settings", "Server")
		if err != nil {
			t.Fatal(err)
		}
		got, err := r.RenderToCode(n, "")
		if err != nil {
			t.Fatalf("RenderToCode: %v", err)
		}
		want := strings.Join([]string{
			"var server = new AppKit.NSComboBox();",
			"server.Frame = new CoreGraphics.CGRect(0, 0, 160, 22);",
			"server.ControlSize = AppKit.NSControlSize.Small;",
			`server.StringValue = "production";`,
			`server.Add(new Foundation.NSString("production"));`,
			"",
		}, "\n")
		if got != want {
			t.Errorf("RenderToCode() =\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("standard combo box with translated label", func(t *testing.T) {
		r, err := render.NewCodeRenderer(d, render.CodeOptions{TranslateLabels: true}, nil)
		if err != nil {
			t.Fatal(err)
		}
		n, _ := doc.FindView("Settings", "Region")
		got, err := r.RenderToCode(n, "")
		if err != nil {
			t.Fatalf("RenderToCode: %v", err)
		}
		for _, line := range []string{
			"region.ControlSize = AppKit.NSControlSize.Regular;",
			"region.Font = AppKit.NSFont.SystemFontOfSize(AppKit.NSFont.SystemFontSize);",
			`region.StringValue = Foundation.NSBundle.MainBundle.GetLocalizedString("eu-west", null);`,
			`region.Add(new Foundation.NSString(Foundation.NSBundle.MainBundle.GetLocalizedString("eu-west", null)));`,
		} {
			if !strings.Contains(got, line+"\n") {
				t.Errorf("missing %q in:\n%s", line, got)
			}
		}
	})

	t.Run("whole frame", func(t *testing.T) {
		r, err := render.NewCodeRenderer(d, render.CodeOptions{RootName: "this"}, nil)
		if err != nil {
			t.Fatal(err)
		}
		n, _ := doc.FindView("Settings", "")
		got, err := r.RenderToCode(n, "")
		if err != nil {
			t.Fatalf("RenderToCode: %v", err)
		}
		for _, line := range []string{
			"this.Layer.BackgroundColor = AppKit.NSColor.FromRgba(1, 1, 1, 1).CGColor;",
			"this.AddSubview(title);",
			"title.TranslatesAutoresizingMaskIntoConstraints = false;",
			"title.LeftAnchor.ConstraintEqualToAnchor(this.LeftAnchor, 20f).Active = true;",
			`logo.Image = AppKit.NSImage.ImageNamed("abc123");`,
			`icon.Image = AppKit.NSImage.ImageNamed("1_12");`,
		} {
			if !strings.Contains(got, line+"\n") {
				t.Errorf("missing %q in:\n%s", line, got)
			}
		}
		if strings.Contains(got, "new AppKit.NSView();\nthis") {
			t.Errorf("root named this should not be constructed:\n%s", got)
		}
	})
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFrameImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "abc123.png"))

	d := newDelegate(t, "cocoa", Options{Images: images.StrategyDirectory, ResourcesDir: dir})
	container := d.CreateEmptyView()

	res, batch, err := d.LoadFrame(context.Background(), container, loadWindow(t), "Settings", "")
	if err != nil {
		t.Fatalf("LoadFrame: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stats, err := batch.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats != (images.Stats{Loaded: 1, Missing: 1}) {
		t.Errorf("Stats = %+v", stats)
	}
	if !res.Images[0].Loaded() {
		t.Error("logo image should be loaded")
	}
}

func TestLoadFrameMissingView(t *testing.T) {
	var reported int
	d := newDelegate(t, "cocoa", Options{Reporter: render.ReporterFunc(func(render.Diagnostic) { reported++ })})

	_, _, err := d.LoadFrame(context.Background(), d.CreateEmptyView(), loadWindow(t), "Nope", "")
	if !errors.Is(err, document.ErrViewNotFound) {
		t.Fatalf("error = %v, want ErrViewNotFound", err)
	}
	if reported != 1 {
		t.Errorf("reported = %d, want 1", reported)
	}
}

func TestImageSource(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		key  string
		want string
	}{
		{"none", Options{}, "", ""},
		{"manifest", Options{Images: images.StrategyManifest}, "", "*images.Manifest"},
		{"dir", Options{Images: images.StrategyDirectory}, "", "*images.Directory"},
		{"remote without token", Options{Images: images.StrategyRemote, Figma: figmaapi.NewClient("")}, "KEY", ""},
		{"remote", Options{Images: images.StrategyRemote, Figma: figmaapi.NewClient("tok")}, "KEY", "*images.Remote"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newDelegate(t, "cocoa", tt.opts).ImageSource(tt.key)
			got := ""
			switch src.(type) {
			case *images.Manifest:
				got = "*images.Manifest"
			case *images.Directory:
				got = "*images.Directory"
			case *images.Remote:
				got = "*images.Remote"
			}
			if got != tt.want {
				t.Errorf("ImageSource() = %s, want %q", got, tt.want)
			}
		})
	}
}

func TestGetFigmaFileContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-FIGMA-TOKEN") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/files/AbC123" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"name":"x"}`))
	}))
	defer srv.Close()

	client := figmaapi.NewClient("")
	client.BaseURL = srv.URL
	d := newDelegate(t, "cocoa", Options{Figma: client})

	t.Run("url", func(t *testing.T) {
		data, err := d.GetFigmaFileContent(context.Background(), "https://www.figma.com/design/AbC123/Settings?node-id=1-1", "secret")
		if err != nil {
			t.Fatalf("GetFigmaFileContent: %v", err)
		}
		if string(data) != `{"name":"x"}` {
			t.Errorf("data = %s", data)
		}
	})

	t.Run("bad token", func(t *testing.T) {
		_, err := d.GetFigmaFileContent(context.Background(), "AbC123", "wrong")
		if !errors.Is(err, figmaapi.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("no token", func(t *testing.T) {
		_, err := d.GetFigmaFileContent(context.Background(), "AbC123", "")
		if !errors.Is(err, figmaapi.ErrNoToken) {
			t.Errorf("error = %v, want ErrNoToken", err)
		}
	})

	if client.Token != "" {
		t.Error("GetFigmaFileContent must not mutate the shared client")
	}
}

type messageHandler struct {
	mu       sync.Mutex
	messages []string
}

func (h *messageHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *messageHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, r.Message)
	return nil
}
func (h *messageHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *messageHandler) WithGroup(string) slog.Handler      { return h }

func (h *messageHandler) count(msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, m := range h.messages {
		if m == msg {
			n++
		}
	}
	return n
}

func pngData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestGetImageFromManifest(t *testing.T) {
	d := newDelegate(t, "cocoa", Options{})
	fsys := fstest.MapFS{"abc123.png": {Data: pngData(t)}}

	img, err := d.GetImageFromManifest(fsys, "abc123")
	if err != nil || img.Bounds().Dx() != 8 {
		t.Fatalf("GetImageFromManifest = %v, %v", img, err)
	}
	if _, err := d.GetImageFromManifest(fsys, "absent"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing resource err = %v, want fs.ErrNotExist", err)
	}
}

func TestGetImageFromFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	writePNG(t, path)
	d := newDelegate(t, "cocoa", Options{})

	if _, err := d.GetImageFromFilePath(path); err != nil {
		t.Fatalf("GetImageFromFilePath: %v", err)
	}
	if _, err := d.GetImageFromFilePath(filepath.Join(dir, "absent.png")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file err = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadFrameManifestImages(t *testing.T) {
	h := &messageHandler{}
	d := newDelegate(t, "cocoa", Options{
		Images:   images.StrategyManifest,
		Manifest: fstest.MapFS{"abc123.png": {Data: pngData(t)}},
		Logger:   slog.New(h),
	})

	res, batch, err := d.LoadFrame(context.Background(), d.CreateEmptyView(), loadWindow(t), "Settings", "")
	if err != nil {
		t.Fatalf("LoadFrame: %v", err)
	}
	if stats := batch.Stats(); stats != (images.Stats{Loaded: 1, Missing: 1}) {
		t.Errorf("Stats = %+v", stats)
	}
	if !res.Images[0].Loaded() || res.Images[1].Loaded() {
		t.Error("only the manifest resource should load")
	}
	if got := h.count("Resource not found in manifest"); got != 1 {
		t.Errorf("logged %d not-found records, want 1", got)
	}
}

func TestLoadFrameDirectoryNotFound(t *testing.T) {
	h := &messageHandler{}
	d := newDelegate(t, "wpf", Options{Images: images.StrategyDirectory, ResourcesDir: t.TempDir(), Logger: slog.New(h)})

	_, batch, err := d.LoadFrame(context.Background(), d.CreateEmptyView(), loadWindow(t), "Settings", "")
	if err != nil {
		t.Fatalf("LoadFrame: %v", err)
	}
	if stats := batch.Stats(); stats != (images.Stats{Missing: 2}) {
		t.Errorf("Stats = %+v", stats)
	}
	if got := h.count("Resource not found"); got != 2 {
		t.Errorf("logged %d not-found records, want 2", got)
	}
}
