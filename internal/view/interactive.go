package view

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os/exec"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"gopkg.in/yaml.v3"

	"github.com/k-kohey/figkit/internal/native"
)

// Loader prepares a render off the UI goroutine: reading and parsing happen
// here. Image completions must be posted through dispatcher, which applies
// them on the tview event loop.
type Loader func(ctx context.Context, dispatcher native.Dispatcher) (Render, error)

// Render fills container. It runs on the tview event loop, the only
// goroutine that touches the container.
type Render func(container *native.View) error

// loadOnto calls load on the current goroutine and hands the render of
// container to post. done runs after the render, inside the posted func.
func loadOnto(ctx context.Context, container *native.View, load Loader, dispatcher native.Dispatcher, post func(func()), done func(error)) {
	render, err := load(ctx, dispatcher)
	post(func() {
		if err == nil {
			err = render(container)
		}
		done(err)
	})
}

// RunInteractive browses the tree load renders into container. r re-renders
// in place, q or Esc on the tree quits.
func RunInteractive(ctx context.Context, container *native.View, load Loader) error {
	// Suppress all logs during TUI to avoid corrupting the terminal output.
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(math.MaxInt),
	})))
	defer slog.SetDefault(prev)

	app := tview.NewApplication()
	pages := tview.NewPages()

	loadingView := tview.NewTextView().
		SetTextAlign(tview.AlignLeft).
		SetDynamicColors(true)

	treeView := tview.NewTreeView()
	treeView.SetBorder(true).SetTitle(" Rendered Tree ")

	detailView := tview.NewTextView().
		SetDynamicColors(true)
	detailView.SetBorder(true)
	detailView.SetScrollable(true)

	treeFooter := tview.NewTextView().
		SetTextAlign(tview.AlignLeft).
		SetText(" ↑↓ navigate  Enter detail  r reload  f filter  q quit")
	treeWithFooter := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(treeView, 0, 1, true).
		AddItem(treeFooter, 1, 0, false)

	canShowInline := supportsInlineImage()
	var imageView *tview.Image
	if canShowInline {
		imageView = tview.NewImage()
		imageView.SetBorder(true).SetTitle(" Image ")
	}

	detailFooter := tview.NewTextView().
		SetTextAlign(tview.AlignLeft).
		SetText(" Esc back  j/k scroll  y yaml  q quit")

	var detailWithFooter *tview.Flex
	if canShowInline {
		detailContentFlex := tview.NewFlex().SetDirection(tview.FlexColumn).
			AddItem(detailView, 0, 7, true).
			AddItem(imageView, 0, 3, false)
		detailWithFooter = tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(detailContentFlex, 0, 1, true).
			AddItem(detailFooter, 1, 0, false)
	} else {
		detailWithFooter = tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(detailView, 0, 1, true).
			AddItem(detailFooter, 1, 0, false)
	}

	pages.AddPage("loading", loadingView, true, true)
	pages.AddPage("tree", treeWithFooter, true, false)
	pages.AddPage("detail", detailWithFooter, true, false)

	// Only touched on the UI goroutine.
	var current *native.View
	var asYAML bool

	updateDetailView := func() {
		if current == nil {
			return
		}
		node := BuildNode(current)
		if asYAML {
			node.Subviews = nil
			out, err := yaml.Marshal(node)
			if err != nil {
				detailView.SetText(fmt.Sprintf("Error: %v", err))
			} else {
				detailView.SetText(highlightYAML(tview.Escape(string(out))))
			}
		} else {
			detailView.SetText(renderDetailText(node))
		}
		if canShowInline {
			imageView.SetImage(current.Image())
		}
	}

	// Image completions land here, on the event loop.
	dispatcher := native.DispatcherFunc(func(fn func()) {
		app.QueueUpdateDraw(func() {
			fn()
			if root := treeView.GetRoot(); root != nil {
				refreshLabels(root)
			}
			updateDetailView()
		})
	})

	reload := func() {
		done := make(chan struct{})
		startSpinner(app, loadingView, done)
		post := func(fn func()) {
			close(done)
			app.QueueUpdateDraw(fn)
		}
		go loadOnto(ctx, container, load, dispatcher, post, func(err error) {
			if err != nil && len(container.Subviews()) == 0 {
				loadingView.SetText(fmt.Sprintf("\n   Error: %v", err))
				return
			}
			root := tview.NewTreeNode("Container").SetSelectable(false)
			for _, child := range buildTreeNodes(container.Subviews()) {
				root.AddChild(child)
			}
			treeView.SetRoot(root)
			if children := root.GetChildren(); len(children) > 0 {
				treeView.SetCurrentNode(children[0])
			}
			if err != nil {
				treeFooter.SetText(fmt.Sprintf(" Rendered with errors: %v", err))
			}
			current = nil
			pages.SwitchToPage("tree")
		})
	}

	treeView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() { //nolint:exhaustive // Only handling specific keys; default falls through.
		case tcell.KeyEnter:
			node := treeView.GetCurrentNode()
			if node == nil {
				return event
			}
			v, ok := node.GetReference().(*native.View)
			if !ok || v == nil {
				return event
			}
			current = v
			asYAML = false
			updateDetailView()
			detailView.SetTitle(fmt.Sprintf(" Detail: %s ", shortClass(v.Class())))
			detailView.ScrollToBeginning()
			pages.SwitchToPage("detail")
			return nil
		case tcell.KeyEscape:
			app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				app.Stop()
				return nil
			case 'r':
				pages.SwitchToPage("loading")
				reload()
				return nil
			case 'f':
				if _, err := exec.LookPath("fzf"); err != nil {
					return nil
				}
				root := treeView.GetRoot()
				if root == nil {
					return nil
				}
				lines := flattenTreeNodes(root, 0)
				if len(lines) == 0 {
					return nil
				}
				app.Suspend(func() {
					id, err := runFzfFilter(lines)
					if err != nil || id == "" {
						return
					}
					if target := findTreeNodeByID(root, id); target != nil {
						treeView.SetCurrentNode(target)
					}
				})
				return nil
			}
		}
		return event
	})

	detailView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() { //nolint:exhaustive // Only handling specific keys; default falls through.
		case tcell.KeyEscape:
			current = nil
			pages.SwitchToPage("tree")
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				app.Stop()
				return nil
			case 'y':
				asYAML = !asYAML
				updateDetailView()
				return nil
			case 'j':
				row, col := detailView.GetScrollOffset()
				detailView.ScrollTo(row+1, col)
				return nil
			case 'k':
				row, col := detailView.GetScrollOffset()
				if row > 0 {
					detailView.ScrollTo(row-1, col)
				}
				return nil
			}
		}
		return event
	})

	reload()

	app.SetRoot(pages, true)
	return app.Run()
}
