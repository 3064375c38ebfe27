package view

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/k-kohey/figkit/internal/native"
)

var spinChars = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// shortClass drops the namespace: AppKit.NSComboBox -> NSComboBox.
func shortClass(class string) string {
	if i := strings.LastIndex(class, "."); i >= 0 {
		return class[i+1:]
	}
	return class
}

// buildTreeNodeLabel builds the display label for a tree node.
func buildTreeNodeLabel(v *native.View) string {
	var b strings.Builder
	b.WriteString(shortClass(v.Class()))
	if name := v.Name(); name != "" {
		fmt.Fprintf(&b, " %q", name)
	}
	if v.Image() != nil {
		b.WriteString(" ▣")
	}
	f := v.Frame()
	fmt.Fprintf(&b, " [gray]%.0fx%.0f[-]", f.Width, f.Height)
	return b.String()
}

// buildTreeNodes recursively converts views to tview TreeNodes.
func buildTreeNodes(views []*native.View) []*tview.TreeNode {
	result := make([]*tview.TreeNode, len(views))
	for i, v := range views {
		tn := tview.NewTreeNode(buildTreeNodeLabel(v)).
			SetReference(v).
			SetExpanded(true).
			SetSelectable(true)
		for _, child := range buildTreeNodes(v.Subviews()) {
			tn.AddChild(child)
		}
		result[i] = tn
	}
	return result
}

// refreshLabels re-renders every label, e.g. after images arrived.
func refreshLabels(node *tview.TreeNode) {
	if v, ok := node.GetReference().(*native.View); ok && v != nil {
		node.SetText(buildTreeNodeLabel(v))
	}
	for _, child := range node.GetChildren() {
		refreshLabels(child)
	}
}

// startSpinner runs a spinner animation on the given TextView until done is closed.
func startSpinner(app *tview.Application, tv *tview.TextView, done <-chan struct{}) {
	go func() {
		i := 0
		for {
			select {
			case <-done:
				return
			default:
			}
			ch := spinChars[i%len(spinChars)]
			app.QueueUpdateDraw(func() {
				tv.SetText(fmt.Sprintf("\n   %c Rendering document...", ch))
			})
			i++
			time.Sleep(100 * time.Millisecond)
		}
	}()
}

// formatConstraint formats a constraint as item.anchor = owner.anchor + constant.
func formatConstraint(owner string, c Constraint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  [cyan]%s[-].%s = ", c.Item, lowerFirst(c.Anchor))
	if c.Anchor == "Width" || c.Anchor == "Height" {
		b.WriteString(formatNumber(c.Constant))
		return b.String()
	}
	fmt.Fprintf(&b, "[green]%s[-].%s", owner, lowerFirst(c.Anchor))
	switch {
	case c.Constant > 0:
		fmt.Fprintf(&b, " + %s", formatNumber(c.Constant))
	case c.Constant < 0:
		fmt.Fprintf(&b, " - %s", formatNumber(-c.Constant))
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// formatNumber formats a float64 as an integer if it has no fractional part, otherwise with one decimal.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// renderDetailText converts a Node to colored key-value text for the TUI detail pane.
func renderDetailText(detail Node) string {
	var b strings.Builder
	label := "[yellow]"
	reset := "[-]"

	fmt.Fprintf(&b, "%sClass:%s        %s\n", label, reset, detail.Class)
	if detail.Name != "" {
		fmt.Fprintf(&b, "%sName:%s         %s\n", label, reset, detail.Name)
	}
	if detail.NodeID != "" {
		fmt.Fprintf(&b, "%sNode:%s         %s\n", label, reset, detail.NodeID)
	}
	if detail.Frame != nil {
		fmt.Fprintf(&b, "%sFrame:%s        (%s, %s) %sx%s\n", label, reset,
			formatNumber(detail.Frame.X), formatNumber(detail.Frame.Y),
			formatNumber(detail.Frame.Width), formatNumber(detail.Frame.Height))
	}
	if detail.Background != "" {
		fmt.Fprintf(&b, "%sBackground:%s   %s\n", label, reset, detail.Background)
	}
	if detail.Image != "" {
		fmt.Fprintf(&b, "%sImage:%s        %s\n", label, reset, detail.Image)
	}
	if len(detail.Subviews) > 0 {
		fmt.Fprintf(&b, "%sSubviews:%s     %d\n", label, reset, len(detail.Subviews))
	}

	if len(detail.Properties) > 0 {
		fmt.Fprintf(&b, "%sProperties:%s\n", label, reset)
		for _, p := range detail.Properties {
			fmt.Fprintf(&b, "  %s = %s\n", p.Name, tview.Escape(p.Value))
		}
	}
	if len(detail.Invocations) > 0 {
		fmt.Fprintf(&b, "%sCalls:%s\n", label, reset)
		for _, c := range detail.Invocations {
			fmt.Fprintf(&b, "  %s(%s)\n", c.Method, tview.Escape(strings.Join(c.Args, ", ")))
		}
	}
	if len(detail.Constraints) > 0 {
		owner := detail.Name
		if owner == "" {
			owner = "container"
		}
		fmt.Fprintf(&b, "%sConstraints:%s  %d\n", label, reset, len(detail.Constraints))
		for _, c := range detail.Constraints {
			b.WriteString(formatConstraint(owner, c))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

var yamlKeyRe = regexp.MustCompile(`^(\s*(?:- )?)(\w+)(:)`)

// highlightYAML adds tview color tags to YAML text for syntax highlighting.
func highlightYAML(yamlText string) string {
	lines := strings.Split(yamlText, "\n")
	var b strings.Builder
	for _, line := range lines {
		highlighted := yamlKeyRe.ReplaceAllString(line, "$1[yellow]$2[-]$3")
		b.WriteString(highlighted)
		b.WriteByte('\n')
	}
	return b.String()
}

// flattenTreeNodes recursively flattens TreeNodes into lines for fzf.
// Each line is "nodeID\tindent+label".
func flattenTreeNodes(node *tview.TreeNode, depth int) []string {
	var result []string
	if v, ok := node.GetReference().(*native.View); ok && v != nil {
		indent := strings.Repeat("  ", depth)
		result = append(result, fmt.Sprintf("%s\t%s%s", v.NodeID(), indent, node.GetText()))
	}
	for _, child := range node.GetChildren() {
		result = append(result, flattenTreeNodes(child, depth+1)...)
	}
	return result
}

// runFzfFilter launches fzf with the given lines and returns the selected node ID.
func runFzfFilter(lines []string) (string, error) {
	cmd := exec.Command("fzf", "--ansi", "--no-sort", "--header=Select a view", "--with-nth=2..")
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", err
	}
	go func() {
		defer func() { _ = stdin.Close() }()
		for _, line := range lines {
			_, _ = fmt.Fprintln(stdin, line)
		}
	}()

	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	selected := strings.TrimSpace(string(out))
	if idx := strings.Index(selected, "\t"); idx > 0 {
		return selected[:idx], nil
	}
	return selected, nil
}

// findTreeNodeByID searches the tree for the node rendered from nodeID.
func findTreeNodeByID(root *tview.TreeNode, nodeID string) *tview.TreeNode {
	if v, ok := root.GetReference().(*native.View); ok && v != nil && v.NodeID() == nodeID {
		return root
	}
	for _, child := range root.GetChildren() {
		if found := findTreeNodeByID(child, nodeID); found != nil {
			return found
		}
	}
	return nil
}

// supportsInlineImage checks if the terminal supports the Kitty graphics protocol.
func supportsInlineImage() bool {
	term := os.Getenv("TERM_PROGRAM")
	return term == "ghostty" || term == "xterm-kitty" || os.Getenv("KITTY_WINDOW_ID") != ""
}
