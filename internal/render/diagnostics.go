package render

import (
	"context"
	"log/slog"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a problem found while rendering a node.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	NodeID   string   `json:"nodeId,omitempty" yaml:"nodeId,omitempty"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Message  string   `json:"message" yaml:"message"`
	Err      error    `json:"-" yaml:"-"`
}

// Reporter surfaces diagnostics to the user. Hosts show structural errors
// in an alert; the CLI logs them.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// LogReporter writes diagnostics to a slog logger.
type LogReporter struct {
	Logger *slog.Logger
}

func (r LogReporter) Report(d Diagnostic) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelWarn
	if d.Severity == SeverityError {
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, d.Message, "node", d.NodeID, "name", d.Name)
}

// collector records diagnostics and forwards them to a reporter.
type collector struct {
	reporter Reporter
	items    []Diagnostic
	errs     []error
}

func (c *collector) warn(nodeID, name string, err error) {
	c.add(Diagnostic{Severity: SeverityWarning, NodeID: nodeID, Name: name, Message: err.Error(), Err: err})
}

func (c *collector) fail(nodeID, name string, err error) {
	c.errs = append(c.errs, err)
	c.add(Diagnostic{Severity: SeverityError, NodeID: nodeID, Name: name, Message: err.Error(), Err: err})
}

func (c *collector) add(d Diagnostic) {
	c.items = append(c.items, d)
	if c.reporter != nil {
		c.reporter.Report(d)
	}
}
