package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"rppreview/internal/preview"
)

// statusKind selects the tag and colour of a status line. Project outcomes
// and preflight results share one set of kinds.
type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusSkip
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiDim    = "\x1b[2m"
)

type statusStyle struct {
	tag   string
	color string
}

var statusStyles = map[statusKind]statusStyle{
	statusInfo:  {tag: "INFO", color: ansiBlue},
	statusOK:    {tag: "OK", color: ansiGreen},
	statusSkip:  {tag: "SKIP", color: ansiDim},
	statusWarn:  {tag: "WARN", color: ansiYellow},
	statusError: {tag: "ERROR", color: ansiRed},
}

const (
	statusLabelWidth = 24
	statusIndent     = "  "
)

func styleFor(kind statusKind) statusStyle {
	if style, ok := statusStyles[kind]; ok {
		return style
	}
	return statusStyles[statusInfo]
}

// renderStatusLine formats "  label:   [TAG] message", coloured as a whole
// when colorize is set.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := styleFor(kind)
	var b strings.Builder
	b.WriteString(statusIndent)
	fmt.Fprintf(&b, "%-*s [%s]", statusLabelWidth, label+":", style.tag)
	if message != "" {
		b.WriteString(" ")
		b.WriteString(message)
	}
	if !colorize {
		return b.String()
	}
	return style.color + b.String() + ansiReset
}

// progressLine reports one finished project as "[i/n] name".
func progressLine(index, total int, res preview.Result, colorize bool) string {
	label := fmt.Sprintf("[%d/%d] %s", index, total, res.Project.Name)
	kind, message := outcomeStatus(res)
	return renderStatusLine(label, kind, message, colorize)
}

func outcomeStatus(res preview.Result) (statusKind, string) {
	switch res.Status {
	case preview.StatusSucceeded:
		return statusOK, fmt.Sprintf("%s (%s)", res.OutputPath, formatElapsed(res.Elapsed))
	case preview.StatusSkipped:
		return statusSkip, "up to date"
	default:
		return statusError, failureDetail(res.Err)
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(line))
	if colorize {
		return []string{ansiBlue + line + ansiReset, ansiBlue + rule + ansiReset}
	}
	return []string{line, rule}
}

// shouldColorize reports whether writer is a terminal.
func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
