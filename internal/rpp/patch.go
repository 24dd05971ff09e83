package rpp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RenderSpec describes the preview render a patched project should perform.
type RenderSpec struct {
	// OutputDir receives the rendered file. Relative values are made absolute
	// because the patched copy lives outside the project directory.
	OutputDir string
	// Pattern is the output file name without extension.
	Pattern string
	// Start and End are seconds from the project timeline origin.
	Start float64
	End   float64
	// Format selects the RENDER_CFG codec payload.
	Format Format
}

// RENDER_RANGE fields: bounds flag, start, end, tail-only flag, tail length (ms).
const (
	boundsCustomTime = 0
	rangeTailFlag    = 18
	rangeTailMillis  = 1000
)

// setting is a top-level scalar line rewritten in place or inserted before
// the root close.
type setting struct {
	key     string
	matcher *regexp.Regexp
	format  func(RenderSpec) string
}

// block is a top-level nested element replaced wholesale or inserted before
// the root close.
type block struct {
	tag     string
	matcher *regexp.Regexp
	format  func(spec RenderSpec, newline string) string
}

func newSetting(key string, format func(RenderSpec) string) setting {
	return setting{
		key:     key,
		matcher: regexp.MustCompile(`(?m)^  ` + regexp.QuoteMeta(key) + `\b[^\r\n]*`),
		format:  format,
	}
}

func newBlock(tag string, format func(RenderSpec, string) string) block {
	return block{
		tag:     tag,
		matcher: regexp.MustCompile(`(?ms)^  <` + regexp.QuoteMeta(tag) + `\b.*?^  >`),
		format:  format,
	}
}

var renderSettings = []setting{
	newSetting("RENDER_FILE", func(s RenderSpec) string {
		return "  RENDER_FILE " + quote(absSlashPath(s.OutputDir))
	}),
	newSetting("RENDER_PATTERN", func(s RenderSpec) string {
		return "  RENDER_PATTERN " + quote(s.Pattern)
	}),
	newSetting("RENDER_RANGE", func(s RenderSpec) string {
		return fmt.Sprintf("  RENDER_RANGE %d %s %s %d %d",
			boundsCustomTime, formatSeconds(s.Start), formatSeconds(s.End), rangeTailFlag, rangeTailMillis)
	}),
}

var codecBlock = newBlock("RENDER_CFG", func(s RenderSpec, nl string) string {
	return "  <RENDER_CFG" + nl + "    " + s.Format.CodecToken() + nl + "  >"
})

var rootCloseLine = regexp.MustCompile(`(?m)^>[ \t]*\r?$`)

// Patch returns text with the render destination, file pattern, time range,
// and codec block set from spec, and with relative FILE references resolved
// against projectDir. Every other byte of the input is preserved.
func Patch(text string, spec RenderSpec, projectDir string) string {
	nl := lineEnding(text)
	for _, s := range renderSettings {
		text = replaceOrInsert(text, s.matcher, s.format(spec), nl)
	}
	text = replaceOrInsert(text, codecBlock.matcher, codecBlock.format(spec, nl), nl)
	return resolveAssetRefs(text, projectDir)
}

// replaceOrInsert swaps the first match of matcher for replacement, or inserts
// replacement as a new line immediately before the root close when absent.
func replaceOrInsert(text string, matcher *regexp.Regexp, replacement, nl string) string {
	if loc := matcher.FindStringIndex(text); loc != nil {
		return text[:loc[0]] + replacement + text[loc[1]:]
	}
	at := rootCloseIndex(text)
	if at < 0 {
		return text
	}
	return text[:at] + replacement + nl + text[at:]
}

// rootCloseIndex returns the offset of the last column-zero ">" line, or -1.
func rootCloseIndex(text string) int {
	matches := rootCloseLine.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return -1
	}
	return matches[len(matches)-1][0]
}

func lineEnding(text string) string {
	if strings.Contains(text, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// formatSeconds renders a float the way project files store times: shortest
// representation with at least one decimal place.
func formatSeconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// quote wraps value using the project format's quoting rules: double quotes
// unless the value contains one, then single quotes, then backticks.
func quote(value string) string {
	switch {
	case !strings.Contains(value, `"`):
		return `"` + value + `"`
	case !strings.Contains(value, "'"):
		return "'" + value + "'"
	default:
		return "`" + strings.ReplaceAll(value, "`", "'") + "`"
	}
}
