package presentation

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"bibfile/internal/domain"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

// PrintUnique prints each path next to its shortest unique suffix.
func (p Printer) PrintUnique(paths, suffixes []string) {
	width := 0
	for _, suffix := range suffixes {
		width = max(width, len(suffix))
	}
	for i, path := range paths {
		if p.Verbose {
			fmt.Fprintf(p.Writer, "%-*s  %s\n", width, suffixes[i], path)
			continue
		}
		fmt.Fprintln(p.Writer, suffixes[i])
	}
}

// PrintPaths prints one path per line.
func (p Printer) PrintPaths(paths []string) {
	if len(paths) == 0 {
		fmt.Fprintln(p.Writer, "No files found.")
		return
	}
	for _, path := range paths {
		fmt.Fprintln(p.Writer, path)
	}
}

type entryView struct {
	Type   string            `yaml:"type"`
	Key    string            `yaml:"key,omitempty"`
	Fields map[string]string `yaml:"fields,omitempty"`
}

type resultView struct {
	Source   string      `yaml:"source,omitempty"`
	Entries  []entryView `yaml:"entries"`
	Warnings []string    `yaml:"warnings,omitempty"`
	Error    string      `yaml:"error,omitempty"`
}

// PrintParserResult prints the entries imported from source, as BibTeX-like
// text or as YAML when format is "yaml".
func (p Printer) PrintParserResult(source string, result domain.ParserResult, format string) error {
	if format == "yaml" {
		return p.printResultYAML(source, result)
	}

	if result.Failed() {
		fmt.Fprintf(p.Writer, "%% %s: %v\n", source, result.Err)
		return nil
	}
	if result.IsEmpty() {
		fmt.Fprintf(p.Writer, "%% %s: no metadata found\n", source)
	}
	for _, entry := range result.Entries {
		fmt.Fprintln(p.Writer, FormatEntry(entry))
	}
	if p.Verbose {
		for _, warning := range result.Warnings {
			fmt.Fprintf(p.Writer, "%% warning: %s\n", warning)
		}
	}
	return nil
}

func (p Printer) printResultYAML(source string, result domain.ParserResult) error {
	view := resultView{Source: source, Entries: []entryView{}, Warnings: result.Warnings}
	if result.Err != nil {
		view.Error = result.Err.Error()
	}
	for _, entry := range result.Entries {
		fields := map[string]string{}
		for _, name := range entry.FieldNames() {
			value, _ := entry.Field(name)
			fields[name] = value
		}
		view.Entries = append(view.Entries, entryView{Type: entry.Type, Key: entry.CiteKey, Fields: fields})
	}

	enc := yaml.NewEncoder(p.Writer)
	enc.SetIndent(2)
	if err := enc.Encode([]resultView{view}); err != nil {
		return err
	}
	return enc.Close()
}

// FormatEntry renders entry in BibTeX notation with fields sorted by name.
func FormatEntry(entry domain.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s", entry.Type, entry.CiteKey)
	for _, name := range entry.FieldNames() {
		value, _ := entry.Field(name)
		fmt.Fprintf(&b, ",\n  %s = {%s}", name, value)
	}
	b.WriteString("\n}")
	return b.String()
}

func (p Printer) PrintDryRun(plan domain.RelinkPlan) {
	fmt.Fprintln(p.Writer, heading(plan.Mode))
	fmt.Fprintln(p.Writer)

	for _, line := range p.formatItemLines(plan) {
		fmt.Fprintln(p.Writer, line)
	}

	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, "Override Required:")
	for _, item := range plan.OverrideItems {
		fmt.Fprintln(p.Writer, item.TargetPath)
	}

	fmt.Fprintln(p.Writer)
	p.printSummary(plan, true, 0)
	p.printWarnings(plan)
}

func (p Printer) PrintExecution(plan domain.RelinkPlan, overridesConfirmed int) {
	fmt.Fprintln(p.Writer, heading(plan.Mode))
	fmt.Fprintln(p.Writer)

	for _, line := range p.formatItemLines(plan) {
		fmt.Fprintln(p.Writer, line)
	}

	if len(plan.OverrideItems) > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Override Required:")
		for _, item := range plan.OverrideItems {
			fmt.Fprintln(p.Writer, item.TargetPath)
		}
	}

	fmt.Fprintln(p.Writer)
	p.printSummary(plan, false, overridesConfirmed)
	p.printWarnings(plan)
}

func (p Printer) printWarnings(plan domain.RelinkPlan) {
	if !p.Verbose || len(plan.Warnings) == 0 {
		return
	}
	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, "Warnings:")
	for _, warning := range plan.Warnings {
		fmt.Fprintln(p.Writer, "- "+warning)
	}
}

func (p Printer) printSummary(plan domain.RelinkPlan, dryRun bool, overridesConfirmed int) {
	done := len(plan.Items)
	if !dryRun && overridesConfirmed == 0 {
		done -= len(plan.OverrideItems)
	}

	if dryRun {
		fmt.Fprintf(p.Writer, "Would %s %d documents (%s).\n", verb(plan.Mode), done, humanize.Bytes(uint64(plan.TotalBytes)))
	} else {
		fmt.Fprintf(p.Writer, "%s %d documents (%s).\n", pastTense(plan.Mode), done, humanize.Bytes(uint64(plan.TotalBytes)))
	}
	fmt.Fprintf(p.Writer, "%d documents already carry their name.\n", plan.Unchanged)
	fmt.Fprintf(p.Writer, "Skipped %d documents without metadata.\n", plan.SkippedNoMetadata)

	overrides := len(plan.OverrideItems)
	switch {
	case dryRun && overrides > 0:
		fmt.Fprintf(p.Writer, "Would ask for override confirmation for %d files when not in dry run.\n", overrides)
	case dryRun:
		fmt.Fprintln(p.Writer, "No override confirmation would be required.")
	case overrides == 0:
		fmt.Fprintln(p.Writer, "No override confirmation was required.")
	case overridesConfirmed == 0:
		fmt.Fprintf(p.Writer, "Override confirmation declined for %d files.\n", overrides)
	default:
		fmt.Fprintf(p.Writer, "Override confirmation granted for %d files.\n", overrides)
	}
}

// formatItemLines lists planned items, keeping only the first and last two
// unless verbose.
func (p Printer) formatItemLines(plan domain.RelinkPlan) []string {
	lines := make([]string, 0, len(plan.Items))
	for _, item := range plan.Items {
		lines = append(lines, fmt.Sprintf("%s %s -> %s", Capitalize(verb(plan.Mode)), filepath.Base(item.SourcePath), item.FileName))
	}

	if p.Verbose || len(lines) <= 4 {
		return lines
	}
	head := lines[:2]
	tail := lines[len(lines)-2:]
	return append(append(head, "..."), tail...)
}

func heading(mode domain.RelinkMode) string {
	if mode == domain.ModeCopy {
		return "Copying:"
	}
	return "Renaming:"
}

func verb(mode domain.RelinkMode) string {
	if mode == domain.ModeCopy {
		return "copy"
	}
	return "rename"
}

func pastTense(mode domain.RelinkMode) string {
	if mode == domain.ModeCopy {
		return "Copied"
	}
	return "Renamed"
}

func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
