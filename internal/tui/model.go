package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"bibfile/internal/domain"
	"bibfile/internal/paths"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseConfirm
	PhaseExecuting
	PhaseDone
	PhaseError
)

// Messages for the TUI
type (
	PlanReadyMsg struct {
		Plan domain.RelinkPlan
	}
	ScanProgressMsg struct {
		Current int
		Total   int
	}
	ExecProgressMsg struct {
		Current int
		Total   int
		File    string
	}
	ErrorMsg struct {
		Err error
	}
	ConfirmMsg struct {
		Confirmed bool
	}
	ExecDoneMsg struct{}
	tickMsg     time.Time
)

// ExecuteFunc starts the relink run. The returned command should report
// ExecProgressMsg values and finish with ExecDoneMsg or ErrorMsg.
type ExecuteFunc func(plan domain.RelinkPlan, includeOverrides bool) tea.Cmd

type Config struct {
	SourceDirs []string
	TargetDir  string
	Pattern    string
	DryRun     bool
	Verbose    bool
	Execute    ExecuteFunc
}

type Model struct {
	config             Config
	Phase              Phase
	Plan               domain.RelinkPlan
	spinner            spinner.Model
	progress           progress.Model
	scanCurrent        int
	scanTotal          int
	execCurrent        int
	execTotal          int
	currentFile        string
	confirmSelection   bool // true = yes
	OverridesConfirmed int
	Err                error
	Quitting           bool
	width              int
}

func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseScanning,
		spinner:  s,
		progress: p,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(min(msg.Width-20, 60), 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ScanProgressMsg:
		m.scanCurrent = msg.Current
		m.scanTotal = msg.Total
		return m, nil

	case PlanReadyMsg:
		m.Plan = msg.Plan
		switch {
		case m.config.DryRun:
			m.Phase = PhaseDone
		case len(m.Plan.OverrideItems) > 0:
			m.Phase = PhaseConfirm
		default:
			return m.startExecution(false)
		}
		return m, nil

	case ConfirmMsg:
		if msg.Confirmed {
			m.OverridesConfirmed = len(m.Plan.OverrideItems)
		}
		return m.startExecution(msg.Confirmed)

	case ExecProgressMsg:
		m.execCurrent = msg.Current
		m.execTotal = msg.Total
		m.currentFile = msg.File
		return m, nil

	case ExecDoneMsg:
		m.Phase = PhaseDone
		return m, nil

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseExecuting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseExecuting {
			var cmds []tea.Cmd
			if m.execTotal > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.execCurrent)/float64(m.execTotal)))
			}
			cmds = append(cmds, tickCmd())
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.Quitting = true
		return m, tea.Quit
	case "left", "h", "y", "Y":
		if m.Phase == PhaseConfirm {
			m.confirmSelection = true
		}
	case "right", "l", "n", "N":
		if m.Phase == PhaseConfirm {
			m.confirmSelection = false
		}
	case "enter":
		if m.Phase == PhaseConfirm {
			confirmed := m.confirmSelection
			return m, func() tea.Msg { return ConfirmMsg{Confirmed: confirmed} }
		}
		if m.Phase == PhaseDone || m.Phase == PhaseError {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) startExecution(includeOverrides bool) (tea.Model, tea.Cmd) {
	m.Phase = PhaseExecuting
	if m.config.Execute == nil {
		return m, nil
	}
	return m, tea.Batch(tickCmd(), m.spinner.Tick, m.config.Execute(m.Plan, includeOverrides))
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(m.renderScanning())
	case PhaseConfirm:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmPrompt())
	case PhaseExecuting:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderExecution())
	case PhaseDone:
		b.WriteString(m.renderPreview())
		if !m.config.DryRun {
			b.WriteString("\n")
			b.WriteString(m.renderCompletion())
		}
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	lines := []string{
		titleStyle.Render(iconDocument + " bibfile relink"),
		subtitleStyle.Render("Name linked documents after their metadata"),
		"",
	}
	for _, dir := range m.config.SourceDirs {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%s Source: %s", iconFolder, shortenPath(dir))))
	}
	if m.config.TargetDir != "" {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%s Target: %s", iconFolder, shortenPath(m.config.TargetDir))))
	}
	if m.config.Pattern != "" {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%s Pattern: %s", iconFolder, m.config.Pattern)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderScanning() string {
	if m.scanTotal == 0 {
		return fmt.Sprintf("%s Reading document metadata...", m.spinner.View())
	}
	percent := float64(m.scanCurrent) / float64(m.scanTotal)
	return fmt.Sprintf("%s Reading document metadata...\n\n  %s\n  %s %s",
		m.spinner.View(),
		m.progress.ViewAs(percent),
		countStyle.Render(fmt.Sprintf("%d/%d", m.scanCurrent, m.scanTotal)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	)
}

func (m Model) renderPreview() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Documents to %s", verb(m.Plan.Mode))))
	b.WriteString("\n\n")

	if len(m.Plan.Items) == 0 {
		b.WriteString(dimStyle.Render("  Nothing to " + verb(m.Plan.Mode)))
		b.WriteString("\n")
	} else {
		for _, line := range formatItems(m.Plan, 4) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if len(m.Plan.OverrideItems) > 0 {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("%s Override Required (%d files)", iconOverride, len(m.Plan.OverrideItems))))
		b.WriteString("\n\n")
		for i, item := range m.Plan.OverrideItems {
			if i >= 4 {
				b.WriteString(fmt.Sprintf("  ... and %d more\n", len(m.Plan.OverrideItems)-4))
				break
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", warningStyle.Render(iconOverride), targetStyle.Render(item.FileName)))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderSummary())

	if m.config.Verbose && len(m.Plan.Warnings) > 0 {
		b.WriteString("\n\n")
		b.WriteString(warningStyle.Render("Warnings:"))
		b.WriteString("\n")
		for _, w := range m.Plan.Warnings {
			b.WriteString(fmt.Sprintf("  %s %s\n", iconOverride, w))
		}
	}

	return b.String()
}

func (m Model) renderSummary() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Summary"))
	b.WriteString("\n\n")

	stat := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render(label), value))
	}
	stat("Documents:", statValueStyle.Render(fmt.Sprintf("%s %d", iconDocument, len(m.Plan.Items))))
	stat("Size:", statValueStyle.Render(humanize.Bytes(uint64(m.Plan.TotalBytes))))
	stat("Already named:", dimStyle.Render(fmt.Sprintf("%s %d", iconSkipped, m.Plan.Unchanged)))
	stat("No metadata:", dimStyle.Render(fmt.Sprintf("%s %d", iconSkipped, m.Plan.SkippedNoMetadata)))
	if len(m.Plan.OverrideItems) > 0 {
		stat("Overrides:", warningStyle.Render(fmt.Sprintf("%s %d", iconOverride, len(m.Plan.OverrideItems))))
	}

	if m.config.DryRun {
		b.WriteString("\n")
		b.WriteString(highlightBoxStyle.Render("Dry Run - no files were touched"))
	}

	return b.String()
}

func (m Model) renderConfirmPrompt() string {
	prompt := confirmPromptStyle.Render(fmt.Sprintf("Override %d existing files?", len(m.Plan.OverrideItems)))

	var yesBtn, noBtn string
	if m.confirmSelection {
		yesBtn = highlightBoxStyle.Background(lipgloss.Color("#2D4F27")).Render(" Yes ")
		noBtn = boxStyle.Render(" No ")
	} else {
		yesBtn = boxStyle.Render(" Yes ")
		noBtn = highlightBoxStyle.Background(lipgloss.Color("#5A2727")).Render(" No ")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yesBtn, "  ", noBtn)
	return lipgloss.JoinVertical(lipgloss.Left, prompt, "", buttons)
}

func (m Model) renderExecution() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render(capitalize(progressive(m.Plan.Mode)) + " Documents"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.execTotal > 0 {
		percent = float64(m.execCurrent) / float64(m.execTotal)
	}

	b.WriteString(fmt.Sprintf("  %s %s...\n\n", m.spinner.View(), capitalize(progressive(m.Plan.Mode))))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.execCurrent, m.execTotal)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if m.currentFile != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n", iconArrow, targetStyle.Render(m.currentFile)))
	}

	return b.String()
}

func (m Model) renderCompletion() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Done"))
	b.WriteString("\n\n")

	done := len(m.Plan.Items)
	if m.OverridesConfirmed == 0 {
		done -= len(m.Plan.OverrideItems)
	}
	b.WriteString(fmt.Sprintf("  %s %s\n\n", successStyle.Render(iconSuccess), successStyle.Render(fmt.Sprintf("%s %d documents", pastTense(m.Plan.Mode), done))))

	if m.OverridesConfirmed > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Files overwritten:"), warningStyle.Render(fmt.Sprintf("%s %d", iconOverride, m.OverridesConfirmed))))
	} else if len(m.Plan.OverrideItems) > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Overrides declined:"), dimStyle.Render(fmt.Sprintf("%s %d", iconSkipped, len(m.Plan.OverrideItems)))))
	}

	return b.String()
}

func (m Model) renderError() string {
	msg := errorStyle.Render(fmt.Sprintf("%s Error: %v", iconError, m.Err))
	return highlightBoxStyle.BorderForeground(errorColor).Render(msg)
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseScanning:
		help = "Press q to quit"
	case PhaseConfirm:
		help = "← → or y/n to select • Enter to confirm • q to quit"
	case PhaseExecuting:
		help = "Working... Please wait"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

// formatItems lists planned items with their sources shortened to the
// smallest suffix that still tells them apart.
func formatItems(plan domain.RelinkPlan, maxItems int) []string {
	if len(plan.Items) == 0 {
		return []string{}
	}

	sources := paths.UniqueSuffixes(plan.SourcePaths())
	line := func(i int) string {
		return fmt.Sprintf("%s %s %s %s", iconDocument, sourceStyle.Render(sources[i]), iconArrow, targetStyle.Render(plan.Items[i].FileName))
	}

	if len(plan.Items) <= maxItems {
		lines := make([]string, 0, len(plan.Items))
		for i := range plan.Items {
			lines = append(lines, line(i))
		}
		return lines
	}

	half := maxItems / 2
	lines := make([]string, 0, maxItems+1)
	for i := 0; i < half; i++ {
		lines = append(lines, line(i))
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("... %d more files ...", len(plan.Items)-maxItems)))
	for i := len(plan.Items) - half; i < len(plan.Items); i++ {
		lines = append(lines, line(i))
	}
	return lines
}

func verb(mode domain.RelinkMode) string {
	if mode == domain.ModeCopy {
		return "copy"
	}
	return "rename"
}

func progressive(mode domain.RelinkMode) string {
	if mode == domain.ModeCopy {
		return "copying"
	}
	return "renaming"
}

func pastTense(mode domain.RelinkMode) string {
	if mode == domain.ModeCopy {
		return "Copied"
	}
	return "Renamed"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if paths.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
