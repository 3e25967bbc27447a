package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"bibfile/internal/app"
	"bibfile/internal/domain"
	appErrors "bibfile/internal/errors"
	"bibfile/internal/tui"
)

func newRelinkCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relink",
		Short: "Name every document in the document directories after its metadata",
		Long: "Reads the metadata of every document below --dirs and renames it after the\n" +
			"naming pattern. With --target the documents are copied there instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := e.requireDirs()
			if err != nil {
				return err
			}
			for _, dir := range dirs {
				if _, err := e.fs.Stat(dir); err != nil {
					return appErrors.Wrap(appErrors.NotFound, "stat", dir, err)
				}
			}

			planner := app.Planner{
				FS:       e.fs,
				Importer: e.importer(),
				Workers:  e.cfg.Workers,
				Logger:   e.logger,
				Pattern:  e.cfg.Pattern,
				Database: e.database(),
			}
			executor := app.Executor{Files: e.files()}

			if e.cfg.TUI {
				return runRelinkTUI(cmd.Context(), e, dirs, &planner, &executor)
			}
			return runRelink(cmd.Context(), e, dirs, &planner, &executor)
		},
	}

	flags := cmd.Flags()
	flags.StringP("target", "t", "", "Copy documents into this directory instead of renaming them in place")
	flags.StringP("pattern", "p", "", `Naming pattern, e.g. '\bibtexkey - \title'`)
	flags.BoolP("dry-run", "n", false, "Only print what would happen")
	flags.IntP("workers", "w", 0, "Metadata workers, 0 means one per CPU")
	flags.Bool("tui", false, "Interactive terminal UI")
	flags.Bool("privacy-filter", false, "Drop the fields listed in --privacy-fields before naming")
	flags.StringSlice("privacy-fields", nil, "Fields removed by the privacy filter")
	return cmd
}

func runRelink(ctx context.Context, e *env, dirs []string, planner *app.Planner, executor *app.Executor) error {
	plan, err := planner.Plan(ctx, dirs, e.cfg.TargetDir)
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "plan", "", err)
	}

	if e.cfg.DryRun {
		e.printer.PrintDryRun(plan)
		return nil
	}

	includeOverrides := false
	overridesConfirmed := 0
	if len(plan.OverrideItems) > 0 {
		confirmed, err := confirmOverrides(len(plan.OverrideItems))
		if err != nil {
			return appErrors.Wrap(appErrors.Internal, "prompt", "", err)
		}
		includeOverrides = confirmed
		if confirmed {
			overridesConfirmed = len(plan.OverrideItems)
		}
	}

	if err := prepareTarget(e); err != nil {
		return err
	}
	if err := executor.Execute(ctx, plan, includeOverrides); err != nil {
		return err
	}

	e.printer.PrintExecution(plan, overridesConfirmed)
	return nil
}

func prepareTarget(e *env) error {
	if e.cfg.TargetDir == "" {
		return nil
	}
	if err := e.fs.MkdirAll(e.cfg.TargetDir, 0o755); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "mkdir", e.cfg.TargetDir, err)
	}
	return nil
}

func runRelinkTUI(ctx context.Context, e *env, dirs []string, planner *app.Planner, executor *app.Executor) error {
	model := tui.NewModel(tui.Config{
		SourceDirs: dirs,
		TargetDir:  e.cfg.TargetDir,
		Pattern:    e.cfg.Pattern,
		DryRun:     e.cfg.DryRun,
		Verbose:    e.cfg.Verbose,
		Execute: func(plan domain.RelinkPlan, includeOverrides bool) tea.Cmd {
			return func() tea.Msg {
				if err := prepareTarget(e); err != nil {
					return tui.ErrorMsg{Err: err}
				}
				if err := executor.Execute(ctx, plan, includeOverrides); err != nil {
					return tui.ErrorMsg{Err: err}
				}
				return tui.ExecDoneMsg{}
			}
		},
	})
	program := tea.NewProgram(model, tea.WithContext(ctx))

	// The TUI owns the terminal, so log lines would garble it.
	planner.Logger.Writer = nil
	executor.Files.Logger.Writer = nil
	planner.OnProgress = func(current, total int) {
		program.Send(tui.ScanProgressMsg{Current: current, Total: total})
	}
	executor.OnProgress = func(current, total int, file string) {
		program.Send(tui.ExecProgressMsg{Current: current, Total: total, File: file})
	}

	go func() {
		plan, err := planner.Plan(ctx, dirs, e.cfg.TargetDir)
		if err != nil {
			program.Send(tui.ErrorMsg{Err: err})
			return
		}
		program.Send(tui.PlanReadyMsg{Plan: plan})
	}()

	final, err := program.Run()
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "tui", "", err)
	}
	if m, ok := final.(tui.Model); ok && m.Err != nil {
		return m.Err
	}
	return nil
}
