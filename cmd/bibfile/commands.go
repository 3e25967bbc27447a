package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	appErrors "bibfile/internal/errors"
	"bibfile/internal/naming"
	"bibfile/internal/paths"
	"bibfile/internal/presentation"
)

var errNoDirs = errors.New("no document directories configured, use --dirs or set dirs in bibfile.yml")

func newUniqueCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "unique PATH...",
		Short: "Print the shortest suffix that tells each path apart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e.printer.PrintUnique(args, paths.UniqueSuffixes(args))
			return nil
		},
	}
}

func newFindCmd(e *env) *cobra.Command {
	var glob bool
	cmd := &cobra.Command{
		Use:   "find NAME",
		Short: "Search the document directories for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := e.requireDirs()
			if err != nil {
				return err
			}
			files := e.files()
			if !glob {
				e.printer.PrintPaths(files.FindIn(args[0], dirs))
				return nil
			}
			hits, err := files.FindMatching(args[0], dirs)
			if err != nil {
				return err
			}
			e.printer.PrintPaths(hits)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&glob, "glob", "g", false, "Treat NAME as a glob such as '**/*.pdf'")
	return cmd
}

func newCopyCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy SRC [DST]",
		Short: "Copy a file, by default to SRC.bak",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst := paths.AddExtension(args[0], ".bak")
			if len(args) == 2 {
				dst = args[1]
			}
			if err := e.files().Copy(args[0], dst, e.cfg.Replace); err != nil {
				return err
			}
			e.logger.Infof("Copied %s to %s", args[0], dst)
			return nil
		},
	}
	cmd.Flags().Bool("replace", false, "Overwrite an existing target")
	return cmd
}

func newRenameCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename FROM TO",
		Short: "Rename a file; a relative TO stays in the directory of FROM",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.files().Rename(args[0], args[1], e.cfg.Replace); err != nil {
				return err
			}
			e.logger.Infof("Renamed %s to %s", args[0], paths.ResolveSibling(args[0], args[1]))
			return nil
		},
	}
	cmd.Flags().Bool("replace", false, "Overwrite an existing target")
	return cmd
}

func newShortenCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shorten FILE...",
		Short: "Print files relative to the document directory that holds them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, file := range args {
				abs, err := filepath.Abs(file)
				if err != nil {
					return appErrors.Wrap(appErrors.IOFailure, "shorten", file, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), paths.Shorten(abs, e.cfg.Dirs))
			}
			return nil
		},
	}
}

func newNameCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "name FILE...",
		Short: "Print the name each document would get from the naming pattern",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp := e.importer()
			for _, file := range args {
				result := imp.Import(cmd.Context(), file)
				if result.Failed() {
					return result.Err
				}
				base := filepath.Base(file)
				if result.IsEmpty() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: no metadata, keeping %s\n", base, paths.FileName(base))
					continue
				}
				name := naming.FileNameFromPattern(e.database(), result.Entries[0], e.cfg.Pattern, e.logger)
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s%s\n", base, name, filepath.Ext(base))
			}
			return nil
		},
	}
	cmd.Flags().StringP("pattern", "p", naming.DefaultPattern, `Naming pattern, e.g. '\bibtexkey - \title'`)
	return cmd
}

func newImportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Print the bibliography entries stored in document metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importer := e.importer()
			e.logger.Verbosef("Importing with %s (%s)", importer.Name(), importer.ID())
			for _, file := range args {
				if err := e.printer.PrintParserResult(file, importer.Import(cmd.Context(), file), e.cfg.Output); err != nil {
					return appErrors.Wrap(appErrors.IOFailure, "import", file, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format: text or yaml")
	cmd.Flags().Bool("privacy-filter", false, "Drop the fields listed in --privacy-fields")
	cmd.Flags().StringSlice("privacy-fields", nil, "Fields removed by the privacy filter")
	return cmd
}

func newLinksCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "links ENTRIES.yml",
		Short: "Resolve the files linked from entries written by 'import --output yaml'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := e.requireDirs()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return appErrors.Wrap(appErrors.NotFound, "links", args[0], err)
			}
			defer f.Close()

			entries, err := presentation.ReadEntries(f)
			if err != nil {
				return appErrors.Wrap(appErrors.InvalidConfig, "links", args[0], err)
			}
			e.printer.PrintPaths(e.files().LinkedFiles(entries, dirs))
			return nil
		},
	}
}
