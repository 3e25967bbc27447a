package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bibfile/internal/app"
	"bibfile/internal/config"
	"bibfile/internal/domain"
	appErrors "bibfile/internal/errors"
	"bibfile/internal/importer"
	"bibfile/internal/infra/exif"
	"bibfile/internal/infra/fs"
	"bibfile/internal/infra/xmp"
	"bibfile/internal/logging"
	"bibfile/internal/presentation"
)

// env is the state every sub-command works with once flags, environment and
// config file have been merged.
type env struct {
	viper   *viper.Viper
	cfg     config.Config
	logger  logging.Logger
	printer presentation.Printer
	fs      fs.OSFS
}

func (e *env) files() *app.FileOps {
	return &app.FileOps{FS: e.fs, Logger: e.logger}
}

func (e *env) importer() *importer.XMPImporter {
	prefs := importer.XMPPreferences{
		UsePrivacyFilter: e.cfg.XMP.PrivacyFilter.Enabled,
		PrivacyFilter:    e.cfg.XMP.PrivacyFilter.Fields,
	}
	return importer.NewXMPImporter(importer.FirstOf(xmp.Reader{}, exif.Reader{}), prefs)
}

// database carries the configured @string abbreviations into naming.
func (e *env) database() *domain.Database {
	return &domain.Database{Strings: e.cfg.Strings}
}

func (e *env) requireDirs() ([]string, error) {
	if len(e.cfg.Dirs) == 0 {
		return nil, appErrors.Wrap(appErrors.InvalidConfig, "config", "", errNoDirs)
	}
	return e.cfg.Dirs, nil
}

func newRootCmd() *cobra.Command {
	e := &env{viper: config.New()}

	root := &cobra.Command{
		Use:           "bibfile",
		Short:         "Manage the documents linked from a bibliography",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return appErrors.Wrap(appErrors.InvalidConfig, "dotenv", ".env", err)
			}
			if err := config.BindFlags(e.viper, cmd.Flags()); err != nil {
				return appErrors.Wrap(appErrors.Internal, "flags", "", err)
			}
			cfg, err := config.Load(e.viper)
			if err != nil {
				return appErrors.Wrap(appErrors.InvalidConfig, "config", e.viper.ConfigFileUsed(), err)
			}
			if err := cfg.Validate(); err != nil {
				return appErrors.Wrap(appErrors.InvalidConfig, "config", e.viper.ConfigFileUsed(), err)
			}

			e.cfg = cfg
			e.logger = logging.New(os.Stderr, cfg.Verbose)
			e.printer = presentation.Printer{Writer: cmd.OutOrStdout(), Verbose: cfg.Verbose}
			e.logger.Verbosef("Using config file %q", e.viper.ConfigFileUsed())
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringSliceP("dirs", "d", nil, "Document directories (repeatable)")
	flags.BoolP("verbose", "v", false, "Verbose output")

	root.AddCommand(
		newUniqueCmd(e),
		newFindCmd(e),
		newCopyCmd(e),
		newRenameCmd(e),
		newShortenCmd(e),
		newNameCmd(e),
		newImportCmd(e),
		newLinksCmd(e),
		newRelinkCmd(e),
	)
	return root
}
