package config

import (
	"errors"
	"io/fs"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bibfile/internal/naming"
)

// Config holds the settings shared by all commands. Values come from
// bibfile.yml, BIBFILE_* environment variables and command line flags, in
// increasing order of precedence.
type Config struct {
	Dirs      []string `mapstructure:"dirs"`
	Pattern   string   `mapstructure:"pattern"`
	Workers   int      `mapstructure:"workers"`
	Verbose   bool     `mapstructure:"verbose"`
	DryRun    bool     `mapstructure:"dry_run"`
	Replace   bool     `mapstructure:"replace"`
	Output    string   `mapstructure:"output"`
	TargetDir string   `mapstructure:"target"`
	TUI       bool     `mapstructure:"tui"`
	// Strings are @string abbreviations resolved in #name# references when
	// rendering file names.
	Strings map[string]string `mapstructure:"strings"`
	XMP     struct {
		PrivacyFilter struct {
			Enabled bool     `mapstructure:"enabled"`
			Fields  []string `mapstructure:"fields"`
		} `mapstructure:"privacy_filter"`
	} `mapstructure:"xmp"`
}

const (
	OutputText = "text"
	OutputYAML = "yaml"
)

// flagKeys maps flag names to config keys where they differ beyond
// dashes becoming underscores.
var flagKeys = map[string]string{
	"privacy-filter": "xmp.privacy_filter.enabled",
	"privacy-fields": "xmp.privacy_filter.fields",
}

// New returns a viper instance with defaults, config search paths and the
// BIBFILE_ environment prefix set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("bibfile")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/bibfile")

	// BIBFILE_XMP_PRIVACY_FILTER_ENABLED overrides xmp.privacy_filter.enabled.
	v.SetEnvPrefix("BIBFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("dirs", []string{})
	v.SetDefault("pattern", naming.DefaultPattern)
	v.SetDefault("workers", 0)
	v.SetDefault("verbose", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("replace", false)
	v.SetDefault("output", OutputText)
	v.SetDefault("target", "")
	v.SetDefault("tui", false)
	v.SetDefault("strings", map[string]string{})
	v.SetDefault("xmp.privacy_filter.enabled", false)
	v.SetDefault("xmp.privacy_filter.fields", []string{})
	return v
}

// LoadDotEnv loads environment variables from the given files, ".env" when
// none are named. Missing files are ignored and variables that are already
// set win.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// BindFlags lets every flag in flags that corresponds to a config key
// override it.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(flag *pflag.Flag) {
		key, ok := flagKeys[flag.Name]
		if !ok {
			key = strings.ReplaceAll(flag.Name, "-", "_")
		}
		if !isKnown(v, key) {
			return
		}
		if err := v.BindPFlag(key, flag); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	return bindErr
}

func isKnown(v *viper.Viper, key string) bool {
	for _, known := range v.AllKeys() {
		if known == key {
			return true
		}
	}
	return false
}

// Load reads the config file, if there is one, and decodes the merged
// settings.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))
	return cfg, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Pattern, validation.Required, validation.By(validPattern)),
		validation.Field(&c.Workers, validation.Min(0)),
		validation.Field(&c.Output, validation.Required, validation.In(OutputText, OutputYAML)),
	)
}

func validPattern(value interface{}) error {
	pattern, _ := value.(string)
	if _, err := naming.Parse(pattern); err != nil {
		return err
	}
	return nil
}
