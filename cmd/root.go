package cmd

import (
	"fmt"
	"os"

	"github.com/baiye-site/sitecontent/config"
	"github.com/baiye-site/sitecontent/content"
	"github.com/baiye-site/sitecontent/generator"
	"github.com/baiye-site/sitecontent/utils"
	"github.com/baiye-site/sitecontent/validate"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	settings *config.Settings
	logger   *logrus.Logger
	appFs    afero.Fs = afero.NewOsFs()
)

// settingFlags maps settings keys to the persistent flags overriding them.
var settingFlags = map[string]string{
	"content_dir": "content-dir",
	"output_dir":  "output-dir",
	"log_level":   "log-level",
	"colors":      "colors",
}

var rootCmd = &cobra.Command{
	Use:   "sitecontent",
	Short: "sitecontent - validate and publish the guild site's content",
	Long: `sitecontent reads the hand-written content files (YAML, JSONC or JSON),
checks them, and writes the static JSON data files the site fetches at runtime.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		for key, flag := range settingFlags {
			if f := cmd.Flags().Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}

		s, err := config.LoadSettings(v, cfgFile)
		if err != nil {
			return err
		}
		settings = s

		logger, err = utils.SetupLogging(settings)
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./sitecontent.yaml)")
	rootCmd.PersistentFlags().String("content-dir", "content", "directory holding the content files")
	rootCmd.PersistentFlags().String("output-dir", "public/data", "directory the data files are written to")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("colors", true, "colorize output")
}

func newResolver() (*content.Resolver, error) {
	return content.NewResolver(appFs, settings.ContentDir, settings.Formats)
}

func newGenerator(r *content.Resolver) *generator.Generator {
	return &generator.Generator{
		Resolver:  r,
		Fs:        appFs,
		OutputDir: settings.OutputDir,
		Log:       logger,
	}
}

func newValidator(r *content.Resolver) *validate.Validator {
	return &validate.Validator{
		Resolver:           r,
		Fs:                 appFs,
		AssetsDir:          settings.AssetsDir,
		PlaceholderMarkers: settings.PlaceholderMarkers,
		BaseURLPlaceholder: settings.BaseURLPlaceholder,
	}
}
