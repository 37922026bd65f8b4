package cmd

import (
	"path/filepath"

	"github.com/baiye-site/sitecontent/config"
	"github.com/baiye-site/sitecontent/content"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Rewrite the content files in another format, keeping the originals",
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		force, _ := cmd.Flags().GetBool("force")

		family, err := content.ParseFamily(to)
		if err != nil {
			return err
		}

		r, err := newResolver()
		if err != nil {
			return err
		}

		keys := []string{config.SiteConfigKey, config.MembersKey}
		for _, p := range config.Pages {
			keys = append(keys, p.Key())
		}

		converted := 0
		for _, key := range keys {
			ok, err := convertDocument(r, key, family, force)
			if err != nil {
				return err
			}
			if ok {
				converted++
			}
		}

		logger.Infof("Converted %d file(s) to %s", converted, family)
		if converted > 0 {
			logger.Warn("The original files were kept and still take precedence; remove them once the converted files look right")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("to", "yaml", "target format: yaml or json")
	convertCmd.Flags().Bool("force", false, "overwrite existing target files")
}

func convertDocument(r *content.Resolver, key string, family content.Family, force bool) (bool, error) {
	doc, err := r.Resolve(key)
	if err != nil {
		return false, err
	}
	if doc == nil || doc.Format.Family() == family {
		return false, nil
	}

	target := filepath.Join(r.Dir, key+family.Ext())
	exists, err := afero.Exists(appFs, target)
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", target)
	}
	if exists && !force {
		return false, errors.Errorf("%s already exists, use --force to overwrite it", target)
	}

	data, err := afero.ReadFile(appFs, doc.Path)
	if err != nil {
		return false, errors.Wrapf(err, "read %s", doc.Path)
	}

	out, err := content.Convert(data, doc.Format, family)
	if err != nil {
		return false, errors.Wrapf(err, "convert %s", doc.Path)
	}

	if err := afero.WriteFile(appFs, target, out, 0644); err != nil {
		return false, errors.Wrapf(err, "write %s", target)
	}
	logger.Infof("  ✓ %s -> %s", doc.Path, target)

	return true, nil
}
