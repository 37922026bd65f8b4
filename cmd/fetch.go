package cmd

import (
	"context"
	"os"

	"github.com/baiye-site/sitecontent/client"
	"github.com/baiye-site/sitecontent/config"
	"github.com/baiye-site/sitecontent/generator"
	"github.com/spf13/cobra"
)

type fetchOutput struct {
	Page       config.PageName    `json:"page"`
	Status     string             `json:"status"`
	Valid      bool               `json:"valid"`
	Global     *config.SiteConfig `json:"globalConfig"`
	PageConfig *config.PageConfig `json:"pageConfig"`
	Metadata   client.Metadata    `json:"metadata"`
	Members    int                `json:"members"`
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <page>",
	Short: "Load a page's config over HTTP the way the site does and print it merged",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := config.ParsePageName(args[0])
		if err != nil {
			return err
		}

		baseURL, _ := cmd.Flags().GetString("base-url")
		if baseURL == "" {
			baseURL = settings.ClientBaseURL
		}

		loader := client.NewLoader(baseURL, settings.ClientTimeout, logger)
		ctx := context.Background()

		state := loader.LoadPage(ctx, name)
		merged := client.Merge(state.Global, state.Page, nil)

		out := fetchOutput{
			Page:       name,
			Status:     state.Status.String(),
			Valid:      client.ValidatePageConfig(state.Page),
			Global:     state.Global,
			PageConfig: merged,
			Metadata:   client.PageMetadata(state.Global, merged),
			Members:    len(loader.Members(ctx)),
		}

		data, err := generator.Marshal(out)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().String("base-url", "", "site to fetch from (default client_base_url)")
}
