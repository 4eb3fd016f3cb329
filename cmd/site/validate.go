package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/marketing-site/internal/adapters/siteconfig"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a content file",
		Long:  "Parses and validates a content file. Without a path it checks site.content_path from the config.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := opts.load()
				if err != nil {
					return err
				}
				path = cfg.Site.ContentPath
			}

			site, err := siteconfig.Load(path)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d businesses, %d projects, %d case studies)\n",
				path, len(site.Businesses), len(site.Projects), len(site.CaseStudies))

			return err
		},
	}
}
