package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/marketing-site/internal/adapters/flags"
	"github.com/jsamuelsen/marketing-site/internal/adapters/http/web"
	"github.com/jsamuelsen/marketing-site/internal/adapters/siteconfig"
	"github.com/jsamuelsen/marketing-site/internal/app"
	"github.com/jsamuelsen/marketing-site/internal/platform/config"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the page as static HTML",
		Long: "Renders the page without the live session. Features that need the server " +
			"(session, icon proxy, lead form) are switched off.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			if out == "" {
				return render(cmd.Context(), cfg, cmd.OutOrStdout())
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}

			if err := render(cmd.Context(), cfg, f); err != nil {
				_ = f.Close()
				return err
			}

			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	return cmd
}

func render(ctx context.Context, cfg *config.Config, w io.Writer) error {
	content, err := siteconfig.NewStore(cfg.Site.ContentPath)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	featureFlags := staticExportFlags{flags.NewStatic(cfg.Features, nil)}

	pages := app.NewPageService(content, nil, featureFlags, &app.PageServiceConfig{
		Controller:  controllerConfig(cfg),
		FaviconBase: cfg.Favicon.BaseURL,
	})

	rendered, err := pages.Render(ctx)
	if err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	data, err := web.NewPageData(rendered, web.Options{})
	if err != nil {
		return err
	}

	return web.Render(w, tmpl, data)
}

// staticExportFlags turns off the flags whose features need the server.
type staticExportFlags struct {
	ports.FeatureFlags
}

func (f staticExportFlags) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	switch flag {
	case ports.FlagLiveSession, ports.FlagIconProxy, ports.FlagLeadCapture:
		return false
	default:
		return f.FeatureFlags.IsEnabled(ctx, flag, defaultValue)
	}
}
