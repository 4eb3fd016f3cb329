// Package main is the entry point for the marketing site.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/marketing-site/internal/platform/config"
	"github.com/jsamuelsen/marketing-site/internal/ui/controller"
	"github.com/jsamuelsen/marketing-site/internal/ui/modal"
	"github.com/jsamuelsen/marketing-site/internal/ui/view"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configDir string
	profile   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "site",
		Short:         "Serve the marketing site",
		Long:          "Serves the config-driven marketing site. Without a subcommand it runs serve.",
		Version:       fmt.Sprintf("%s (%s, built %s)", Version, Commit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", config.DefaultConfigDir, "directory holding base.yaml and the profile files")
	cmd.PersistentFlags().StringVar(&opts.profile, "profile", "", "config profile (default $APP_ENVIRONMENT, then local)")

	cmd.AddCommand(
		newServeCmd(opts),
		newValidateCmd(opts),
		newRenderCmd(opts),
	)

	return cmd
}

// load reads and validates the configuration for the selected profile.
func (o *rootOptions) load() (*config.Config, error) {
	profile := o.profile
	if profile == "" {
		profile = os.Getenv("APP_ENVIRONMENT")
	}
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.LoadDir(o.configDir, profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// controllerConfig maps the UI settings onto the page controller template.
func controllerConfig(cfg *config.Config) controller.Config {
	return controller.Config{
		Origin:           cfg.Site.BaseURL,
		CarouselInterval: cfg.UI.CarouselInterval,
		Marquee: view.MarqueeConfig{
			Interval:  cfg.UI.MarqueeInterval,
			Step:      cfg.UI.MarqueeStep,
			ItemWidth: cfg.UI.MarqueeItemWidth,
		},
		Certificate: modal.CertificateConfig{
			URL:      cfg.Site.CertificateURL,
			Filename: cfg.Site.CertificateFilename,
			Loading:  cfg.UI.CertificateLoading,
		},
		SchedulingURL: cfg.Site.SchedulingURL,
	}
}
