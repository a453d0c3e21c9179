package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ros-pkgbuild/internal/adapters"
	"ros-pkgbuild/internal/app"
)

type generateOptions struct {
	Distro           string
	Packages         []string
	OutputDir        string
	IndexURL         string
	CacheDir         string
	Distributor      string
	License          string
	PreserveExisting bool
	Commit           bool
}

func newGenerateCommand() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate PKGBUILD recipes for a ROS distribution",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Distro, "distro", "", "Target ROS distribution")
	cmd.Flags().StringSliceVar(&opts.Packages, "pkg", nil, "Package name(s), all released packages when omitted")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "overlay", "Overlay output directory")
	cmd.Flags().StringVar(&opts.IndexURL, "index-url", adapters.DefaultIndexURL, "rosdistro index URL")
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", "", "Directory for cached index downloads")
	cmd.Flags().StringVar(&opts.Distributor, "distributor", "", "Distributor for the recipe license header")
	cmd.Flags().StringVar(&opts.License, "license", "", "License name for the recipe license header")
	cmd.Flags().BoolVar(&opts.PreserveExisting, "preserve-existing", false, "Skip packages whose recipe is already up to date")
	cmd.Flags().BoolVar(&opts.Commit, "commit", false, "Commit the generated recipes to the overlay repository")

	_ = viper.BindPFlag("distro", cmd.Flags().Lookup("distro"))
	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("pkg"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("index_url", cmd.Flags().Lookup("index-url"))
	_ = viper.BindPFlag("cache_dir", cmd.Flags().Lookup("cache-dir"))
	_ = viper.BindPFlag("distributor", cmd.Flags().Lookup("distributor"))
	_ = viper.BindPFlag("license", cmd.Flags().Lookup("license"))
	_ = viper.BindPFlag("preserve_existing", cmd.Flags().Lookup("preserve-existing"))
	_ = viper.BindPFlag("commit", cmd.Flags().Lookup("commit"))

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, opts generateOptions) error {
	outputDir := resolveString(cmd, opts.OutputDir, "output", "output")
	service := app.NewService(
		resolveString(cmd, opts.IndexURL, "index_url", "index-url"),
		resolveString(cmd, opts.CacheDir, "cache_dir", "cache-dir"),
		outputDir,
	)
	commit := resolveBool(cmd, opts.Commit, "commit", "commit")
	if commit {
		service.Overlay = adapters.NewOverlayGitAdapter(outputDir)
	}
	result, err := service.Generate(ctx, app.GenerateRequest{
		Distro:           resolveString(cmd, opts.Distro, "distro", "distro"),
		Packages:         resolveStrings(cmd, opts.Packages, "packages", "pkg"),
		Distributor:      resolveString(cmd, opts.Distributor, "distributor", "distributor"),
		License:          resolveString(cmd, opts.License, "license", "license"),
		PreserveExisting: resolveBool(cmd, opts.PreserveExisting, "preserve_existing", "preserve-existing"),
		Commit:           commit,
	})
	if err != nil {
		return err
	}
	fmt.Printf("generated: %d, skipped: %d, failed: %d\n", len(result.Written), len(result.Skipped), len(result.Failures))
	for _, failure := range result.Failures {
		fmt.Printf("failed: %s: %s\n", failure.Package, failure.Reason)
		for _, dep := range failure.Unresolved {
			fmt.Printf("  unresolved: %q\n", dep)
		}
	}
	if result.CommitHash != "" {
		fmt.Printf("committed: %s\n", result.CommitHash)
	}
	if len(result.Failures) > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("generation finished with %d failed package(s)", len(result.Failures)))
	}
	return nil
}
