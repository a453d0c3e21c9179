package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ros-pkgbuild/internal/adapters"
	"ros-pkgbuild/internal/app"
)

type inspectOptions struct {
	Distro   string
	Package  string
	IndexURL string
	CacheDir string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the classified dependency buckets of one package",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Distro, "distro", "", "Target ROS distribution")
	cmd.Flags().StringVar(&opts.Package, "pkg", "", "Package name")
	cmd.Flags().StringVar(&opts.IndexURL, "index-url", adapters.DefaultIndexURL, "rosdistro index URL")
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", "", "Directory for cached index downloads")

	_ = viper.BindPFlag("distro", cmd.Flags().Lookup("distro"))
	_ = viper.BindPFlag("package", cmd.Flags().Lookup("pkg"))
	_ = viper.BindPFlag("index_url", cmd.Flags().Lookup("index-url"))
	_ = viper.BindPFlag("cache_dir", cmd.Flags().Lookup("cache-dir"))

	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts inspectOptions) error {
	service := app.NewService(
		resolveString(cmd, opts.IndexURL, "index_url", "index-url"),
		resolveString(cmd, opts.CacheDir, "cache_dir", "cache-dir"),
		"",
	)
	result, err := service.Inspect(ctx, app.InspectRequest{
		Distro:  resolveString(cmd, opts.Distro, "distro", "distro"),
		Package: resolveString(cmd, opts.Package, "package", "pkg"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("package: %s\n", result.Package)
	fmt.Printf("version: %s\n", result.Version)
	fmt.Printf("build_type: %s\n", result.BuildType)
	fmt.Printf("source: %s\n", result.SourceURI)
	fmt.Printf("ros2: %t, python3: %t\n", result.IsRos2, result.SupportsPython3)
	printBucket("build", result.BuildDepends)
	printBucket("build (external)", result.BuildDependsExternal)
	printBucket("run", result.RunDepends)
	printBucket("run (external)", result.RunDependsExternal)
	printBucket("test", result.TestDepends)
	printBucket("test (external)", result.TestDependsExternal)
	printBucket("unresolved", result.Unresolved)
	return nil
}

func printBucket(label string, deps []string) {
	if len(deps) == 0 {
		return
	}
	fmt.Printf("%s: %s\n", label, strings.Join(deps, " "))
}
