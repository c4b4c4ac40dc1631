package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/skekre98/startuphost/cmd/orders/extensions"
	"github.com/skekre98/startuphost/config"
	"github.com/skekre98/startuphost/config/source"
	"github.com/skekre98/startuphost/host"
	"github.com/skekre98/startuphost/startup"
)

const appName = "orders"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Orders service",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newExtensionsCmd())
	return root
}

// serve hands its arguments to the CLI configuration source, so any
// configuration key can be set as a dotted flag: serve --server.addr=:9090
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "serve [--key.path=value ...]",
		Short:              "Run the orders service",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), append([]string{}, args...))
		},
	}
}

func serve(ctx context.Context, args []string) error {
	env := config.LoadEnvironment(appName)

	h, err := host.NewBuilder(
		host.WithEnvironment(env),
		host.WithConfigSources(
			&source.FileSource{BasePath: "configs", Profile: env.Name},
			&source.EnvSource{},
			&source.CLISource{Args: args},
		),
		host.WithExtensionsOf[extensions.Marker](),
		host.WithMetrics(prometheus.DefaultRegisterer),
	).Build(ctx)
	if err != nil {
		return fmt.Errorf("build host: %w", err)
	}
	return h.Run(ctx)
}

func newExtensionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extensions",
		Short: "List the registered startup extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range startup.Default.Names() {
				m, _ := startup.Default.Lookup(name)
				fmt.Fprintf(out, "%s\n", name)
				if types := m.Types(); len(types) > 0 {
					fmt.Fprintf(out, "  %s\n", strings.Join(types, "\n  "))
				}
			}
			return nil
		},
	}
}
