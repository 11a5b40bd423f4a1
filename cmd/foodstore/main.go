// Command foodstore is the operator CLI for the storefront.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nomfood/storefront/config"
	"github.com/nomfood/storefront/internal/storefront"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	portFlag    string
	workersFlag int
)

var rootCmd = &cobra.Command{
	Use:   "foodstore",
	Short: "NomFood storefront backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if portFlag != "" {
			config.Set("APP_PORT", portFlag)
		}
		return nil
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server and queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return storefront.New().Workers(workersFlag).Serve(cmd.Context())
	},
}

var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return storefront.New().PrintRoutes(cmd.Context(), cmd.OutOrStdout())
	},
}

var indexSyncCmd = &cobra.Command{
	Use:   "index:sync",
	Short: "Create the MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return storefront.New().SyncIndexes(cmd.Context())
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo accounts, menu and banners",
	RunE: func(cmd *cobra.Command, args []string) error {
		return storefront.New().Seed(cmd.Context())
	},
}

var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Run queue workers without the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return storefront.New().Workers(workersFlag).WorkQueue(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portFlag, "port", "p", "", "override APP_PORT")
	serveCmd.Flags().IntVarP(&workersFlag, "workers", "w", 5, "Number of concurrent queue workers")
	queueWorkCmd.Flags().IntVarP(&workersFlag, "workers", "w", 5, "Number of concurrent queue workers")

	rootCmd.AddCommand(serveCmd, routeListCmd, indexSyncCmd, seedCmd, queueWorkCmd)
}
