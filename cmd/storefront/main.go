// Command storefront runs the API server and its maintenance tasks.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/storefront/database/migrations"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/internal/server"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func main() {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "E-commerce API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		serveCmd(),
		migrateCmd(),
		rollbackCmd(),
		statusCmd(),
		seedCmd(),
		routeListCmd(),
	)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return database.Open(config.DatabaseDriver(), config.DatabaseDSN())
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(db).Start(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			return migration.New(db).Run()
		},
	}
}

func rollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Rollback the last migration batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			return migration.New(db).Rollback()
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			return migration.New(db).Status()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with an admin user and sample catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			return seeders.Run(db)
		},
	}
}

func routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "Print the registered API routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}

			srv := server.New(db)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
			for _, rt := range srv.Router().Routes() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", rt.Method, rt.Path, rt.Name)
			}
			return tw.Flush()
		},
	}
}
