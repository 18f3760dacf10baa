package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/drawjoy/db"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		conn, err := db.Open(cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.CreateSchema(conn); err != nil {
			return err
		}
		slog.Info("Database schema ready", "type", cfg.DatabaseType)
		return nil
	},
}
