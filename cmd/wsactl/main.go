// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command wsactl is the operator console for the awards database: bulk
// imports, batch reports, approvals, outbox sync runs and templates.
package main

import (
	"database/sql"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/worldstaffingawards/wsa2026/cliparse"
	"github.com/worldstaffingawards/wsa2026/db"
	"github.com/worldstaffingawards/wsa2026/store"
)

// skipDB marks commands that run without a database connection.
const skipDB = "skip-db"

type app struct {
	envFile string
	dbType  string
	dbURL   string
	baseURL string

	cfg   cliparse.Config
	conn  *sql.DB
	store *store.Store
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "wsactl",
		Short:         "World Staffing Awards 2026 operator console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipDB] != "" {
				return nil
			}
			return a.connect(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.conn != nil {
				return a.conn.Close()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", ".env", "Environment file to load before reading config")
	pf.StringVarP(&a.dbType, "db-type", "t", "", "Database type (postgres or sqlite); defaults to DATABASE_TYPE")
	pf.StringVarP(&a.dbURL, "db", "d", "", "Database URL; defaults to DATABASE_URL")
	pf.StringVar(&a.baseURL, "base-url", "", "Public site base URL; defaults to PUBLIC_BASE_URL")

	root.AddCommand(
		a.importCmd(),
		a.batchesCmd(),
		a.batchCmd(),
		a.approveCmd(),
		a.rejectCmd(),
		a.syncCmd(),
		a.templateCmd(),
		a.statsCmd(),
	)
	return root
}

// connect resolves config the same way the server does and opens a migrated
// database.
func (a *app) connect(cmd *cobra.Command) error {
	if err := cliparse.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	var args []string
	if a.dbType != "" {
		args = append(args, "-t", a.dbType)
	}
	if a.dbURL != "" {
		args = append(args, "-d", a.dbURL)
	}
	if a.baseURL != "" {
		args = append(args, "-base-url", a.baseURL)
	}
	cfg, err := cliparse.ParseToolFlags(args)
	if err != nil {
		return err
	}

	conn, err := db.Open(cmd.Context(), cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := db.CreateSchema(cmd.Context(), conn, cfg.DatabaseType); err != nil {
		conn.Close()
		return err
	}

	a.cfg = cfg
	a.conn = conn
	a.store = store.New(conn)
	return nil
}
