// Command aurixonctl runs maintenance tasks against an AURIXON deployment.
// It reads the same environment as the API server.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aurixon/api/internal/config"
	"github.com/aurixon/api/internal/database"
	"github.com/aurixon/api/internal/logger"
	"github.com/aurixon/api/internal/middleware"
	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/report"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "aurixonctl",
		Short:        "Maintenance commands for the AURIXON API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(cleanupExportsCmd())
	rootCmd.AddCommand(issueTokenCmd())
	return rootCmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.Server.Env)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			db, err := database.NewPostgresPool(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := db.Migrate(ctx)
			if err != nil {
				return err
			}
			log.Info("Migrations complete", map[string]interface{}{"applied": applied})
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}
}

func cleanupExportsCmd() *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup-exports",
		Short: "Remove report artifacts older than --max-age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if maxAge == 0 {
				maxAge = cfg.Exports.MaxAge
			}
			if maxAge < 0 {
				return fmt.Errorf("--max-age must be positive")
			}
			return runCleanup(cmd, cfg.Exports.Dir, maxAge, logger.New(cfg.Server.Env))
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "minimum artifact age to remove (defaults to EXPORT_MAX_AGE)")
	return cmd
}

func runCleanup(cmd *cobra.Command, dir string, maxAge time.Duration, log *logger.Logger) error {
	scratch, err := report.NewScratch(dir, log)
	if err != nil {
		return err
	}
	removed, err := scratch.Sweep(maxAge)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d export(s) older than %s from %s\n", removed, maxAge, dir)
	return nil
}

func issueTokenCmd() *cobra.Command {
	var (
		userID string
		email  string
		grants []string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Sign a bearer token for local testing",
		Long: "Sign a bearer token with JWT_SECRET. Each --grant is company:role, e.g.\n" +
			"--grant 7c9e6679-7425-40de-944b-e07fc1f90ae7:editor. internal_admin may use * as the company.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			claims := middleware.Claims{Email: email}
			if userID == "" {
				claims.UserID = uuid.New()
			} else if claims.UserID, err = uuid.Parse(userID); err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			if claims.Roles, err = parseGrants(grants); err != nil {
				return err
			}

			token, err := middleware.IssueToken(cfg.Auth.JWTSecret, claims, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (random when empty)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringArrayVar(&grants, "grant", nil, "company:role grant, repeatable")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func parseGrants(raw []string) ([]models.RoleGrant, error) {
	grants := make([]models.RoleGrant, 0, len(raw))
	for _, g := range raw {
		company, roleName, ok := strings.Cut(g, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --grant %q: want company:role", g)
		}
		role, err := models.ParseRole(roleName)
		if err != nil {
			return nil, err
		}

		var companyID uuid.UUID
		if company == "*" {
			if !role.IsGlobal() {
				return nil, fmt.Errorf("invalid --grant %q: only internal_admin applies to every company", g)
			}
		} else if companyID, err = uuid.Parse(company); err != nil {
			return nil, fmt.Errorf("invalid --grant %q: %w", g, err)
		}
		grants = append(grants, models.RoleGrant{CompanyID: companyID, Role: role})
	}
	return grants, nil
}
