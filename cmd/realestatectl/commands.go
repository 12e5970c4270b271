package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/NDQnhat/realestatepro-api/internal/database"
	"github.com/NDQnhat/realestatepro-api/internal/seeds"
	"github.com/NDQnhat/realestatepro-api/internal/services"
)

func getDB() (*gorm.DB, error) {
	return database.Open(config.AppConfig)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table and index",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo accounts and listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			res, err := seeds.Run(cmd.Context(), db)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d users, %d agents, %d listings, %d messages (password %q)\n",
				res.Users, res.Agents, res.Properties, res.Messages, seeds.DemoPassword)
			return nil
		},
	}
}

func promoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			if err := services.PromoteAdmin(cmd.Context(), db, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Promoted %s to admin\n", args[0])
			return nil
		},
	}
}

func banCmd(banned bool) *cobra.Command {
	use, short := "ban <email>", "Ban a user and drop their remember token"
	if !banned {
		use, short = "unban <email>", "Lift a user's ban"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			if err := services.SetBanned(cmd.Context(), db, args[0], banned); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: banned=%t\n", args[0], banned)
			return nil
		},
	}
}

func revokeRememberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-remember <email>",
		Short: "Invalidate a user's remember-me token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			if err := services.RevokeRemember(cmd.Context(), db, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Remember token cleared for %s\n", args[0])
			return nil
		},
	}
}
