package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	config.LoadConfig()
	logger.Init(config.AppConfig.Env, config.AppConfig.LogLevel)

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "realestatectl",
		Short:         "RealEstatePro operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		migrateCmd(),
		seedCmd(),
		promoteCmd(),
		banCmd(true),
		banCmd(false),
		revokeRememberCmd(),
	)
	return root
}
