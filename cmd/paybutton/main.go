package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/cli/migrate"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/cli/server"
)

func main() {
	// Missing .env is fine; configuration falls back to real environment
	// variables and defaults.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "paybutton",
		Short: "Crypto payment button service",
		Long:  `Generates shareable crypto payment links, manages payment buttons and executes transfers on Polygon.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
