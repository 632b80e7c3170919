package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

// @title                       EcoStudy API
// @version                     1.0
// @description                 Study assistant backend: accounts, tutor chat, exam tips and study sources.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @securityDefinitions.apikey  AdminKey
// @in                          header
// @name                        X-Admin-Key
func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "ecostudy",
		Short:         "EcoStudy - study assistant API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/config.yml)")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(seedCmd(&configPath))

	// bare invocation keeps the old behaviour of starting the server
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), configPath)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
