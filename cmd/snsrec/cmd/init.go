/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/snsrecords/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file with mainnet defaults and a generated gateway
API key.

Examples:
  snsrec init
  snsrec init --path ./snsrec.yaml --cache-dir ./cache --print-key`,
	// The config being written need not exist yet.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		cacheDir, _ := cmd.Flags().GetString("cache-dir")
		force, _ := cmd.Flags().GetBool("force")
		printKey, _ := cmd.Flags().GetBool("print-key")

		if path == "" {
			path = config.GetDefaultConfigPath()
		}
		if config.ConfigExists(path) && !force {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}

		cfg, err := config.BootstrapConfig(path, cacheDir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration written to %s\n", path)
		if printKey {
			fmt.Fprintf(out, "Gateway API key: %s\n", cfg.API.APIKey)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("path", "", "Where to write the config (default: "+config.GetDefaultConfigPath()+")")
	initCmd.Flags().String("cache-dir", "", "Enable the account cache in this directory")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")
}
