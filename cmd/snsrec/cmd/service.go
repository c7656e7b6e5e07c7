/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/snsrecords/pkg/config"
)

const (
	serviceName = "snsrec.service"
	unitPath    = "/etc/systemd/system/" + serviceName
)

// serviceCmd represents the service command
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the records gateway as a systemd service",
	// Service management reads no records.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

// installServiceCmd represents the service install command
var installServiceCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the records gateway as a systemd service",
	Long: `Install "snsrec serve" as a systemd service.

This will:
- Create or use existing configuration
- Write the systemd unit file
- Enable and optionally start the service

Examples:
  sudo snsrec service install
  sudo snsrec service install --config /etc/snsrec/config.yaml --user snsrec --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		user, _ := cmd.Flags().GetString("user")
		binary, _ := cmd.Flags().GetString("binary")
		startNow, _ := cmd.Flags().GetBool("start")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		if os.Geteuid() != 0 {
			return fmt.Errorf("service install requires root privileges (run with: sudo snsrec service install)")
		}

		out := cmd.OutOrStdout()
		cfg, err := ensureServiceConfig(cmd, configPath)
		if err != nil {
			return err
		}

		unit := systemdUnit(cfg, configPath, user, binary)
		if err := os.WriteFile(unitPath, []byte(unit), 0600); err != nil {
			return fmt.Errorf("failed to write unit file: %w", err)
		}
		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return fmt.Errorf("failed to reload systemd: %w", err)
		}
		if err := runSystemctlCommand("enable", serviceName); err != nil {
			return fmt.Errorf("failed to enable service: %w", err)
		}
		fmt.Fprintf(out, "Service enabled: %s\n", serviceName)

		if startNow {
			if err := runSystemctlCommand("start", serviceName); err != nil {
				return fmt.Errorf("failed to start service: %w", err)
			}
			fmt.Fprintln(out, "Service started")
		}

		fmt.Fprintf(out, "Config: %s\n", configPath)
		fmt.Fprintf(out, "Listening on: %s:%d\n", cfg.API.Bind, cfg.API.Port)
		fmt.Fprintf(out, "To view logs: sudo journalctl -u %s -f\n", serviceName)
		return nil
	},
}

// statusCmd represents the service status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the gateway service status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSystemctlCommand("status", serviceName)
	},
}

// logsCmd represents the service logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the gateway service logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		lines, _ := cmd.Flags().GetInt("lines")
		return runCommand("journalctl", journalArgs(follow, lines)...)
	},
}

// uninstallCmd represents the service uninstall command
var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the gateway service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Geteuid() != 0 {
			return fmt.Errorf("service uninstall requires root privileges (run with: sudo snsrec service uninstall)")
		}

		_ = runSystemctlCommand("stop", serviceName) // already stopped is fine
		if err := runSystemctlCommand("disable", serviceName); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not disable service: %v\n", err)
		}
		if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove unit file: %w", err)
		}
		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return fmt.Errorf("failed to reload systemd: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Service uninstalled. The configuration and cache were not removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(installServiceCmd)
	serviceCmd.AddCommand(statusCmd)
	serviceCmd.AddCommand(logsCmd)
	serviceCmd.AddCommand(uninstallCmd)

	installServiceCmd.Flags().String("user", "snsrec", "User to run the service as")
	installServiceCmd.Flags().String("binary", "/usr/local/bin/snsrec", "Path of the snsrec binary")
	installServiceCmd.Flags().Int("port", 8080, "Port for the gateway")
	installServiceCmd.Flags().Bool("start", true, "Start the service after installation")

	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsCmd.Flags().IntP("lines", "n", 0, "Number of lines to show")
}

// ensureServiceConfig loads the config at configPath, bootstrapping it when
// missing, and applies the --port override.
func ensureServiceConfig(cmd *cobra.Command, configPath string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if config.ConfigExists(configPath) {
		if cfg, err = config.LoadConfig(configPath); err != nil {
			return nil, err
		}
	} else {
		if cfg, err = config.BootstrapConfig(configPath, ""); err != nil {
			return nil, err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created new configuration at %s\n", configPath)
	}

	if cmd.Flags().Changed("port") {
		cfg.API.Port, _ = cmd.Flags().GetInt("port")
		if err := config.SaveConfig(cfg, configPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// systemdUnit renders the unit file for the gateway
func systemdUnit(cfg *config.Config, configPath, user, binary string) string {
	unit := fmt.Sprintf(`[Unit]
Description=SNS Records gateway
After=network-online.target
Wants=network-online.target

[Service]
User=%s
Group=%s
ExecStart=%s serve --config %s
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths=%s
`, user, user, binary, configPath, filepath.Dir(configPath))

	if cfg.Cache.Enabled {
		unit += fmt.Sprintf("ReadWritePaths=%s\n", cfg.Cache.Dir)
	}
	return unit + `
[Install]
WantedBy=multi-user.target
`
}

func journalArgs(follow bool, lines int) []string {
	args := []string{"-u", serviceName}
	if follow {
		args = append(args, "-f")
	}
	if lines > 0 {
		args = append(args, fmt.Sprintf("-n%d", lines))
	}
	return args
}

// runSystemctlCommand runs a systemctl command
func runSystemctlCommand(args ...string) error {
	return runCommand("systemctl", args...)
}

// runCommand runs a system command and returns its error
func runCommand(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
