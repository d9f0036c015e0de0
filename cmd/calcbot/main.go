package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m3rciful/calcbot/bot"
	"github.com/m3rciful/calcbot/core/buildinfo"
	corecmd "github.com/m3rciful/calcbot/core/cmd"
)

func main() {
	root := &cobra.Command{
		Use:           "calcbot",
		Short:         "Telegram bot that evaluates arithmetic expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCommand(), versionCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot",
		RunE: func(*cobra.Command, []string) error {
			return corecmd.Run(corecmd.Options{
				ConfigEnvVar:      "CONFIG_PATH",
				DefaultConfigPath: "configs/config.yaml",
				ConfigPath:        configPath,
				LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
					return bot.LoadConfig(path)
				},
				Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
					cfg, ok := carrier.(*bot.Config)
					if !ok {
						return nil, fmt.Errorf("unexpected config type %T", carrier)
					}
					return bot.Bootstrap(cfg)
				},
			})
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (overrides CONFIG_PATH)")
	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(*cobra.Command, []string) {
			fmt.Printf("calcbot %s (commit %s", buildinfo.Version, buildinfo.Commit)
			if buildinfo.Date != "" {
				fmt.Printf(", built %s", buildinfo.Date)
			}
			fmt.Println(")")
		},
	}
}
