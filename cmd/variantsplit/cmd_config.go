package main

import (
	"fmt"
	"os"

	"variantsplit/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (file, env and flags applied)",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultFile
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return usageError(fmt.Errorf("%s already exists (use --force to overwrite)", path))
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", okStyle.Render("OK"), path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", errorStyle.Render("INVALID"), err)
	}
	data, err := yamlString(cfg)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	fmt.Fprint(cmd.OutOrStdout(), data)
	return nil
}

func yamlString(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}
