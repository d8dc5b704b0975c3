package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandevgo/studybuddy/internal/config"
	"github.com/sandevgo/studybuddy/pkg/env"
	"github.com/spf13/cobra"
)

var force bool

var ErrEnvExists = errors.New("env file already exists")

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to the runtime .env file",
	Long: `Resolves the configuration from the environment and defaults and writes it
to .env in the runtime directory, so later runs pick up the same settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		path, err := writeEnv(ctx, force)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

func writeEnv(ctx context.Context, overwrite bool) (string, error) {
	appCfg := config.NewAppConfig(ctx)
	ragCfg := config.NewRAGConfig(ctx)

	path := appCfg.GetEnvPath()
	if _, err := os.Stat(path); err == nil && !overwrite {
		return "", fmt.Errorf("%s: %w (use --force to overwrite)", path, ErrEnvExists)
	}

	content, err := env.MarshalEnv(appCfg, ragCfg)
	if err != nil {
		return "", fmt.Errorf("render env: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create runtime directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing .env file")
	rootCmd.AddCommand(initCmd)
}
