package commands

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trajectory-dev/trajectory/internal/buildinfo"
	"github.com/trajectory-dev/trajectory/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "trajectory",
		Short:   "Chart campaign-finance filings on a shared quarterly axis",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", config.FileName, "path to the project config")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newChartCommand())

	return rootCmd
}

// loadConfig reads the config at path, falling back to defaults when the
// file does not exist, then applies .env and TRAJECTORY_* overrides.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return nil, err
	}

	if err := config.LoadEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// projectPath resolves a config-relative data path.
func projectPath(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
