package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trajectory-dev/trajectory/internal/config"
	"github.com/trajectory-dev/trajectory/internal/entities"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new trajectory project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized trajectory project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}

func runInit(dir string, force bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if exists(cfgPath) && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	cfg := config.Default()

	// Create directory structure.
	if err := os.MkdirAll(filepath.Join(dir, cfg.Data.Filings), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", cfg.Data.Filings, err)
	}

	// Write trajectory.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write an empty entity catalog, keeping one that is already there.
	if !exists(filepath.Join(dir, cfg.Data.Entities)) {
		if err := entities.NewService(nil).Save(dir); err != nil {
			return fmt.Errorf("writing entity catalog: %w", err)
		}
	}

	// Write .gitignore.
	gitignore := ".env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write filings/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, cfg.Data.Filings, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	return nil
}
