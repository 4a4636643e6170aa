package cli

import (
	"context"
	"fmt"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/config"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/database"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/flow"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/llm"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fabulae",
		Short: "Illustrated Latin stories and word expansions from the command line",
		Long: `Fabulae generates illustrated Latin reading stories and detailed word
expansions with an LLM, and manages the saved expansion list.

Configuration is read from the environment (and a .env file if present):
LLM_PROVIDER, GEMINI_API_KEY, DATABASE_URL and friends.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newExpandCmd())
	cmd.AddCommand(newGlossCmd())
	cmd.AddCommand(newStoryCmd())
	cmd.AddCommand(newImportCmd())

	return cmd
}

// newFlows builds the flows for cfg. The returned func closes the LLM client.
func newFlows(ctx context.Context, cfg *config.Config) (*flow.Flows, func(), error) {
	text, images, closeLLM, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create LLM client: %w", err)
	}
	return flow.New(text, images), func() { _ = closeLLM() }, nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.DatabaseURL, logger.Silent)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
