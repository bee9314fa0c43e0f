package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/sqlite"
)

var (
	apikeyUser        string
	apikeyDescription string
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Create an API key for a user",
	Long: `Generates a bearer token for the given user and stores its hash.
The token is printed once and cannot be recovered afterwards.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		if err := ensureDBDir(cfg.DB.Path); err != nil {
			return fmt.Errorf("preparing database path: %w", err)
		}
		db, err := sqlite.New(cfg.DB.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if err := runEmbeddedMigrations(db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return fmt.Errorf("generating token: %w", err)
		}
		token := hex.EncodeToString(raw)

		keys := sqlite.NewAPIKeyRepository(db)
		if err := keys.CreateKey(cmd.Context(), token, apikeyUser, apikeyDescription); err != nil {
			return fmt.Errorf("storing key: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	apikeyCmd.Flags().StringVar(&apikeyUser, "user", "", "user id the key acts as")
	apikeyCmd.Flags().StringVar(&apikeyDescription, "description", "", "what the key is for")
	_ = apikeyCmd.MarkFlagRequired("user")
}
