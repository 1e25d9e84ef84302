/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/prachar-hq/apiserver/config"
	"github.com/prachar-hq/apiserver/internal/archive"
	"github.com/prachar-hq/apiserver/internal/db"
	"github.com/prachar-hq/apiserver/internal/logger"
	"github.com/prachar-hq/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// archiveCmd represents the archive command.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Work with archived surveys",
}

var archiveRestoreCmd = &cobra.Command{
	Use:   "restore <survey-id>",
	Short: "Re-insert an archived survey and drop its archive object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log := logger.New("prachar-archive")
		ctx := cmd.Context()
		id := args[0]

		backend, err := archive.NewBackend(ctx, cfg.Archive)
		if err != nil {
			return fmt.Errorf("init archive backend: %w", err)
		}
		if backend == nil {
			return errors.New("ARCHIVE_BACKEND must be set to restore surveys")
		}
		archiver := archive.NewArchiver(backend, log)

		dbClient := db.New(cfg.Mongo)
		database, err := dbClient.Connect(ctx)
		if err != nil {
			return fmt.Errorf("connect to store: %w", err)
		}
		defer func() {
			_ = dbClient.Close(ctx)
		}()

		survey, err := archiver.Fetch(ctx, id)
		if err != nil {
			return err
		}

		repo := store.NewSurveyRepository(database)
		if err := repo.Restore(ctx, survey); err != nil {
			return fmt.Errorf("restore survey %s: %w", id, err)
		}

		if err := archiver.Remove(ctx, id); err != nil {
			log.Warn().Err(err).Str("survey_id", id).Msg("survey restored but archive object was not removed")
		}
		log.Info().Str("survey_id", id).Msg("survey restored from archive")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveRestoreCmd)
}
