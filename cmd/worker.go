/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prachar-hq/apiserver/config"
	"github.com/prachar-hq/apiserver/internal/events"
	"github.com/prachar-hq/apiserver/internal/logger"
	"github.com/spf13/cobra"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consumes survey lifecycle events from the configured broker",
	Long: `Consumes survey lifecycle events from the configured broker and logs
each one. Usage:

	EVENTS_BACKEND=rabbitmq prachar worker
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log := logger.New("prachar-worker")

		backend, err := events.NewBackend(cmd.Context(), cfg.Events)
		if err != nil {
			return fmt.Errorf("init events backend: %w", err)
		}
		if backend == nil {
			return errors.New("EVENTS_BACKEND must be set to run the worker")
		}
		defer func() {
			_ = backend.Close()
		}()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-stop
			cancel()
		}()

		consumer := events.NewConsumer(backend, log)
		log.Info().Str("channel", events.Channel).Msg("worker consuming survey events")
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
