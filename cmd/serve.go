package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baiye-site/sitecontent/handlers"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generated data files for local preview",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		watch, _ := cmd.Flags().GetBool("watch")
		poll, _ := cmd.Flags().GetBool("poll")

		r, err := newResolver()
		if err != nil {
			return err
		}

		router, err := handlers.SetupRouter(&handlers.Server{
			Fs:          appFs,
			OutputDir:   settings.OutputDir,
			SourcesFile: settings.SourcesFile,
			Validator:   newValidator(r),
			Log:         logger,
		})
		if err != nil {
			return errors.Wrap(err, "error setting up router")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		watchErr := make(chan error, 1)
		if watch {
			go func() {
				watchErr <- runWatch(ctx, poll)
			}()
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Infof("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		if watch {
			return <-watchErr
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "9010", "Port to run the server on")
	serveCmd.Flags().Bool("watch", false, "regenerate the data files while serving")
	serveCmd.Flags().Bool("poll", false, "poll for changes instead of using filesystem notifications")
}
