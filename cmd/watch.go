package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/baiye-site/sitecontent/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Generate once, then regenerate whenever a content file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		poll, _ := cmd.Flags().GetBool("poll")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runWatch(ctx, poll)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("poll", false, "poll for changes instead of using filesystem notifications")
}

// runWatch blocks until ctx is done.
func runWatch(ctx context.Context, poll bool) error {
	r, err := newResolver()
	if err != nil {
		return err
	}

	var src watcher.Source
	if poll {
		src, err = watcher.NewPollSource(settings.ContentDir, settings.PollInterval, logger)
	} else {
		src, err = watcher.NewNotifySource(settings.ContentDir, logger)
	}
	if err != nil {
		return err
	}
	defer src.Close()

	trigger := watcher.NewTrigger(func() error {
		_, err := runGenerate()
		return err
	}, settings.Debounce, logger)
	defer trigger.Stop()

	logger.WithField("dir", settings.ContentDir).Info("Watching content files for changes")
	return watcher.Watch(ctx, src, trigger, r.Extensions(), logger)
}
