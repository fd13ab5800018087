// Package cli implements the aura command line.
package cli

import (
	"context"
	"sync"

	"github.com/KirkDiggler/aura/internal/common/logger"
	"github.com/KirkDiggler/aura/internal/common/timeline"
	"github.com/KirkDiggler/aura/internal/config"
	"github.com/KirkDiggler/aura/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "dev"

func Execute() error {
	return newRootCmd().Execute()
}

// app carries what every subcommand needs once flags are parsed
type app struct {
	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var configFile string
	var envFiles []string

	rootCmd := &cobra.Command{
		Use:           "aura",
		Short:         "aura: wellness sessions and account flows from the terminal",
		Long:          "aura runs a counseling session room with a waiting-room countdown, a scripted host connection and chat, plus the signup, password reset and resource library flows.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(&config.LoadInput{
				ConfigFile: configFile,
				EnvFiles:   envFiles,
			})
			if err != nil {
				return err
			}

			log, err := logger.New(&logger.Config{
				Level:  cfg.LogLevel,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.log = log
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load (default .env when present)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newMeetingCmd(a),
		newResourcesCmd(a),
		newSignupCmd(a),
		newResetPasswordCmd(a),
		newPasswordStrengthCmd(),
	)

	return rootCmd
}

// startLoop runs a timeline loop until the returned stop func is called
func startLoop(ctx context.Context, log logrus.FieldLogger) (*timeline.Loop, func()) {
	loop := timeline.NewLoop(&timeline.LoopConfig{Logger: log})

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()

	return loop, func() {
		cancel()
		<-done
	}
}

// navigationWaiter implements surface.Navigator and remembers the first destination
type navigationWaiter struct {
	once        sync.Once
	done        chan struct{}
	destination models.Destination
}

func newNavigationWaiter() *navigationWaiter {
	return &navigationWaiter{done: make(chan struct{})}
}

func (w *navigationWaiter) Navigate(ctx context.Context, destination models.Destination) {
	w.once.Do(func() {
		w.destination = destination
		close(w.done)
	})
}

// wait blocks until a navigation happens or ctx is done
func (w *navigationWaiter) wait(ctx context.Context) (models.Destination, error) {
	select {
	case <-w.done:
		return w.destination, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// navigated reports a navigation without blocking
func (w *navigationWaiter) navigated() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}
