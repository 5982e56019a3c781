package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/pkg/config"
	"github.com/noah-isme/course-feedback-api/pkg/logger"
)

const appName = "course-feedback-api"

func newRootCmd(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Course feedback platform API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logr, nil
}
