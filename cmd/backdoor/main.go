package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noah-isme/course-feedback-api/internal/models"
	"github.com/noah-isme/course-feedback-api/pkg/backdoor"
	"github.com/noah-isme/course-feedback-api/pkg/config"
	"github.com/noah-isme/course-feedback-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Printf("backdoor: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var baseURL string
	root := &cobra.Command{
		Use:           "backdoor",
		Short:         "Seed and clear test data through the maintenance endpoints",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "url", "", "API base URL (defaults to BACKDOOR_BASE_URL)")

	clientFor := func() (*backdoor.Client, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		logr, err := logger.New(cfg)
		if err != nil {
			return nil, err
		}
		target := cfg.Backdoor.BaseURL
		if baseURL != "" {
			target = baseURL
		}
		return backdoor.New(backdoor.Config{
			BaseURL:     target,
			BackdoorKey: cfg.Backdoor.Key,
			CSRFKey:     cfg.Backdoor.CSRFKey,
			Timeout:     cfg.Backdoor.Timeout,
		}, logr), nil
	}

	root.AddCommand(
		newBundleCmd("restore", "Remove then persist a data bundle", clientFor, func(ctx context.Context, c *backdoor.Client, b *models.DataBundle) error {
			status, err := c.RemoveAndRestoreDataBundle(ctx, b)
			if err != nil {
				return err
			}
			fmt.Println(status)
			if status != backdoor.StatusSuccess {
				return fmt.Errorf("data bundle was not persisted")
			}
			return nil
		}),
		newBundleCmd("remove", "Remove the entities named by a data bundle", clientFor, func(ctx context.Context, c *backdoor.Client, b *models.DataBundle) error {
			return c.RemoveDataBundle(ctx, b)
		}),
		newDeleteStudentCmd(clientFor),
		newDeleteSessionCmd(clientFor),
	)
	return root
}

type clientFactory func() (*backdoor.Client, error)

func newBundleCmd(use, short string, clientFor clientFactory, run func(context.Context, *backdoor.Client, *models.DataBundle) error) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := readBundle(file)
			if err != nil {
				return err
			}
			client, err := clientFor()
			if err != nil {
				return err
			}
			return run(cmd.Context(), client, bundle)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a data bundle JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDeleteStudentCmd(clientFor clientFactory) *cobra.Command {
	var googleID string
	cmd := &cobra.Command{
		Use:   "delete-student",
		Short: "Delete every enrollment of a google id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor()
			if err != nil {
				return err
			}
			return client.DeleteStudent(cmd.Context(), googleID)
		},
	}
	cmd.Flags().StringVar(&googleID, "id", "", "google id of the student")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newDeleteSessionCmd(clientFor clientFactory) *cobra.Command {
	var name, courseID string
	cmd := &cobra.Command{
		Use:   "delete-session",
		Short: "Delete one feedback session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor()
			if err != nil {
				return err
			}
			return client.DeleteFeedbackSession(cmd.Context(), name, courseID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "feedback session name")
	cmd.Flags().StringVar(&courseID, "course", "", "course id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

func readBundle(path string) (*models.DataBundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	var bundle models.DataBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("parse bundle %s: %w", path, err)
	}
	return &bundle, nil
}
