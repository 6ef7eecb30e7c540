package main

import (
	"context"

	"letluckdecide/enricher/internal/config"
	"letluckdecide/enricher/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "enricher",
		Short:         "Extract pooled labels and enrich them with reference summaries and images",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newExtractCommand(&configFile))
	rootCmd.AddCommand(newEnrichCommand(&configFile))
	rootCmd.AddCommand(newRunCommand(&configFile))

	return rootCmd
}

func newExtractCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Scan the data source and write the label file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, *configFile, (*container.Container).Extract)
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func newEnrichCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fetch summaries and images for every label into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, *configFile, (*container.Container).Enrich)
		},
	}
	cmd.Flags().String("keywords", "", "Label file produced by extract")
	addStoreFlags(cmd)
	return cmd
}

func newRunCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run extract and enrich in sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, *configFile, (*container.Container).Run)
		},
	}
	addSourceFlags(cmd)
	addStoreFlags(cmd)
	return cmd
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "Data source to scan for labels")
	cmd.Flags().String("keywords", "", "Label file to write")
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "Enrichment store file (file backend)")
	cmd.Flags().String("backend", "", "Store backend: file, redis or postgres")
	cmd.Flags().Bool("force", false, "Refetch and overwrite every processed entry")
	cmd.Flags().Int("limit", 0, "Process at most this many labels (0 for all)")
}

func runStage(cmd *cobra.Command, configFile string, stage func(*container.Container, context.Context) error) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	configureLogging(cfg.Log)
	log.Debug("Configuration loaded successfully")

	app, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return stage(app, cmd.Context())
}
