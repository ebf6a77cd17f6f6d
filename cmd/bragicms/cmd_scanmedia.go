/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/bragi_cms/internal/config"
	"github.com/friendsincode/bragi_cms/internal/db"
	"github.com/friendsincode/bragi_cms/internal/media"
)

var scanMediaCmd = &cobra.Command{
	Use:   "scan-media",
	Short: "Report media files with no database row",
	Long: `Walk the filesystem media root and report files that no media_items row
points at. The scan is advisory only; nothing is deleted.

Only the filesystem backend is scanned. S3-backed deployments should use
bucket lifecycle tooling instead.`,
	RunE: runScanMedia,
}

func init() {
	rootCmd.AddCommand(scanMediaCmd)
}

func runScanMedia(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if cfg.MediaBackend != config.MediaBackendFilesystem {
		return fmt.Errorf("scan-media only supports the fs media backend, got %q", cfg.MediaBackend)
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close(database) }()

	scanner := media.NewOrphanScanner(database, cfg.MediaRoot, logger)
	result, err := scanner.ScanForOrphans(context.Background())
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	for _, orphan := range result.Orphans {
		fmt.Println(orphan)
	}

	logger.Info().
		Int("total_files", result.TotalFiles).
		Int("orphans", len(result.Orphans)).
		Int("errors", result.Errors).
		Int64("total_size_bytes", result.TotalSize).
		Dur("duration", result.Duration).
		Msg("media scan complete")
	return nil
}
