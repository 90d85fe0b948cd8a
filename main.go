package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"transferflow/config"
	"transferflow/logger"
	"transferflow/models"
	"transferflow/processor"
	"transferflow/reader/transfermarkt"
	"transferflow/writer"
)

// leagueNames maps Transfermarkt league ids to display names for the
// snapshot metadata. Unknown ids fall back to the raw id.
var leagueNames = map[string]string{
	"GB1": "Premier League",
	"ES1": "LaLiga",
	"L1":  "Bundesliga",
	"IT1": "Serie A",
	"FR1": "Ligue 1",
}

func leagueName(id string) string {
	if name, ok := leagueNames[id]; ok {
		return name
	}
	return id
}

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Transferflow.Name,
		"version": cfg.Transferflow.Version,
	}).Info("starting transferflow")

	if cfg.Metrics.CloudWatch.Enabled {
		logger.InitCloudWatch(cfg.Storage.S3.Region, cfg.Metrics.CloudWatch.Namespace)
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchDeadline(cfg))
	defer cancel()

	client := transfermarkt.NewClient(cfg)

	transfers := client.FetchTransfers(ctx, cfg.Fetch.LeagueID, cfg.Fetch.Season)
	if len(transfers) == 0 {
		log.WithFields(logger.Fields{
			"league_id": cfg.Fetch.LeagueID,
			"season":    cfg.Fetch.Season,
		}).Warn("fetch yielded no records")
		fmt.Println("No transfer data found")
		return
	}

	if cfg.Fetch.EnrichPlayers {
		transfers = client.EnrichTransfers(ctx, transfers)
	}

	table := processor.NormalizeAll(transfers)
	summary := processor.Summarize(table)

	snapshot := models.Snapshot{
		Metadata: models.SnapshotMetadata{
			SnapshotID:   uuid.New().String(),
			GeneratedAt:  time.Now().UTC(),
			League:       leagueName(cfg.Fetch.LeagueID),
			Season:       cfg.Fetch.Season,
			TotalRecords: len(table),
		},
		Summary:   summary,
		Transfers: table,
	}

	artifacts := writeArtifacts(cfg, log, snapshot, table)

	uploadArtifacts(ctx, cfg, log, artifacts)

	log.LogMetric("pipeline", "records_processed", len(table), "counter", logger.Fields{
		"league": cfg.Fetch.LeagueID,
		"season": cfg.Fetch.Season,
	})
	log.LogMetric("pipeline", "total_spending_millions", summary.TotalSpending, "gauge", logger.Fields{
		"league": cfg.Fetch.LeagueID,
		"season": cfg.Fetch.Season,
	})

	fmt.Printf("Processed %d transfers\n", len(table))
	fmt.Printf("Total spending: €%.1fM\n", summary.TotalSpending)
}

// fetchDeadline bounds the whole retrieval phase, leaving room for the
// per-request timeout times the retry budget plus enrichment lookups.
func fetchDeadline(cfg *config.Config) time.Duration {
	src := cfg.Source.Transfermarkt
	deadline := src.Timeout.Std() * time.Duration(src.Retry.MaxAttempts+1)
	if cfg.Fetch.EnrichPlayers {
		deadline *= 4
	}
	return deadline
}

// writeArtifacts persists the snapshot document and the optional parquet
// export. Write failures are logged, never fatal; the console summary is
// still produced.
func writeArtifacts(cfg *config.Config, log *logger.Log, snapshot models.Snapshot, table []models.FlatTransfer) []string {
	var artifacts []string

	snapshotWriter := writer.NewSnapshotWriter(cfg)
	jsonPath := snapshotWriter.OutputPath(cfg.Fetch.LeagueID, cfg.Fetch.Season)
	if err := snapshotWriter.Write(snapshot, jsonPath); err != nil {
		log.WithError(err).WithFields(logger.Fields{"path": jsonPath}).Error("failed to write snapshot")
	} else {
		artifacts = append(artifacts, jsonPath)
	}

	if cfg.Output.Formats.Parquet.Enabled {
		parquetPath := strings.TrimSuffix(jsonPath, ".json") + ".parquet"
		exporter := writer.NewParquetExporter(cfg)
		if err := exporter.Export(table, parquetPath); err != nil {
			log.WithError(err).WithFields(logger.Fields{"path": parquetPath}).Error("failed to write parquet export")
		} else {
			artifacts = append(artifacts, parquetPath)
		}
	}

	return artifacts
}

// uploadArtifacts ships local artifacts to S3 when storage is enabled.
func uploadArtifacts(ctx context.Context, cfg *config.Config, log *logger.Log, artifacts []string) {
	if !cfg.Storage.S3.Enabled || len(artifacts) == 0 {
		return
	}

	uploader, err := writer.NewS3Uploader(cfg)
	if err != nil {
		log.WithError(err).Error("failed to create S3 uploader")
		return
	}

	for _, artifact := range artifacts {
		key := uploader.ObjectKey(cfg.Fetch.LeagueID, cfg.Fetch.Season, artifact)
		if err := uploader.Upload(ctx, artifact, key); err != nil {
			log.WithError(err).
				WithEnv("S3_BUCKET").
				WithFields(logger.Fields{"bucket": cfg.Storage.S3.Bucket, "s3_key": key}).
				Error("failed to upload to S3")
		}
	}
}
