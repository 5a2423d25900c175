package app

import (
	"context"
	"fmt"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/service/soundeo"
	"github.com/matiasbn/dj-wizard/internal/store"
	"github.com/matiasbn/dj-wizard/internal/utils"
)

// ExecuteURLCommand ingests track and listing URLs into the download queue
// at the named priority. URLs staged by interrupted runs are always
// re-ingested first, so calling the command with no arguments resumes a
// previous ingest.
func ExecuteURLCommand(ctx context.Context, cfg *config.Config, urls []string, listFile, priorityName string) error {
	requireSession(ctx, cfg)

	priority := store.PriorityNormal

	if priorityName != "" {
		parsed, ok := store.ParsePriority(priorityName)
		if !ok {
			return fmt.Errorf("%w: '%s'", ErrUnknownPriority, priorityName)
		}

		priority = parsed
	}

	if listFile != "" {
		fileURLs, err := utils.ReadUniqueLinesFromFile(listFile)
		if err != nil {
			return fmt.Errorf("failed to read URLs from '%s': %w", listFile, err)
		}

		urls = append(urls, fileURLs...)
	}

	stateStore := openStore(ctx, cfg)
	ingestService := soundeo.NewService(cfg, newCatalogClient(ctx, cfg), stateStore)

	resumed, err := ingestService.ResumePendingURLs(ctx, priority)
	if err != nil {
		return err
	}

	if resumed > 0 {
		logger.Infof(ctx, "Resumed staged URLs: %d tracks enqueued.", resumed)
	}

	if len(urls) == 0 {
		if resumed == 0 {
			logger.Info(ctx, "Nothing to ingest: no URLs given and none staged.")
		}

		return nil
	}

	enqueued, err := ingestService.IngestURLs(ctx, urls, priority)
	if err != nil {
		return err
	}

	logger.Infof(ctx, "Enqueued %d new tracks (queue length: %d).", enqueued, stateStore.QueueLength())

	return nil
}
