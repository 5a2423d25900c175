// Package clean removes duplicate files from the download directory.
//
// Two files are duplicates when they have the same size and the same
// SHA-256 digest. Within each duplicate group the lexicographically first
// path survives and every other copy is deleted.
package clean

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
)

// Service deduplicates the download directory.
type Service interface {
	// PrintCleanSummary prints a formatted summary of the last scan.
	PrintCleanSummary(ctx context.Context)

	// RemoveDuplicates scans the download directory and deletes every
	// duplicate copy, keeping the lexicographically first path of each
	// group. With dryRun set it only reports what would be removed.
	RemoveDuplicates(ctx context.Context, dryRun bool) error
}

// ServiceImpl implements the duplicate scan over the local filesystem.
type ServiceImpl struct {
	cfg *config.Config

	// stats aggregates scan counters, guarded by statsMutex.
	stats      *CleanStatistics
	statsMutex sync.Mutex
}

// NewService creates a duplicate cleanup service.
func NewService(cfg *config.Config) Service {
	return &ServiceImpl{
		cfg:   cfg,
		stats: &CleanStatistics{},
	}
}

// RemoveDuplicates implements Service.
func (s *ServiceImpl) RemoveDuplicates(ctx context.Context, dryRun bool) error {
	s.statsMutex.Lock()
	s.stats = &CleanStatistics{StartTime: time.Now(), DryRun: dryRun}
	s.statsMutex.Unlock()

	defer func() {
		s.statsMutex.Lock()
		s.stats.EndTime = time.Now()
		s.statsMutex.Unlock()
	}()

	root := s.cfg.DownloadPath

	logger.Infof(ctx, "Scanning '%s' for duplicate files...", root)

	sizeGroups, err := s.collectFilesBySize(ctx, root)
	if err != nil {
		return err
	}

	for size, paths := range sizeGroups {
		// A unique size cannot have duplicates, skip the hashing.
		if len(paths) < 2 {
			continue
		}

		if groupErr := s.removeSameSizeDuplicates(ctx, size, paths, dryRun); groupErr != nil {
			return groupErr
		}
	}

	return nil
}

// collectFilesBySize walks the download directory and buckets every regular
// file by its size.
func (s *ServiceImpl) collectFilesBySize(ctx context.Context, root string) (map[int64][]string, error) {
	sizeGroups := make(map[int64][]string)

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			logger.Warnf(ctx, "Failed to inspect '%s': %v", path, infoErr)

			return nil
		}

		s.recordScanned()

		sizeGroups[info.Size()] = append(sizeGroups[info.Size()], path)

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan '%s': %w", root, walkErr)
	}

	return sizeGroups, nil
}

// removeSameSizeDuplicates hashes all files of one size and removes every
// copy after the first within each identical-content group.
func (s *ServiceImpl) removeSameSizeDuplicates(
	ctx context.Context,
	size int64,
	paths []string,
	dryRun bool,
) error {
	contentGroups := make(map[string][]string, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		digest, err := hashFile(path)
		if err != nil {
			// The file may have been moved since the walk, skip it.
			logger.Warnf(ctx, "Skipping '%s': %v", path, err)
			s.recordError(err)

			continue
		}

		contentGroups[digest] = append(contentGroups[digest], path)
	}

	for _, group := range contentGroups {
		if len(group) < 2 {
			continue
		}

		sort.Strings(group)

		logger.Debugf(ctx, "Keeping '%s'", group[0])
		s.recordDuplicateGroup()

		for _, duplicate := range group[1:] {
			s.removeDuplicate(ctx, duplicate, size, dryRun)
		}
	}

	return nil
}

// removeDuplicate deletes one duplicate copy, or only reports it in
// dry-run mode. Deletion failures are recorded without aborting the scan.
func (s *ServiceImpl) removeDuplicate(ctx context.Context, path string, size int64, dryRun bool) {
	if dryRun {
		logger.Infof(ctx, "Would remove duplicate '%s' (%s)", path, humanize.Bytes(uint64(size)))
		s.recordRemoved(path, size)

		return
	}

	if err := os.Remove(path); err != nil {
		logger.Warnf(ctx, "Failed to remove '%s': %v", path, err)
		s.recordError(fmt.Errorf("failed to remove '%s': %w", path, err))

		return
	}

	logger.Debugf(ctx, "Removed duplicate '%s' (%s)", path, humanize.Bytes(uint64(size)))
	s.recordRemoved(path, size)
}

// hashFile computes the SHA-256 digest of one file.
func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open '%s': %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()

	if _, err = io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read '%s': %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
