package app

import (
	"context"

	clientipfs "github.com/matiasbn/dj-wizard/internal/client/ipfs"
	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/service/backup"
)

// ExecuteIPFSCommand uploads the state snapshot to the configured IPFS node
// and prints the resulting content hash.
func ExecuteIPFSCommand(ctx context.Context, cfg *config.Config) error {
	stateStore := openStore(ctx, cfg)
	backupService := backup.NewService(clientipfs.NewClient(cfg), stateStore)

	hash, err := backupService.UploadSnapshot(ctx)
	if err != nil {
		return err
	}

	logger.Infof(ctx, "IPFS hash: %s", hash)

	return nil
}
