package workspace

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/copytree/copytree/internal/types"
	"github.com/copytree/copytree/internal/utils"
)

const (
	// warningReadFailedMessage is logged when a selected file cannot be read.
	warningReadFailedMessage = "skipping unreadable file"
	// warningBinaryContentMessage is logged when a selected file holds binary content.
	warningBinaryContentMessage = "skipping binary file"

	// readConcurrencyLimit bounds parallel file reads.
	readConcurrencyLimit = 8
)

// ReadFiles reads every requested workspace-relative file concurrently and
// returns the survivors in request order. A file that cannot be read or whose
// content is binary is skipped with a logged warning; a skip never aborts the
// batch. The returned byte total covers surviving content only.
func ReadFiles(ctx context.Context, rootDirectoryPath string, relativeFilePaths []string, logger *zap.Logger) ([]types.FileContent, int64, error) {
	results := make([]*types.FileContent, len(relativeFilePaths))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(readConcurrencyLimit)

	for pathIndex, relativeFilePath := range relativeFilePaths {
		pathIndex, relativeFilePath := pathIndex, relativeFilePath
		group.Go(func() error {
			if contextError := groupCtx.Err(); contextError != nil {
				return contextError
			}
			absoluteFilePath := filepath.Join(rootDirectoryPath, filepath.FromSlash(relativeFilePath))
			fileData, readError := os.ReadFile(absoluteFilePath)
			if readError != nil {
				logger.Warn(warningReadFailedMessage, zap.String("path", relativeFilePath), zap.Error(readError))
				return nil
			}
			if utils.IsBinary(fileData) {
				logger.Warn(warningBinaryContentMessage, zap.String("path", relativeFilePath))
				return nil
			}
			results[pathIndex] = &types.FileContent{
				RelativePath: relativeFilePath,
				Content:      string(fileData),
			}
			return nil
		})
	}

	if waitError := group.Wait(); waitError != nil {
		return nil, 0, waitError
	}

	var fileContents []types.FileContent
	var totalBytes int64
	for _, result := range results {
		if result == nil {
			continue
		}
		fileContents = append(fileContents, *result)
		totalBytes += int64(len(result.Content))
	}
	return fileContents, totalBytes, nil
}
