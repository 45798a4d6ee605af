package tokenizer

import (
	"errors"

	"github.com/copytree/copytree/internal/types"
)

// CountDocument estimates tokens for the generated document text.
func CountDocument(counter Counter, documentText string) (int, error) {
	if counter == nil {
		return 0, errors.New("nil tokenizer counter")
	}
	return counter.CountString(documentText)
}

// CountFiles estimates token counts per file, preserving input order, along
// with their sum. A per-file counting failure aborts the estimate; callers
// treat the counts as informational and may omit them.
func CountFiles(counter Counter, files []types.FileContent) ([]types.FileTokenCount, int, error) {
	if counter == nil {
		return nil, 0, errors.New("nil tokenizer counter")
	}
	fileCounts := make([]types.FileTokenCount, 0, len(files))
	totalTokens := 0
	for _, file := range files {
		fileTokens, countError := counter.CountString(file.Content)
		if countError != nil {
			return nil, 0, countError
		}
		fileCounts = append(fileCounts, types.FileTokenCount{RelativePath: file.RelativePath, Tokens: fileTokens})
		totalTokens += fileTokens
	}
	return fileCounts, totalTokens, nil
}
