// Package export orchestrates one export run: discovery, selection, content
// reading, document generation, and sink delivery.
package export

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/copytree/copytree/internal/document"
	"github.com/copytree/copytree/internal/index"
	"github.com/copytree/copytree/internal/picker"
	"github.com/copytree/copytree/internal/services/clipboard"
	"github.com/copytree/copytree/internal/tokenizer"
	"github.com/copytree/copytree/internal/tree"
	"github.com/copytree/copytree/internal/types"
	"github.com/copytree/copytree/internal/utils"
	"github.com/copytree/copytree/internal/workspace"
)

const (
	warningNoFilesDiscovered = "no exportable files found in workspace"
	warningNoFilesReadable   = "none of the selected files could be read"
	warningClipboardFailed   = "clipboard write failed; output is still printed below"
	warningTokenCountFailed  = "token counting failed"
	infoSelectionCancelled   = "selection cancelled"
	summaryMessage           = "export complete"

	errorDiscoveryFormat = "discovering workspace files: %w"
	errorPickerFormat    = "running selection picker: %w"
	errorReadFormat      = "reading selected files: %w"
	errorWriteFormat     = "writing document: %w"
)

// SelectFunc resolves the user's file selection for a built forest. The
// default implementation runs the interactive picker; tests substitute their
// own.
type SelectFunc func(forest []*types.TreeNode, maxFilesThreshold int) (picker.Result, error)

// CounterFactory builds a token counter for the requested model. The default
// implementation is tokenizer.NewCounter; tests substitute their own.
type CounterFactory func(model string) (tokenizer.Counter, string, error)

// Options configures one export run.
type Options struct {
	WorkspaceRoot     string
	ExclusionPatterns []string
	SelectAll         bool
	ClipboardEnabled  bool
	MaxFilesThreshold int
	TokensEnabled     bool
	TokenModel        string
}

// Runner executes export runs against its collaborators.
type Runner struct {
	logger   *zap.Logger
	output   io.Writer
	copier   clipboard.Copier
	selector SelectFunc
	counters CounterFactory
}

// NewRunner constructs a Runner writing the generated document to output.
// A nil selector falls back to the interactive picker; a nil counter factory
// falls back to the tiktoken-backed tokenizer.
func NewRunner(logger *zap.Logger, output io.Writer, copier clipboard.Copier, selector SelectFunc, counters CounterFactory) *Runner {
	if selector == nil {
		selector = picker.Run
	}
	if counters == nil {
		counters = tokenizer.NewCounter
	}
	return &Runner{logger: logger, output: output, copier: copier, selector: selector, counters: counters}
}

// Run performs one export. It returns a nil summary when the run ends without
// producing output: user cancellation and empty-result conditions are clean
// no-ops, not errors.
func (runner *Runner) Run(ctx context.Context, options Options) (*types.ExportSummary, error) {
	discoveredPaths, discoveryError := workspace.DiscoverFiles(options.WorkspaceRoot, options.ExclusionPatterns)
	if discoveryError != nil {
		return nil, fmt.Errorf(errorDiscoveryFormat, discoveryError)
	}
	if len(discoveredPaths) == 0 {
		runner.logger.Warn(warningNoFilesDiscovered)
		return nil, nil
	}

	items := index.IndexPaths(discoveredPaths)

	selectedNodes, selectionDone, selectionError := runner.resolveSelection(items, options)
	if selectionError != nil {
		return nil, selectionError
	}
	if !selectionDone {
		return nil, nil
	}

	exportPaths := tree.Expand(selectedNodes, items)

	fileContents, totalBytes, readError := workspace.ReadFiles(ctx, options.WorkspaceRoot, exportPaths, runner.logger)
	if readError != nil {
		return nil, fmt.Errorf(errorReadFormat, readError)
	}
	if len(fileContents) == 0 {
		runner.logger.Warn(warningNoFilesReadable)
		return nil, nil
	}

	documentText := document.Generate(fileContents)

	summary := &types.ExportSummary{
		TotalFiles: len(fileContents),
		TotalBytes: totalBytes,
	}
	if options.TokensEnabled {
		runner.countTokens(documentText, fileContents, options.TokenModel, summary)
	}

	if options.ClipboardEnabled && runner.copier != nil {
		if copyError := runner.copier.Copy(documentText); copyError != nil {
			runner.logger.Warn(warningClipboardFailed, zap.Error(copyError))
		}
	}

	if _, writeError := io.WriteString(runner.output, documentText+"\n"); writeError != nil {
		return nil, fmt.Errorf(errorWriteFormat, writeError)
	}

	runner.logSummary(summary)
	return summary, nil
}

// resolveSelection produces the confirmed node set. In select-all mode every
// discovered file is exported; otherwise the interactive session decides. The
// second return value is false when the user cancelled.
func (runner *Runner) resolveSelection(items []types.WorkspaceItem, options Options) ([]types.SelectedNode, bool, error) {
	if options.SelectAll {
		var selectedNodes []types.SelectedNode
		for _, item := range items {
			if item.Type == types.ItemTypeFile {
				selectedNodes = append(selectedNodes, types.SelectedNode{Path: item.RelativePath, Kind: types.ItemTypeFile})
			}
		}
		return selectedNodes, true, nil
	}

	forest := tree.Build(items)
	pickerResult, pickerError := runner.selector(forest, options.MaxFilesThreshold)
	if pickerError != nil {
		return nil, false, fmt.Errorf(errorPickerFormat, pickerError)
	}
	if pickerResult.Cancelled || len(pickerResult.SelectedPaths) == 0 {
		runner.logger.Debug(infoSelectionCancelled)
		return nil, false, nil
	}

	selectedNodes := make([]types.SelectedNode, 0, len(pickerResult.SelectedPaths))
	for _, selectedPath := range pickerResult.SelectedPaths {
		selectedNodes = append(selectedNodes, types.SelectedNode{Path: selectedPath, Kind: types.ItemTypeFile})
	}
	return selectedNodes, true, nil
}

// countTokens fills the token fields of the summary, including the per-file
// breakdown; a counting failure is logged and leaves the summary without token
// information.
func (runner *Runner) countTokens(documentText string, files []types.FileContent, model string, summary *types.ExportSummary) {
	counter, resolvedModel, counterError := runner.counters(model)
	if counterError != nil {
		runner.logger.Warn(warningTokenCountFailed, zap.Error(counterError))
		return
	}
	documentTokens, countError := tokenizer.CountDocument(counter, documentText)
	if countError != nil {
		runner.logger.Warn(warningTokenCountFailed, zap.Error(countError))
		return
	}
	fileCounts, _, fileCountError := tokenizer.CountFiles(counter, files)
	if fileCountError != nil {
		runner.logger.Warn(warningTokenCountFailed, zap.Error(fileCountError))
		return
	}
	summary.TotalTokens = documentTokens
	summary.Model = resolvedModel
	summary.FileTokens = fileCounts
}

// logSummary reports aggregate information about the rendered document.
func (runner *Runner) logSummary(summary *types.ExportSummary) {
	fields := []zap.Field{
		zap.Int("files", summary.TotalFiles),
		zap.String("size", utils.FormatFileSize(summary.TotalBytes)),
	}
	if summary.Model != "" {
		fields = append(fields, zap.Int("tokens", summary.TotalTokens), zap.String("model", summary.Model))
		for _, fileCount := range summary.FileTokens {
			fields = append(fields, zap.Int("tokens."+fileCount.RelativePath, fileCount.Tokens))
		}
	}
	runner.logger.Info(summaryMessage, fields...)
}
