package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/copytree/copytree/internal/export"
	"github.com/copytree/copytree/internal/picker"
	"github.com/copytree/copytree/internal/tokenizer"
	"github.com/copytree/copytree/internal/types"
	"github.com/copytree/copytree/internal/workspace"
)

type runeCounter struct{}

func (runeCounter) Name() string { return "rune" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func runeCounterFactory(model string) (tokenizer.Counter, string, error) {
	return runeCounter{}, "rune", nil
}

type recordingCopier struct {
	copied    string
	failWith  error
	callCount int
}

func (copier *recordingCopier) Copy(text string) error {
	copier.callCount++
	if copier.failWith != nil {
		return copier.failWith
	}
	copier.copied = text
	return nil
}

func writeWorkspaceFile(testingHandle *testing.T, rootDirectory, relativePath, content string) {
	testingHandle.Helper()
	absolutePath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
	if makeDirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir for %s: %v", relativePath, makeDirError)
	}
	if writeError := os.WriteFile(absolutePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("write %s: %v", relativePath, writeError)
	}
}

func selectFolder(folderPath string) export.SelectFunc {
	return func(forest []*types.TreeNode, maxFilesThreshold int) (picker.Result, error) {
		var selectedPaths []string
		var collect func(node *types.TreeNode)
		collect = func(node *types.TreeNode) {
			if node.Kind == types.ItemTypeFile {
				selectedPaths = append(selectedPaths, node.Path)
				return
			}
			for _, childNode := range node.Children {
				collect(childNode)
			}
		}
		for _, rootNode := range forest {
			if rootNode.Path == folderPath {
				collect(rootNode)
			}
		}
		return picker.Result{SelectedPaths: selectedPaths}, nil
	}
}

// TestRunFolderSelection verifies the end-to-end scenario: discovery yields a
// root file and a docs file, the user selects only the docs folder, and the
// document contains exactly one content section.
func TestRunFolderSelection(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeWorkspaceFile(testingHandle, rootDirectory, "a.txt", "root")
	writeWorkspaceFile(testingHandle, rootDirectory, "docs/b.md", "# docs")

	var outputBuilder strings.Builder
	copier := &recordingCopier{}
	runner := export.NewRunner(zap.NewNop(), &outputBuilder, copier, selectFolder("docs"), nil)

	summary, runError := runner.Run(context.Background(), export.Options{
		WorkspaceRoot:     rootDirectory,
		ExclusionPatterns: workspace.DefaultExclusions,
		ClipboardEnabled:  true,
		MaxFilesThreshold: 50,
	})
	if runError != nil {
		testingHandle.Fatalf("Run error: %v", runError)
	}
	if summary == nil || summary.TotalFiles != 1 {
		testingHandle.Fatalf("unexpected summary: %+v", summary)
	}

	renderedDocument := outputBuilder.String()
	if strings.Count(renderedDocument, "## File: ") != 1 {
		testingHandle.Fatalf("expected exactly one content section:\n%s", renderedDocument)
	}
	if !strings.Contains(renderedDocument, "## File: docs/b.md") {
		testingHandle.Fatalf("expected docs/b.md section:\n%s", renderedDocument)
	}
	if strings.Contains(renderedDocument, "## File: a.txt") {
		testingHandle.Fatalf("unselected file must not appear:\n%s", renderedDocument)
	}
	if copier.copied == "" || !strings.Contains(copier.copied, "## Structure") {
		testingHandle.Fatalf("document must be copied to the clipboard")
	}
}

// TestRunSelectAll verifies non-interactive export of every discovered file.
func TestRunSelectAll(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeWorkspaceFile(testingHandle, rootDirectory, "a.txt", "a")
	writeWorkspaceFile(testingHandle, rootDirectory, "src/main.go", "package main")

	var outputBuilder strings.Builder
	runner := export.NewRunner(zap.NewNop(), &outputBuilder, &recordingCopier{}, nil, nil)

	summary, runError := runner.Run(context.Background(), export.Options{
		WorkspaceRoot:     rootDirectory,
		SelectAll:         true,
		MaxFilesThreshold: 50,
	})
	if runError != nil {
		testingHandle.Fatalf("Run error: %v", runError)
	}
	if summary == nil || summary.TotalFiles != 2 {
		testingHandle.Fatalf("unexpected summary: %+v", summary)
	}
	if strings.Count(outputBuilder.String(), "## File: ") != 2 {
		testingHandle.Fatalf("expected two content sections:\n%s", outputBuilder.String())
	}
}

// TestRunCancelledSelection verifies that cancellation is a silent no-op.
func TestRunCancelledSelection(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeWorkspaceFile(testingHandle, rootDirectory, "a.txt", "a")

	cancelSelector := func([]*types.TreeNode, int) (picker.Result, error) {
		return picker.Result{Cancelled: true}, nil
	}

	var outputBuilder strings.Builder
	copier := &recordingCopier{}
	runner := export.NewRunner(zap.NewNop(), &outputBuilder, copier, cancelSelector, nil)

	summary, runError := runner.Run(context.Background(), export.Options{
		WorkspaceRoot:     rootDirectory,
		ClipboardEnabled:  true,
		MaxFilesThreshold: 50,
	})
	if runError != nil {
		testingHandle.Fatalf("cancellation must not be an error: %v", runError)
	}
	if summary != nil {
		testingHandle.Fatalf("cancellation must produce no summary")
	}
	if outputBuilder.Len() != 0 || copier.callCount != 0 {
		testingHandle.Fatalf("cancellation must produce no output")
	}
}

// TestRunEmptyWorkspace verifies the empty-result condition aborts cleanly.
func TestRunEmptyWorkspace(testingHandle *testing.T) {
	var outputBuilder strings.Builder
	runner := export.NewRunner(zap.NewNop(), &outputBuilder, &recordingCopier{}, nil, nil)

	summary, runError := runner.Run(context.Background(), export.Options{
		WorkspaceRoot: testingHandle.TempDir(),
		SelectAll:     true,
	})
	if runError != nil {
		testingHandle.Fatalf("empty workspace must not be an error: %v", runError)
	}
	if summary != nil || outputBuilder.Len() != 0 {
		testingHandle.Fatalf("empty workspace must produce no output")
	}
}

// TestRunMissingRoot verifies the environment error.
func TestRunMissingRoot(testingHandle *testing.T) {
	runner := export.NewRunner(zap.NewNop(), &strings.Builder{}, &recordingCopier{}, nil, nil)
	_, runError := runner.Run(context.Background(), export.Options{
		WorkspaceRoot: filepath.Join(testingHandle.TempDir(), "absent"),
		SelectAll:     true,
	})
	if runError == nil {
		testingHandle.Fatalf("expected environment error for missing root")
	}
}

// TestRunClipboardFailureStillPrints verifies sink recovery: a failing
// clipboard write is logged and stdout still receives the document.
func TestRunClipboardFailureStillPrints(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeWorkspaceFile(testingHandle, rootDirectory, "a.txt", "a")

	var outputBuilder strings.Builder
	copier := &recordingCopier{failWith: errors.New("no clipboard device")}
	runner := export.NewRunner(zap.NewNop(), &outputBuilder, copier, nil, nil)

	summary, runError := runner.Run(context.Background(), export.Options{
		WorkspaceRoot:     rootDirectory,
		SelectAll:         true,
		ClipboardEnabled:  true,
		MaxFilesThreshold: 50,
	})
	if runError != nil {
		testingHandle.Fatalf("clipboard failure must not abort the run: %v", runError)
	}
	if summary == nil || copier.callCount != 1 {
		testingHandle.Fatalf("clipboard must have been attempted")
	}
	if !strings.Contains(outputBuilder.String(), "## File: a.txt") {
		testingHandle.Fatalf("document must still be printed:\n%s", outputBuilder.String())
	}
}

// TestRunTokenCounts verifies that enabling token counting fills both the
// document total and the per-file breakdown of the summary.
func TestRunTokenCounts(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeWorkspaceFile(testingHandle, rootDirectory, "a.txt", "one")
	writeWorkspaceFile(testingHandle, rootDirectory, "docs/b.md", "four")

	var outputBuilder strings.Builder
	runner := export.NewRunner(zap.NewNop(), &outputBuilder, &recordingCopier{}, nil, runeCounterFactory)

	summary, runError := runner.Run(context.Background(), export.Options{
		WorkspaceRoot:     rootDirectory,
		SelectAll:         true,
		MaxFilesThreshold: 50,
		TokensEnabled:     true,
	})
	if runError != nil {
		testingHandle.Fatalf("Run error: %v", runError)
	}
	if summary == nil || summary.Model != "rune" {
		testingHandle.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.TotalTokens <= 0 {
		testingHandle.Fatalf("expected a positive document token count, got %d", summary.TotalTokens)
	}
	expectedFileCounts := []types.FileTokenCount{
		{RelativePath: "a.txt", Tokens: len([]rune("one"))},
		{RelativePath: "docs/b.md", Tokens: len([]rune("four"))},
	}
	if len(summary.FileTokens) != len(expectedFileCounts) {
		testingHandle.Fatalf("unexpected per-file counts: %+v", summary.FileTokens)
	}
	for countIndex, expectedCount := range expectedFileCounts {
		if summary.FileTokens[countIndex] != expectedCount {
			testingHandle.Fatalf("per-file count %d = %+v, expected %+v", countIndex, summary.FileTokens[countIndex], expectedCount)
		}
	}
}

// TestRunBinaryFilesSkipped verifies per-file recovery during content reads.
func TestRunBinaryFilesSkipped(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeWorkspaceFile(testingHandle, rootDirectory, "a.txt", "a")
	writeWorkspaceFile(testingHandle, rootDirectory, "data.bin", "\x00\xff")

	var outputBuilder strings.Builder
	runner := export.NewRunner(zap.NewNop(), &outputBuilder, &recordingCopier{}, nil, nil)

	summary, runError := runner.Run(context.Background(), export.Options{
		WorkspaceRoot:     rootDirectory,
		SelectAll:         true,
		MaxFilesThreshold: 50,
	})
	if runError != nil {
		testingHandle.Fatalf("Run error: %v", runError)
	}
	if summary == nil || summary.TotalFiles != 1 {
		testingHandle.Fatalf("binary file must be skipped, not fatal: %+v", summary)
	}
}
