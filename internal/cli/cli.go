// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/copytree/copytree/internal/config"
	"github.com/copytree/copytree/internal/export"
	"github.com/copytree/copytree/internal/services/clipboard"
	"github.com/copytree/copytree/internal/utils"
	"github.com/copytree/copytree/internal/workspace"
)

const (
	exclusionFlagName      = "exclude"
	exclusionFlagShorthand = "e"
	allFlagName            = "all"
	noClipboardFlagName    = "no-clipboard"
	maxFilesFlagName       = "max-files"
	tokensFlagName         = "tokens"
	modelFlagName          = "model"
	configFlagName         = "config"
	versionFlagName        = "version"
	versionTemplate        = "copytree version: %s\n"
	defaultPath            = "."
	rootUse                = "copytree [path]"
	rootShortDescription   = "export selected project files as one markdown document"
	rootLongDescription    = `copytree lets you pick files and folders from a project tree and renders
them into a single markdown document: a directory outline followed by one
fenced, language-tagged content block per file. The document is copied to the
clipboard and printed to stdout, ready for pasting into an LLM chat.`
	// rootUsageExample demonstrates command usage.
	rootUsageExample = `  # Pick files interactively from the current directory
  copytree

  # Export every file under ./src without the picker
  copytree --all ./src

  # Exclude generated directories and include a token count
  copytree -e vendor -e target --tokens .`

	exclusionFlagDescription   = "exclude path pattern (repeatable)"
	allFlagDescription         = "export every discovered file without the interactive picker"
	noClipboardFlagDescription = "do not copy the document to the clipboard"
	maxFilesFlagDescription    = "file count above which export asks for confirmation"
	tokensFlagDescription      = "include a token count in the export summary"
	modelFlagDescription       = "tokenizer model to use for token counting"
	configFlagDescription      = "path to a configuration file"
	versionFlagDescription     = "display application version"
	defaultTokenizerModelName  = "gpt-4o"

	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorLoadConfigFormat reports a configuration loading failure.
	errorLoadConfigFormat = "loading configuration: %w"
)

// exportOptions stores flag values for the export run.
type exportOptions struct {
	exclusionPatterns []string
	selectAll         bool
	disableClipboard  bool
	maxFiles          int
	tokensEnabled     bool
	tokenModel        string
	configFilePath    string
}

// Execute runs the copytree application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var options exportOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			workspacePath := defaultPath
			if len(arguments) == 1 {
				workspacePath = arguments[0]
			}
			return runExport(command.Context(), logger, workspacePath, options, command.Flags().Changed(maxFilesFlagName))
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagShorthand, nil, exclusionFlagDescription)
	rootCommand.Flags().BoolVar(&options.selectAll, allFlagName, false, allFlagDescription)
	rootCommand.Flags().BoolVar(&options.disableClipboard, noClipboardFlagName, false, noClipboardFlagDescription)
	rootCommand.Flags().IntVar(&options.maxFiles, maxFilesFlagName, config.DefaultMaxFilesThreshold, maxFilesFlagDescription)
	rootCommand.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	rootCommand.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runExport merges file configuration with flags and executes the export run.
func runExport(ctx context.Context, logger *zap.Logger, workspacePath string, options exportOptions, maxFilesFlagSet bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	absoluteWorkspaceRoot, absolutePathError := filepath.Abs(workspacePath)
	if absolutePathError != nil {
		return fmt.Errorf(errorAbsolutePathFormat, workspacePath, absolutePathError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkspaceRoot:    absoluteWorkspaceRoot,
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return fmt.Errorf(errorLoadConfigFormat, configurationError)
	}

	resolvedOptions := resolveExportOptions(absoluteWorkspaceRoot, applicationConfiguration, options, maxFilesFlagSet)

	runner := export.NewRunner(logger, os.Stdout, clipboard.NewService(), nil, nil)
	_, runError := runner.Run(ctx, resolvedOptions)
	return runError
}

// resolveExportOptions applies precedence: built-in defaults, then file
// configuration, then explicit flags.
func resolveExportOptions(
	workspaceRoot string,
	applicationConfiguration config.ApplicationConfiguration,
	options exportOptions,
	maxFilesFlagSet bool,
) export.Options {
	exclusionPatterns := append([]string{}, workspace.DefaultExclusions...)
	exclusionPatterns = append(exclusionPatterns, applicationConfiguration.Exclude...)
	exclusionPatterns = append(exclusionPatterns, options.exclusionPatterns...)
	exclusionPatterns = utils.DeduplicatePatterns(exclusionPatterns)

	maxFilesThreshold := applicationConfiguration.MaxFilesThreshold()
	if maxFilesFlagSet && options.maxFiles > 0 {
		maxFilesThreshold = options.maxFiles
	}

	clipboardEnabled := applicationConfiguration.ClipboardEnabled()
	if options.disableClipboard {
		clipboardEnabled = false
	}

	tokensEnabled := options.tokensEnabled
	if !tokensEnabled && applicationConfiguration.Tokens.Enabled != nil {
		tokensEnabled = *applicationConfiguration.Tokens.Enabled
	}
	tokenModel := options.tokenModel
	if applicationConfiguration.Tokens.Model != "" && tokenModel == defaultTokenizerModelName {
		tokenModel = applicationConfiguration.Tokens.Model
	}

	return export.Options{
		WorkspaceRoot:     workspaceRoot,
		ExclusionPatterns: exclusionPatterns,
		SelectAll:         options.selectAll,
		ClipboardEnabled:  clipboardEnabled,
		MaxFilesThreshold: maxFilesThreshold,
		TokensEnabled:     tokensEnabled,
		TokenModel:        tokenModel,
	}
}
