// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bes-dev/repo2prompt/internal/config"
	"github.com/bes-dev/repo2prompt/internal/ignore"
	"github.com/bes-dev/repo2prompt/internal/parser"
	"github.com/bes-dev/repo2prompt/internal/services/clipboard"
	"github.com/bes-dev/repo2prompt/internal/tokenizer"
	"github.com/bes-dev/repo2prompt/internal/utils"
)

const (
	pathFlagName           = "path"
	interfacesOnlyFlagName = "interfaces-only"
	outputFlagName         = "output"
	copyFlagName           = "copy"
	tokensFlagName         = "tokens"
	modelFlagName          = "model"
	exclusionFlagName      = "e"
	noGitignoreFlagName    = "no-gitignore"
	noDixieignoreFlagName  = "no-dixieignore"
	versionFlagName        = "version"

	rootUse              = "repo2prompt"
	rootShortDescription = "convert a repository into a structured text prompt"
	rootLongDescription  = `repo2prompt converts a repository into a single structured text prompt:
a folder-tree diagram followed by one fenced section per source file.
The path can be a local directory or a remote git repository URL; remote
repositories are cloned into a temporary directory that is always removed.
With --interfaces-only, Python files are reduced to signatures and docstrings.`
	rootUsageExample = `  # Convert the current directory
  repo2prompt

  # Reduce Python files to their interfaces and copy the result
  repo2prompt --path ./project --interfaces-only --copy

  # Convert a remote repository into a file
  repo2prompt --path https://github.com/user/repo.git --output prompt.txt`

	versionTemplate = "repo2prompt version: %s\n"
	defaultPath     = "."

	pathFlagDescription           = "repository location: local directory or git URL"
	interfacesOnlyFlagDescription = "reduce supported source files to signatures and docstrings"
	outputFlagDescription         = "write the prompt to a file instead of stdout"
	copyFlagDescription           = "copy the prompt to the system clipboard"
	tokensFlagDescription         = "log a token count summary for the rendered prompt"
	modelFlagDescription          = "tokenizer model used for token counting"
	exclusionFlagDescription      = "additional exclusion pattern (repeatable)"
	noGitignoreFlagDescription    = "do not use .gitignore files"
	noDixieignoreFlagDescription  = "do not use .dixieignore files"
	versionFlagDescription        = "display application version"
	defaultTokenizerModelName     = "gpt-4o"

	errorWriteOutputFormat = "writing output file %s: %w"
	errorCopyFormat        = "copying prompt to clipboard: %w"
	errorLoadConfigFormat  = "loading application configuration: %w"
)

// Execute runs the repo2prompt application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// runOptions stores the resolved flag values for one invocation.
type runOptions struct {
	pathArgument      string
	interfacesOnly    bool
	outputFile        string
	copyToClipboard   bool
	countTokens       bool
	tokenizerModel    string
	exclusionPatterns []string
	disableGitignore  bool
	disableDixie      bool
}

// createRootCommand builds the root cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var options runOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationLogger, loggerError := utils.NewApplicationLogger()
			if loggerError != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
			}
			defer applicationLogger.Sync()

			applyConfigurationDefaults(command, &options, applicationLogger)
			return runConversion(command, options, applicationLogger)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVar(&options.pathArgument, pathFlagName, defaultPath, pathFlagDescription)
	rootCommand.Flags().BoolVar(&options.interfacesOnly, interfacesOnlyFlagName, false, interfacesOnlyFlagDescription)
	rootCommand.Flags().StringVar(&options.outputFile, outputFlagName, "", outputFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	rootCommand.Flags().BoolVar(&options.countTokens, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	rootCommand.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	rootCommand.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	rootCommand.Flags().BoolVar(&options.disableDixie, noDixieignoreFlagName, false, noDixieignoreFlagDescription)
	return rootCommand
}

// applyConfigurationDefaults overlays configuration-file defaults onto flags the
// user did not set explicitly. Configuration load failures only warn: a broken
// configuration file must not block an explicit invocation.
func applyConfigurationDefaults(command *cobra.Command, options *runOptions, applicationLogger *zap.Logger) {
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{})
	if loadError != nil {
		applicationLogger.Warn("ignoring configuration file", zap.Error(fmt.Errorf(errorLoadConfigFormat, loadError)))
		return
	}

	commandFlags := command.Flags()
	if !commandFlags.Changed(interfacesOnlyFlagName) && applicationConfiguration.InterfacesOnly != nil {
		options.interfacesOnly = *applicationConfiguration.InterfacesOnly
	}
	if !commandFlags.Changed(outputFlagName) && applicationConfiguration.Output != "" {
		options.outputFile = applicationConfiguration.Output
	}
	if !commandFlags.Changed(copyFlagName) && applicationConfiguration.Copy != nil {
		options.copyToClipboard = *applicationConfiguration.Copy
	}
	if !commandFlags.Changed(tokensFlagName) && applicationConfiguration.Tokens.Enabled != nil {
		options.countTokens = *applicationConfiguration.Tokens.Enabled
	}
	if !commandFlags.Changed(modelFlagName) && applicationConfiguration.Tokens.Model != "" {
		options.tokenizerModel = applicationConfiguration.Tokens.Model
	}
	if !commandFlags.Changed(noGitignoreFlagName) && applicationConfiguration.Paths.UseGitignore != nil {
		options.disableGitignore = !*applicationConfiguration.Paths.UseGitignore
	}
	if !commandFlags.Changed(noDixieignoreFlagName) && applicationConfiguration.Paths.UseDixieignore != nil {
		options.disableDixie = !*applicationConfiguration.Paths.UseDixieignore
	}
	options.exclusionPatterns = append(applicationConfiguration.Paths.Exclude, options.exclusionPatterns...)
}

// runConversion resolves the repository location, builds the prompt document,
// and delivers the rendered text to the selected sink.
func runConversion(command *cobra.Command, options runOptions, applicationLogger *zap.Logger) error {
	repositoryDirectory, rootLabel, cleanupRepository, resolveError := resolveRepositoryPath(command.Context(), options.pathArgument, applicationLogger)
	if resolveError != nil {
		return resolveError
	}
	defer cleanupRepository()

	buildOptions := parser.DefaultOptions()
	buildOptions.InterfacesOnly = options.interfacesOnly
	buildOptions.RootLabel = rootLabel
	buildOptions.Logger = applicationLogger
	buildOptions.Ignore = ignore.Options{
		UseGitignore:      !options.disableGitignore,
		UseDixieignore:    !options.disableDixie,
		ExclusionPatterns: options.exclusionPatterns,
	}

	promptDocument, buildError := parser.Build(repositoryDirectory, buildOptions)
	if buildError != nil {
		return buildError
	}
	renderedPrompt := promptDocument.Render()

	if options.countTokens {
		tokenCounter, effectiveModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: options.tokenizerModel})
		if counterError != nil {
			applicationLogger.Warn("token counting unavailable", zap.Error(counterError))
		} else if documentStats, countError := tokenizer.CountDocument(tokenCounter, promptDocument); countError != nil {
			applicationLogger.Warn("token counting failed", zap.Error(countError))
		} else {
			applicationLogger.Info("token summary",
				zap.String("model", effectiveModel),
				zap.Int("sections", documentStats.Sections),
				zap.Int("treeTokens", documentStats.TreeTokens),
				zap.Int("totalTokens", documentStats.TotalTokens))
		}
	}

	return deliverPrompt(renderedPrompt, options)
}

// deliverPrompt writes the rendered prompt to the output file, the clipboard,
// or standard output.
func deliverPrompt(renderedPrompt string, options runOptions) error {
	if options.outputFile != "" {
		if writeError := os.WriteFile(options.outputFile, []byte(renderedPrompt), 0o644); writeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, options.outputFile, writeError)
		}
		return nil
	}
	if options.copyToClipboard {
		if copyError := clipboard.NewService().Copy(renderedPrompt); copyError != nil {
			return fmt.Errorf(errorCopyFormat, copyError)
		}
		return nil
	}
	fmt.Print(renderedPrompt)
	return nil
}
