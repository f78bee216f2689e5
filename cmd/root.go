package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"composeclean/assets"
	"composeclean/pkg/cleanup"
	"composeclean/pkg/compose"
	"composeclean/pkg/config"
	"composeclean/pkg/env"
	"composeclean/pkg/images"
	"composeclean/pkg/stack"
	"composeclean/pkg/ui"
	"github.com/spf13/cobra"
)

var (
	configFile string
	noPause    bool
	verbose    bool
)

// Compile-time checks that the console renders every progress event.
var (
	_ cleanup.Reporter = (*ui.Console)(nil)
	_ images.Observer  = (*ui.Console)(nil)
)

var rootCmd = &cobra.Command{
	Use:   "composeclean",
	Short: "composeclean tears down the local compose stack and removes its images",
	Long: `Runs 'docker-compose down' for the bundled stack definition, streamed over stdin,
then removes the stack's Docker images through the engine API. The first failure stops the run.`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetVerbose(verbose)
	},
	Run: func(cmd *cobra.Command, args []string) {
		code := runCleanup(cmd.Context(), configFile, cmd.OutOrStdout(), cmd.ErrOrStderr())

		if !noPause {
			if err := ui.WaitForKey(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				ui.Warn.Println("Failed to wait for a key press: " + err.Error())
			}
		}
		if code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", config.DefaultConfigFile, "Path to the composeclean.yaml configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&noPause, "no-pause", false, "Exit without waiting for a key press")
}

// runCleanup performs one cleanup run and returns the process exit code.
// Every failure is reported here, once.
func runCleanup(ctx context.Context, path string, stdout, stderr io.Writer) int {
	console := ui.NewConsole(stdout)

	cfg, err := config.Load(path)
	if err != nil {
		console.Failure(fmt.Errorf("failed to load config: %w", err))
		return 1
	}

	if timeout := cfg.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := newJob(cfg, console, stdout, stderr).Run(ctx); err != nil {
		console.Failure(err)
		return 1
	}

	ui.Success.WithWriter(stdout).Println(fmt.Sprintf("%s Cleanup finished.", ui.CleanEmoji))
	return 0
}

func newJob(cfg *config.Config, console *ui.Console, stdout, stderr io.Writer) *cleanup.Job {
	command := cfg.GetComposeCommand(func() []string {
		return env.CheckPrerequisites().ComposeCommand()
	})

	runner := compose.NewRunner(command)
	runner.Stdout = stdout
	runner.Stderr = stderr

	var resolver stack.Resolver = stack.EmbeddedResolver{FS: assets.FS}
	stackName := assets.ComposeFile
	if cfg.StackFile != "" {
		resolver = stack.FileResolver{}
		stackName = cfg.StackFile
	}

	return &cleanup.Job{
		Resolver:       resolver,
		StackName:      stackName,
		Project:        cfg.GetProject(),
		ComposeCommand: command,
		Images:         cfg.GetImages(),
		Force:          cfg.GetForce(),
		TearDowner:     runner,
		Remover:        images.NewPruner(images.NewDockerConnector(cfg.DockerHost), console),
		Reporter:       console,
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ui.PrintBanner()
	if err := rootCmd.Execute(); err != nil {
		ui.Error.Println(err.Error())
		os.Exit(1)
	}
}

// GetRootCmd returns the root cobra command
func GetRootCmd() *cobra.Command {
	return rootCmd
}
