// submodule cmd contains command definitions
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/hamilmoji/internal/shared"
	"github.com/desertthunder/hamilmoji/internal/ui"
)

// Command tokens accepted by [Runner.Dispatch].
const (
	CommandSetup      = "setup"
	CommandGetLyrics  = "get-lyrics"
	CommandIndex      = "index"
	CommandSetupEmoji = "setup-emoji"
	CommandHelp       = "help"
)

// Options is built once from the command line and passed to [Runner.Dispatch].
type Options struct {
	Command string
}

// NewOptions reads the command token from the positional arguments, defaulting to help.
func NewOptions(args []string) Options {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return Options{Command: CommandHelp}
	}
	return Options{Command: strings.TrimSpace(args[0])}
}

type commandDoc struct {
	name  string
	usage string
}

var commandDocs = []commandDoc{
	{CommandSetup, "setup everything in one go"},
	{CommandGetLyrics, "get the hamilton lyrics"},
	{CommandIndex, "index the lyrics"},
	{CommandSetupEmoji, "setup emoji synonyms"},
}

// usageText renders the command list shown for help and unknown commands.
func usageText(p *ui.Palette) string {
	var b strings.Builder
	b.WriteString(p.Title("hamilmoji setup script"))
	b.WriteString("\n\n")
	b.WriteString("Usage: hamilmoji [--config path] [--env-file path] [--verbose] [command]\n")
	b.WriteString("Commands:\n")
	for _, c := range commandDocs {
		fmt.Fprintf(&b, "  %-12s %s\n", c.name, p.Help(c.usage))
	}
	return b.String()
}

// rootCommand builds the single urfave/cli command. The built-in help is
// hidden so that "help" reaches the dispatcher like any other token.
func rootCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:      "hamilmoji",
		Usage:     "Index Hamilton lyrics with emoji synonyms",
		Version:   "0.1.0",
		ArgsUsage: "[command]",
		HideHelp:  true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file with credentials",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			shared.SetVerbose(logger, cmd.Bool("verbose"))

			runner, err := NewRunnerFromFiles(cmd.String("config"), cmd.String("env-file"), logger)
			if err != nil {
				return err
			}
			defer runner.Close()

			return runner.Dispatch(ctx, NewOptions(cmd.Args().Slice()))
		},
	}
}
