package main

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	opts := &runOptions{}

	cctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "jimaku [file]",
		Short:         "Generate Japanese SRT subtitles from a media file",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				source = args[0]
			} else {
				if !stdinIsTerminal() {
					return errors.New("no input file given; pass a media file path")
				}
				files, err := listMediaFiles(".")
				if err != nil {
					return err
				}
				selected, ok, err := promptSelection(cmd.InOrStdin(), cmd.OutOrStdout(), files)
				if err != nil {
					return err
				}
				if !ok {
					// User backed out; nothing was started.
					return nil
				}
				source = selected
			}
			return runTranscription(cmd, cctx, source, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	addRunFlags(rootCmd, opts)

	rootCmd.AddCommand(newTranscribeCommand(cctx))
	rootCmd.AddCommand(newDepsCommand(cctx))
	rootCmd.AddCommand(newHistoryCommand(cctx))
	rootCmd.AddCommand(newConfigCommand(cctx))

	return rootCmd
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
