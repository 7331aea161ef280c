package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

var rootCmd = &cobra.Command{
	Use:   "sgf",
	Short: "Parse, format and store SGF game records",
	Long: `sgf reads Smart Game Format files (FF[1] to FF[4]).

Examples:
  sgf parse game.sgf                # collection as JSON
  sgf parse -o yaml < game.sgf      # collection as YAML
  sgf fmt game.sgf                  # canonical SGF
  sgf fmt --from-json tree.json     # SGF from the JSON shape
  sgf info game.sgf                 # summary of the first game tree
  sgf import ./problems             # store every .sgf below a directory
  sgf tables --ff 3 KM TB           # property types of a file format`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger()
	},
}

func init() {
	rootCmd.AddCommand(parseCmd, fmtCmd, infoCmd, importCmd, tablesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return l.Sugar()
}
