package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/speak-out/internal/schemas"
)

var schemaCmd = &cobra.Command{
	Use:       "schema {candidates|letter_request}",
	Short:     "Print a built-in JSON schema",
	Long:      `Print the JSON schema used to validate candidates files or letter request files.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{schemas.Candidates, schemas.LetterRequest},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchema(args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(name string, out io.Writer) error {
	src, ok := schemas.Raw(name)
	if !ok {
		return fmt.Errorf("unknown schema %q (want %s or %s)", name, schemas.Candidates, schemas.LetterRequest)
	}
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	_, err := io.WriteString(out, src)
	return err
}
