package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"jobsearch-backend/internal/matching"
)

func newScoreCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a qualification input offline and print the analysis",
		Long: `Reads a JSON document with requiredQualifications, preferredQualifications
and experiences, validates it and prints the match analysis.

Use --file - to read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				r = f
			}
			return runScore(r, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "input JSON file")
	return cmd
}

func runScore(r io.Reader, w io.Writer) error {
	var in matching.Input
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	if err := matching.ValidateInput(in); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(matching.AnalyzeInput(in))
}
