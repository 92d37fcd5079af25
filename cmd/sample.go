// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"strings"

	"harmonizer/cli/internal/ontology"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// sampleCmd prints the bundled e-commerce sample.
var sampleCmd = &cobra.Command{
	Use:       "sample sql|ontology",
	Short:     "Print the sample e-commerce schema or its ontology",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"sql", "ontology"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		switch args[0] {
		case "sql":
			_, err := fmt.Fprintln(w, ontology.SampleSQL)
			return err
		case "ontology":
			o := ontology.SampleOntology()
			return render(w, o, func(w io.Writer) error {
				return renderOntology(w, o)
			})
		}
		return fmt.Errorf("unknown sample %q (want sql or ontology)", args[0])
	},
}

// modelinfoCmd summarizes an ontology document.
var modelinfoCmd = &cobra.Command{
	Use:   "modelinfo [file|-]",
	Short: "Summarize an ontology: entities, relations and completeness",
	Long: `The modelinfo command reads an ontology JSON document, such as a metamodel returned by
the harmonizer, and prints its name, domain, entity and relation counts and its
completeness. Without a file the bundled sample ontology is summarized.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o := ontology.SampleOntology()
		if len(args) > 0 {
			raw, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if o, err = ontology.Parse([]byte(raw)); err != nil {
				return err
			}
		}
		info := ontology.CalculateModelInfo(o)
		return render(cmd.OutOrStdout(), info, func(w io.Writer) error {
			pterm.Fprintln(w, pterm.DefaultBox.
				WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(info.Name)).
				WithPadding(1).
				Sprintf("Domain:       %s\nEntities:     %d\nRelations:    %d\nCompleteness: %d%%",
					info.Domain, info.EntityCount, info.RelationCount, info.Completeness))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd, modelinfoCmd)
}

// renderOntology prints entity types with their properties, then relation types.
func renderOntology(w io.Writer, o ontology.Ontology) error {
	pterm.Fprintln(w, pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(o.Name))
	if o.Description != "" {
		pterm.Fprintln(w, o.Description)
	}
	pterm.Fprintln(w)

	data := pterm.TableData{{"Entity", "Property", "Type", "Required"}}
	for _, e := range o.EntityTypes {
		for i, p := range e.Properties {
			entity := ""
			if i == 0 {
				entity = e.Name
			}
			required := ""
			if p.Required {
				required = "yes"
			}
			data = append(data, []string{entity, p.Name, p.Type, required})
		}
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	pterm.Fprintln(w, table)

	for _, r := range o.RelationTypes {
		pterm.Fprintln(w, fmt.Sprintf("  %s -[%s]-> %s  (%s)",
			strings.Join(r.SourceEntityTypes, ", "), r.Name, strings.Join(r.TargetEntityTypes, ", "), r.Cardinality))
	}
	return nil
}
