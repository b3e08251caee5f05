package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/formbus/app/listeners"
	"github.com/shashiranjanraj/formbus/pkg/builder"
	"github.com/shashiranjanraj/formbus/pkg/event"
)

// formbus forms:list — print every registered form definition.
var formsListCmd = &cobra.Command{
	Use:   "forms:list",
	Short: "List all registered form definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := builder.FormIDs()
		if len(ids) == 0 {
			fmt.Println("No forms registered.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "FORM ID\tBASE FORM ID")
		fmt.Fprintln(w, "-------\t------------")
		for _, id := range ids {
			def, _ := builder.Lookup(id)
			base := def.BaseFormID
			if base == "" {
				base = "-"
			}
			fmt.Fprintf(w, "%s\t%s\n", id, base)
		}
		return w.Flush()
	},
}

// formbus listeners:list — print the alter listeners with their priorities.
var listenersListCmd = &cobra.Command{
	Use:   "listeners:list",
	Short: "List the form alter listeners and their priorities",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Register against a throwaway bus just to collect the entries.
		listeners.Register(event.NewBus(), nil)

		entries := listeners.Registered()
		if len(entries) == 0 {
			fmt.Println("No listeners registered.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "LISTENER\tPRIORITY")
		fmt.Fprintln(w, "--------\t--------")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\n", e.Name, e.Priority)
		}
		return w.Flush()
	},
}
