package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/formbus/app/routes"
	"github.com/shashiranjanraj/formbus/pkg/router"
)

// formbus serve — boot and run the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApp().Serve()
	},
}

// formbus route:list — print all registered named routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Route callbacks resolve container bindings, so boot first.
		if err := newApp().Boot(); err != nil {
			return err
		}

		r := router.New()
		routes.RegisterAPI(r)

		names := r.Names()
		if len(names) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		sorted := make([]string, 0, len(names))
		for name := range names {
			sorted = append(sorted, name)
		}
		sort.Strings(sorted)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tPATH")
		fmt.Fprintln(w, "----\t----")
		for _, name := range sorted {
			fmt.Fprintf(w, "%s\t%s\n", name, names[name])
		}
		return w.Flush()
	},
}
