package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

func (r *runner) routeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Show where navigating to a path leads with the current session",
		Example: `  gamestore route /admin/users
  gamestore route "/my-orders?page=2"`,
		Args: exactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			decision := r.app.guard.Check(r.app.Storefront(), args[0])
			route := decision.Route
			if !decision.Matched {
				route = "(no route)"
			}
			fields := [][2]string{
				{"Path", args[0]},
				{"Route", route},
				{"Outcome", decision.Outcome.String()},
			}
			if decision.Location != "" {
				fields = append(fields, [2]string{"Location", decision.Location})
			}
			fields = append(fields, paramFields(decision.Params)...)
			renderFields(r.out, fields)
			return nil
		},
	}
}

// paramFields lists path parameters sorted by name.
func paramFields(params map[string]string) [][2]string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([][2]string, 0, len(names))
	for _, name := range names {
		fields = append(fields, [2]string{"Param " + name, params[name]})
	}
	return fields
}
