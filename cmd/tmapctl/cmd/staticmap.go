package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tmapmcp/internal/tmap"
)

func staticMapCmd(a *app) *cobra.Command {
	var from, to pointValue
	cmd := &cobra.Command{
		Use:   "staticmap",
		Short: "Save a route overview image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			n, err := c.SaveStaticMap(cmd.Context(), tmap.StaticMapRequest{Start: from.p, End: to.p}, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", n, output)
			return nil
		},
	}
	endpointFlags(cmd, &from, &to)
	cmd.Flags().StringP("output", "o", "route.png", "image file to write")
	return cmd
}
