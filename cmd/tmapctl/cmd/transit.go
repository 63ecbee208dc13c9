package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tmapmcp/internal/tmap"
)

func transitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transit",
		Short: "Plan public transit journeys",
	}
	cmd.AddCommand(
		transitRouteCmd(a),
		transitSummaryCmd(a),
	)
	return cmd
}

func transitRouteCmd(a *app) *cobra.Command {
	var from, to pointValue
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Plan a public transit journey with full itineraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, c, err := transitSetup(a, cmd, from, to)
			if err != nil {
				return err
			}
			res, err := c.TransitRoute(cmd.Context(), req)
			return printResult(cmd, res, err)
		},
	}
	transitFlags(cmd, &from, &to)
	return cmd
}

func transitSummaryCmd(a *app) *cobra.Command {
	var from, to pointValue
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarise public transit itineraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			totals, _ := cmd.Flags().GetBool("totals")

			req, c, err := transitSetup(a, cmd, from, to)
			if err != nil {
				return err
			}
			if totals {
				res, err := c.TransitTotals(cmd.Context(), req)
				return printResult(cmd, res, err)
			}
			res, err := c.TransitRouteSummary(cmd.Context(), req)
			return printResult(cmd, res, err)
		},
	}
	transitFlags(cmd, &from, &to)
	cmd.Flags().Bool("totals", false, "print only distance, time and fare of the first itinerary")
	return cmd
}

func transitFlags(cmd *cobra.Command, from, to *pointValue) {
	endpointFlags(cmd, from, to)
	cmd.Flags().String("lang", "ko", "ko or en")
	cmd.Flags().Int("count", 10, "maximum number of itineraries, 1 to 10")
	cmd.Flags().String("at", "", "departure time as yyyymmddhhmi or YYYY-MM-DD hh:mm in KST")
}

func transitSetup(a *app, cmd *cobra.Command, from, to pointValue) (tmap.TransitRouteRequest, *tmap.Client, error) {
	lang, _ := cmd.Flags().GetString("lang")
	count, _ := cmd.Flags().GetInt("count")
	at, _ := cmd.Flags().GetString("at")

	req := tmap.TransitRouteRequest{Start: from.p, End: to.p, Count: count}
	switch lang {
	case "ko", "":
		req.Language = tmap.Korean
	case "en":
		req.Language = tmap.English
	default:
		return req, nil, fmt.Errorf("%w: lang %q", tmap.ErrInvalidArgument, lang)
	}
	if at != "" {
		when, err := tmap.ParseTransitSearchTime(at)
		if err != nil {
			return req, nil, err
		}
		req.SearchTime = when
	}
	c, err := a.client(cmd)
	return req, c, err
}
