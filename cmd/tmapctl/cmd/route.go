package cmd

import (
	"github.com/spf13/cobra"

	"tmapmcp/internal/tmap"
)

func routeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Plan walking and driving routes",
	}
	cmd.AddCommand(
		routeWalkCmd(a),
		routeCarCmd(a),
		routePredictCmd(a),
	)
	return cmd
}

func routeWalkCmd(a *app) *cobra.Command {
	var from, to pointValue
	cmd := &cobra.Command{
		Use:     "walk",
		Short:   "Plan a walking route",
		Example: `  tmapctl route walk --from 126.9786567,37.566826 --to 126.9753,37.5668 --summary`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			option, _ := cmd.Flags().GetString("option")
			startName, _ := cmd.Flags().GetString("start-name")
			endName, _ := cmd.Flags().GetString("end-name")
			summary, _ := cmd.Flags().GetBool("summary")

			opt, err := tmap.ParsePedestrianOption(option)
			if err != nil {
				return err
			}
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			req := tmap.PedestrianRouteRequest{
				Start:     from.p,
				End:       to.p,
				StartName: startName,
				EndName:   endName,
				Option:    opt,
			}
			if summary {
				res, err := c.PedestrianRouteSummary(cmd.Context(), req)
				return printResult(cmd, res, err)
			}
			res, err := c.PedestrianRoute(cmd.Context(), req)
			return printResult(cmd, res, err)
		},
	}
	endpointFlags(cmd, &from, &to)
	cmd.Flags().String("option", "0", "0 recommended, 4 main roads, 10 shortest, 30 avoid stairs")
	cmd.Flags().String("start-name", "출발지", "start place name")
	cmd.Flags().String("end-name", "도착지", "destination place name")
	cmd.Flags().Bool("summary", false, "print only total distance and time")
	return cmd
}

func routeCarCmd(a *app) *cobra.Command {
	var from, to pointValue
	cmd := &cobra.Command{
		Use:   "car",
		Short: "Plan a driving route departing now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			option, _ := cmd.Flags().GetString("option")
			summary, _ := cmd.Flags().GetBool("summary")

			opt, err := tmap.ParseCarOption(option)
			if err != nil {
				return err
			}
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			req := tmap.CarRouteRequest{Start: from.p, End: to.p, Option: opt}
			if summary {
				res, err := c.CarRouteSummary(cmd.Context(), req)
				return printResult(cmd, res, err)
			}
			res, err := c.CarRoute(cmd.Context(), req)
			return printResult(cmd, res, err)
		},
	}
	endpointFlags(cmd, &from, &to)
	cmd.Flags().String("option", "0", "0 recommended, 1 traffic optimal, 2 shortest")
	cmd.Flags().Bool("summary", false, "print only totals and fares")
	return cmd
}

func routePredictCmd(a *app) *cobra.Command {
	var from, to pointValue
	var via pointListValue
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Plan a driving route for a given departure or arrival time",
		Example: `  tmapctl route predict --from 126.9786567,37.566826 --to 127.0276,37.4979 --at "2025-01-02 09:00:00"
  tmapctl route predict --from 126.9786567,37.566826 --to 127.0276,37.4979 --at 2025-01-02T09:00:00+09:00 --arrive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			option, _ := cmd.Flags().GetString("option")
			at, _ := cmd.Flags().GetString("at")
			arrive, _ := cmd.Flags().GetBool("arrive")
			kst, _ := cmd.Flags().GetBool("kst")

			opt, err := tmap.ParseCarOption(option)
			if err != nil {
				return err
			}
			dep, err := tmap.ParseDepartureTime(at, kst)
			if err != nil {
				return err
			}
			arrival := tmap.DepartAtTime
			if arrive {
				arrival = tmap.ArriveByTime
			}
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			res, err := c.TimeMachineRoute(cmd.Context(), tmap.TimeMachineRouteRequest{
				Start:     from.p,
				End:       to.p,
				Option:    opt,
				Departure: dep,
				Arrival:   arrival,
				Via:       via.points,
			})
			return printResult(cmd, res, err)
		},
	}
	endpointFlags(cmd, &from, &to)
	cmd.Flags().String("option", "0", "0 recommended, 1 traffic optimal, 2 shortest")
	cmd.Flags().String("at", "", "YYYY-MM-DD hh:mm:ss, or RFC 3339 with an offset")
	cmd.Flags().Bool("arrive", false, "treat --at as the arrival time")
	cmd.Flags().Bool("kst", true, "read an --at without offset as Korean Standard Time")
	cmd.Flags().Var(&via, "via", "waypoint as lon,lat; repeat in visiting order")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}
