package cmd

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"tmapmcp/internal/tmap"
)

func congestionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "congestion",
		Short: "Show realtime place and subway congestion",
	}
	cmd.AddCommand(
		congestionPlaceCmd(a),
		subwayCmd(a, "train", "Show how crowded trains arriving at a station are", (*tmap.Client).SubwayTrainCongestion),
		subwayCmd(a, "car", "Show crowding per car of trains arriving at a station", (*tmap.Client).SubwayCarCongestion),
		subwayCmd(a, "getoff", "Show the share of riders leaving each car at a station", (*tmap.Client).SubwayGetOffRate),
	)
	return cmd
}

func congestionPlaceCmd(a *app) *cobra.Command {
	var center pointValue
	cmd := &cobra.Command{
		Use:   "place <poi-id>",
		Short: "Show realtime crowding at a point of interest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			req := tmap.PlaceCongestionRequest{POIID: args[0]}
			if center.set {
				req.Center = &center.p
			}
			res, err := c.PlaceCongestion(cmd.Context(), req)
			return printResult(cmd, res, err)
		},
	}
	cmd.Flags().Var(&center, "center", "report crowding around this lon,lat instead")
	return cmd
}

type subwayFunc func(*tmap.Client, context.Context, tmap.SubwayCongestionRequest) (json.RawMessage, error)

func subwayCmd(a *app, use, short string, fn subwayFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use + " <line> <station>",
		Short:   short,
		Example: "  tmapctl congestion " + use + " 1호선 서울역 --dow MON --hour 8",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dow, _ := cmd.Flags().GetString("dow")

			day, err := tmap.ParseWeekday(strings.ToUpper(dow))
			if err != nil {
				return err
			}
			req := tmap.SubwayCongestionRequest{Line: args[0], Station: args[1], Day: day}
			if cmd.Flags().Changed("hour") {
				h, _ := cmd.Flags().GetInt("hour")
				req.Hour = &h
			}
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			res, err := fn(c, cmd.Context(), req)
			return printResult(cmd, res, err)
		},
	}
	cmd.Flags().String("dow", "", "weekday MON to SUN (default today)")
	cmd.Flags().Int("hour", 0, "hour of day (default now)")
	return cmd
}
