package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"tmapmcp/internal/geo"
	"tmapmcp/internal/tmap"
)

func geocodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geocode <city-do> <gu-gun> <dong> [bunji]",
		Short: "Convert a structured address to coordinates",
		Example: `  tmapctl geocode 서울특별시 중구 세종대로 110
  tmapctl geocode --raw 서울특별시 중구 세종대로 110`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			coordType, _ := cmd.Flags().GetString("coord-type")
			raw, _ := cmd.Flags().GetBool("raw")

			ct, err := tmap.ParseCoordType(coordType)
			if err != nil {
				return err
			}
			req := tmap.GeocodingRequest{CityDo: args[0], GuGun: args[1], Dong: args[2], CoordType: ct}
			if len(args) == 4 {
				req.Bunji = args[3]
			}
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			if raw {
				res, err := c.Geocoding(cmd.Context(), req)
				return printResult(cmd, res, err)
			}
			res, err := c.GeocodeCoordinates(cmd.Context(), req)
			return printResult(cmd, res, err)
		},
	}
	cmd.Flags().String("coord-type", "WGS84GEO", "WGS84GEO, EPSG3857 or KATECH")
	cmd.Flags().Bool("raw", false, "print the full geocoding response")
	return cmd
}

func geocodeFullCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geocode-full <address>...",
		Short: "Convert a free-form address to coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coordType, _ := cmd.Flags().GetString("coord-type")
			count, _ := cmd.Flags().GetInt("count")

			ct, err := tmap.ParseCoordType(coordType)
			if err != nil {
				return err
			}
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			res, err := c.FullTextGeocoding(cmd.Context(), tmap.FullTextGeocodingRequest{
				Address:     strings.Join(args, " "),
				CoordType:   ct,
				SearchCount: count,
			})
			return printResult(cmd, res, err)
		},
	}
	cmd.Flags().String("coord-type", "WGS84GEO", "WGS84GEO, EPSG3857 or KATECH")
	cmd.Flags().Int("count", 10, "number of candidates")
	return cmd
}

func reverseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reverse <lon,lat>",
		Short: "Find the address at a point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addressType, _ := cmd.Flags().GetString("address-type")

			p, err := geo.ParsePoint(args[0])
			if err != nil {
				return err
			}
			at, err := tmap.ParseAddressType(addressType)
			if err != nil {
				return err
			}
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			res, err := c.ReverseGeocoding(cmd.Context(), tmap.ReverseGeocodingRequest{Point: p, AddressType: at})
			return printResult(cmd, res, err)
		},
	}
	cmd.Flags().String("address-type", "A10", "A00, A01, A02, A03, A04 or A10")
	return cmd
}
