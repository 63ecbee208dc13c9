package cmd

import (
	"github.com/spf13/cobra"

	"tmapmcp/internal/tmap"
)

func poiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poi <keyword>",
		Short: "Search points of interest by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			searchType, _ := cmd.Flags().GetString("search-type")
			count, _ := cmd.Flags().GetInt("count")
			page, _ := cmd.Flags().GetInt("page")

			st, err := tmap.ParseSearchType(searchType)
			if err != nil {
				return err
			}
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			res, err := c.SearchPOI(cmd.Context(), tmap.POISearchRequest{
				Keyword:    args[0],
				SearchType: st,
				Count:      count,
				Page:       page,
			})
			return printResult(cmd, res, err)
		},
	}
	cmd.Flags().String("search-type", "all", "match against all, name or telno")
	cmd.Flags().Int("count", 20, "maximum number of results, 1 to 200")
	cmd.Flags().Int("page", 0, "result page, starting at 1")
	return cmd
}

func poiDetailCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "poi-detail <poi-id>",
		Short: "Show the details of a point of interest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			res, err := c.POIDetail(cmd.Context(), args[0])
			return printResult(cmd, res, err)
		},
	}
}

func coordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coord <keyword>",
		Short: "Print the coordinates of the best keyword match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, c, err := keywordSetup(a, cmd)
			if err != nil {
				return err
			}
			res, err := c.CoordinatesByKeyword(cmd.Context(), args[0], st)
			return printResult(cmd, res, err)
		},
	}
	cmd.Flags().String("search-type", "all", "match against all, name or telno")
	return cmd
}

func addressCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address <keyword>",
		Short: "Print the address of the best keyword match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, c, err := keywordSetup(a, cmd)
			if err != nil {
				return err
			}
			res, err := c.AddressByKeyword(cmd.Context(), args[0], st)
			return printResult(cmd, res, err)
		},
	}
	cmd.Flags().String("search-type", "all", "match against all, name or telno")
	return cmd
}

func keywordSetup(a *app, cmd *cobra.Command) (tmap.SearchType, *tmap.Client, error) {
	searchType, _ := cmd.Flags().GetString("search-type")
	st, err := tmap.ParseSearchType(searchType)
	if err != nil {
		return "", nil, err
	}
	c, err := a.client(cmd)
	return st, c, err
}
