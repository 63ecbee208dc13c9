package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tmapmcp/internal/geo"
)

// pointValue is a "lon,lat" flag.
type pointValue struct {
	p   geo.Point
	set bool
}

var _ pflag.Value = (*pointValue)(nil)

func (v *pointValue) String() string {
	if !v.set {
		return ""
	}
	return v.p.String()
}

func (v *pointValue) Set(s string) error {
	p, err := geo.ParsePoint(s)
	if err != nil {
		return err
	}
	v.p, v.set = p, true
	return nil
}

func (v *pointValue) Type() string { return "lon,lat" }

// pointListValue collects repeated "lon,lat" flags. A single value may also
// hold several points separated by "_", the way the upstream joins them.
type pointListValue struct {
	points []geo.Point
}

var _ pflag.Value = (*pointListValue)(nil)

func (v *pointListValue) String() string {
	parts := make([]string, len(v.points))
	for i, p := range v.points {
		parts[i] = p.String()
	}
	return strings.Join(parts, "_")
}

func (v *pointListValue) Set(s string) error {
	for _, part := range strings.Split(s, "_") {
		p, err := geo.ParsePoint(part)
		if err != nil {
			return err
		}
		v.points = append(v.points, p)
	}
	return nil
}

func (v *pointListValue) Type() string { return "lon,lat" }

// endpointFlags registers the required --from and --to flags of the route
// commands.
func endpointFlags(cmd *cobra.Command, from, to *pointValue) {
	cmd.Flags().Var(from, "from", "start point as lon,lat")
	cmd.Flags().Var(to, "to", "destination point as lon,lat")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}
