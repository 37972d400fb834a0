package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"devicemap/internal/geo"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "geoctl",
		Short:        "Geohash and distance utilities",
		Long:         `Encode and decode geohashes, list neighbor cells and measure great-circle distances.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newEncodeCmd(),
		newDecodeCmd(),
		newNeighborsCmd(),
		newDistanceCmd(),
		newInfoCmd(),
	)
	return root
}

// pointFlags registers the --lat/--lng pair. Negative values need the
// --lng=-76.48 form.
func pointFlags(cmd *cobra.Command, lat, lng *float64) {
	cmd.Flags().Float64Var(lat, "lat", 0, "Latitude in degrees")
	cmd.Flags().Float64Var(lng, "lng", 0, "Longitude in degrees")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
}

func newEncodeCmd() *cobra.Command {
	var lat, lng float64
	var precision int

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a coordinate as a geohash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := geo.Encode(lat, lng, precision)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	pointFlags(cmd, &lat, &lng)
	cmd.Flags().IntVarP(&precision, "precision", "p", geo.DefaultPrecision, "Geohash length (1-12)")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hash>",
		Short: "Decode a geohash to its center and bounding box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := geo.DecodeBBox(args[0])
			if err != nil {
				return err
			}
			c := box.Center()
			fmt.Fprintf(cmd.OutOrStdout(), "center: %.6f, %.6f\n", c.Lat, c.Lng)
			fmt.Fprintf(cmd.OutOrStdout(), "bbox:   %.6f, %.6f .. %.6f, %.6f\n", box.MinLat, box.MinLng, box.MaxLat, box.MaxLng)
			fmt.Fprintf(cmd.OutOrStdout(), "error:  %s\n", geo.ApproximateAccuracy(len(args[0])))
			return nil
		},
	}
}

func newNeighborsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "neighbors <hash>",
		Short: "List the eight neighbor cells of a geohash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("dir") {
				d, err := geo.ParseDirection(dir)
				if err != nil {
					return err
				}
				neighbor, err := geo.Neighbor(args[0], d)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), neighbor)
				return nil
			}

			neighbors, err := geo.Neighbors(args[0])
			if err != nil {
				return err
			}
			for i, d := range geo.Directions {
				fmt.Fprintf(cmd.OutOrStdout(), "%-2s %s\n", d, neighbors[i])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Print only the neighbor in this direction (n, ne, e, se, s, sw, w, nw)")
	return cmd
}

func newDistanceCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "distance",
		Short: "Great-circle distance between two points in km",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parsePoint(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			b, err := parsePoint(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.4f km\n", geo.HaversineDistance(a, b))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start point as lat,lng")
	cmd.Flags().StringVar(&to, "to", "", "End point as lat,lng")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newInfoCmd() *cobra.Command {
	var lat, lng float64
	var precision int

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print geohash, bounding box and neighbors as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := geo.Info(lat, lng, precision)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
	pointFlags(cmd, &lat, &lng)
	cmd.Flags().IntVarP(&precision, "precision", "p", geo.DefaultPrecision, "Geohash length (1-12)")
	return cmd
}

// parsePoint parses "lat,lng".
func parsePoint(s string) (geo.Coordinate, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Coordinate{}, fmt.Errorf("want lat,lng, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("longitude: %w", err)
	}
	c := geo.NewCoordinate(lat, lng)
	if !c.Valid() {
		return geo.Coordinate{}, fmt.Errorf("%v,%v is out of range", lat, lng)
	}
	return c, nil
}
