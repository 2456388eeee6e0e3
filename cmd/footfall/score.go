package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/config"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/logging"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/service"
)

var (
	scoreLat    float64
	scoreLng    float64
	scoreRadius int
	scoreRaw    bool
	scoreJSON   bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one location",
	Long: `Fetch the POIs around a point, print the footfall score and the
per-category breakdown. Latitude and longitude default to DEFAULT_LAT/DEFAULT_LNG.`,
	Example: "  footfall score --lat 11.936 --lng 79.835 --radius 800 --raw",
	RunE:    runScore,
}

func init() {
	scoreCmd.Flags().Float64Var(&scoreLat, "lat", 0, "Latitude of the location")
	scoreCmd.Flags().Float64Var(&scoreLng, "lng", 0, "Longitude of the location")
	scoreCmd.Flags().IntVar(&scoreRadius, "radius", 0, "Search radius in meters (default RADIUS_DEFAULT)")
	scoreCmd.Flags().BoolVar(&scoreRaw, "raw", false, "Also list the POIs found")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the full result as JSON")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	table, err := config.LoadWeights(cfg.WeightsFile)
	if err != nil {
		return err
	}

	req := &model.AnalysisRequest{
		Lat:         cfg.Analysis.DefaultLat,
		Lng:         cfg.Analysis.DefaultLng,
		Radius:      scoreRadius,
		IncludePOIs: scoreRaw || scoreJSON,
	}
	if cmd.Flags().Changed("lat") {
		req.Lat = scoreLat
	}
	if cmd.Flags().Changed("lng") {
		req.Lng = scoreLng
	}

	poiProvider, cleanup, err := buildProvider(cmd.Context(), cfg, table, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := service.NewAnalysisService(poiProvider, table, cfg.Analysis.RadiusBounds(), nil)
	return scoreLocation(cmd.Context(), cmd.OutOrStdout(), svc, req, scoreRaw, scoreJSON)
}

type analyzer interface {
	Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.AnalysisResult, error)
}

// scoreLocation runs one analysis and writes it as a report or JSON
func scoreLocation(ctx context.Context, out io.Writer, a analyzer, req *model.AnalysisRequest, raw, asJSON bool) error {
	result, err := a.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to analyze location: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printReport(out, result, raw)
}

func printReport(out io.Writer, result *model.AnalysisResult, raw bool) error {
	fmt.Fprintf(out, "Location: %.6f, %.6f via %s\n", result.Origin.Lat(), result.Origin.Lng(), result.Provider)
	fmt.Fprintln(out, result.Summary)
	fmt.Fprintf(out, "POIs found: %d\n\n", result.POICount)

	if len(result.Breakdown) == 0 {
		fmt.Fprintln(out, "No scored categories in this area.")
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tCOUNT\tWEIGHT\tSCORE")
		for _, e := range result.Breakdown {
			fmt.Fprintf(tw, "%s\t%d\t%v\t%v\n", e.Category, e.Count, e.Weight, e.WeightedScore)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if raw {
		fmt.Fprintln(out)
		if len(result.RawPOIs) == 0 {
			fmt.Fprintln(out, "No named POIs found.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tNAME")
		for _, p := range result.RawPOIs {
			fmt.Fprintf(tw, "%s\t%s\n", p.Category, p.Name)
		}
		return tw.Flush()
	}
	return nil
}
