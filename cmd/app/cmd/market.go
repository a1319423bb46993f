package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"MarketBoard/internal/repository"
	"MarketBoard/internal/services/timeseries"
	"MarketBoard/internal/usecase"
)

var seed int64

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the stock catalog with current quotes",
	RunE:  runCatalog,
}

var seriesCmd = &cobra.Command{
	Use:   "series SYMBOL",
	Short: "Print the daily series for SYMBOL as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeries,
}

func init() {
	seriesCmd.Flags().Int64Var(&seed, "seed", 0, "generator seed (0 seeds from the clock)")
}

func newMarket(days int) *usecase.MarketDataUseCase {
	var opts []timeseries.Option
	if seed != 0 {
		opts = append(opts, timeseries.WithSeed(seed))
	}
	return usecase.NewMarketDataUseCase(
		repository.NewStaticCatalog(),
		timeseries.NewGenerator(opts...),
		usecase.WithSeriesDays(days),
	)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tNAME\tPRICE\tCHANGE%\tSECTOR")
	for _, s := range newMarket(0).DashboardStocks() {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%+.2f\t%s\n", s.Symbol, s.Name, s.Price, s.ChangePercent, s.Sector)
	}
	return tw.Flush()
}

func runSeries(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	points := newMarket(cfg.Market.SeriesDays).DailySeries(args[0])
	if len(points) == 0 {
		return fmt.Errorf("no series for %q", args[0])
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(points)
}
