package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/indicators"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [symbol]",
	Short: "단일 종목 점수 계산",
	Long: `Fetches one symbol and prints its score, factor breakdown and
technical indicators.

Example:
  go run ./cmd/stockpulse score TCS.NSE
  go run ./cmd/stockpulse score INFY.NSE --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var scoreJSON bool

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print JSON instead of a table")
}

// scoreReport is the --json payload
type scoreReport struct {
	Symbol              string                   `json:"symbol"`
	Quote               *contracts.Quote         `json:"quote"`
	Recommendation      contracts.Recommendation `json:"recommendation"`
	TechnicalIndicators contracts.IndicatorSet   `json:"technicalIndicators"`
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	symbol := marketdata.NormalizeSymbol(args[0])

	snap, err := rt.market.Snapshot(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", symbol, err)
	}

	rec := rt.engine.CalculateScore(snap.Quote, snap.Overview, snap.History)
	ind := indicators.Compute(snap.History)

	if scoreJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(scoreReport{
			Symbol:              symbol,
			Quote:               snap.Quote,
			Recommendation:      rec,
			TechnicalIndicators: ind,
		})
	}

	PrintScoreReport(os.Stdout, symbol, snap.Overview, snap.Quote, rec, ind)
	if len(snap.History) == 0 {
		PrintWarning(os.Stdout, "No price history, technical and volume factors scored 0")
	}
	return nil
}
