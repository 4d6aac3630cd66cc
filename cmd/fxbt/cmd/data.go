package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xyproto/unzip"

	"fxbt/backtest"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Inspect and prepare bar datasets",
}

var dataUnpackCmd = &cobra.Command{
	Use:   "unpack <archive.zip>",
	Short: "Extract a zipped bar dataset",
	Long: `Unpack extracts a zip archive of bar CSV files. Gzip and xz
compressed CSVs do not need unpacking; the run and sweep commands read
them directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runDataUnpack,
}

var dataInfoCmd = &cobra.Command{
	Use:   "info <bars.csv>",
	Short: "Print the bar count and time range of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataInfo,
}

var dataOutDir string

func init() {
	dataUnpackCmd.Flags().StringVar(&dataOutDir, "out", ".", "directory to extract into")
	dataInfoCmd.Flags().StringVar(&runFrom, "from", "", "start of bar window (RFC3339)")
	dataInfoCmd.Flags().StringVar(&runTo, "to", "", "end of bar window, exclusive (RFC3339)")
	dataCmd.AddCommand(dataUnpackCmd)
	dataCmd.AddCommand(dataInfoCmd)
	rootCmd.AddCommand(dataCmd)
}

func runDataUnpack(cmd *cobra.Command, args []string) error {
	if err := unzip.Extract(args[0], dataOutDir); err != nil {
		return fmt.Errorf("unpack %s: %w", args[0], err)
	}
	fmt.Printf("extracted %s to %s\n", args[0], dataOutDir)
	return nil
}

func runDataInfo(cmd *cobra.Command, args []string) error {
	from, to, err := parseWindow()
	if err != nil {
		return err
	}
	bars, err := backtest.LoadBars(args[0], from, to)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		fmt.Println("no bars")
		return nil
	}
	fmt.Printf("bars:  %d\n", len(bars))
	fmt.Printf("first: %s\n", bars[0].Time.Format("2006-01-02 15:04:05"))
	fmt.Printf("last:  %s\n", bars[len(bars)-1].Time.Format("2006-01-02 15:04:05"))
	return nil
}
