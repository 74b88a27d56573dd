package cmd

import (
	"fmt"

	"github.com/theirongolddev/fsplan/internal/cli"
	"github.com/theirongolddev/fsplan/internal/money"

	"github.com/spf13/cobra"
)

var (
	flagConvertFrom string
	flagConvertTo   string
)

var convertCmd = &cobra.Command{
	Use:   "convert <amount>...",
	Short: "Convert amounts between display scales",
	Long: "Reads each amount in the --from scale and prints it raw and in every\n" +
		"scale, or only in --to when given.\n\n" +
		"  fsplan convert --from Billions 143.5",
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&flagConvertFrom, "from", money.Standard.String(), "Scale of the input amounts")
	convertCmd.Flags().StringVar(&flagConvertTo, "to", "", "Only print this scale")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(_ *cobra.Command, args []string) error {
	from, err := money.ParseScale(flagConvertFrom)
	if err != nil {
		return err
	}
	targets := money.Scales
	if flagConvertTo != "" {
		to, err := money.ParseScale(flagConvertTo)
		if err != nil {
			return err
		}
		targets = []money.Scale{to}
	}

	headers := []string{"Input", "Raw"}
	for _, sc := range targets {
		headers = append(headers, sc.String())
	}

	rows := make([][]string, 0, len(args))
	for _, arg := range args {
		d, err := money.ParseStrict(arg)
		if err != nil {
			return err
		}
		raw := money.ToRaw(d, from)
		row := []string{arg, raw.String()}
		for _, sc := range targets {
			row = append(row, cli.FormatAmount(raw, sc))
		}
		rows = append(rows, row)
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))
	return nil
}
