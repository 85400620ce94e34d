package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

type forecastCmd struct{}

func (*forecastCmd) Name() string     { return "forecast" }
func (*forecastCmd) Synopsis() string { return "extrapolate a monthly series" }
func (*forecastCmd) Usage() string {
	return `ledgerctl forecast <value> <value> <value>...

  Prints the month-over-month change between the last two values and the
  linear forecast used on account summaries. At least three values are
  needed for a forecast.
`
}

func (*forecastCmd) SetFlags(*flag.FlagSet) {}

func (*forecastCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	values := make([]decimal.Decimal, f.NArg())
	for i, arg := range f.Args() {
		v, err := decimal.NewFromString(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid value %q: %v\n", arg, err)
			return subcommands.ExitUsageError
		}
		values[i] = v
	}
	if len(values) < 2 {
		fmt.Fprintln(os.Stderr, "at least two values are required")
		return subcommands.ExitUsageError
	}

	change := valueobject.PercentageChange(values[len(values)-2], values[len(values)-1])
	fmt.Printf("change: %s%%\n", change.StringFixed(2))

	forecast := valueobject.ForecastNext(values)
	if len(forecast) == 0 {
		fmt.Println("forecast: not enough data")
		return subcommands.ExitSuccess
	}
	parts := make([]string, len(forecast))
	for i, v := range forecast {
		parts[i] = v.StringFixed(2)
	}
	fmt.Printf("forecast: %s\n", strings.Join(parts, " "))
	return subcommands.ExitSuccess
}
