package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
)

type verifyCmd struct{}

func (*verifyCmd) Name() string     { return "verify" }
func (*verifyCmd) Synopsis() string { return "recompute account aggregates and report drift" }
func (*verifyCmd) Usage() string {
	return `ledgerctl verify <accountId>...

  Recomputes balance, income and expense from the live transactions of each
  account and compares them with the stored aggregates. Exits with status 1
  when any account has drifted.
`
}

func (*verifyCmd) SetFlags(*flag.FlagSet) {}

func (*verifyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one account ID is required")
		return subcommands.ExitUsageError
	}

	accountIDs := make([]uuid.UUID, f.NArg())
	for i, arg := range f.Args() {
		id, err := uuid.Parse(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid account ID %q: %v\n", arg, err)
			return subcommands.ExitUsageError
		}
		accountIDs[i] = id
	}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.close()

	status := subcommands.ExitSuccess
	for _, accountID := range accountIDs {
		output, err := a.useCases.VerifyConsistency.Execute(ctx, ledger.VerifyConsistencyInput{AccountID: accountID})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", accountID, err)
			status = subcommands.ExitFailure
			continue
		}

		if output.Consistent {
			fmt.Printf("%s ok balance=%s transactions=%d\n",
				accountID, output.StoredBalance.StringFixed(2), output.TransactionCount)
			continue
		}

		status = subcommands.ExitFailure
		fmt.Printf("%s DRIFT\n", accountID)
		for _, d := range output.Drifts {
			fmt.Printf("  %-8s stored=%s expected=%s\n", d.Field, d.Stored.StringFixed(2), d.Expected.StringFixed(2))
		}
	}
	return status
}
