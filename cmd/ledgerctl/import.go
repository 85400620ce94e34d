package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/usecase/importing"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

type importCmd struct {
	owner string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "stage and confirm spreadsheets into an account" }
func (*importCmd) Usage() string {
	return `ledgerctl import -owner <userId> <accountId> <file>...

  Stages every xlsx or csv file against the account, then confirms all staged
  batches. Files that fail staging are reported with their row errors and are
  not confirmed.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "ID of the user who owns the account.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "an account ID and at least one file are required")
		return subcommands.ExitUsageError
	}
	ownerID, err := uuid.Parse(c.owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -owner %q: %v\n", c.owner, err)
		return subcommands.ExitUsageError
	}
	accountID, err := uuid.Parse(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid account ID %q: %v\n", f.Arg(0), err)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.close()

	status := subcommands.ExitSuccess
	var batchIDs []uuid.UUID
	for _, fileName := range f.Args()[1:] {
		batchID, err := c.stage(ctx, a, accountID, ownerID, fileName)
		if err != nil {
			printImportError(fileName, err)
			status = subcommands.ExitFailure
			continue
		}
		batchIDs = append(batchIDs, batchID)
	}
	if len(batchIDs) == 0 {
		return status
	}

	output, err := a.useCases.BulkConfirmImports.Execute(ctx, importing.BulkConfirmImportsInput{
		BatchIDs: batchIDs,
		UserID:   ownerID,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	for _, result := range output.Results {
		if result.Err != nil {
			fmt.Printf("%s failed: %v\n", result.BatchID, result.Err)
			status = subcommands.ExitFailure
			continue
		}
		p := result.Output.Progress
		if p.Completed {
			fmt.Printf("%s confirmed applied=%d skipped=%d\n", result.BatchID, p.Applied, p.Skipped)
			continue
		}
		status = subcommands.ExitFailure
		fmt.Printf("%s stopped at row %d: %v (applied=%d remaining=%d)\n",
			result.BatchID, p.FailedRow, p.FailedErr, p.Applied, p.Remaining)
	}
	return status
}

func (c *importCmd) stage(ctx context.Context, a *app, accountID, ownerID uuid.UUID, fileName string) (uuid.UUID, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return uuid.Nil, err
	}
	defer file.Close()

	output, err := a.useCases.StageImport.Execute(ctx, importing.StageImportInput{
		AccountID: accountID,
		UserID:    ownerID,
		FileName:  filepath.Base(fileName),
		File:      file,
	})
	if err != nil {
		return uuid.Nil, err
	}

	fmt.Printf("%s staged as %s (%d rows)\n", fileName, output.BatchID, output.TotalRecords)
	return output.BatchID, nil
}

func printImportError(fileName string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", fileName, err)

	var importErr *domainerror.ImportError
	if !errors.As(err, &importErr) {
		return
	}
	rows := slices.Sorted(maps.Keys(importErr.RowErrors))
	for _, row := range rows {
		fmt.Fprintf(os.Stderr, "  row %d: %s\n", row, importErr.RowErrors[row])
	}
}
