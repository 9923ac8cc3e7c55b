package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gustavoln/financeiro-client/internal/domain/ingest"
	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/fault"
	"github.com/gustavoln/financeiro-client/internal/session"
)

// CollectManualEntries reads transactions from in into the session
// accumulator, one per line: <date> <amount> <description>, amounts
// prefixed with + counting as income, anything else as an expense, e.g.
//
//	15/03/2025 -23,50 Uber para o trabalho
//	05/03/2025 +5000 Salário
//
// A bad line is reported and skipped; an empty line ends entry.
func CollectManualEntries(sess *session.Session, in io.Reader) error {
	fmt.Println("Manual entry: <date> <amount> <description> per line. Empty line to finish.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Printf("[%d] > ", sess.ManualCount()+1)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		input, err := parseManualLine(line)
		if err != nil {
			PrintError("%v", err)
			continue
		}
		sess.AddManual(input)
	}
	return scanner.Err()
}

// parseManualLine splits one entry line into date, signed amount and
// description and builds the transaction input.
func parseManualLine(line string) (model.TransactionInput, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return model.TransactionInput{}, fault.NewValidation(
			"expected <date> <amount> <description>, got " + fmt.Sprintf("%d field(s)", len(fields)))
	}

	date, err := model.ParseDate(fields[0])
	if err != nil {
		return model.TransactionInput{}, fault.NewFieldValidation("date", err.Error())
	}

	isExpense := !strings.HasPrefix(fields[1], "+")
	magnitude, err := ingest.ParseAmount(strings.TrimPrefix(fields[1], "+"))
	if err != nil {
		return model.TransactionInput{}, err
	}

	description := strings.Join(fields[2:], " ")
	return ingest.NewManualEntry(description, magnitude, isExpense, date)
}
