package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drif-ai/finance/internal/ledger"
)

const dateLayout = "2006-01-02"

// csvColumns is the required header of a batch file. Rows sharing a ref
// form one transaction; date and description come from the group's first
// row.
var csvColumns = []string{"date", "ref", "description", "account_code", "debit", "credit"}

// ParseCSV reads a batch file into transactions, preserving file order of
// first appearance per ref. Parsing is strict: a malformed row fails the
// whole parse before anything is posted.
func ParseCSV(r io.Reader) ([]ledger.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("importer: read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var order []string
	groups := make(map[string]*ledger.Transaction)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("importer: line %d: %w", line, err)
		}
		if err := appendRow(groups, &order, record, line); err != nil {
			return nil, err
		}
	}

	out := make([]ledger.Transaction, 0, len(order))
	for _, ref := range order {
		out = append(out, *groups[ref])
	}
	return out, nil
}

func checkHeader(header []string) error {
	if len(header) != len(csvColumns) {
		return fmt.Errorf("importer: expected columns %v", csvColumns)
	}
	for i, col := range csvColumns {
		if strings.ToLower(strings.TrimSpace(header[i])) != col {
			return fmt.Errorf("importer: expected column %d to be %q, got %q", i+1, col, header[i])
		}
	}
	return nil
}

func appendRow(groups map[string]*ledger.Transaction, order *[]string, record []string, line int) error {
	if len(record) != len(csvColumns) {
		return fmt.Errorf("importer: line %d: expected %d fields, got %d", line, len(csvColumns), len(record))
	}
	ref := strings.TrimSpace(record[1])
	if ref == "" {
		return fmt.Errorf("importer: line %d: ref is required", line)
	}

	entry := ledger.Entry{AccountCode: strings.TrimSpace(record[3]), Debit: decimal.Zero, Credit: decimal.Zero}
	if entry.AccountCode == "" {
		return fmt.Errorf("importer: line %d: account_code is required", line)
	}
	var err error
	if raw := strings.TrimSpace(record[4]); raw != "" {
		if entry.Debit, err = decimal.NewFromString(raw); err != nil {
			return fmt.Errorf("importer: line %d: invalid debit %q", line, raw)
		}
	}
	if raw := strings.TrimSpace(record[5]); raw != "" {
		if entry.Credit, err = decimal.NewFromString(raw); err != nil {
			return fmt.Errorf("importer: line %d: invalid credit %q", line, raw)
		}
	}

	group, ok := groups[ref]
	if !ok {
		date, err := time.Parse(dateLayout, strings.TrimSpace(record[0]))
		if err != nil {
			return fmt.Errorf("importer: line %d: invalid date %q", line, record[0])
		}
		group = &ledger.Transaction{
			Date:        date,
			Ref:         ref,
			Description: strings.TrimSpace(record[2]),
		}
		groups[ref] = group
		*order = append(*order, ref)
	}
	group.Entries = append(group.Entries, entry)
	return nil
}
