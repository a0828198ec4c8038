package reports

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if s == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	_, err := s.buf.WriteString(line)
	return err
}

func (s *csvStreamer) writeRow(row []string) error {
	if s == nil || s.csv == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

// WriteFinancialsCSV streams a rendered report as CSV with a metadata
// preamble, one row per account line, then the totals block.
func WriteFinancialsCSV(w io.Writer, view ReportView) error {
	streamer := newCSVStreamer(w)
	if err := streamer.writeComment("# Report: Financial Statements"); err != nil {
		return err
	}
	if err := streamer.writeComment(fmt.Sprintf("# Period: %s .. %s", view.Start, view.End)); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Section", "Account Code", "Account Name", "Amount"}); err != nil {
		return err
	}
	sections := []ReportSection{view.Revenue, view.Expense, view.Assets, view.Liabilities, view.EquityWithPL}
	labels := []string{"REVENUE", "EXPENSE", "ASSET", "LIABILITY", "EQUITY"}
	for i, section := range sections {
		for _, row := range section.Rows {
			if err := streamer.writeRow([]string{labels[i], row.Code, row.Name, row.Amount}); err != nil {
				return err
			}
		}
	}
	if err := streamer.writeRow([]string{"", "", "", ""}); err != nil {
		return err
	}
	totals := [][]string{
		{"Totals", "", "Net Income", view.NetIncome},
		{"Totals", "", "Assets", view.TotalAssets},
		{"Totals", "", "Liabilities + Equity", view.TotalLiabilitiesAndEquity},
		{"Totals", "", "Balanced", strconv.FormatBool(view.IsBalanced)},
		{"Totals", "", "Net Cash Change", view.CashFlow.NetChange},
	}
	for _, row := range totals {
		if err := streamer.writeRow(row); err != nil {
			return err
		}
	}
	return streamer.Flush()
}
