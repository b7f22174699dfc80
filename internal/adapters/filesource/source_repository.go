package filesource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
)

// SourceRepository reads the company extracts and the reference files from disk.
type SourceRepository struct {
	paths domain.SourcePaths
}

// NewSourceRepository creates a file based source repository.
func NewSourceRepository(paths domain.SourcePaths) *SourceRepository {
	return &SourceRepository{paths: paths}
}

var _ portsrepo.SourceRepository = (*SourceRepository)(nil)

// LoadTransactions reads every extract of the company and year folder.
// Unreadable files are skipped and reported as warnings, like columns that needed coercion.
func (r *SourceRepository) LoadTransactions(ctx context.Context, q portsrepo.TransactionQuery) ([]domain.TransactionRecord, []domain.SchemaWarning, error) {
	dir := r.paths.TransactionsDirFor(q.PartnerType, q.CompanyCode, strconv.Itoa(q.Year))
	files, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list extracts in %s: %w", dir, err)
	}

	var (
		records  []domain.TransactionRecord
		warnings []domain.SchemaWarning
		order    int
	)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if info, err := os.Stat(file); err != nil || info.IsDir() {
			continue
		}
		t, err := readTable(file)
		if err != nil {
			warnings = append(warnings, domain.SchemaWarning{File: file, Detail: err.Error()})
			continue
		}

		var c *coercer
		if q.PartnerType == domain.PartnerNone {
			c = newCoercer(t, transactionColumns)
		} else {
			c = newCoercer(t, partnerColumns(q.PartnerType))
		}
		for _, row := range t.rows {
			rec := readTransaction(c, row, q.PartnerType)
			rec.LoadOrder = order
			order++
			if keepTransaction(rec, q) {
				records = append(records, rec)
			}
		}
		warnings = append(warnings, c.warnings()...)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PostingDate.Before(records[j].PostingDate)
	})
	return records, warnings, nil
}

func readTransaction(c *coercer, row []string, partner domain.PartnerType) domain.TransactionRecord {
	rec := domain.TransactionRecord{
		CompanyCode:      c.text(row, colCompanyCode),
		CompanyName:      c.text(row, colCompanyName),
		FiscalYear:       c.code(row, colFiscalYear),
		SyscohadaAccount: c.code(row, colSyscohada),
		OffsetAccount:    c.code(row, colOffsetAccount),
		PostingDate:      c.date(row, colPostingDate),
		Amount:           c.amount(row, colAmount),
		DocumentNumber:   c.text(row, colDocumentNumber),
		DocumentType:     c.text(row, colDocumentType),
		Text:             c.text(row, colText),
		Reference:        c.text(row, colReference),
		Designation:      c.text(row, colDesignation),
	}
	if rec.Designation == notAvailable {
		rec.Designation = ""
	}
	if partner == domain.PartnerNone {
		rec.IFRSAccount = c.code(row, colGLAccount)
		rec.IFRSAccountDesc = c.text(row, colGLAccountText)
		rec.EntryDate = c.date(row, colEntryDate)
		rec.EntryTime = c.clock(row, colEntryTime)
		rec.UserID = c.text(row, colUserID)
		return rec
	}
	rec.PartnerID = c.code(row, string(partner))
	rec.PartnerName = c.text(row, string(partner)+" Name")
	rec.OffsetAccountDesc = c.text(row, colOffsetDesc)
	return rec
}

func keepTransaction(rec domain.TransactionRecord, q portsrepo.TransactionQuery) bool {
	if rec.CompanyCode != q.CompanyCode {
		return false
	}
	if !q.Period.Start.IsZero() && !q.Period.Contains(rec.PostingDate) {
		return false
	}
	if q.DocumentNumber != "" {
		return rec.DocumentNumber == strings.TrimSpace(q.DocumentNumber)
	}
	if q.PartnerType != domain.PartnerNone {
		return rec.PartnerID != ""
	}
	if rec.SyscohadaAccount == "" {
		return false
	}
	if q.BankAccounts != nil {
		for _, code := range q.BankAccounts {
			if code == rec.SyscohadaAccount {
				return true
			}
		}
		return false
	}
	return true
}

// LoadOpeningBalances reads "<prefix> <company> <year>.xlsx" for the ledger kind.
func (r *SourceRepository) LoadOpeningBalances(ctx context.Context, companyCode string, year int, partner domain.PartnerType) ([]domain.OpeningBalanceEntry, error) {
	yearStr := strconv.Itoa(year)
	path := r.paths.OpeningBalanceFileFor(partner, companyCode, yearStr)
	t, err := r.readRequired(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load opening balance: %w", err)
	}

	entries := make([]domain.OpeningBalanceEntry, 0, len(t.rows))
	if partner != domain.PartnerNone {
		c := newCoercer(t, nil)
		for _, row := range t.rows {
			id := c.code(row, string(partner))
			if id == "" {
				continue
			}
			total := c.amount(row, colPartnerTotal)
			entries = append(entries, domain.PartnerOpeningEntry(companyCode, yearStr, id, c.text(row, string(partner)+" Name"), total))
		}
		return entries, nil
	}

	c := newCoercer(t, nil)
	for _, row := range t.rows {
		code := c.code(row, colOpeningSyscohada)
		if code == "" {
			code = domain.EmptyAccountSentinel
		}
		entries = append(entries, domain.NewOpeningBalanceEntry(
			companyCode,
			yearStr,
			code,
			c.text(row, colOpeningSyscohadaDesc),
			c.code(row, colOpeningIFRS),
			c.text(row, colOpeningIFRSDesc),
			c.amount(row, colOpeningDebit),
			c.amount(row, colOpeningCredit),
		))
	}
	return entries, nil
}

// LoadChartOfAccounts reads the "Numéro de Compte" -> "Nom du Compte" mapping.
func (r *SourceRepository) LoadChartOfAccounts(ctx context.Context) ([]domain.ChartEntry, error) {
	t, err := r.readRequired(ctx, r.paths.ChartOfAccountsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	c := newCoercer(t, nil)
	chart := make([]domain.ChartEntry, 0, len(t.rows))
	for _, row := range t.rows {
		prefix := c.code(row, colChartCode)
		if prefix == "" {
			continue
		}
		chart = append(chart, domain.ChartEntry{Prefix: prefix, Label: c.text(row, colChartLabel)})
	}
	return chart, nil
}

// LoadBankAccounts reads the bank account list, one SYSCOHADA code per line.
func (r *SourceRepository) LoadBankAccounts(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(r.paths.BankAccountsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("bank account list %s: %w", r.paths.BankAccountsPath, apperrors.ErrMissingSourceFile)
		}
		return nil, fmt.Errorf("failed to open bank account list: %w", err)
	}
	defer f.Close()

	codes := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if code := strings.TrimSpace(scanner.Text()); code != "" {
			codes = append(codes, code)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bank account list: %w", err)
	}
	return codes, nil
}

func (r *SourceRepository) readRequired(ctx context.Context, path string) (*table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, apperrors.ErrMissingSourceFile)
		}
		return nil, err
	}
	return readTable(path)
}
