package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/SscSPs/ohada_reporting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const (
	labelTotalBilan   = "TOTAL BILAN"
	labelTotalGestion = "TOTAL GESTION"
	labelTotalGeneral = "TOTAL GENERAL"
	labelCarryOver    = "Total à Reporter"
)

// balanceService implements the BalanceService interface
type balanceService struct {
	BaseService
}

// BalanceServiceOption is a functional option for configuring the balance service
type BalanceServiceOption func(*balanceService)

// NewBalanceService creates a new balance service with the provided options
func NewBalanceService(options ...BalanceServiceOption) portssvc.BalanceService {
	svc := &balanceService{}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure balanceService implements the BalanceService interface
var _ portssvc.BalanceService = (*balanceService)(nil)

type prefixGroup struct {
	prefix   string
	measures domain.BalanceMeasures
}

type classGroup struct {
	prefixGroup
	subgroups []*subGroup
}

type subGroup struct {
	prefixGroup
	accounts []domain.AccountMeasures
}

func prefixOf(code string, n int) string {
	if len(code) < n {
		return code
	}
	return code[:n]
}

// groupAccounts sorts the accounts and nests them under their 1-character and
// 2-character prefixes, accumulating the measures at both levels.
func groupAccounts(accounts []domain.AccountMeasures) []*classGroup {
	sorted := make([]domain.AccountMeasures, 0, len(accounts))
	for _, a := range accounts {
		if a.AccountCode == "" || a.AccountCode == domain.EmptyAccountSentinel {
			continue
		}
		sorted = append(sorted, a)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AccountCode < sorted[j].AccountCode
	})

	var classes []*classGroup
	var class *classGroup
	var sub *subGroup
	for _, a := range sorted {
		p1, p2 := prefixOf(a.AccountCode, 1), prefixOf(a.AccountCode, 2)
		if class == nil || class.prefix != p1 {
			class = &classGroup{prefixGroup: prefixGroup{prefix: p1, measures: domain.ZeroMeasures()}}
			classes = append(classes, class)
			sub = nil
		}
		if sub == nil || sub.prefix != p2 {
			sub = &subGroup{prefixGroup: prefixGroup{prefix: p2, measures: domain.ZeroMeasures()}}
			class.subgroups = append(class.subgroups, sub)
		}
		sub.accounts = append(sub.accounts, a)
		sub.measures = sub.measures.Add(a.Measures)
		class.measures = class.measures.Add(a.Measures)
	}
	return classes
}

// Aggregate emits every account row followed by its 2-character subtotal, and
// the 1-character subtotal after the last 2-character group of a class.
func (s *balanceService) Aggregate(accounts []domain.AccountMeasures, chart []domain.ChartEntry) ([]domain.BalanceRow, []domain.BalanceRow) {
	labels := make(map[string]string, len(chart))
	for _, c := range chart {
		if _, seen := labels[c.Prefix]; !seen {
			labels[c.Prefix] = c.Label
		}
	}
	groupRow := func(kind domain.BalanceRowKind, g prefixGroup) domain.BalanceRow {
		label := g.prefix
		if desc, ok := labels[g.prefix]; ok && desc != "" {
			label = g.prefix + "-" + desc
		}
		return domain.BalanceRow{
			Kind:        kind,
			Label:       label,
			Description: labels[g.prefix],
			Measures:    g.measures,
			Subtotal:    true,
		}
	}

	bilan, gestion := domain.ZeroMeasures(), domain.ZeroMeasures()
	rows := make([]domain.BalanceRow, 0, len(accounts)*2)
	for _, class := range groupAccounts(accounts) {
		for _, sub := range class.subgroups {
			for _, a := range sub.accounts {
				rows = append(rows, domain.BalanceRow{
					Kind:        domain.BalanceRowAccount,
					Label:       a.AccountCode,
					Description: a.Description,
					IFRSAccount: a.IFRSAccount,
					Measures:    a.Measures,
				})
				// Everything outside classes 6-8 counts as bilan, so the grand
				// total equals the sum of the class subtotals.
				if domain.ClassifyAccount(a.AccountCode) == domain.ClassGestion {
					gestion = gestion.Add(a.Measures)
				} else {
					bilan = bilan.Add(a.Measures)
				}
			}
			rows = append(rows, groupRow(domain.BalanceRowGroup2, sub.prefixGroup))
		}
		rows = append(rows, groupRow(domain.BalanceRowGroup1, class.prefixGroup))
	}

	totals := []domain.BalanceRow{
		{Kind: domain.BalanceRowBilan, Label: labelTotalBilan, Measures: bilan, Subtotal: true},
		{Kind: domain.BalanceRowGestion, Label: labelTotalGestion, Measures: gestion, Subtotal: true},
		{Kind: domain.BalanceRowGrandTotal, Label: labelTotalGeneral, Measures: bilan.Add(gestion), Subtotal: true},
	}
	return rows, totals
}

// BuildGeneralBalance computes the measures of every account and rolls them up.
func (s *balanceService) BuildGeneralBalance(ctx context.Context, in domain.GeneralBalanceInput) (*domain.GeneralBalanceReport, error) {
	txns, openings := restrictToAccounts(in.Transactions, in.Openings, in.BankAccounts)
	txns = inPeriod(txns, in.Period)

	openingByCode := indexOpenings(openings)
	byCode := make(map[string][]domain.TransactionRecord)
	for _, t := range txns {
		byCode[t.SyscohadaAccount] = append(byCode[t.SyscohadaAccount], t)
	}

	codes := accountCodes(openingByCode, byCode)
	accounts := make([]domain.AccountMeasures, 0, len(codes))
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var opening *domain.OpeningBalanceEntry
		am := domain.AccountMeasures{AccountCode: code}
		if e, ok := openingByCode[code]; ok {
			opening = &e
			am.Description = e.Description
			am.IFRSAccount = e.IFRSAccount
		}
		od, oc := accounting.OpeningSides(code, opening)
		pd, pc := accounting.SumMovements(byCode[code])
		am.Measures = domain.NewBalanceMeasuresFromOpening(od, oc, pd, pc)
		accounts = append(accounts, am)
	}

	rows, totals := s.Aggregate(accounts, in.Chart)
	report := &domain.GeneralBalanceReport{
		Title:       in.Title,
		CompanyCode: in.CompanyCode,
		CompanyName: in.CompanyName,
		Period:      in.Period,
		Rows:        rows,
		Totals:      totals,
		Details:     detailRows(openings, txns),
		Empty:       len(txns) == 0,
	}

	s.LogInfo(ctx, "General balance built",
		slog.String("company_code", in.CompanyCode),
		slog.Int("accounts", len(accounts)),
		slog.Int("rows", len(rows)))
	return report, nil
}

type accountPair struct {
	syscohada string
	ifrs      string
}

// detailRows computes one row per (SYSCOHADA, IFRS) pair, ordered by SYSCOHADA then IFRS code.
func detailRows(openings []domain.OpeningBalanceEntry, txns []domain.TransactionRecord) []domain.BalanceRow {
	entries := make(map[accountPair]domain.OpeningBalanceEntry)
	for _, o := range openings {
		if o.SyscohadaAccount == "" || o.SyscohadaAccount == domain.EmptyAccountSentinel {
			continue
		}
		k := accountPair{o.SyscohadaAccount, o.IFRSAccount}
		if _, seen := entries[k]; !seen {
			entries[k] = o
		}
	}
	moves := make(map[accountPair][]domain.TransactionRecord)
	descs := make(map[accountPair]string)
	for _, t := range txns {
		k := accountPair{t.SyscohadaAccount, t.IFRSAccount}
		moves[k] = append(moves[k], t)
		if _, ok := descs[k]; !ok {
			descs[k] = t.IFRSAccountDesc
		}
	}

	pairs := make([]accountPair, 0, len(entries)+len(moves))
	for k := range entries {
		pairs = append(pairs, k)
	}
	for k := range moves {
		if _, ok := entries[k]; !ok && k.syscohada != "" && k.syscohada != domain.EmptyAccountSentinel {
			pairs = append(pairs, k)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].syscohada != pairs[j].syscohada {
			return pairs[i].syscohada < pairs[j].syscohada
		}
		return pairs[i].ifrs < pairs[j].ifrs
	})

	rows := make([]domain.BalanceRow, 0, len(pairs))
	for _, k := range pairs {
		row := domain.BalanceRow{
			Kind:        domain.BalanceRowAccount,
			Label:       k.syscohada,
			IFRSAccount: k.ifrs,
			IFRSDesc:    descs[k],
		}
		var opening *domain.OpeningBalanceEntry
		if e, ok := entries[k]; ok {
			opening = &e
			row.Description = e.Description
			if e.IFRSDescription != "" {
				row.IFRSDesc = e.IFRSDescription
			}
		}
		od, oc := accounting.OpeningSides(k.syscohada, opening)
		pd, pc := accounting.SumMovements(moves[k])
		row.Measures = domain.NewBalanceMeasuresFromOpening(od, oc, pd, pc)
		rows = append(rows, row)
	}
	return rows
}

// BuildPartnerBalance lists every vendor or customer with its opening split by
// the sign of its total, followed by a single carry-over total.
func (s *balanceService) BuildPartnerBalance(ctx context.Context, in domain.PartnerBalanceInput) (*domain.PartnerBalanceReport, error) {
	txns := inPeriod(in.Transactions, in.Period)

	openingByPartner := indexOpenings(in.Openings)
	byPartner := make(map[string][]domain.TransactionRecord)
	for _, t := range txns {
		if t.PartnerID == "" {
			continue
		}
		byPartner[t.PartnerID] = append(byPartner[t.PartnerID], t)
	}

	report := &domain.PartnerBalanceReport{
		Title:       in.Title,
		CompanyCode: in.CompanyCode,
		CompanyName: in.CompanyName,
		PartnerType: in.PartnerType,
		Period:      in.Period,
		Empty:       len(txns) == 0,
	}

	total := domain.ZeroMeasures()
	for _, id := range accountCodes(openingByPartner, byPartner) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := domain.BalanceRow{Kind: domain.BalanceRowAccount, Label: id}
		od, oc := decimal.Zero, decimal.Zero
		if e, ok := openingByPartner[id]; ok {
			row.Description = e.Description
			od, oc = e.Debit, e.Credit
		} else if lines := byPartner[id]; len(lines) > 0 {
			row.Description = lines[0].PartnerName
		}
		pd, pc := accounting.SumMovements(byPartner[id])
		row.Measures = domain.NewBalanceMeasuresFromOpening(od, oc, pd, pc)
		total = total.Add(row.Measures)
		report.Rows = append(report.Rows, row)
	}
	report.Total = domain.BalanceRow{
		Kind:     domain.BalanceRowCarryOver,
		Label:    labelCarryOver,
		Measures: total,
		Subtotal: true,
	}

	s.LogInfo(ctx, "Partner balance built",
		slog.String("company_code", in.CompanyCode),
		slog.String("partner_type", string(in.PartnerType)),
		slog.Int("partners", len(report.Rows)))
	return report, nil
}
