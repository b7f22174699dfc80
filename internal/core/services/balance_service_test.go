package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/SscSPs/ohada_reporting_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func measures(opening, debit, credit string) domain.BalanceMeasures {
	return domain.NewBalanceMeasures(dec(opening), dec(debit), dec(credit))
}

type BalanceServiceTestSuite struct {
	suite.Suite
	service portssvc.BalanceService
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.service = services.NewBalanceService()
}

func (suite *BalanceServiceTestSuite) TestAggregate_GroupFlushOrder() {
	accounts := []domain.AccountMeasures{
		{AccountCode: "201", Measures: measures("50", "0", "0")},
		{AccountCode: "102", Measures: measures("0", "300", "-100")},
		{AccountCode: "101", Measures: measures("1000", "0", "0")},
		{AccountCode: "103", Measures: measures("-400", "0", "0")},
		{AccountCode: "111", Measures: measures("0", "10", "0")},
		{AccountCode: domain.EmptyAccountSentinel, Measures: measures("999", "0", "0")},
	}
	chart := []domain.ChartEntry{{Prefix: "10", Label: "Capital"}, {Prefix: "1", Label: "Ressources durables"}}

	rows, totals := suite.service.Aggregate(accounts, chart)

	labels := make([]string, 0, len(rows))
	for _, r := range rows {
		labels = append(labels, r.Label)
	}
	suite.Equal([]string{
		"101", "102", "103", "10-Capital",
		"111", "11",
		"1-Ressources durables",
		"201", "20", "2",
	}, labels)

	group10 := rows[3]
	suite.Equal(domain.BalanceRowGroup2, group10.Kind)
	suite.True(group10.Subtotal)
	expected := accounts[2].Measures.Add(accounts[1].Measures).Add(accounts[3].Measures)
	suite.equalMeasures(expected, group10.Measures)
	suite.True(group10.Measures.OpeningDebit.Equal(dec("1000")))
	suite.True(group10.Measures.OpeningCredit.Equal(dec("-400")))

	class1 := rows[6]
	suite.Equal(domain.BalanceRowGroup1, class1.Kind)
	suite.equalMeasures(expected.Add(accounts[4].Measures), class1.Measures)

	class2 := rows[9]
	suite.equalMeasures(accounts[0].Measures, class2.Measures)

	suite.Require().Len(totals, 3)
	suite.Equal(domain.BalanceRowBilan, totals[0].Kind)
	suite.equalMeasures(class1.Measures.Add(class2.Measures), totals[0].Measures)
	suite.equalMeasures(domain.ZeroMeasures(), totals[1].Measures)
	suite.equalMeasures(totals[0].Measures, totals[2].Measures)
}

func (suite *BalanceServiceTestSuite) TestAggregate_ClosingSideSumsAccountSplits() {
	accounts := []domain.AccountMeasures{
		{AccountCode: "601", Measures: measures("0", "500", "-200")},
		{AccountCode: "602", Measures: measures("0", "0", "-700")},
	}
	rows, totals := suite.service.Aggregate(accounts, nil)

	group := rows[2]
	suite.True(group.Measures.ClosingDebit.Equal(dec("300")))
	suite.True(group.Measures.ClosingCredit.Equal(dec("-700")))
	suite.True(totals[1].Measures.ClosingDebit.Equal(dec("300")))
	suite.True(totals[0].Measures.ClosingDebit.IsZero())
}

func (suite *BalanceServiceTestSuite) TestAggregate_ClassNineCountsAsBilan() {
	accounts := []domain.AccountMeasures{
		{AccountCode: "101", Measures: measures("1000", "0", "0")},
		{AccountCode: "901", Measures: measures("500", "200", "0")},
		{AccountCode: "601", Measures: measures("0", "40", "0")},
	}
	rows, totals := suite.service.Aggregate(accounts, nil)

	classSum := domain.ZeroMeasures()
	for _, r := range rows {
		if r.Kind == domain.BalanceRowGroup1 {
			classSum = classSum.Add(r.Measures)
		}
	}
	suite.True(classSum.ClosingDebit.Equal(dec("1740")))
	suite.equalMeasures(classSum, totals[2].Measures)
	suite.True(totals[0].Measures.ClosingDebit.Equal(dec("1700")), "901 is counted with the bilan accounts")
	suite.True(totals[1].Measures.ClosingDebit.Equal(dec("40")))
}

func (suite *BalanceServiceTestSuite) TestBuildGeneralBalance() {
	openings := []domain.OpeningBalanceEntry{
		domain.NewOpeningBalanceEntry("C1", "2024", "101", "Capital", "I101", "Share capital", dec("2000"), decimal.Zero),
		domain.NewOpeningBalanceEntry("C1", "2024", "601", "Achats", "I601", "Purchases", dec("1000"), decimal.Zero),
		domain.NewOpeningBalanceEntry("C1", "2024", "521", "Banque", "I521A", "Bank A", dec("10"), dec("4")),
		domain.NewOpeningBalanceEntry("C1", "2024", "521", "Banque", "I521B", "Bank B", dec("20"), decimal.Zero),
	}
	lines := []domain.TransactionRecord{
		txn("601", day(time.January, 10), "500", 0),
		txn("601", day(time.January, 20), "-200", 1),
	}

	report, err := suite.service.BuildGeneralBalance(context.Background(), domain.GeneralBalanceInput{
		CompanyCode:  "C1",
		Period:       fullYear(),
		Openings:     openings,
		Transactions: lines,
		Chart:        []domain.ChartEntry{{Prefix: "60", Label: "Achats et variations de stocks"}},
	})
	suite.Require().NoError(err)
	suite.False(report.Empty)

	var acc601, acc521 domain.BalanceRow
	for _, r := range report.Rows {
		switch r.Label {
		case "601":
			acc601 = r
		case "521":
			acc521 = r
		}
	}
	suite.True(acc601.Measures.OpeningDebit.IsZero(), "gestion opening is ignored")
	suite.True(acc601.Measures.ClosingDebit.Equal(dec("300")))
	suite.True(acc521.Measures.OpeningDebit.Equal(dec("10")), "first opening entry of a code wins")
	suite.True(acc521.Measures.OpeningCredit.Equal(dec("-4")))

	suite.Contains(labelsOf(report.Rows), "60-Achats et variations de stocks")

	suite.Require().Len(report.Details, 4)
	suite.Equal("101", report.Details[0].Label)
	suite.Equal("I521A", report.Details[1].IFRSAccount)
	suite.Equal("I521B", report.Details[2].IFRSAccount)
	suite.Equal("Bank B", report.Details[2].IFRSDesc)
	suite.True(report.Details[2].Measures.ClosingDebit.Equal(dec("20")))
	suite.Equal("I601", report.Details[3].IFRSAccount)
	suite.True(report.Details[3].Measures.PeriodDebit.Equal(dec("500")))
}

func (suite *BalanceServiceTestSuite) TestBuildPartnerBalance() {
	openings := []domain.OpeningBalanceEntry{
		domain.PartnerOpeningEntry("C1", "2024", "C100", "Client A", dec("1200")),
		domain.PartnerOpeningEntry("C1", "2024", "C200", "Client B", dec("-300")),
	}
	pay := txn("411", day(time.September, 9), "-200", 0)
	pay.PartnerID = "C100"

	report, err := suite.service.BuildPartnerBalance(context.Background(), domain.PartnerBalanceInput{
		PartnerType:  domain.PartnerCustomer,
		Period:       fullYear(),
		Openings:     openings,
		Transactions: []domain.TransactionRecord{pay},
	})
	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 2, "every partner is listed")

	a, b := report.Rows[0].Measures, report.Rows[1].Measures
	suite.True(a.OpeningDebit.Equal(dec("1200")))
	suite.True(a.CumulativeCredit.Equal(dec("-200")))
	suite.True(a.ClosingDebit.Equal(dec("1000")))
	suite.True(b.OpeningCredit.Equal(dec("-300")))
	suite.True(b.ClosingCredit.Equal(dec("-300")))

	suite.Equal("Total à Reporter", report.Total.Label)
	suite.equalMeasures(a.Add(b), report.Total.Measures)
}

// equalMeasures compares numerically; decimals with different exponents are not DeepEqual.
func (suite *BalanceServiceTestSuite) equalMeasures(expected, actual domain.BalanceMeasures) {
	suite.T().Helper()
	pairs := [][2]decimal.Decimal{
		{expected.OpeningDebit, actual.OpeningDebit},
		{expected.OpeningCredit, actual.OpeningCredit},
		{expected.PeriodDebit, actual.PeriodDebit},
		{expected.PeriodCredit, actual.PeriodCredit},
		{expected.CumulativeDebit, actual.CumulativeDebit},
		{expected.CumulativeCredit, actual.CumulativeCredit},
		{expected.ClosingDebit, actual.ClosingDebit},
		{expected.ClosingCredit, actual.ClosingCredit},
	}
	for i, p := range pairs {
		suite.True(p[0].Equal(p[1]), "measure %d: expected %s, got %s", i, p[0], p[1])
	}
}

func labelsOf(rows []domain.BalanceRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Label)
	}
	return out
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
