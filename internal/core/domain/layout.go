package domain

// LedgerField is the canonical name of a ledger column, independent of presentation.
type LedgerField string

const (
	FieldCompanyCode     LedgerField = "company_code"
	FieldCompanyName     LedgerField = "company_name"
	FieldFiscalYear      LedgerField = "fiscal_year"
	FieldAccount         LedgerField = "account"
	FieldAccountDesc     LedgerField = "account_desc"
	FieldIFRSAccount     LedgerField = "ifrs_account"
	FieldIFRSAccountDesc LedgerField = "ifrs_account_desc"
	FieldDate            LedgerField = "date"
	FieldDocumentType    LedgerField = "document_type"
	FieldDesignation     LedgerField = "designation"
	FieldDocumentNumber  LedgerField = "document_number"
	FieldReference       LedgerField = "reference"
	FieldDebit           LedgerField = "debit"
	FieldCredit          LedgerField = "credit"
	FieldBalance         LedgerField = "balance"
	FieldLabel           LedgerField = "label"
	FieldEntryDate       LedgerField = "entry_date"
	FieldEntryTime       LedgerField = "entry_time"
	FieldUserID          LedgerField = "user_id"
	FieldOffsetIFRS      LedgerField = "offset_ifrs"
	FieldOffsetIFRSDesc  LedgerField = "offset_ifrs_desc"
	FieldOffsetSyscohada LedgerField = "offset_syscohada"
	FieldOffsetSyscoDesc LedgerField = "offset_syscohada_desc"
	FieldPartnerID       LedgerField = "partner_id"
	FieldPartnerName     LedgerField = "partner_name"
)

// LayoutColumn is one projected column: which canonical field, under which header, and whether it is shown.
type LayoutColumn struct {
	Field    LedgerField `json:"field" mapstructure:"field"`
	Label    string      `json:"label" mapstructure:"label"`
	Included bool        `json:"included" mapstructure:"included"`
}

// Layout is an ordered column projection applied at render time.
type Layout struct {
	Name    string         `json:"name" mapstructure:"name"`
	Columns []LayoutColumn `json:"columns" mapstructure:"columns"`
}

// Visible returns the included columns in order.
func (l Layout) Visible() []LayoutColumn {
	out := make([]LayoutColumn, 0, len(l.Columns))
	for _, c := range l.Columns {
		if c.Included {
			out = append(out, c)
		}
	}
	return out
}

// LayoutProfile holds the column projections of one business-unit layout.
type LayoutProfile struct {
	Name          string `json:"name"`
	GeneralLedger Layout `json:"generalLedger"`
	PartnerLedger Layout `json:"partnerLedger"`
}

// DefaultGeneralLedgerLayout is the column order of the general ledger sheets.
func DefaultGeneralLedgerLayout() Layout {
	return Layout{
		Name: "default",
		Columns: []LayoutColumn{
			{FieldCompanyCode, "Code Entreprise", true},
			{FieldCompanyName, "Nom Entreprise", true},
			{FieldFiscalYear, "Année Fiscale", true},
			{FieldAccount, "Compte SYSCOHADA", true},
			{FieldAccountDesc, "Compte SYSCOHADA Desc", true},
			{FieldIFRSAccount, "Compte IFRS", true},
			{FieldIFRSAccountDesc, "Desc Compte IFRS", true},
			{FieldDate, "Date", true},
			{FieldDocumentType, "Type de pièce", true},
			{FieldDesignation, "Désignation Type de pièce", true},
			{FieldDocumentNumber, "Pièce", true},
			{FieldReference, "Référence", true},
			{FieldDebit, "Débit", true},
			{FieldCredit, "Crédit", true},
			{FieldBalance, "Solde", true},
			{FieldLabel, "Libellé", true},
			{FieldEntryDate, "Date de Saisie", true},
			{FieldEntryTime, "Heure de Saisie", true},
			{FieldUserID, "Utilisateur SAP", true},
			{FieldOffsetIFRS, "Contrepartie IFRS", true},
			{FieldOffsetIFRSDesc, "Contrepartie IFRS Desc", true},
			{FieldOffsetSyscohada, "Contrepartie SYSCOHADA", true},
			{FieldOffsetSyscoDesc, "Contrepartie SYSCOHADA Desc", true},
		},
	}
}

// DefaultPartnerLedgerLayout is the column order of the vendor and customer sub-ledger sheets.
func DefaultPartnerLedgerLayout() Layout {
	return Layout{
		Name: "default",
		Columns: []LayoutColumn{
			{FieldCompanyCode, "Code Entreprise", true},
			{FieldCompanyName, "Nom Entreprise", true},
			{FieldFiscalYear, "Année Fiscale", true},
			{FieldDate, "Date", true},
			{FieldDocumentType, "Type de pièce", true},
			{FieldDesignation, "Désignation Type de pièce", true},
			{FieldDocumentNumber, "Pièce", true},
			{FieldReference, "Référence", true},
			{FieldDebit, "Débit", true},
			{FieldCredit, "Crédit", true},
			{FieldBalance, "Solde", true},
			{FieldLabel, "Libellé", true},
			{FieldOffsetIFRS, "Contrepartie IFRS", true},
			{FieldOffsetIFRSDesc, "Contrepartie IFRS Desc", true},
		},
	}
}
