package models

// Account is a row of the accounts table.
type Account struct {
	AccountID     string  `db:"account_id"`
	Code          string  `db:"code"`
	Name          string  `db:"name"`
	AccountType   string  `db:"account_type"`
	NormalBalance string  `db:"normal_balance"`
	Subtype       *string `db:"subtype"` // Nullable
	Description   *string `db:"description"`
	CurrencyCode  string  `db:"currency_code"`
	IsActive      bool    `db:"is_active"`
	AuditFields
}
