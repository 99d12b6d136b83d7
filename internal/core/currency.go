package core

// Currencies is the supported currency registry, in display order.
var Currencies = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹"},
}

// LookupCurrency resolves a currency by code.
func LookupCurrency(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// DefaultCurrency is the seed currency for a fresh ledger.
func DefaultCurrency() Currency {
	return Currencies[0]
}

// DefaultCategories returns the category set a fresh ledger starts with.
// Stable ids so budgets referencing them survive an app reset.
func DefaultCategories() []Category {
	return []Category{
		{ID: "clothing", Name: "Clothing", Color: "#FF6B6B", Icon: "clothing"},
		{ID: "dining", Name: "Dining", Color: "#4ECDC4", Icon: "dining"},
		{ID: "education", Name: "Education", Color: "#45B7D1", Icon: "education"},
		{ID: "entertainment", Name: "Entertainment", Color: "#96CEB4", Icon: "entertainment"},
		{ID: "groceries", Name: "Groceries", Color: "#4CAF50", Icon: "groceries"},
		{ID: "health", Name: "Health", Color: "#FF6B6B", Icon: "health"},
		{ID: "personal-care", Name: "Personal Care", Color: "#FFD93D", Icon: "personal-care"},
		{ID: "rent", Name: "Rent", Color: "#6C5B7B", Icon: "rent"},
		{ID: "subscriptions", Name: "Subscriptions", Color: "#C06C84", Icon: "subscriptions"},
		{ID: "transport", Name: "Transport", Color: "#355C7D", Icon: "transport"},
		{ID: "travel", Name: "Travel", Color: "#F8B195", Icon: "travel"},
		{ID: "utilities", Name: "Utilities", Color: "#F67280", Icon: "utilities"},
	}
}

// NewCashAccount returns the default deposit/withdrawal account seeded on
// first run and after an app reset.
func NewCashAccount(currencyCode string) Account {
	return Account{
		ID:           "cash",
		Name:         "Cash",
		Type:         AccountCash,
		Balance:      Money{},
		CurrencyCode: currencyCode,
	}
}
