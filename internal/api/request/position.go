package request

// CreatePositionRequest is the body of a new ledger record. Dates are
// YYYY-MM-DD strings; DateSold and SharesSold are optional and must be given
// together.
type CreatePositionRequest struct {
	Currency     string   `json:"currency"`
	Owner        string   `json:"owner"`
	StockType    string   `json:"stockType"`
	Account      string   `json:"account"`
	Ticker       string   `json:"ticker"`
	DateBought   string   `json:"dateBought"`
	SharesBought float64  `json:"sharesBought"`
	DateSold     *string  `json:"dateSold,omitempty"`
	SharesSold   *float64 `json:"sharesSold,omitempty"`
}

// CreateSaleRequest records a sale tranche against an existing buy record.
type CreateSaleRequest struct {
	DateSold   string  `json:"dateSold"`
	SharesSold float64 `json:"sharesSold"`
}
