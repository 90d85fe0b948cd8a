package models

// MostExpensiveTransfer identifies the single record with the highest fee.
// All fields stay at their zero values when no record carries a fee.
type MostExpensiveTransfer struct {
	Player   string  `json:"player"`
	Fee      float64 `json:"fee"`
	FromClub string  `json:"from_club"`
	ToClub   string  `json:"to_club"`
}

// ClubTotal is one club's summed transfer fees. Rankings are serialized as
// ordered slices rather than maps so the ranking order survives encoding.
type ClubTotal struct {
	Club  string  `json:"club"`
	Total float64 `json:"total"`
}

// SummaryReport holds the aggregate statistics computed once over a complete
// transfer table. It is never mutated after creation and never merged across
// runs. Fee amounts are in millions of currency units.
type SummaryReport struct {
	TotalTransfers      int                   `json:"total_transfers"`
	TotalSpending       float64               `json:"total_spending"`
	AverageFee          float64               `json:"average_fee"`
	MedianFee           float64               `json:"median_fee"`
	MostExpensive       MostExpensiveTransfer `json:"most_expensive_transfer"`
	TransfersByPosition map[string]int        `json:"transfers_by_position"`
	TransfersByMonth    map[int]float64       `json:"transfers_by_month"`
	TopSpendingClubs    []ClubTotal           `json:"top_spending_clubs"`
	TopSellingClubs     []ClubTotal           `json:"top_selling_clubs"`
}
