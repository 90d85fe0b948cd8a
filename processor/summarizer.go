package processor

import (
	"sort"

	"transferflow/models"
)

const topClubsLimit = 10

// Summarize computes the aggregate report over a complete transfer table.
// An empty table short-circuits to a zero report so no aggregate ever runs
// over nothing. Records with a null fee stay in the table (and in the
// position counts and month buckets) but contribute nothing to fee
// statistics.
func Summarize(table []models.FlatTransfer) models.SummaryReport {
	if len(table) == 0 {
		return models.SummaryReport{}
	}

	report := models.SummaryReport{
		TotalTransfers:      len(table),
		TransfersByPosition: make(map[string]int, len(table)),
		TransfersByMonth:    make(map[int]float64),
	}

	fees := make([]float64, 0, len(table))
	maxIdx := -1
	for i, t := range table {
		report.TransfersByPosition[t.PlayerPosition]++

		var fee float64
		if t.TransferFee != nil {
			fee = *t.TransferFee
			fees = append(fees, fee)
			report.TotalSpending += fee

			// Strictly greater keeps the first occurrence on ties.
			if maxIdx == -1 || fee > *table[maxIdx].TransferFee {
				maxIdx = i
			}
		}

		// A null fee still opens the month bucket, contributing zero.
		if t.TransferDate != nil {
			report.TransfersByMonth[t.TransferDate.Month()] += fee
		}
	}

	if len(fees) > 0 {
		report.AverageFee = report.TotalSpending / float64(len(fees))
		report.MedianFee = median(fees)
	}

	if maxIdx >= 0 {
		top := table[maxIdx]
		report.MostExpensive = models.MostExpensiveTransfer{
			Player:   top.PlayerName,
			Fee:      *top.TransferFee,
			FromClub: top.FromClubName,
			ToClub:   top.ToClubName,
		}
	}

	report.TopSpendingClubs = topClubs(table, func(t models.FlatTransfer) string { return t.ToClubName })
	report.TopSellingClubs = topClubs(table, func(t models.FlatTransfer) string { return t.FromClubName })

	return report
}

// median expects at least one fee; the input slice is reordered in place.
func median(fees []float64) float64 {
	sort.Float64s(fees)
	mid := len(fees) / 2
	if len(fees)%2 == 1 {
		return fees[mid]
	}
	return (fees[mid-1] + fees[mid]) / 2
}

// topClubs sums fees per club selected by key and returns the ten largest
// totals in descending order. Ties keep first-seen club order, so the
// ranking is deterministic for a given table. A club whose transfers all
// have null fees still appears with a zero total.
func topClubs(table []models.FlatTransfer, key func(models.FlatTransfer) string) []models.ClubTotal {
	sums := make(map[string]float64, len(table))
	order := make([]string, 0, len(table))

	for _, t := range table {
		club := key(t)
		if _, seen := sums[club]; !seen {
			sums[club] = 0
			order = append(order, club)
		}
		if t.TransferFee != nil {
			sums[club] += *t.TransferFee
		}
	}

	totals := make([]models.ClubTotal, 0, len(order))
	for _, club := range order {
		totals = append(totals, models.ClubTotal{Club: club, Total: sums[club]})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})

	if len(totals) > topClubsLimit {
		totals = totals[:topClubsLimit]
	}
	return totals
}
