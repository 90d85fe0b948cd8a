package models

import (
	"time"
)

// RawPlayer is the player block of an API transfer record. Numeric-looking
// leaves (id, age, market value) arrive as strings or numbers depending on
// the upstream scraper run, so they are kept untyped until coercion.
type RawPlayer struct {
	ID          any    `json:"id"`
	Name        string `json:"name"`
	Age         any    `json:"age"`
	Position    string `json:"position"`
	Nationality string `json:"nationality"`
	MarketValue any    `json:"market_value"`
}

// RawClub is the club block of an API transfer record.
type RawClub struct {
	ID     any    `json:"id"`
	Name   string `json:"name"`
	League string `json:"league"`
}

// RawTransfer represents one transfer record as returned by the API. Any of
// the nested blocks may be missing entirely.
type RawTransfer struct {
	Player           *RawPlayer `json:"player"`
	FromClub         *RawClub   `json:"from_club"`
	ToClub           *RawClub   `json:"to_club"`
	Fee              string     `json:"fee"`
	FeeCurrency      string     `json:"fee_currency"`
	Date             string     `json:"date"`
	Type             string     `json:"type"`
	ContractDuration string     `json:"contract_duration"`
	Season           string     `json:"season"`
}

// PlayerBlock returns the player block, substituting an empty block when the
// record carries none.
func (t RawTransfer) PlayerBlock() RawPlayer {
	if t.Player == nil {
		return RawPlayer{}
	}
	return *t.Player
}

// FromClubBlock returns the selling-club block, empty when absent.
func (t RawTransfer) FromClubBlock() RawClub {
	if t.FromClub == nil {
		return RawClub{}
	}
	return *t.FromClub
}

// ToClubBlock returns the buying-club block, empty when absent.
func (t RawTransfer) ToClubBlock() RawClub {
	if t.ToClub == nil {
		return RawClub{}
	}
	return *t.ToClub
}

// TransfersResponse is the envelope returned by the /transfers endpoint.
type TransfersResponse struct {
	Transfers []RawTransfer `json:"transfers"`
}

// FlatTransfer is one normalized row of the transfer table. The field set is
// identical for every record regardless of which source fields were present,
// so the table always has a uniform schema. Pointer fields serialize as null
// when the source value could not be coerced.
type FlatTransfer struct {
	PlayerID            string   `json:"player_id"`
	PlayerName          string   `json:"player_name"`
	PlayerAge           *int     `json:"player_age"`
	PlayerPosition      string   `json:"player_position"`
	PlayerNationality   string   `json:"player_nationality"`
	FromClubID          string   `json:"from_club_id"`
	FromClubName        string   `json:"from_club_name"`
	FromClubLeague      string   `json:"from_club_league"`
	ToClubID            string   `json:"to_club_id"`
	ToClubName          string   `json:"to_club_name"`
	ToClubLeague        string   `json:"to_club_league"`
	TransferFee         *float64 `json:"transfer_fee"`
	TransferFeeCurrency string   `json:"transfer_fee_currency"`
	TransferDate        *Date    `json:"transfer_date"`
	TransferType        string   `json:"transfer_type"`
	ContractDuration    string   `json:"contract_duration"`
	Season              string   `json:"season"`
	MarketValue         *float64 `json:"market_value"`
}

// Snapshot is the persisted output document of a single run.
type Snapshot struct {
	Metadata  SnapshotMetadata `json:"metadata"`
	Summary   SummaryReport    `json:"summary"`
	Transfers []FlatTransfer   `json:"transfers"`
}

// SnapshotMetadata describes the run that produced a snapshot.
type SnapshotMetadata struct {
	SnapshotID   string    `json:"snapshot_id"`
	GeneratedAt  time.Time `json:"generated_at"`
	League       string    `json:"league"`
	Season       string    `json:"season"`
	TotalRecords int       `json:"total_records"`
}
