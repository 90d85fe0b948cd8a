package transfermarkt

import (
	"context"
	"net/url"

	"transferflow/logger"
	"transferflow/models"
)

// FetchTransfers retrieves the transfer records for a league and season. Any
// transport or decode failure degrades to an empty result; the pipeline only
// ever distinguishes "empty" from "populated" input.
func (c *Client) FetchTransfers(ctx context.Context, leagueID, season string) []models.RawTransfer {
	log := c.log.WithComponent("transfermarkt_client").WithFields(logger.Fields{
		"league_id": leagueID,
		"season":    season,
		"operation": "fetch_transfers",
	})

	log.Info("fetching transfers")

	query := url.Values{}
	query.Set("league_id", leagueID)
	query.Set("season", season)

	var resp models.TransfersResponse
	if err := c.getJSON(ctx, "/transfers", query, &resp); err != nil {
		log.WithError(err).Error("failed to fetch transfer data")
		return nil
	}

	log.WithFields(logger.Fields{"record_count": len(resp.Transfers)}).Info("transfers fetched")
	logger.LogDataFlowEntry(log, "transfermarkt_api", "normalizer", len(resp.Transfers), "raw_transfers")

	return resp.Transfers
}
