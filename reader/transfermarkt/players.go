package transfermarkt

import (
	"context"
	"strconv"

	"transferflow/logger"
	"transferflow/models"
)

// FetchPlayerDetails retrieves the detail document for a single player.
// Failures degrade to an empty map.
func (c *Client) FetchPlayerDetails(ctx context.Context, playerID string) map[string]interface{} {
	log := c.log.WithComponent("transfermarkt_client").WithFields(logger.Fields{
		"player_id": playerID,
		"operation": "fetch_player_details",
	})

	details := map[string]interface{}{}
	if err := c.getJSON(ctx, "/players/"+playerID, nil, &details); err != nil {
		log.WithError(err).Error("failed to fetch player details")
		return map[string]interface{}{}
	}
	return details
}

// EnrichTransfers fills player fields missing from the transfer listing from
// the player-details endpoint, one sequential lookup per player with an id.
// Records stay untouched when the lookup yields nothing.
func (c *Client) EnrichTransfers(ctx context.Context, transfers []models.RawTransfer) []models.RawTransfer {
	log := c.log.WithComponent("transfermarkt_client").WithFields(logger.Fields{
		"operation": "enrich_transfers",
	})

	enriched := 0
	for i := range transfers {
		player := transfers[i].Player
		if player == nil {
			continue
		}
		if !needsEnrichment(*player) {
			continue
		}
		id := playerIDString(player.ID)
		if id == "" {
			continue
		}

		details := c.FetchPlayerDetails(ctx, id)
		if len(details) == 0 {
			continue
		}
		fillPlayer(player, details)
		enriched++
	}

	if enriched > 0 {
		log.WithFields(logger.Fields{"enriched_players": enriched}).Info("player details merged")
	}
	return transfers
}

// playerIDString renders the loosely-typed player id for the details URL.
// JSON decoding delivers numeric ids as float64, so they are formatted
// without an exponent; anything else yields "" and skips the lookup.
func playerIDString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return ""
	}
}

func needsEnrichment(p models.RawPlayer) bool {
	return p.Age == nil || p.MarketValue == nil || p.Position == "" || p.Nationality == ""
}

func fillPlayer(p *models.RawPlayer, details map[string]interface{}) {
	if p.Age == nil {
		p.Age = details["age"]
	}
	if p.MarketValue == nil {
		p.MarketValue = details["market_value"]
	}
	if p.Position == "" {
		if v, ok := details["position"].(string); ok {
			p.Position = v
		}
	}
	if p.Nationality == "" {
		if v, ok := details["nationality"].(string); ok {
			p.Nationality = v
		}
	}
	if p.Name == "" {
		if v, ok := details["name"].(string); ok {
			p.Name = v
		}
	}
}
