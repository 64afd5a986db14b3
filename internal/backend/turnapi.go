package backend

import (
	"context"
	"fmt"
)

// Roll progression endpoints. Every call returns the next roll progression
// envelope for the team; the roll package decodes it into an action.

// StartRoll begins a new roll for the team.
func (c *Client) StartRoll(ctx context.Context, eventID, teamID string) (map[string]any, error) {
	return c.Post(ctx, fmt.Sprintf("/events/%s/teams/%s/roll", eventID, teamID), nil)
}

// ContinueRoll advances the roll past a step that required no choice, or
// past a shop/dock/star the team declined.
func (c *Client) ContinueRoll(ctx context.Context, eventID, teamID string) (map[string]any, error) {
	return c.Post(ctx, fmt.Sprintf("/events/%s/teams/%s/roll/continue", eventID, teamID), nil)
}

// ChooseDirection picks a branch at a crossroad.
func (c *Client) ChooseDirection(ctx context.Context, eventID, teamID, directionID string) (map[string]any, error) {
	return c.Post(ctx, fmt.Sprintf("/events/%s/teams/%s/roll/crossroad", eventID, teamID), map[string]any{
		"directionId": directionID,
	})
}

// BuyShopItem purchases one item mid-roll. A purchase ends the shop stop;
// the response envelope carries the next progression step.
func (c *Client) BuyShopItem(ctx context.Context, eventID, teamID, itemID string, price int) (map[string]any, error) {
	return c.Post(ctx, fmt.Sprintf("/events/%s/teams/%s/roll/shop", eventID, teamID), map[string]any{
		"action": "buy",
		"itemId": itemID,
		"price":  price,
	})
}

// CharterShip travels to a dock destination for the given cost.
func (c *Client) CharterShip(ctx context.Context, eventID, teamID, destinationID string, cost int) (map[string]any, error) {
	return c.Post(ctx, fmt.Sprintf("/events/%s/teams/%s/roll/dock", eventID, teamID), map[string]any{
		"action":        "charter",
		"destinationId": destinationID,
		"cost":          cost,
	})
}

// StarAction buys the star ("buy") or passes on it ("skip").
func (c *Client) StarAction(ctx context.Context, eventID, teamID, action string, cost int) (map[string]any, error) {
	return c.Post(ctx, fmt.Sprintf("/events/%s/teams/%s/roll/star", eventID, teamID), map[string]any{
		"action": action,
		"cost":   cost,
	})
}

// ChooseIsland picks the starting island on a team's first roll.
func (c *Client) ChooseIsland(ctx context.Context, eventID, teamID, islandID string) (map[string]any, error) {
	return c.Post(ctx, fmt.Sprintf("/events/%s/teams/%s/roll/island", eventID, teamID), map[string]any{
		"islandId": islandID,
	})
}

// Read-only endpoints consumed by the sibling commands.

// ActiveEvents lists events; callers use the first entry as the active one.
func (c *Client) ActiveEvents(ctx context.Context) (map[string]any, error) {
	return c.Get(ctx, "/events")
}

// UserTeam resolves a Discord user to their team within an event.
func (c *Client) UserTeam(ctx context.Context, eventID, discordID string) (map[string]any, error) {
	return c.Get(ctx, fmt.Sprintf("/events/%s/users/%s/team", eventID, discordID))
}

// TeamStats returns the team's stars, coins, members, location, and effects.
func (c *Client) TeamStats(ctx context.Context, eventID, teamID string) (map[string]any, error) {
	return c.Get(ctx, fmt.Sprintf("/events/%s/teams/%s/stats", eventID, teamID))
}

// TileProgress returns the team's current tile and challenge checklist.
func (c *Client) TileProgress(ctx context.Context, eventID, teamID string) (map[string]any, error) {
	return c.Get(ctx, fmt.Sprintf("/events/%s/teams/%s/tile-progress", eventID, teamID))
}

// Inventory lists the team's held items.
func (c *Client) Inventory(ctx context.Context, eventID, teamID string) (map[string]any, error) {
	return c.Get(ctx, fmt.Sprintf("/events/%s/teams/%s/items/inventory", eventID, teamID))
}

// UseItem consumes one inventory item.
func (c *Client) UseItem(ctx context.Context, eventID, teamID, itemID string) (map[string]any, error) {
	return c.Post(ctx, fmt.Sprintf("/events/%s/teams/%s/items/use", eventID, teamID), map[string]any{
		"itemId": itemID,
	})
}
