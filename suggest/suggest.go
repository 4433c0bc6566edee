// Package suggest implements the suggestion enrichment service: remediations
// for invalid order items, deterministic where possible and reasoning-engine
// backed otherwise.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"roomservice/catalog"
	"roomservice/order"
)

// Engine is the structured-output reasoning capability used for the
// non-deterministic suggestions.
type Engine interface {
	InferSuggestions(ctx context.Context, prompt string) (order.SuggestionsReply, error)
}

// Service proposes remediations for invalid order items.
type Service struct {
	catalog *catalog.Catalog
	engine  Engine
}

// NewService creates a suggestion service backed by the given catalog and
// structured reasoning engine.
func NewService(cat *catalog.Catalog, engine Engine) *Service {
	return &Service{catalog: cat, engine: engine}
}

// Suggest produces one suggestion per invalid item where possible. Items
// rejected solely for disallowed modifications get a deterministic repair with
// no engine call; the rest are batched into a single structured engine call.
// A malformed engine reply empties the whole call: never partial output.
func (s *Service) Suggest(ctx context.Context, invalid []order.InvalidItem) ([]order.Suggestion, error) {
	if len(invalid) == 0 {
		return nil, nil
	}

	var modsNotAllowed, others []order.InvalidItem
	for _, it := range invalid {
		if it.Reason == order.ReasonModsNotAllowed {
			modsNotAllowed = append(modsNotAllowed, it)
		} else {
			others = append(others, it)
		}
	}

	var suggestions []order.Suggestion
	for _, it := range modsNotAllowed {
		if it.ValidQuantity == nil {
			// Validation always records the requested quantity for this
			// reason, so this is defensive.
			slog.Warn("SUGGEST: Item with disallowed modifications has no valid quantity", "item", it.Name)
			continue
		}
		suggestions = append(suggestions, order.Suggestion{
			OriginalItem: it,
			Suggestion:   "This item does not allow modifications, so please remove the modifications.",
			FixedItem: &order.Item{
				Name:          it.Name,
				Quantity:      *it.ValidQuantity,
				Modifications: []string{},
			},
		})
	}

	if len(others) > 0 {
		slog.Info("SUGGEST: Generating suggestions", "invalid_items", len(others))
		reply, err := s.engine.InferSuggestions(ctx, s.buildPrompt(others))
		if err != nil {
			return nil, fmt.Errorf("suggestion inference failed: %w", err)
		}
		if len(reply.Suggestions) != len(others) {
			return nil, fmt.Errorf("malformed suggestions reply: got %d suggestions for %d items", len(reply.Suggestions), len(others))
		}
		suggestions = append(suggestions, reply.Suggestions...)
	}

	return suggestions, nil
}

func (s *Service) buildPrompt(invalid []order.InvalidItem) string {
	items := make([]string, 0, len(invalid))
	for _, it := range invalid {
		b, _ := json.MarshalIndent(it, "", "  ")
		items = append(items, string(b))
	}

	return fmt.Sprintf(`You are a senior room service manager at a 5-star hotel. Your employees are responsible for taking orders from guests and ensuring they are processed correctly.

The menu items are as follows:

<menu_items>
%s
</menu_items>

You will be given a series of invalid order items. Please suggest a valid alternative for each item. These suggestions will be given to the employee who took the order.

If no suggestions are possible, mark that item as "No suggestions available" and omit the fixed item.

The "reason" field in the invalid item will tell you why the item is invalid.
- If an item is not on the menu, you should suggest the closest menu item of the same category.
- If an item is out of stock, you should suggest the closest menu item that is in stock of the same category.
- If there are invalid modifications, you should suggest the closest modifications for that menu item or suggest no modifications.

Return JSON of the shape {"suggestions": [{"original_item": ..., "suggestion": string, "fixed_item": {"name": string, "quantity": int, "modifications": [string]} | omitted}]} with exactly one suggestion per invalid item, in order.

Here are the invalid items:

<invalid_items>
%s
</invalid_items>`, s.catalog.Render(), strings.Join(items, "\n"))
}
