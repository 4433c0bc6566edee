// Package validation implements the order validation engine: a deterministic,
// side-effect-free check of a candidate order against the menu catalog and the
// hotel room scheme.
package validation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"roomservice/catalog"
	"roomservice/order"
)

// Suggester proposes remediations for invalid items. A failure here degrades
// to "no suggestions"; it never fails validation.
type Suggester interface {
	Suggest(ctx context.Context, invalid []order.InvalidItem) ([]order.Suggestion, error)
}

// Validator checks orders against a catalog. The suggester is optional.
type Validator struct {
	catalog   *catalog.Catalog
	suggester Suggester
}

// NewValidator creates a validator. Pass a nil suggester to disable enrichment.
func NewValidator(cat *catalog.Catalog, suggester Suggester) *Validator {
	return &Validator{catalog: cat, suggester: suggester}
}

// ValidRoom reports whether a room number in [100,399] names an existing
// room. Rooms 00-20 exist on each of the three floors; the room number is the
// floor times 100 plus the unit on that floor.
func (v *Validator) ValidRoom(room int) (bool, error) {
	if room < 100 || room > 399 {
		// The Order construction contract already bounds the room, so a value
		// outside the range means a caller bug, not user input.
		return false, fmt.Errorf("%w: room %d outside [100,399]", order.ErrContract, room)
	}
	unit := room % 100
	return unit <= 20, nil
}

// validateItem checks one order line against the catalog in a fixed order:
// existence, stock, modification policy, modification validity. The first
// failing check wins; an item never carries more than one reason.
func (v *Validator) validateItem(it order.Item) (*order.ValidItem, *order.InvalidItem) {
	menuItem, ok := v.catalog.Get(it.Name)
	if !ok {
		return nil, &order.InvalidItem{
			Name:   it.Name,
			Reason: order.ReasonNotOnMenu,
		}
	}

	if it.Quantity > menuItem.AvailableQuantity {
		return nil, &order.InvalidItem{
			Name:            it.Name,
			Reason:          order.ReasonOutOfStock,
			ValidQuantity:   order.IntPtr(menuItem.AvailableQuantity),
			InvalidQuantity: order.IntPtr(it.Quantity - menuItem.AvailableQuantity),
		}
	}

	if len(it.Modifications) > 0 && !menuItem.ModificationsAllowed {
		return nil, &order.InvalidItem{
			Name:               it.Name,
			Reason:             order.ReasonModsNotAllowed,
			ValidQuantity:      order.IntPtr(it.Quantity),
			ValidModifications: []string{},
			InvalidMods:        it.Modifications,
		}
	}

	if len(it.Modifications) > 0 {
		allowed := make(map[string]bool, len(menuItem.AvailableModifications))
		for _, m := range menuItem.AvailableModifications {
			allowed[m] = true
		}
		var valid, invalid []string
		for _, m := range it.Modifications {
			if allowed[m] {
				valid = append(valid, m)
			} else {
				invalid = append(invalid, m)
			}
		}
		if len(invalid) > 0 {
			return nil, &order.InvalidItem{
				Name:               it.Name,
				Reason:             order.ReasonInvalidModification,
				ValidQuantity:      order.IntPtr(it.Quantity),
				ValidModifications: valid,
				InvalidMods:        invalid,
			}
		}
	}

	return &order.ValidItem{
		Name:               it.Name,
		ValidQuantity:      it.Quantity,
		ValidModifications: it.Modifications,
	}, nil
}

// Validate checks the whole order. The order is SUCCESS iff the room is valid
// and every item is valid; any single failure routes the whole order to ERROR.
// The returned error is non-nil only for contract violations.
func (v *Validator) Validate(ctx context.Context, o order.Order) (order.Result, error) {
	slog.Info("VALIDATOR: Validating order", "room", o.Room, "items", len(o.Items))

	roomValid, err := v.ValidRoom(o.Room)
	if err != nil {
		return order.Result{}, err
	}

	var validItems []order.ValidItem
	var invalidItems []order.InvalidItem
	for _, it := range o.Items {
		valid, invalid := v.validateItem(it)
		if valid != nil {
			validItems = append(validItems, *valid)
		} else {
			invalidItems = append(invalidItems, *invalid)
		}
	}

	if roomValid && len(invalidItems) == 0 {
		return v.successResult(o, validItems)
	}
	return v.errorResult(ctx, o, roomValid, validItems, invalidItems)
}

func (v *Validator) successResult(o order.Order, validItems []order.ValidItem) (order.Result, error) {
	accepted := make([]order.Item, 0, len(validItems))
	for _, it := range validItems {
		accepted = append(accepted, order.Item{Name: it.Name, Quantity: it.ValidQuantity})
	}
	totalPrice, prepTime, err := v.catalog.Totals(accepted)
	if err != nil {
		// Every valid item came from the catalog, so a lookup miss here is a bug.
		return order.Result{}, fmt.Errorf("%w: %v", order.ErrContract, err)
	}

	summaries := make([]string, 0, len(validItems))
	for _, it := range validItems {
		s := fmt.Sprintf("%d %s", it.ValidQuantity, it.Name)
		if len(it.ValidModifications) > 0 {
			s += " with " + strings.Join(it.ValidModifications, ", ")
		}
		summaries = append(summaries, s)
	}

	response := fmt.Sprintf(
		"The requested order of %s, will cost %s and can be prepared in approximately %d minutes. "+
			"Inform the user of this and request their confirmation to place this order. "+
			"The `order_placer` tool may be used to place this order after confirmation.",
		strings.Join(summaries, ", "), totalPrice, prepTime,
	)

	detail := order.SuccessDetail{
		ValidRoom:  fmt.Sprintf("%d", o.Room),
		ValidItems: validItems,
	}
	return order.NewSuccessResult(response, detail, totalPrice, prepTime), nil
}

func (v *Validator) errorResult(ctx context.Context, o order.Order, roomValid bool, validItems []order.ValidItem, invalidItems []order.InvalidItem) (order.Result, error) {
	var problems, resolutions []string
	if !roomValid {
		problems = append(problems, "Room number is invalid")
		resolutions = append(resolutions, "clarify the room number")
	}
	if len(invalidItems) > 0 {
		problems = append(problems, "Some requested items cannot be prepared")
		resolutions = append(resolutions, "clarify the items they would like to order")
	}
	response := fmt.Sprintf("%s. Please ask the user to %s.",
		strings.Join(problems, ". "), strings.Join(resolutions, " and "))

	detail := order.NewErrorDetail(o.Room, roomValid, validItems, invalidItems)
	result, err := order.NewErrorResult(response, detail)
	if err != nil {
		return order.Result{}, err
	}

	if v.suggester != nil && len(invalidItems) > 0 {
		suggestions, serr := v.suggester.Suggest(ctx, invalidItems)
		if serr != nil {
			slog.Error("VALIDATOR: Suggestion enrichment failed, returning result unsuggested", "error", serr)
		} else if len(suggestions) > 0 {
			result.Suggestions = suggestions
			result.Response += " Suggestions for the invalid items are included in this result; relay them to the user."
		}
	}

	return result, nil
}
