package order

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Status is the outcome of a validation attempt.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusError   Status = "Error"
)

// InvalidReason says why an item was rejected. An item carries exactly one
// reason: validation stops at the first failing check.
type InvalidReason string

const (
	ReasonNotOnMenu           InvalidReason = "Item is not on the menu"
	ReasonOutOfStock          InvalidReason = "Item is currently out of stock"
	ReasonModsNotAllowed      InvalidReason = "This item does not allow modifications"
	ReasonInvalidModification InvalidReason = "There are invalid modifications in the order"
)

// ValidItem is an order line that passed every check.
type ValidItem struct {
	Name               string   `json:"name"`
	ValidQuantity      int      `json:"valid_quantity"`
	ValidModifications []string `json:"valid_modifications"`
}

// InvalidItem is a rejected order line. Which optional fields are populated
// depends on the reason: OUT_OF_STOCK always carries both quantities, the two
// modification reasons always carry the requested quantity as valid.
type InvalidItem struct {
	Name               string        `json:"name"`
	Reason             InvalidReason `json:"reason"`
	ValidQuantity      *int          `json:"valid_quantity,omitempty"`
	InvalidQuantity    *int          `json:"invalid_quantity,omitempty"`
	ValidModifications []string      `json:"valid_modifications"`
	InvalidMods        []string      `json:"invalid_modifications,omitempty"`
}

// Suggestion is a remediation for one invalid item. FixedItem is nil when no
// safe repair exists.
type Suggestion struct {
	OriginalItem InvalidItem `json:"original_item"`
	Suggestion   string      `json:"suggestion"`
	FixedItem    *Item       `json:"fixed_item,omitempty"`
}

// SuggestionsReply is the structured shape expected back from the reasoning
// engine when it is asked for remediations.
type SuggestionsReply struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Detail is the variant payload of a ValidationResult: exactly one of
// SuccessDetail or ErrorDetail.
type Detail interface {
	isDetail()
}

// SuccessDetail reports a fully valid order.
type SuccessDetail struct {
	ValidRoom  string      `json:"valid_room"`
	ValidItems []ValidItem `json:"valid_items"`
}

func (SuccessDetail) isDetail() {}

// ErrorDetail reports a failed validation. Exactly one of ValidRoom and
// InvalidRoom is set; NewErrorDetail guarantees this and Result construction
// re-checks it.
type ErrorDetail struct {
	ValidRoom    *string       `json:"valid_room,omitempty"`
	InvalidRoom  *string       `json:"invalid_room,omitempty"`
	ValidItems   []ValidItem   `json:"valid_items"`
	InvalidItems []InvalidItem `json:"invalid_items"`
}

func (ErrorDetail) isDetail() {}

// NewErrorDetail builds an ErrorDetail with the room classified on exactly
// one side.
func NewErrorDetail(room int, roomValid bool, valid []ValidItem, invalid []InvalidItem) ErrorDetail {
	r := strconv.Itoa(room)
	d := ErrorDetail{ValidItems: valid, InvalidItems: invalid}
	if roomValid {
		d.ValidRoom = &r
	} else {
		d.InvalidRoom = &r
	}
	return d
}

func (d ErrorDetail) check() error {
	if d.ValidRoom != nil && d.InvalidRoom != nil {
		return fmt.Errorf("%w: validation detail has both valid_room and invalid_room", ErrContract)
	}
	if d.ValidRoom == nil && d.InvalidRoom == nil {
		return fmt.Errorf("%w: validation detail has neither valid_room nor invalid_room", ErrContract)
	}
	return nil
}

// Result is the structured verdict of validating one order. TotalPrice and
// PreparationTime are populated only on success. Suggestions are appended on
// the error path when enrichment produced any.
type Result struct {
	Status          Status       `json:"status"`
	Response        string       `json:"response"`
	Details         Detail       `json:"details"`
	TotalPrice      string       `json:"total_price,omitempty"`
	PreparationTime int          `json:"preparation_time,omitempty"`
	Suggestions     []Suggestion `json:"suggestions,omitempty"`
}

// NewSuccessResult builds a SUCCESS verdict.
func NewSuccessResult(response string, detail SuccessDetail, totalPrice string, prepMinutes int) Result {
	return Result{
		Status:          StatusSuccess,
		Response:        response,
		Details:         detail,
		TotalPrice:      totalPrice,
		PreparationTime: prepMinutes,
	}
}

// NewErrorResult builds an ERROR verdict, rejecting details that violate the
// room-exclusivity invariant.
func NewErrorResult(response string, detail ErrorDetail) (Result, error) {
	if err := detail.check(); err != nil {
		return Result{}, err
	}
	return Result{
		Status:   StatusError,
		Response: response,
		Details:  detail,
	}, nil
}

// JSON renders the result for a tool message. Marshal failures are contract
// errors: every Result field is marshalable by construction.
func (r Result) JSON() string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"status":%q,"response":%q}`, r.Status, r.Response)
	}
	return string(b)
}

// IntPtr is a small helper for the optional quantity fields.
func IntPtr(v int) *int { return &v }
