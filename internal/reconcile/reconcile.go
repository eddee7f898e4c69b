// Package reconcile provides diff logic for cart state. The full-replace
// cart endpoint fetches the current cart, diffs against the desired lines,
// and executes only the necessary mutations, giving the PUT stateless
// replace semantics without clearing and rebuilding the cart.
package reconcile

// LineDiff describes the mutations needed to reconcile cart lines.
// Operations should be applied in order: Remove → Update → Add
// to prevent conflicts (e.g., updating a removed line).
type LineDiff struct {
	ToAdd    []LineToAdd    // Products in desired but not current
	ToRemove []LineToRemove // Products in current but not desired
	ToUpdate []LineToUpdate // Products in both with different quantities
}

// LineToAdd specifies a new line to add to the cart.
type LineToAdd struct {
	ProductID int64
	Quantity  int64
}

// LineToRemove specifies a line to remove from the cart.
type LineToRemove struct {
	ProductID int64
}

// LineToUpdate specifies a quantity change for an existing line.
type LineToUpdate struct {
	ProductID   int64
	OldQuantity int64 // Current quantity (informational)
	NewQuantity int64 // Desired quantity
}

// IsEmpty returns true if no line changes are needed.
func (d *LineDiff) IsEmpty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0 && len(d.ToUpdate) == 0
}

// CurrentLine represents a line in the current cart state.
type CurrentLine struct {
	ProductID int64
	Quantity  int64
}

// DesiredLine represents a line in the desired cart state.
// Comes from the client's PUT request.
type DesiredLine struct {
	ProductID int64
	Quantity  int64
}

// DiffLines computes the delta between current and desired cart lines.
// Matching is by product ID.
//
// Algorithm:
//  1. Build lookup maps for O(1) access
//  2. For each desired line: if exists in current with different qty → update; if not exists → add
//  3. For each current line: if not in desired → remove
func DiffLines(current []CurrentLine, desired []DesiredLine) *LineDiff {
	diff := &LineDiff{}

	currentByID := make(map[int64]CurrentLine)
	for _, l := range current {
		currentByID[l.ProductID] = l
	}

	desiredByID := make(map[int64]DesiredLine)
	for _, l := range desired {
		desiredByID[l.ProductID] = l
	}

	// Find lines to add or update. Iterate the slice, not the map, so the
	// diff preserves the client's line order.
	for _, want := range desired {
		if have, exists := currentByID[want.ProductID]; exists {
			if have.Quantity != want.Quantity {
				diff.ToUpdate = append(diff.ToUpdate, LineToUpdate{
					ProductID:   want.ProductID,
					OldQuantity: have.Quantity,
					NewQuantity: want.Quantity,
				})
			}
			// Same quantity = no change needed
		} else {
			diff.ToAdd = append(diff.ToAdd, LineToAdd{
				ProductID: want.ProductID,
				Quantity:  want.Quantity,
			})
		}
	}

	// Find lines to remove (in current but not in desired)
	for _, have := range current {
		if _, exists := desiredByID[have.ProductID]; !exists {
			diff.ToRemove = append(diff.ToRemove, LineToRemove{
				ProductID: have.ProductID,
			})
		}
	}

	return diff
}
