package tradelab

// Lot represents a single purchase of a security. Quantity decreases as
// shares are sold off and the lot is removed the instant it reaches zero;
// UnitCost and Sector are fixed at purchase time.
type Lot struct {
	Quantity int64  `json:"qty"`
	UnitCost Money  `json:"price"`
	Sector   string `json:"sector"`
}

// Holding is the ordered list of open lots for one ticker, oldest first.
// The order is semantically significant: it defines the FIFO sell order.
type Holding []Lot

// LotSale records how many shares a sell consumed from one lot, and at what
// original unit cost, so realized gain per lot can be reported.
type LotSale struct {
	Quantity int64
	UnitCost Money
}

// TotalQuantity returns the position size: the sum of open lot quantities.
func (h Holding) TotalQuantity() int64 {
	var total int64
	for _, l := range h {
		total += l.Quantity
	}
	return total
}

// AverageCost returns the quantity-weighted average purchase price,
// or zero Money when the holding is empty.
func (h Holding) AverageCost() Money {
	total := h.TotalQuantity()
	if total == 0 {
		return Money{}
	}
	var cost Money
	for _, l := range h {
		cost = cost.Add(l.UnitCost.MulQty(l.Quantity))
	}
	return cost.DivQty(total)
}

// CostBasis returns the total amount paid for the open lots.
func (h Holding) CostBasis() Money {
	var cost Money
	for _, l := range h {
		cost = cost.Add(l.UnitCost.MulQty(l.Quantity))
	}
	return cost
}

// Sector returns the sector captured on the first (oldest) open lot,
// "Unknown" when the holding is empty. Sector is assumed uniform per ticker
// in practice, though not enforced.
func (h Holding) Sector() string {
	if len(h) == 0 {
		return SectorUnknown
	}
	if h[0].Sector == "" {
		return SectorUnknown
	}
	return h[0].Sector
}

// sell depletes quantityToSell shares from the oldest lots first and returns
// the remaining lots together with the per-lot breakdown of what was sold.
// The caller guarantees quantityToSell <= TotalQuantity().
func (h Holding) sell(quantityToSell int64) (remaining Holding, sold []LotSale) {
	for _, currentLot := range h {
		if quantityToSell == 0 {
			remaining = append(remaining, currentLot)
			continue
		}
		if currentLot.Quantity > quantityToSell {
			// Partial sale from this lot
			sold = append(sold, LotSale{Quantity: quantityToSell, UnitCost: currentLot.UnitCost})
			currentLot.Quantity -= quantityToSell
			quantityToSell = 0
			remaining = append(remaining, currentLot)
		} else {
			// Full sale of this lot, the lot disappears
			sold = append(sold, LotSale{Quantity: currentLot.Quantity, UnitCost: currentLot.UnitCost})
			quantityToSell -= currentLot.Quantity
		}
	}
	return remaining, sold
}

// SectorUnknown is the sector recorded when the fundamentals lookup fails.
const SectorUnknown = "Unknown"
