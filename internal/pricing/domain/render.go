package domain

import (
	"sort"

	"github.com/bwmarrin/snowflake"
)

// RenderLine maps a stored line back into its wire shape under the given
// role's field naming. Rows come out in their stored order.
func RenderLine(line SubActivityPrice, names RoleFieldNames) LinePayload {
	payload := LinePayload{
		SubActivity:   line.SubActivityID.String(),
		PricingMethod: line.PricingMethod,
	}

	if line.PricingMethod == PricingMethodPerItem {
		if names.Single == "cost" {
			payload.Cost = line.BasePrice
		} else {
			payload.BasePrice = line.BasePrice
		}
		return payload
	}

	rows := make([]LocationPrice, len(line.LocationPrices))
	copy(rows, line.LocationPrices)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })

	payload.LocationPrices = make([]RowPayload, 0, len(rows))
	for _, row := range rows {
		out := RowPayload{
			PricingMethod: row.PricingMethod,
			Location:      idString(row.LocationID),
			FromLocation:  idString(row.FromLocationID),
			ToLocation:    idString(row.ToLocationID),
		}
		amount := row.Amount
		if names.PerRow == "cost" {
			out.Cost = &amount
		} else {
			out.Price = &amount
		}
		payload.LocationPrices = append(payload.LocationPrices, out)
	}
	return payload
}

func idString(id *snowflake.ID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
