/*
capacity.go - Capacity Forecaster

PURPOSE:
  Answers "how much slack does the station have?" over a window by setting
  entitlement supply (credit.go) against duty-slot demand.

METRICS:
  Supply:          sum of Credit over all staff
  Demand:          sum of MinStaff over slots picked up inside the window
  NetBalance:      Supply - Demand (may be negative)
  SafeDailyLeave:  floor(NetBalance / duration), clamped at 0
  Coverage:        Supply / Demand as a percentage, nil when Demand is 0

  The same four figures are reported per capability, with supply scoped to
  staff holding the capability and demand to slots whose quota requests it.
*/
package roster

import (
	"github.com/shopspring/decimal"
)

// CapacityFigures is a supply/demand pair with derived values.
type CapacityFigures struct {
	Supply         int
	Demand         int
	NetBalance     int
	SafeDailyLeave int
	Coverage       *decimal.Decimal
}

// CapabilityCapacity is CapacityFigures scoped to one capability.
type CapabilityCapacity struct {
	Capability Capability
	CapacityFigures
}

// CapacityForecast is the result of Forecast.
type CapacityForecast struct {
	Window       DateRange
	Duration     int
	Total        CapacityFigures
	ByCapability []CapabilityCapacity
	Credits      []StaffCredit
}

// Forecast aggregates supply and demand over window.
func Forecast(snap *Snapshot, window DateRange) (*CapacityForecast, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	duration := window.Len()
	if duration <= 0 {
		return nil, ErrInvalidWindow
	}

	staff := snap.SortedStaff()
	credits := creditsFor(staff, window.Start, duration, snap.Leave)
	supply := 0
	capSupply := make(map[Capability]int)
	for i, c := range credits {
		supply += c.Credit
		for _, cp := range Capabilities {
			if staff[i].Has(cp) {
				capSupply[cp] += c.Credit
			}
		}
	}

	demand := 0
	capDemand := make(map[Capability]int)
	for _, slot := range snap.Slots {
		pickup, ok := ParseDate(slot.PickupDate)
		if !ok || !window.Contains(pickup) {
			continue
		}
		demand += slot.MinStaff
		for c, n := range slot.Quota {
			if n > 0 {
				capDemand[c] += n
			}
		}
	}

	forecast := &CapacityForecast{
		Window:   window,
		Duration: duration,
		Total:    figures(supply, demand, duration),
		Credits:  credits,
	}
	for _, c := range Capabilities {
		forecast.ByCapability = append(forecast.ByCapability, CapabilityCapacity{
			Capability:      c,
			CapacityFigures: figures(capSupply[c], capDemand[c], duration),
		})
	}
	return forecast, nil
}

func figures(supply, demand, duration int) CapacityFigures {
	net := supply - demand
	f := CapacityFigures{
		Supply:     supply,
		Demand:     demand,
		NetBalance: net,
	}
	if net > 0 {
		f.SafeDailyLeave = net / duration
	}
	if demand > 0 {
		coverage := decimal.NewFromInt(int64(supply)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(demand))).
			Round(1)
		f.Coverage = &coverage
	}
	return f
}
