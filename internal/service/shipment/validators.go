package shipment

import (
	"strings"

	"freightpool/internal/entities"
)

func isValidLocation(loc entities.Location) bool {
	if strings.TrimSpace(loc.City) == "" || strings.TrimSpace(loc.State) == "" {
		return false
	}
	if loc.Lat < -90 || loc.Lat > 90 {
		return false
	}
	if loc.Lon < -180 || loc.Lon > 180 {
		return false
	}
	return true
}

func isValidWindow(w entities.TimeWindow) bool {
	return !w.Start.IsZero() && !w.End.IsZero() && w.Start.Before(w.End)
}

func isValidEquipment(equipment string) bool {
	switch equipment {
	case "dry_van", "reefer", "flatbed", "step_deck", "conestoga":
		return true
	default:
		return false
	}
}

func isValidStatus(status string) bool {
	switch status {
	case "created", "quoted", "booked", "pooled", "in_transit", "delivered", "cancelled":
		return true
	default:
		return false
	}
}
