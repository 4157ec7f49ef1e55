package match

import (
	"freightpool/internal/entities"
)

func ToDomain(m *MatchDB) *entities.PoolingMatch {
	if m == nil {
		return nil
	}

	return &entities.PoolingMatch{
		ID:                   m.ID,
		ShipmentIDs:          m.ShipmentIDs,
		GeoScore:             m.GeoScore,
		TemporalScore:        m.TemporalScore,
		CapacityScore:        m.CapacityScore,
		OverallScore:         m.OverallScore,
		IndividualCostCents:  m.IndividualCostCents,
		PooledCostCents:      m.PooledCostCents,
		SavingsCents:         m.SavingsCents,
		SavingsPercent:       m.SavingsPercent,
		CombinedMiles:        m.CombinedMiles,
		CombinedHours:        m.CombinedHours,
		EstimatedUtilization: m.EstimatedUtilization,
		Status:               entities.MatchStatusType(m.Status),
		ExpiresAt:            m.ExpiresAt,
		ExecutedAt:           m.ExecutedAt,
		CreatedAt:            m.CreatedAt,
	}
}

func FromDomain(matchEntity *entities.PoolingMatch) *MatchDB {
	if matchEntity == nil {
		return nil
	}

	return &MatchDB{
		ID:                   matchEntity.ID,
		ShipmentIDs:          matchEntity.ShipmentIDs,
		GeoScore:             matchEntity.GeoScore,
		TemporalScore:        matchEntity.TemporalScore,
		CapacityScore:        matchEntity.CapacityScore,
		OverallScore:         matchEntity.OverallScore,
		IndividualCostCents:  matchEntity.IndividualCostCents,
		PooledCostCents:      matchEntity.PooledCostCents,
		SavingsCents:         matchEntity.SavingsCents,
		SavingsPercent:       matchEntity.SavingsPercent,
		CombinedMiles:        matchEntity.CombinedMiles,
		CombinedHours:        matchEntity.CombinedHours,
		EstimatedUtilization: matchEntity.EstimatedUtilization,
		Status:               matchEntity.Status.String(),
		ExpiresAt:            matchEntity.ExpiresAt,
		ExecutedAt:           matchEntity.ExecutedAt,
	}
}

func FromDomainModify(matchModify *entities.MatchModify) *MatchModifyDB {
	if matchModify == nil {
		return nil
	}
	matchDB := &MatchModifyDB{}

	if matchModify.ID != nil {
		matchDB.ID = matchModify.ID
	}
	if matchModify.Status != nil {
		statusType := matchModify.Status.String()
		matchDB.Status = &statusType
	}
	if matchModify.ExecutedAt != nil {
		matchDB.ExecutedAt = matchModify.ExecutedAt
	}

	return matchDB
}

func ToDomainList(matchesDB []MatchDB) []entities.PoolingMatch {
	if len(matchesDB) == 0 {
		return []entities.PoolingMatch{}
	}

	result := make([]entities.PoolingMatch, len(matchesDB))
	for i, matchDB := range matchesDB {
		result[i] = *ToDomain(&matchDB)
	}
	return result
}

func shipmentToDomain(s *EligibleShipmentDB) *entities.Shipment {
	if s == nil {
		return nil
	}

	return &entities.Shipment{
		ID:        s.ID,
		Reference: s.Reference,
		Origin: entities.Location{
			City:       s.OriginCity,
			State:      s.OriginState,
			PostalCode: s.OriginPostalCode,
			Lat:        s.OriginLat,
			Lon:        s.OriginLon,
		},
		Destination: entities.Location{
			City:       s.DestCity,
			State:      s.DestState,
			PostalCode: s.DestPostalCode,
			Lat:        s.DestLat,
			Lon:        s.DestLon,
		},
		PickupWindow: entities.TimeWindow{
			Start: s.PickupStart,
			End:   s.PickupEnd,
		},
		DeliveryWindow: entities.TimeWindow{
			Start: s.DeliveryStart,
			End:   s.DeliveryEnd,
		},
		Dimensions: entities.Dimensions{
			WeightLbs:   s.WeightLbs,
			LinearFeet:  s.LinearFeet,
			PalletCount: s.PalletCount,
			Stackable:   s.Stackable,
		},
		Equipment:              entities.EquipmentType(s.Equipment),
		RequiresLiftgate:       s.RequiresLiftgate,
		RequiresAppointment:    s.RequiresAppointment,
		RequiresInsideDelivery: s.RequiresInsideDelivery,
		DistanceMiles:          s.DistanceMiles,
		Status:                 entities.ShipmentStatusType(s.Status),
		BookingRef:             s.BookingRef,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func shipmentsToDomainList(shipmentsDB []EligibleShipmentDB) []entities.Shipment {
	if len(shipmentsDB) == 0 {
		return []entities.Shipment{}
	}

	result := make([]entities.Shipment, len(shipmentsDB))
	for i, shipmentDB := range shipmentsDB {
		result[i] = *shipmentToDomain(&shipmentDB)
	}
	return result
}

func statsToDomain(s *StatsDB) *entities.PoolingStats {
	if s == nil {
		return nil
	}

	return &entities.PoolingStats{
		TotalFound:        s.TotalFound,
		Active:            s.Active,
		Executed:          s.Executed,
		Expired:           s.Expired,
		Cancelled:         s.Cancelled,
		TotalSavingsCents: s.TotalSavingsCents,
		AvgSavingsPercent: s.AvgSavingsPercent,
		AvgMatchScore:     s.AvgMatchScore,
	}
}
