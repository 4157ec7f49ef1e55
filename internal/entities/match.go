package entities

import "time"

type PoolingMatch struct {
	ID                   int64
	ShipmentIDs          []int64
	GeoScore             float64
	TemporalScore        float64
	CapacityScore        float64
	OverallScore         float64
	IndividualCostCents  int64
	PooledCostCents      int64
	SavingsCents         int64
	SavingsPercent       float64
	CombinedMiles        float64
	CombinedHours        float64
	EstimatedUtilization float64
	Status               MatchStatusType
	ExpiresAt            time.Time
	ExecutedAt           *time.Time
	CreatedAt            time.Time
}

type MatchStatusType string

const (
	MatchProposed  MatchStatusType = "proposed"
	MatchExecuted  MatchStatusType = "executed"
	MatchExpired   MatchStatusType = "expired"
	MatchCancelled MatchStatusType = "cancelled"
)

func (s MatchStatusType) String() string {
	return string(s)
}

type MatchModify struct {
	ID         *int64
	Status     *MatchStatusType
	ExecutedAt *time.Time
}

type MatchFilter struct {
	Status        *MatchStatusType
	MinSavingsPct *float64
	ShipmentID    *int64
	Limit         uint64
	Offset        uint64
}

// OptimizeRequest задает параметры подбора пулов. Нулевой MaxPoolSize и nil
// MinSavingsPercent означают значения из конфигурации.
type OptimizeRequest struct {
	ShipmentIDs       []int64
	OriginState       *string
	DestState         *string
	Equipment         *EquipmentType
	MaxPoolSize       int
	MinSavingsPercent *float64
}

type MemberShare struct {
	ShipmentID int64
	ShareCents int64
}

type MatchExecution struct {
	MatchID           int64
	ShipmentsPooled   int
	TotalSavingsCents int64
	SavingsPercent    float64
	MemberShares      []MemberShare
}

// PoolingStats собирает агрегаты по всем матчам для /pooling/stats.
type PoolingStats struct {
	TotalFound        int64
	Active            int64
	Executed          int64
	Expired           int64
	Cancelled         int64
	TotalSavingsCents int64
	AvgSavingsPercent float64
	AvgMatchScore     float64
	SuccessRatePct    float64
}
