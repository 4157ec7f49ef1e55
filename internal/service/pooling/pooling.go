package pooling

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"freightpool/internal/entities"
	"freightpool/pkg/keylock"
)

type Config struct {
	PruneRadiusMiles float64
	MinOverlapHours  float64
	AverageSpeedMPH  float64

	TrailerLengthFeet     float64
	MaxWeightLbs          float64
	UtilizationTargetLow  float64
	UtilizationTargetHigh float64

	GeoWeight      float64
	TemporalWeight float64
	CapacityWeight float64

	MinPairwiseScore  float64
	MinGroupScore     float64
	MinSavingsPercent float64
	MaxPoolSize       int

	MatchTTL    time.Duration
	LockTimeout time.Duration
}

type Pooling struct {
	repository      Repository
	shipmentService ShipmentService
	pricer          Pricer
	distance        DistanceEstimator
	scorer          *Scorer
	locker          Locker
	txManager       TxManager
	config          Config
}

func New(
	repository Repository,
	shipmentService ShipmentService,
	pricer Pricer,
	distance DistanceEstimator,
	locker Locker,
	txManager TxManager,
	config Config,
) *Pooling {
	return &Pooling{
		repository:      repository,
		shipmentService: shipmentService,
		pricer:          pricer,
		distance:        distance,
		scorer:          NewScorer(config, distance),
		locker:          locker,
		txManager:       txManager,
		config:          config,
	}
}

// Optimize подбирает пулы среди подходящих грузов: строит граф совместимых
// пар, перебирает клики до MaxPoolSize, ранжирует кандидатов и сохраняет
// лучшие непересекающиеся наборы как proposed-матчи. Груз состоит не более
// чем в одном активном предложении, уже предложенный идентичный набор
// переиспользуется, так что повторный вызов идемпотентен.
func (p *Pooling) Optimize(ctx context.Context, request entities.OptimizeRequest) ([]entities.PoolingMatch, error) {
	maxPoolSize := request.MaxPoolSize
	if maxPoolSize == 0 {
		maxPoolSize = p.config.MaxPoolSize
	}
	if maxPoolSize < 2 || maxPoolSize > p.config.MaxPoolSize {
		return nil, fmt.Errorf("%w: max pool size %d", ErrInvalidPoolSize, maxPoolSize)
	}

	minSavingsPercent := p.config.MinSavingsPercent
	if request.MinSavingsPercent != nil {
		minSavingsPercent = *request.MinSavingsPercent
	}
	if minSavingsPercent < 0 || minSavingsPercent > 50 {
		return nil, fmt.Errorf("%w: %.1f", ErrInvalidSavingsFilter, minSavingsPercent)
	}
	for _, id := range request.ShipmentIDs {
		if id <= 0 {
			return nil, ErrInvalidShipmentID
		}
	}

	var proposed []entities.PoolingMatch
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		eligible, err := p.repository.GetEligibleShipments(ctx, entities.EligibleShipmentFilter{
			IDs:         request.ShipmentIDs,
			OriginState: request.OriginState,
			DestState:   request.DestState,
			Equipment:   request.Equipment,
		})
		if err != nil {
			return fmt.Errorf("get eligible shipments: %w", err)
		}

		proposed = []entities.PoolingMatch{}
		if len(eligible) < 2 {
			return nil
		}

		byID := make(map[int64]entities.Shipment, len(eligible))
		ids := make([]int64, 0, len(eligible))
		for _, shipmentEntity := range eligible {
			byID[shipmentEntity.ID] = shipmentEntity
			ids = append(ids, shipmentEntity.ID)
		}
		// клики перечисляются по возрастанию id, наборы участников
		// канонически отсортированы
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		edges := p.scoreAllPairs(eligible)

		var candidates []*poolCandidate
		for _, clique := range enumerateCliques(ids, edges, maxPoolSize) {
			if candidate := p.buildCandidate(clique, byID, edges, minSavingsPercent); candidate != nil {
				candidates = append(candidates, candidate)
			}
		}
		rankCandidates(candidates)

		active, err := p.repository.GetActiveProposed(ctx)
		if err != nil {
			return fmt.Errorf("get active proposed matches: %w", err)
		}

		claimed := make(map[int64]bool)
		existing := make(map[string]entities.PoolingMatch, len(active))
		for _, matchEntity := range active {
			existing[memberSetKey(matchEntity.ShipmentIDs)] = matchEntity
			for _, shipmentID := range matchEntity.ShipmentIDs {
				claimed[shipmentID] = true
			}
		}

		now := time.Now().UTC()
		for _, candidate := range candidates {
			// идентичный набор уже предложен, возвращаем существующую строку
			if matchEntity, ok := existing[memberSetKey(candidate.match.ShipmentIDs)]; ok {
				proposed = append(proposed, matchEntity)
				continue
			}

			conflict := false
			for _, shipmentID := range candidate.match.ShipmentIDs {
				if claimed[shipmentID] {
					conflict = true
					break
				}
			}
			if conflict {
				continue
			}

			candidate.match.Status = entities.MatchProposed
			candidate.match.ExpiresAt = now.Add(p.config.MatchTTL)
			candidate.match.CreatedAt = now
			created, err := p.repository.Create(ctx, candidate.match)
			if err != nil {
				return fmt.Errorf("create pooling match: %w", err)
			}

			proposed = append(proposed, *created)
			for _, shipmentID := range created.ShipmentIDs {
				claimed[shipmentID] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return proposed, nil
}

// EstimatePoolingProbability оценивает шанс груза попасть в пул как лучший
// итоговый балл среди всех допустимых пар с текущими подходящими грузами.
// Оценка рекомендательная и не требует прохождения порогов отбора.
func (p *Pooling) EstimatePoolingProbability(ctx context.Context, shipmentEntity entities.Shipment) (int, error) {
	eligible, err := p.repository.GetEligibleShipments(ctx, entities.EligibleShipmentFilter{})
	if err != nil {
		return 0, fmt.Errorf("get eligible shipments: %w", err)
	}

	best := 0.0
	for _, other := range eligible {
		if other.ID == shipmentEntity.ID {
			continue
		}
		score, err := p.scorer.ScorePair(shipmentEntity, other)
		if err != nil {
			continue
		}
		if score.Overall > best {
			best = score.Overall
		}
	}
	return int(math.Round(best)), nil
}

func (p *Pooling) GetMatch(ctx context.Context, id int64) (*entities.PoolingMatch, error) {
	if id <= 0 {
		return nil, ErrInvalidMatchID
	}

	matchEntity, err := p.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get pooling match: %w", err)
	}
	return p.lazyExpire(ctx, matchEntity), nil
}

func (p *Pooling) GetMatches(ctx context.Context, filter entities.MatchFilter) ([]entities.PoolingMatch, error) {
	if filter.Status != nil {
		switch *filter.Status {
		case entities.MatchProposed, entities.MatchExecuted, entities.MatchExpired, entities.MatchCancelled:
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *filter.Status)
		}
	}
	if filter.MinSavingsPct != nil && *filter.MinSavingsPct < 0 {
		return nil, ErrInvalidSavingsFilter
	}
	if filter.ShipmentID != nil && *filter.ShipmentID <= 0 {
		return nil, ErrInvalidShipmentID
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}

	matches, err := p.repository.GetAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get pooling matches: %w", err)
	}

	for i := range matches {
		matches[i] = *p.lazyExpire(ctx, &matches[i])
	}
	return matches, nil
}

// Execute исполняет proposed-матч: под блокировками матча и всех участников
// перепроверяет статусы, помечает матч executed и переводит грузы в pooled.
// Выигрывает первый успевший, конкурент получает ErrMatchConflict.
func (p *Pooling) Execute(ctx context.Context, id int64, confirm bool) (*entities.MatchExecution, error) {
	if id <= 0 {
		return nil, ErrInvalidMatchID
	}
	if !confirm {
		return nil, ErrConfirmationRequired
	}

	matchEntity, err := p.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get pooling match: %w", err)
	}

	keys := make([]keylock.Key, 0, len(matchEntity.ShipmentIDs)+1)
	keys = append(keys, keylock.NewKey(entities.LockKindMatch, id))
	for _, shipmentID := range matchEntity.ShipmentIDs {
		keys = append(keys, keylock.NewKey(entities.LockKindShipment, shipmentID))
	}

	var execution *entities.MatchExecution
	err = p.withLocks(ctx, keys, func(ctx context.Context) error {
		return p.txManager.Do(ctx, func(ctx context.Context) error {
			current, err := p.repository.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get pooling match: %w", err)
			}

			switch current.Status {
			case entities.MatchProposed:
			case entities.MatchExpired:
				return fmt.Errorf("%w: match %d", ErrMatchExpired, id)
			default:
				return fmt.Errorf("%w: match is %s", ErrMatchConflict, current.Status)
			}

			now := time.Now().UTC()
			if now.After(current.ExpiresAt) {
				expired := entities.MatchExpired
				if _, err := p.repository.Update(ctx, entities.MatchModify{ID: &current.ID, Status: &expired}); err != nil {
					return fmt.Errorf("expire pooling match: %w", err)
				}
				return fmt.Errorf("%w: match %d", ErrMatchExpired, id)
			}

			members := make([]entities.Shipment, 0, len(current.ShipmentIDs))
			for _, shipmentID := range current.ShipmentIDs {
				member, err := p.shipmentService.GetShipment(ctx, shipmentID)
				if err != nil {
					return fmt.Errorf("get shipment %d: %w", shipmentID, err)
				}
				switch member.Status {
				case entities.ShipmentCreated, entities.ShipmentQuoted:
				default:
					return fmt.Errorf("%w: shipment %d is %s", ErrMatchConflict, shipmentID, member.Status)
				}
				members = append(members, *member)
			}

			executed := entities.MatchExecuted
			updated, err := p.repository.Update(ctx, entities.MatchModify{
				ID:         &current.ID,
				Status:     &executed,
				ExecutedAt: &now,
			})
			if err != nil {
				return fmt.Errorf("execute pooling match: %w", err)
			}

			for _, member := range members {
				if _, err := p.shipmentService.MarkPooled(ctx, member.ID); err != nil {
					return fmt.Errorf("pool shipment %d: %w", member.ID, err)
				}
			}

			// доли считаем от сохраненной стоимости пула, чтобы сумма
			// долей сходилась с тем, что показывали в предложении
			shares := p.pricer.SplitPooledCost(members, updated.PooledCostCents)
			memberShares := make([]entities.MemberShare, len(members))
			for i, member := range members {
				memberShares[i] = entities.MemberShare{ShipmentID: member.ID, ShareCents: shares[i]}
			}

			execution = &entities.MatchExecution{
				MatchID:           updated.ID,
				ShipmentsPooled:   len(members),
				TotalSavingsCents: updated.SavingsCents,
				SavingsPercent:    updated.SavingsPercent,
				MemberShares:      memberShares,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return execution, nil
}

// Cancel снимает proposed-предложение. Исполненный, истекший или уже
// снятый матч не трогаем.
func (p *Pooling) Cancel(ctx context.Context, id int64) (*entities.PoolingMatch, error) {
	if id <= 0 {
		return nil, ErrInvalidMatchID
	}

	var cancelled *entities.PoolingMatch
	err := p.withLocks(ctx, []keylock.Key{keylock.NewKey(entities.LockKindMatch, id)}, func(ctx context.Context) error {
		return p.txManager.Do(ctx, func(ctx context.Context) error {
			current, err := p.repository.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get pooling match: %w", err)
			}
			if current.Status != entities.MatchProposed {
				return fmt.Errorf("%w: match is %s", ErrMatchConflict, current.Status)
			}

			status := entities.MatchCancelled
			cancelled, err = p.repository.Update(ctx, entities.MatchModify{ID: &current.ID, Status: &status})
			if err != nil {
				return fmt.Errorf("cancel pooling match: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// CancelMatchesForShipment снимает все активные предложения с участием
// груза. Вызывается при отмене или доставке груза, чтобы не оставлять
// заведомо неисполнимых предложений.
func (p *Pooling) CancelMatchesForShipment(ctx context.Context, shipmentID int64) (int64, error) {
	if shipmentID <= 0 {
		return 0, ErrInvalidShipmentID
	}

	matches, err := p.repository.GetActiveProposedByShipmentID(ctx, shipmentID)
	if err != nil {
		return 0, fmt.Errorf("get matches for shipment: %w", err)
	}

	var cancelled int64
	for _, matchEntity := range matches {
		if _, err := p.Cancel(ctx, matchEntity.ID); err != nil {
			// гонку с исполнением или истечением разрешит сам матч,
			// занятый чужой блокировкой доберет следующий проход
			if errors.Is(err, ErrMatchConflict) || errors.Is(err, ErrBusy) {
				continue
			}
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}

// CleanupExpiredMatches переводит просроченные proposed-матчи в expired.
func (p *Pooling) CleanupExpiredMatches(ctx context.Context) (int64, error) {
	expired, err := p.repository.GetProposedExpired(ctx, time.Now().UTC())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, fmt.Errorf("cleanup timed out: %w", err)
		}
		return 0, fmt.Errorf("get expired matches: %w", err)
	}

	var count int64
	for _, matchEntity := range expired {
		updated, err := p.expireMatch(ctx, matchEntity.ID)
		if err != nil {
			// матч держит исполнение, следующий проход доберет
			if errors.Is(err, ErrBusy) {
				continue
			}
			return count, err
		}
		if updated.Status == entities.MatchExpired {
			count++
		}
	}
	return count, nil
}

func (p *Pooling) GetStats(ctx context.Context) (*entities.PoolingStats, error) {
	stats, err := p.repository.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get pooling stats: %w", err)
	}
	if stats.TotalFound > 0 {
		stats.SuccessRatePct = float64(stats.Executed) / float64(stats.TotalFound) * 100
	}
	return stats, nil
}

// lazyExpire по пути чтения переводит просроченный proposed-матч в expired.
// Если матч держит исполнение, возвращаем сохраненное состояние: свежий
// статус доберет следующий читатель.
func (p *Pooling) lazyExpire(ctx context.Context, matchEntity *entities.PoolingMatch) *entities.PoolingMatch {
	if matchEntity.Status != entities.MatchProposed || !time.Now().UTC().After(matchEntity.ExpiresAt) {
		return matchEntity
	}

	updated, err := p.expireMatch(ctx, matchEntity.ID)
	if err != nil {
		return matchEntity
	}
	return updated
}

// expireMatch помечает матч истекшим под блокировкой с перепроверкой:
// успевшее первым исполнение или параллельное истечение просто возвращает
// текущее состояние.
func (p *Pooling) expireMatch(ctx context.Context, id int64) (*entities.PoolingMatch, error) {
	var result *entities.PoolingMatch
	err := p.withLocks(ctx, []keylock.Key{keylock.NewKey(entities.LockKindMatch, id)}, func(ctx context.Context) error {
		return p.txManager.Do(ctx, func(ctx context.Context) error {
			current, err := p.repository.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get pooling match: %w", err)
			}
			if current.Status != entities.MatchProposed || !time.Now().UTC().After(current.ExpiresAt) {
				result = current
				return nil
			}

			status := entities.MatchExpired
			result, err = p.repository.Update(ctx, entities.MatchModify{ID: &current.ID, Status: &status})
			if err != nil {
				return fmt.Errorf("expire pooling match: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Pooling) withLocks(ctx context.Context, keys []keylock.Key, fn func(ctx context.Context) error) error {
	lockCtx, cancel := context.WithTimeout(ctx, p.config.LockTimeout)
	defer cancel()

	release, err := p.locker.AcquireAll(lockCtx, keys)
	if err != nil {
		return ErrBusy
	}
	defer release()

	return fn(ctx)
}
