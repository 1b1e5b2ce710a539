package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"contractdesk/internal/entity"
	"contractdesk/internal/events"
	"contractdesk/internal/modules/contract/repository"
	"github.com/redis/go-redis/v9"
)

const (
	expiringKeyPrefix = "contractdesk:report:expiring:"
	expiringCacheTTL  = 10 * time.Minute
)

// ReportService answers the two compliance questions: which contracts are
// currently valid, and which need a cancellation decision soon.
type ReportService interface {
	ValidContracts(ctx context.Context) ([]*entity.Contract, error)
	// ExpiringContracts lists non-terminated contracts whose cancellation
	// action date falls within the next days days, soonest first.
	ExpiringContracts(ctx context.Context, days int) ([]*entity.Contract, error)
}

type reportService struct {
	repo        repository.ContractRepository
	redisClient *redis.Client // nil disables caching
	defaultDays int
}

func NewReportService(repo repository.ContractRepository, redisClient *redis.Client, hub *events.Hub, defaultDays int) ReportService {
	s := &reportService{
		repo:        repo,
		redisClient: redisClient,
		defaultDays: defaultDays,
	}

	if redisClient != nil && hub != nil {
		go s.invalidateOnChange(hub)
	}

	return s
}

func (s *reportService) ValidContracts(ctx context.Context) ([]*entity.Contract, error) {
	return s.repo.FindAll(ctx, repository.Filter{OnlyValid: true})
}

func (s *reportService) ExpiringContracts(ctx context.Context, days int) ([]*entity.Contract, error) {
	if days <= 0 {
		days = s.defaultDays
	}

	key := fmt.Sprintf("%s%d", expiringKeyPrefix, days)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	today := time.Now().Truncate(24 * time.Hour)
	contracts, err := s.repo.FindExpiring(ctx, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, contracts)
	return contracts, nil
}

func (s *reportService) fromCache(ctx context.Context, key string) []*entity.Contract {
	if s.redisClient == nil {
		return nil
	}

	payload, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}

	var contracts []*entity.Contract
	if err := json.Unmarshal(payload, &contracts); err != nil {
		log.Printf("report cache: dropping unreadable entry %s: %v", key, err)
		s.redisClient.Del(ctx, key)
		return nil
	}
	return contracts
}

func (s *reportService) toCache(ctx context.Context, key string, contracts []*entity.Contract) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(contracts)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, payload, expiringCacheTTL).Err(); err != nil {
		log.Printf("report cache: failed to store %s: %v", key, err)
	}
}

// invalidateOnChange drops cached report entries whenever contract data
// changes, so the report never serves results older than the last write.
func (s *reportService) invalidateOnChange(hub *events.Hub) {
	ch, cancel := hub.Subscribe()
	defer cancel()

	for event := range ch {
		if event.Topic != events.TopicContractsChanged {
			continue
		}

		ctx := context.Background()
		keys, err := s.redisClient.Keys(ctx, expiringKeyPrefix+"*").Result()
		if err != nil || len(keys) == 0 {
			continue
		}
		if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
			log.Printf("report cache: failed to invalidate: %v", err)
		}
	}
}
