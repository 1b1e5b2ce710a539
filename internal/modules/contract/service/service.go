package contract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"contractdesk/internal/entity"
	"contractdesk/internal/events"
	"contractdesk/internal/modules/contract/dto"
	"contractdesk/internal/modules/contract/repository"
	search "contractdesk/internal/modules/search/service"
	"contractdesk/pkg/apperror"
	"gorm.io/gorm"
)

type ContractService interface {
	List(ctx context.Context, filter dto.ListFilter) ([]*entity.Contract, error)
	Get(ctx context.Context, id uint) (*entity.Contract, error)
	Create(ctx context.Context, input dto.ContractInput) (*entity.Contract, error)
	Update(ctx context.Context, id uint, input dto.ContractInput) (*entity.Contract, error)
	Terminate(ctx context.Context, id uint) (*entity.Contract, error)
	// CalculateCancellationDates recomputes the derived cancellation dates
	// for every active contract. Contracts missing any of notice period,
	// minimum term or term months get their derived dates cleared.
	CalculateCancellationDates(ctx context.Context) (*dto.CalculateResult, error)
}

type contractService struct {
	repo   repository.ContractRepository
	search search.ContractSearchService // nil when Meilisearch is not configured
	hub    *events.Hub
}

func NewContractService(repo repository.ContractRepository, searchSvc search.ContractSearchService, hub *events.Hub) ContractService {
	return &contractService{
		repo:   repo,
		search: searchSvc,
		hub:    hub,
	}
}

func (s *contractService) List(ctx context.Context, filter dto.ListFilter) ([]*entity.Contract, error) {
	repoFilter := repository.Filter{
		Search:    filter.Search,
		Category:  filter.Category,
		OnlyValid: filter.OnlyValid,
	}

	// With Meilisearch available, resolve the free-text part there and let
	// the database apply the remaining filters over the hit set. On search
	// errors, fall back to the SQL LIKE path.
	if filter.Search != "" && s.search != nil {
		ids, err := s.search.Search(filter.Search)
		if err == nil {
			if len(ids) == 0 {
				return []*entity.Contract{}, nil
			}
			repoFilter.Search = ""
			repoFilter.IDs = ids
		} else {
			log.Printf("contract search fell back to SQL: %v", err)
		}
	}

	return s.repo.FindAll(ctx, repoFilter)
}

func (s *contractService) Get(ctx context.Context, id uint) (*entity.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("contract not found")
		}
		return nil, err
	}
	return contract, nil
}

func (s *contractService) Create(ctx context.Context, input dto.ContractInput) (*entity.Contract, error) {
	if err := s.validateFrameworkLink(ctx, input, 0); err != nil {
		return nil, err
	}

	number := input.ContractNumber
	if number == "" {
		var err error
		number, err = s.repo.NextContractNumber(ctx)
		if err != nil {
			return nil, err
		}
	}

	contract := &entity.Contract{
		ContractNumber:      number,
		Title:               input.Title,
		Content:             input.Content,
		Conditions:          input.Conditions,
		NoticePeriod:        input.NoticePeriod,
		MinimumTerm:         input.MinimumTerm,
		TermMonths:          input.TermMonths,
		ValidFrom:           input.ValidFrom,
		ValidUntil:          input.ValidUntil,
		Partner:             input.Partner,
		Category:            input.Category,
		ContractType:        input.ContractType,
		FrameworkContractID: input.FrameworkContractID,
	}

	if err := s.repo.Create(ctx, contract); err != nil {
		return nil, err
	}

	if s.search != nil {
		s.search.IndexContract(contract)
	}
	s.hub.Publish(ctx, events.TopicContractsChanged)

	return contract, nil
}

func (s *contractService) Update(ctx context.Context, id uint, input dto.ContractInput) (*entity.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("contract not found")
		}
		return nil, err
	}

	if err := s.validateFrameworkLink(ctx, input, id); err != nil {
		return nil, err
	}

	// Contract number and termination state survive edits untouched.
	contract.Title = input.Title
	contract.Content = input.Content
	contract.Conditions = input.Conditions
	contract.NoticePeriod = input.NoticePeriod
	contract.MinimumTerm = input.MinimumTerm
	contract.TermMonths = input.TermMonths
	contract.ValidFrom = input.ValidFrom
	contract.ValidUntil = input.ValidUntil
	contract.Partner = input.Partner
	contract.Category = input.Category
	contract.ContractType = input.ContractType
	contract.FrameworkContractID = input.FrameworkContractID

	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, err
	}

	if s.search != nil {
		s.search.IndexContract(contract)
	}
	s.hub.Publish(ctx, events.TopicContractsChanged)

	return contract, nil
}

func (s *contractService) Terminate(ctx context.Context, id uint) (*entity.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("contract not found")
		}
		return nil, err
	}

	// Termination is one-way; a second attempt must not move terminated_at.
	if contract.IsTerminated {
		return nil, apperror.Conflict("contract is already terminated")
	}

	now := time.Now()
	contract.IsTerminated = true
	contract.TerminatedAt = &now

	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, err
	}

	if s.search != nil {
		s.search.IndexContract(contract)
	}
	s.hub.Publish(ctx, events.TopicContractsChanged)

	return contract, nil
}

func (s *contractService) CalculateCancellationDates(ctx context.Context) (*dto.CalculateResult, error) {
	contracts, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	updated := 0

	for _, contract := range contracts {
		if contract.NoticePeriod == nil || contract.MinimumTerm == nil || contract.TermMonths == nil {
			if err := s.repo.UpdateCancellationDates(ctx, contract.ID, nil, nil); err != nil {
				log.Printf("failed to clear cancellation dates for contract %d: %v", contract.ID, err)
			}
			continue
		}

		cancellation, action, ok := cancellationSchedule(
			contract.ValidFrom, *contract.NoticePeriod, *contract.TermMonths, *contract.MinimumTerm, today)
		if !ok {
			if err := s.repo.UpdateCancellationDates(ctx, contract.ID, nil, nil); err != nil {
				log.Printf("failed to clear cancellation dates for contract %d: %v", contract.ID, err)
			}
			continue
		}

		if err := s.repo.UpdateCancellationDates(ctx, contract.ID, &cancellation, &action); err != nil {
			log.Printf("failed to update cancellation dates for contract %d: %v", contract.ID, err)
			continue
		}
		updated++
	}

	s.hub.Publish(ctx, events.TopicContractsChanged)

	return &dto.CalculateResult{
		Message: fmt.Sprintf("cancellation dates calculated for %d contract(s)", updated),
		Updated: updated,
	}, nil
}

// validateFrameworkLink enforces the framework linkage invariant: the link
// is only meaningful on individual contracts and must point at an existing
// framework-type contract.
func (s *contractService) validateFrameworkLink(ctx context.Context, input dto.ContractInput, selfID uint) error {
	if input.FrameworkContractID == nil {
		return nil
	}

	if input.ContractType != entity.ContractTypeIndividual {
		return apperror.BadRequest("only individual contracts can reference a framework contract")
	}

	if selfID != 0 && *input.FrameworkContractID == selfID {
		return apperror.BadRequest("a contract cannot reference itself")
	}

	linked, err := s.repo.FindByID(ctx, *input.FrameworkContractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.BadRequest("framework contract does not exist")
		}
		return err
	}

	if linked.ContractType != entity.ContractTypeFramework {
		return apperror.BadRequest("referenced contract is not a framework contract")
	}

	return nil
}
