package search

import (
	"encoding/json"
	"log"
	"strconv"

	"contractdesk/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const contractIndex = "contracts"

// ContractSearchService maintains a full-text index of contracts. Indexing
// is best effort: a failed index write is logged, never surfaced, because
// the SQL fallback still answers searches.
type ContractSearchService interface {
	IndexContract(contract *entity.Contract) error
	DeleteContract(id uint) error
	// Search returns the IDs of matching contracts, best match first.
	Search(query string) ([]uint, error)
}

type contractDocument struct {
	ID             uint   `json:"id"`
	ContractNumber string `json:"contract_number"`
	Title          string `json:"title"`
	Partner        string `json:"partner"`
	Category       string `json:"category"`
	Content        string `json:"content"`
	Conditions     string `json:"conditions"`
}

type contractSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewContractSearchService(client meilisearch.ServiceManager) ContractSearchService {
	s := &contractSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *contractSearchService) initIndex() {
	searchable := []string{"title", "partner", "contract_number", "content", "conditions"}
	if _, err := s.client.Index(contractIndex).UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("failed to update contract searchable attributes: %v", err)
	}

	filterable := []string{"category"}
	filterableInterface := make([]any, len(filterable))
	for i, v := range filterable {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(contractIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("failed to update contract filterable attributes: %v", err)
	}
}

func (s *contractSearchService) IndexContract(contract *entity.Contract) error {
	doc := contractDocument{
		ID:             contract.ID,
		ContractNumber: contract.ContractNumber,
		Title:          s.sanitizer.Sanitize(contract.Title),
		Partner:        s.sanitizer.Sanitize(contract.Partner),
		Category:       contract.Category,
		Content:        s.sanitizer.Sanitize(contract.Content),
		Conditions:     s.sanitizer.Sanitize(contract.Conditions),
	}

	if _, err := s.client.Index(contractIndex).AddDocuments([]contractDocument{doc}, strPtr("id")); err != nil {
		log.Printf("failed to index contract %d: %v", contract.ID, err)
		return err
	}
	return nil
}

func strPtr(s string) *string { return &s }

func (s *contractSearchService) DeleteContract(id uint) error {
	if _, err := s.client.Index(contractIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10)); err != nil {
		log.Printf("failed to remove contract %d from index: %v", id, err)
		return err
	}
	return nil
}

func (s *contractSearchService) Search(query string) ([]uint, error) {
	res, err := s.client.Index(contractIndex).Search(query, &meilisearch.SearchRequest{
		Limit: 200,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(res.Hits))
	for _, hit := range res.Hits {
		raw, ok := hit["id"]
		if !ok {
			continue
		}
		var id float64
		if err := json.Unmarshal(raw, &id); err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
