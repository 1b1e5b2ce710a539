package dto

import "time"

// ContractInput carries the full field set for both create and update, the
// way the form submits it. Optional numerics and dates arrive as JSON null
// when blank.
type ContractInput struct {
	ContractNumber      string     `json:"contract_number"`
	Title               string     `json:"title" binding:"required,max=200"`
	Content             string     `json:"content"`
	Conditions          string     `json:"conditions"`
	NoticePeriod        *int       `json:"notice_period"`
	MinimumTerm         *time.Time `json:"minimum_term"`
	TermMonths          *int       `json:"term_months"`
	ValidFrom           time.Time  `json:"valid_from" binding:"required"`
	ValidUntil          *time.Time `json:"valid_until"`
	Partner             string     `json:"partner" binding:"required,max=200"`
	Category            string     `json:"category" binding:"required,max=100"`
	ContractType        string     `json:"contract_type" binding:"required,oneof=framework individual"`
	FrameworkContractID *uint      `json:"framework_contract_id"`
}

// ListFilter holds the independently combinable list filters.
type ListFilter struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	OnlyValid bool   `form:"only_valid"`
}

type CalculateResult struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
}
