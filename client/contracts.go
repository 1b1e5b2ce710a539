package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListContracts returns contracts matching the filters, newest first.
func (c *Client) ListContracts(ctx context.Context, opts ListOptions) ([]Contract, error) {
	params := url.Values{}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}
	if opts.Category != "" {
		params.Set("category", opts.Category)
	}
	if opts.OnlyValid {
		params.Set("only_valid", "true")
	}

	path := "/contracts"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var contracts []Contract
	found, err := c.do(ctx, http.MethodGet, path, nil, &contracts)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Contract{}, nil
	}
	return contracts, nil
}

// GetContract returns a contract by ID, or nil when it does not exist.
func (c *Client) GetContract(ctx context.Context, id uint) (*Contract, error) {
	var contract Contract
	found, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/contracts/%d", id), nil, &contract)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &contract, nil
}

// ContractDetail is a contract together with everything the detail screen
// shows: its documents and, for individual contracts, the linked framework
// contract.
type ContractDetail struct {
	Contract  Contract
	Documents []Document
	Framework *Contract
}

// GetContractDetail returns a contract with its documents and linked
// framework contract, or nil when the contract does not exist. A failing
// framework lookup leaves Framework nil rather than failing the whole
// detail.
func (c *Client) GetContractDetail(ctx context.Context, id uint) (*ContractDetail, error) {
	contract, err := c.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, nil
	}

	docs, err := c.ListDocuments(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ContractDetail{Contract: *contract, Documents: docs}
	if contract.FrameworkContractID != nil {
		if framework, err := c.GetContract(ctx, *contract.FrameworkContractID); err == nil {
			detail.Framework = framework
		}
	}
	return detail, nil
}

func (c *Client) CreateContract(ctx context.Context, form ContractForm) (*Contract, error) {
	var contract Contract
	if _, err := c.do(ctx, http.MethodPost, "/contracts", form, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (c *Client) UpdateContract(ctx context.Context, id uint, form ContractForm) (*Contract, error) {
	var contract Contract
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/contracts/%d", id), form, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// TerminateContract marks a contract as terminated. Terminating twice is an
// *APIError with status 409.
func (c *Client) TerminateContract(ctx context.Context, id uint) (*Contract, error) {
	var contract Contract
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/contracts/%d/terminate", id), nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// CalculateDates triggers the server-side recompute of cancellation dates
// for all active contracts.
func (c *Client) CalculateDates(ctx context.Context) (*CalculateResult, error) {
	var result CalculateResult
	if _, err := c.do(ctx, http.MethodPost, "/contracts/calculate-dates", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExpiringContracts lists non-terminated contracts whose cancellation
// action date falls within the next days days. Zero days uses the server
// default window.
func (c *Client) ExpiringContracts(ctx context.Context, days int) ([]Contract, error) {
	path := "/reports/expiring"
	if days > 0 {
		path += "?days=" + strconv.Itoa(days)
	}

	var contracts []Contract
	found, err := c.do(ctx, http.MethodGet, path, nil, &contracts)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Contract{}, nil
	}
	return contracts, nil
}

// ValidContracts lists all currently valid contracts.
func (c *Client) ValidContracts(ctx context.Context) ([]Contract, error) {
	var contracts []Contract
	found, err := c.do(ctx, http.MethodGet, "/reports/valid", nil, &contracts)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Contract{}, nil
	}
	return contracts, nil
}
