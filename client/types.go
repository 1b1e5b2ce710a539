package client

import "time"

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"

	ContractTypeFramework  = "framework"
	ContractTypeIndividual = "individual"
)

type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type Contract struct {
	ID                     uint       `json:"id"`
	ContractNumber         string     `json:"contract_number"`
	Title                  string     `json:"title"`
	Content                string     `json:"content"`
	Conditions             string     `json:"conditions"`
	NoticePeriod           *int       `json:"notice_period"`
	MinimumTerm            *time.Time `json:"minimum_term"`
	TermMonths             *int       `json:"term_months"`
	CancellationDate       *time.Time `json:"cancellation_date"`
	CancellationActionDate *time.Time `json:"cancellation_action_date"`
	ValidFrom              time.Time  `json:"valid_from"`
	ValidUntil             *time.Time `json:"valid_until"`
	Partner                string     `json:"partner"`
	Category               string     `json:"category"`
	ContractType           string     `json:"contract_type"`
	FrameworkContractID    *uint      `json:"framework_contract_id"`
	IsTerminated           bool       `json:"is_terminated"`
	TerminatedAt           *time.Time `json:"terminated_at"`
	CreatedAt              time.Time  `json:"created_at"`
}

// ContractForm is the write payload for creating and updating contracts.
// Optional fields marshal as null when unset, which the server reads as
// "not specified".
type ContractForm struct {
	ContractNumber      string     `json:"contract_number,omitempty"`
	Title               string     `json:"title"`
	Content             string     `json:"content"`
	Conditions          string     `json:"conditions"`
	NoticePeriod        *int       `json:"notice_period"`
	MinimumTerm         *time.Time `json:"minimum_term"`
	TermMonths          *int       `json:"term_months"`
	ValidFrom           time.Time  `json:"valid_from"`
	ValidUntil          *time.Time `json:"valid_until"`
	Partner             string     `json:"partner"`
	Category            string     `json:"category"`
	ContractType        string     `json:"contract_type"`
	FrameworkContractID *uint      `json:"framework_contract_id"`
}

type Document struct {
	ID         uint      `json:"id"`
	ContractID uint      `json:"contract_id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CalculateResult struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
}

type UserForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ListOptions are the independently combinable contract list filters.
type ListOptions struct {
	Search    string
	Category  string
	OnlyValid bool
}
