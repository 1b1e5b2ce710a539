package entity

import "time"

const (
	ContractTypeFramework  = "framework"
	ContractTypeIndividual = "individual"
)

// Contract is the central record of the system. The cancellation_date and
// cancellation_action_date columns are derived from notice_period,
// minimum_term and term_months by an explicit batch recompute, never on
// write.
type Contract struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	ContractNumber         string     `gorm:"size:20;uniqueIndex;not null" json:"contract_number"`
	Title                  string     `gorm:"size:200;not null" json:"title"`
	Content                string     `gorm:"type:text" json:"content"`
	Conditions             string     `gorm:"type:text" json:"conditions"`
	NoticePeriod           *int       `json:"notice_period"` // months of advance notice
	MinimumTerm            *time.Time `json:"minimum_term"`  // earliest possible end date
	TermMonths             *int       `json:"term_months"`   // length of one contract period
	CancellationDate       *time.Time `json:"cancellation_date"`
	CancellationActionDate *time.Time `json:"cancellation_action_date"`
	ValidFrom              time.Time  `gorm:"not null" json:"valid_from"`
	ValidUntil             *time.Time `json:"valid_until"`
	Partner                string     `gorm:"size:200;not null" json:"partner"`
	Category               string     `gorm:"size:100;not null;index" json:"category"`
	ContractType           string     `gorm:"size:20;not null" json:"contract_type"`
	FrameworkContractID    *uint      `json:"framework_contract_id"`
	FrameworkContract      *Contract  `gorm:"foreignKey:FrameworkContractID" json:"-"`
	IsTerminated           bool       `gorm:"default:false" json:"is_terminated"`
	TerminatedAt           *time.Time `json:"terminated_at"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// IsValid reports whether the contract is currently valid: not terminated
// and either open-ended or not yet past its end date.
func (c *Contract) IsValid(now time.Time) bool {
	return !c.IsTerminated && (c.ValidUntil == nil || c.ValidUntil.After(now))
}
