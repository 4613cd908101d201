package dto

import (
	"github.com/ahamo-portal/portal/internal/domain/contract"
	"github.com/ahamo-portal/portal/internal/domain/plan"
)

// ContractResponse is the dashboard view of the subscriber's current contract
type ContractResponse struct {
	*contract.Contract
	Plan         *plan.Plan            `json:"plan"`
	UsageSummary contract.UsageSummary `json:"usageSummary"`
	TenureLocked bool                  `json:"tenureLocked"`
}
