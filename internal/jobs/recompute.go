package jobs

import (
	"context"
	"log"

	contract "contractdesk/internal/modules/contract/service"
)

// RecomputeJob refreshes the derived cancellation dates of every active
// contract. It runs nightly so the expiring-contracts report stays accurate
// as time passes, even without any writes.
type RecomputeJob struct {
	service  contract.ContractService
	schedule string
}

func NewRecomputeJob(service contract.ContractService, schedule string) *RecomputeJob {
	return &RecomputeJob{service: service, schedule: schedule}
}

func (j *RecomputeJob) Name() string     { return "cancellation-recompute" }
func (j *RecomputeJob) Schedule() string { return j.schedule }

func (j *RecomputeJob) Run(ctx context.Context) error {
	res, err := j.service.CalculateCancellationDates(ctx)
	if err != nil {
		return err
	}
	log.Printf("job %s: %s", j.Name(), res.Message)
	return nil
}
