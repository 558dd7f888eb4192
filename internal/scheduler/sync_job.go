package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"argentasync/internal/domain/account"
	domainsync "argentasync/internal/domain/sync"
)

// SyncJob runs one incremental sync for a linked account.
type SyncJob struct {
	service   *domainsync.Service
	accountID string
	iban      string
}

// Ensure SyncJob implements Job
var _ Job = (*SyncJob)(nil)

// NewSyncJob creates a sync job for one account.
func NewSyncJob(service *domainsync.Service, accountID, iban string) *SyncJob {
	return &SyncJob{
		service:   service,
		accountID: accountID,
		iban:      iban,
	}
}

// Execute runs the incremental sync. A run rejected because another sync or
// login is in progress is logged and skipped, not retried: the next scheduled
// slot picks the account up again.
func (j *SyncJob) Execute(ctx context.Context) error {
	result, err := j.service.SyncAccount(ctx, j.accountID, false)
	if err != nil {
		if errors.Is(err, domainsync.ErrSyncInProgress) {
			log.Printf("Scheduled sync for %s skipped: another sync is in progress", j.iban)
			return nil
		}
		return err
	}

	if !result.Success {
		return fmt.Errorf("sync failed: %s", result.Message)
	}

	log.Printf("Scheduled sync for %s: %s", j.iban, result.Message)
	return nil
}

// AccountID returns the bank account this job syncs.
func (j *SyncJob) AccountID() string {
	return j.accountID
}

// Description returns a human-readable description of the job.
func (j *SyncJob) Description() string {
	return fmt.Sprintf("incremental sync of %s", j.iban)
}

// SyncJobProvider builds one sync job per linked account. Unlinked accounts
// have no destination, so scheduling them would only produce noise.
func SyncJobProvider(service *domainsync.Service, accounts account.Repository) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		all, err := accounts.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}

		var jobs []Job
		for _, acc := range all {
			if !acc.Linked() {
				continue
			}
			jobs = append(jobs, NewSyncJob(service, acc.ID, acc.IBAN))
		}

		return jobs, nil
	}
}
