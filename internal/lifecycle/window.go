package lifecycle

import (
	"context"
	"time"

	"rentcore/internal/models"
)

// DaysUntilLeaseEnd returns whole days between the clock's now and the lease
// end, negative once the lease has ended.
func (c *Coordinator) DaysUntilLeaseEnd(lease *models.Lease) int {
	return int(lease.EndDate.Sub(c.clock.Now()).Hours() / 24)
}

// EndingSoon reports whether a running lease ends within the given number of
// days. Terminated leases never qualify.
func (c *Coordinator) EndingSoon(lease *models.Lease, days int) bool {
	if lease.Status == models.LeaseTerminated {
		return false
	}
	remaining := c.DaysUntilLeaseEnd(lease)
	return remaining >= 0 && remaining <= days
}

// LeasesEndingWithin lists running leases whose end date falls inside the
// window starting at the clock's now.
func (c *Coordinator) LeasesEndingWithin(ctx context.Context, days int) ([]models.Lease, error) {
	now := c.clock.Now()
	until := now.Add(time.Duration(days) * 24 * time.Hour)

	var leases []models.Lease
	err := c.db.WithContext(ctx).
		Where("status IN ? AND end_date >= ? AND end_date <= ?",
			[]models.LeaseStatus{models.LeaseActive, models.LeaseRenewed}, now, until).
		Order("end_date").
		Find(&leases).Error
	return leases, err
}
