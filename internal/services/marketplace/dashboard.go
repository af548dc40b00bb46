package marketplace

import (
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/domain/listing"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
)

type RepairmanStats struct {
	PendingBids   int64   `json:"pending_bids"`
	ActiveJobs    int64   `json:"active_jobs"`
	CompletedJobs int64   `json:"completed_jobs"`
	ReviewCount   int64   `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

func (s *Service) RepairmanStats(repairmanID uuid.UUID) (RepairmanStats, error) {
	var st RepairmanStats

	if err := s.DB.Model(&models.Bid{}).
		Where("repairman_id = ? AND status = ?", repairmanID, listing.BidPending).
		Count(&st.PendingBids).Error; err != nil {
		return st, err
	}

	countJobs := func(status listing.Status, dst *int64) error {
		return s.DB.Model(&models.Bid{}).
			Joins("JOIN listings ON listings.id = bids.listing_id").
			Where("bids.repairman_id = ? AND bids.status = ?", repairmanID, listing.BidAccepted).
			Where("listings.status = ?", status).
			Count(dst).Error
	}
	if err := countJobs(listing.StatusInProgress, &st.ActiveJobs); err != nil {
		return st, err
	}
	if err := countJobs(listing.StatusCompleted, &st.CompletedJobs); err != nil {
		return st, err
	}

	var agg struct {
		Count int64
		Avg   float64
	}
	if err := s.DB.Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS avg").
		Where("repairman_id = ?", repairmanID).
		Scan(&agg).Error; err != nil {
		return st, err
	}
	st.ReviewCount = agg.Count
	st.AverageRating = agg.Avg
	return st, nil
}
