package claims

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

// dateLayout is the display format used throughout the dashboard
const dateLayout = "02/01/2006"

// Today returns the current date in dashboard display format
func Today() string {
	return time.Now().Format(dateLayout)
}

// Store holds claim records in memory, preserving insertion order.
// It owns a monotonic sequence counter for id assignment, so ids stay
// unique even if records are ever removed. Claims are lost on restart;
// durable storage is the analysis backend's concern.
type Store struct {
	mu      sync.RWMutex
	ordered []*models.Claim
	byID    map[string]*models.Claim
	nextSeq int
	logger  *zap.Logger
}

// NewStore creates an empty claim store
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		byID:    make(map[string]*models.Claim),
		nextSeq: 1,
		logger:  logger,
	}
}

// NextID reserves the next claim identifier, CLM-<year>-<seq>
func (s *Store) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("CLM-%d-%03d", time.Now().Year(), s.nextSeq)
	s.nextSeq++
	return id
}

// Append adds a claim, preserving insertion order
func (s *Store) Append(claim *models.Claim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ordered = append(s.ordered, claim)
	s.byID[claim.ID] = claim
	s.logger.Info("Claim stored",
		zap.String("claim_id", claim.ID),
		zap.String("status", claim.Status))
}

// All returns the full ordered sequence of claims
func (s *Store) All() []*models.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Claim, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Find returns the claim with the given id, or ErrClaimNotFound
func (s *Store) Find(id string) (*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	claim, ok := s.byID[id]
	if !ok {
		return nil, ErrClaimNotFound
	}
	return claim, nil
}

// Filter returns the ordered subsequence of claims matching status.
// An empty status or "all" returns everything.
func (s *Store) Filter(status string) []*models.Claim {
	if status == "" || status == "all" {
		return s.All()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Claim, 0)
	for _, claim := range s.ordered {
		if claim.Status == status {
			out = append(out, claim)
		}
	}
	return out
}

// Len returns the number of stored claims
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ordered)
}

// Stats computes per-status counts over the current store contents.
// Under-review claims count toward Total only.
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.Stats{Total: len(s.ordered)}
	for _, claim := range s.ordered {
		switch claim.Status {
		case models.StatusApproved:
			stats.Approved++
		case models.StatusPending:
			stats.Pending++
		case models.StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

// UpdateStatus changes a claim's status and advances its timeline to
// match. The status must be one of the known claim statuses.
func (s *Store) UpdateStatus(id, status string) (*models.Claim, error) {
	switch status {
	case models.StatusApproved, models.StatusPending, models.StatusUnderReview, models.StatusRejected:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	claim, ok := s.byID[id]
	if !ok {
		return nil, ErrClaimNotFound
	}

	previous := claim.Status
	claim.Status = status
	advanceTimeline(claim, status, time.Now().Format(dateLayout))

	s.logger.Info("Claim status updated",
		zap.String("claim_id", id),
		zap.String("previous", previous),
		zap.String("status", status))
	return claim, nil
}

// AttachDocument appends a document entry to an existing claim
func (s *Store) AttachDocument(id string, doc models.Document) (*models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim, ok := s.byID[id]
	if !ok {
		return nil, ErrClaimNotFound
	}

	claim.Documents = append(claim.Documents, doc)
	return claim, nil
}

// advanceTimeline marks the timeline stages implied by the new status.
// Approved completes the review and approval stages; rejection completes
// the review stage and relabels the approval stage. The payment stage is
// never completed here.
func advanceTimeline(claim *models.Claim, status, date string) {
	if len(claim.Timeline) < 5 {
		return
	}

	complete := func(i int) {
		if !claim.Timeline[i].Completed {
			claim.Timeline[i].Completed = true
			claim.Timeline[i].Date = date
		}
	}

	switch status {
	case models.StatusUnderReview:
		complete(2)
	case models.StatusApproved:
		complete(2)
		complete(3)
	case models.StatusRejected:
		complete(2)
		claim.Timeline[3].Status = "Rejected - Not covered"
		complete(3)
	}
}
