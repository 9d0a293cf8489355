package claims

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(zap.NewNop())
}

func testClaim(id, status string) *models.Claim {
	return &models.Claim{
		ID:     id,
		Status: status,
		Timeline: []models.TimelineEntry{
			{Status: models.StageSubmitted, Date: "01/01/2024", Completed: true},
			{Status: models.StageAIVerified},
			{Status: models.StageUnderReview},
			{Status: models.StageApproved},
			{Status: models.StagePaid},
		},
	}
}

func TestStore_AppendAndFind(t *testing.T) {
	store := newTestStore(t)

	claim := testClaim("CLM-2024-001", models.StatusPending)
	store.Append(claim)

	found, err := store.Find("CLM-2024-001")
	require.NoError(t, err)
	assert.Same(t, claim, found)
}

func TestStore_FindUnknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Find("CLM-2024-999")
	assert.ErrorIs(t, err, ErrClaimNotFound)
}

func TestStore_AllPreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t)

	ids := []string{"CLM-2024-003", "CLM-2024-001", "CLM-2024-002"}
	for _, id := range ids {
		store.Append(testClaim(id, models.StatusPending))
	}

	all := store.All()
	require.Len(t, all, 3)
	for i, id := range ids {
		assert.Equal(t, id, all[i].ID)
	}
}

func TestStore_Filter(t *testing.T) {
	store := newTestStore(t)

	statuses := []string{
		models.StatusApproved,
		models.StatusPending,
		models.StatusUnderReview,
		models.StatusRejected,
		models.StatusPending,
	}
	for i, status := range statuses {
		store.Append(testClaim(fmt.Sprintf("CLM-2024-%03d", i+1), status))
	}

	t.Run("matches only the requested status", func(t *testing.T) {
		pending := store.Filter(models.StatusPending)
		require.Len(t, pending, 2)
		for _, claim := range pending {
			assert.Equal(t, models.StatusPending, claim.Status)
		}
		assert.Equal(t, "CLM-2024-002", pending[0].ID)
		assert.Equal(t, "CLM-2024-005", pending[1].ID)
	})

	t.Run("empty and all return everything", func(t *testing.T) {
		assert.Len(t, store.Filter(""), 5)
		assert.Len(t, store.Filter("all"), 5)
	})

	t.Run("no matches yields an empty non-nil slice", func(t *testing.T) {
		empty := NewStore(zap.NewNop())
		result := empty.Filter(models.StatusRejected)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("status filters partition the store", func(t *testing.T) {
		count := 0
		for _, status := range []string{
			models.StatusApproved, models.StatusPending,
			models.StatusUnderReview, models.StatusRejected,
		} {
			count += len(store.Filter(status))
		}
		assert.Equal(t, store.Len(), count)
	})
}

func TestStore_Stats(t *testing.T) {
	store := newTestStore(t)

	t.Run("empty store", func(t *testing.T) {
		assert.Equal(t, models.Stats{}, store.Stats())
	})

	store.Append(testClaim("CLM-2024-001", models.StatusApproved))
	store.Append(testClaim("CLM-2024-002", models.StatusPending))
	store.Append(testClaim("CLM-2024-003", models.StatusUnderReview))
	store.Append(testClaim("CLM-2024-004", models.StatusRejected))
	store.Append(testClaim("CLM-2024-005", models.StatusPending))

	stats := store.Stats()
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Rejected)

	t.Run("under-review counts toward total only", func(t *testing.T) {
		assert.Equal(t, stats.Total, store.Len())
		assert.Less(t, stats.Approved+stats.Pending+stats.Rejected, stats.Total)
	})
}

func TestStore_NextIDMonotonic(t *testing.T) {
	store := newTestStore(t)

	first := store.NextID()
	second := store.NextID()

	assert.Regexp(t, `^CLM-\d{4}-\d{3}$`, first)
	assert.Regexp(t, `^CLM-\d{4}-\d{3}$`, second)
	assert.NotEqual(t, first, second)
}

func TestStore_SeedAdvancesCounter(t *testing.T) {
	store := newTestStore(t)
	store.Seed()

	require.Equal(t, 5, store.Len())

	// The sequence must not collide with seeded ids
	id := store.NextID()
	assert.Regexp(t, `^CLM-\d{4}-006$`, id)
}

func TestStore_UpdateStatus(t *testing.T) {
	t.Run("updates status and timeline", func(t *testing.T) {
		store := newTestStore(t)
		store.Append(testClaim("CLM-2024-001", models.StatusPending))

		claim, err := store.UpdateStatus("CLM-2024-001", models.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, claim.Status)
		assert.True(t, claim.Timeline[2].Completed)
		assert.True(t, claim.Timeline[3].Completed)
		assert.False(t, claim.Timeline[4].Completed)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		store := newTestStore(t)
		store.Append(testClaim("CLM-2024-001", models.StatusPending))

		_, err := store.UpdateStatus("CLM-2024-001", "archived")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("unknown claim", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.UpdateStatus("CLM-2024-404", models.StatusApproved)
		assert.ErrorIs(t, err, ErrClaimNotFound)
	})
}

func TestStore_AttachDocument(t *testing.T) {
	store := newTestStore(t)
	store.Append(testClaim("CLM-2024-001", models.StatusPending))

	doc := models.Document{Name: "report.pdf", Size: "1.20 MB", UploadDate: "01/02/2024"}
	claim, err := store.AttachDocument("CLM-2024-001", doc)
	require.NoError(t, err)
	require.Len(t, claim.Documents, 1)
	assert.Equal(t, "report.pdf", claim.Documents[0].Name)

	_, err = store.AttachDocument("CLM-2024-404", doc)
	assert.ErrorIs(t, err, ErrClaimNotFound)
}
