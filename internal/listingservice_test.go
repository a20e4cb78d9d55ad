package internal

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/hackpulse/internal/models"
)

func TestListPublishedAfterSeeding(t *testing.T) {
	clock := newFakeClock()
	s, _ := newTestListingService(clock)
	ctx := testContext()

	list, err := s.List(ctx, ListFilter{Status: models.StatusPublished})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "seed_1", list[0].ID)
	assert.True(t, list[0].RegistrationDeadline.Equal(clock.Now().Add(24*time.Hour)))

	list, err = s.List(ctx, ListFilter{Status: models.StatusPublished, Mode: models.ModeOnline})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = s.List(ctx, ListFilter{Status: models.StatusPublished, Mode: models.ModeOffline})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListFilters(t *testing.T) {
	s, _ := newTestListingService(newFakeClock())
	ctx := testContext()

	list, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = s.List(ctx, ListFilter{Tag: "Blockchain"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "seed_2", list[0].ID)

	list, err = s.List(ctx, ListFilter{Tag: "blockchain"})
	require.NoError(t, err)
	assert.Empty(t, list, "tag matching is exact")

	list, err = s.List(ctx, ListFilter{Search: "university"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "seed_3", list[0].ID)

	list, err = s.List(ctx, ListFilter{Search: "CHALLENGE"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "seed_1", list[0].ID)
}

func TestListSortedByDeadline(t *testing.T) {
	clock := newFakeClock()
	s, _ := newTestListingService(clock)
	ctx := testContext()

	for i, offset := range []time.Duration{72 * time.Hour, 2 * time.Hour, 72 * time.Hour, 30 * 24 * time.Hour} {
		in := newInput(string(rune('A'+i))+" Jam", fmt.Sprintf("https://example.org/jam/%d", i))
		in.RegistrationDeadline = clock.Now().Add(offset)
		_, err := s.Create(ctx, in)
		require.NoError(t, err)
	}
	list, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 7)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].RegistrationDeadline.Before(list[i-1].RegistrationDeadline),
			"%s before %s", list[i-1].ID, list[i].ID)
	}
	// Ties keep the stored order
	var ties []string
	for _, h := range list {
		if h.RegistrationDeadline.Equal(clock.Now().Add(72 * time.Hour)) {
			ties = append(ties, h.Title)
		}
	}
	assert.Equal(t, []string{"A Jam", "C Jam"}, ties)
}

func TestExpirySweep(t *testing.T) {
	clock := newFakeClock()
	s, store := newTestListingService(clock)
	ctx := testContext()

	list, err := s.List(ctx, ListFilter{Status: models.StatusPublished})
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Two days later the deadline of seed 1 has passed
	clock.Advance(48 * time.Hour)
	list, err = s.List(ctx, ListFilter{Status: models.StatusPublished})
	require.NoError(t, err)
	assert.Empty(t, list)

	h, err := s.Get(ctx, "seed_1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, h.Status, "the sweep has been persisted")
	raw, err := store.Get("hackpulse_data")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"seed_1"`)

	// Moving the clock back does not revert the expiry
	clock.Advance(-72 * time.Hour)
	list, err = s.List(ctx, ListFilter{Status: models.StatusExpired})
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Drafts are never swept
	h, err = s.Get(ctx, "seed_2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, h.Status)
}

func TestGetNotFound(t *testing.T) {
	s, _ := newTestListingService(newFakeClock())
	_, err := s.Get(testContext(), "global-ai-challenge-2024")
	assert.Equal(t, ErrNotFound, err, "no lookup by slug")
}

func TestCreateRoundTrip(t *testing.T) {
	clock := newFakeClock()
	s, _ := newTestListingService(clock)
	ctx := testContext()

	in := newInput("Gophers Unite!", "https://example.org/gophers")
	conf := 0.75
	in.AIConfidence = &conf
	in.SourceType = models.SourceAI
	created, err := s.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "hack_1", created.ID)
	assert.Equal(t, "gophers-unite", created.Slug)
	assert.True(t, created.CreatedAt.Equal(clock.Now()))
	assert.True(t, created.UpdatedAt.Equal(clock.Now()))

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.SourceURL, got.SourceURL)
	assert.Equal(t, in.Tags, got.Tags)
	assert.Equal(t, in.Mode, got.Mode)
	assert.Equal(t, in.Status, got.Status)
	assert.Equal(t, models.SourceAI, got.SourceType)
	require.NotNil(t, got.AIConfidence)
	assert.Equal(t, 0.75, *got.AIConfidence)
	assert.True(t, in.RegistrationDeadline.Equal(got.RegistrationDeadline))
}

func TestCreateDefaults(t *testing.T) {
	s, _ := newTestListingService(newFakeClock())
	in := newInput("Defaults Day", "")
	in.SourceType = ""
	in.Status = ""
	created, err := s.Create(testContext(), in)
	require.NoError(t, err)
	assert.Equal(t, models.SourceManual, created.SourceType)
	assert.Equal(t, models.StatusDraft, created.Status)
}

func TestCreateDuplicates(t *testing.T) {
	s, _ := newTestListingService(newFakeClock())
	ctx := testContext()

	// Both fields collide with seed 1
	_, err := s.Create(ctx, newInput("Global AI Challenge 2024", "https://example.com/hackathons/ai-2024"))
	assert.Equal(t, ErrDuplicateConflict, err)
	// Title alone is enough
	_, err = s.Create(ctx, newInput("Global AI Challenge 2024", "https://example.org/elsewhere"))
	assert.Equal(t, ErrDuplicateConflict, err)
	// Source URL alone is enough
	_, err = s.Create(ctx, newInput("Something New", "https://example.com/web3"))
	assert.Equal(t, ErrDuplicateConflict, err)
	// Both distinct
	_, err = s.Create(ctx, newInput("Something New", "https://example.org/new"))
	assert.NoError(t, err)
	// An empty source URL collides with another empty one
	_, err = s.Create(ctx, newInput("No Source A", ""))
	assert.NoError(t, err)
	_, err = s.Create(ctx, newInput("No Source B", ""))
	assert.Equal(t, ErrDuplicateConflict, err)

	list, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestCreateValidation(t *testing.T) {
	s, _ := newTestListingService(newFakeClock())
	in := newInput("", "https://example.org/x")
	in.Mode = "Underwater"
	_, err := s.Create(testContext(), in)
	require.Error(t, err)
	httpErr, ok := err.(*HTTPError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeIllegalValue, httpErr.ErrorCode())
	assert.Equal(t, 400, httpErr.Status())
	details, ok := httpErr.Data().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "mode")
}

func TestUpdate(t *testing.T) {
	clock := newFakeClock()
	s, _ := newTestListingService(clock)
	ctx := testContext()

	before, err := s.Get(ctx, "seed_2")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	title := "X"
	status := models.StatusPublished
	updated, err := s.Update(ctx, "seed_2", models.HackathonPatch{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, before.ID, updated.ID)
	assert.Equal(t, before.Slug, updated.Slug)
	assert.True(t, before.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, models.StatusPublished, updated.Status)
	assert.Equal(t, before.Organizer, updated.Organizer)
	assert.Equal(t, before.Tags, updated.Tags)

	got, err := s.Get(ctx, "seed_2")
	require.NoError(t, err)
	assert.Equal(t, "X", got.Title)

	// No duplicate check on update
	dup := "Student Code Fest"
	_, err = s.Update(ctx, "seed_2", models.HackathonPatch{Title: &dup})
	assert.NoError(t, err)

	_, err = s.Update(ctx, "missing", models.HackathonPatch{Title: &title})
	assert.Equal(t, ErrNotFound, err)

	empty := ""
	_, err = s.Update(ctx, "seed_2", models.HackathonPatch{Title: &empty})
	require.Error(t, err)
	assert.Equal(t, ErrCodeIllegalValue, err.(*HTTPError).ErrorCode())
}

func TestDeleteIdempotent(t *testing.T) {
	s, _ := newTestListingService(newFakeClock())
	ctx := testContext()

	require.NoError(t, s.Delete(ctx, "does-not-exist"))
	list, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	require.NoError(t, s.Delete(ctx, "seed_3"))
	require.NoError(t, s.Delete(ctx, "seed_3"))
	list, err = s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	_, err = s.Get(ctx, "seed_3")
	assert.Equal(t, ErrNotFound, err)
}

func TestStats(t *testing.T) {
	clock := newFakeClock()
	s, _ := newTestListingService(clock)
	ctx := testContext()

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[models.StatusPublished])
	assert.Equal(t, 1, stats.ByStatus[models.StatusDraft])
	assert.Equal(t, 1, stats.ByStatus[models.StatusExpired])
	assert.Equal(t, 1, stats.ClosingSoon)

	clock.Advance(48 * time.Hour)
	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ByStatus[models.StatusPublished])
	assert.Equal(t, 2, stats.ByStatus[models.StatusExpired])
	assert.Equal(t, 0, stats.ClosingSoon)
}

func TestTags(t *testing.T) {
	s, _ := newTestListingService(newFakeClock())
	assert.Equal(t, []string{"Go", "AI"}, s.Tags(testContext()))

	noCatalog := NewListingService(nil, nil, nil, nil, testLogger())
	assert.Equal(t, models.DefaultTags, noCatalog.Tags(testContext()))
}
