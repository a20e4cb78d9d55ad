package internal

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"golang.org/x/text/cases"

	"github.com/derWhity/hackpulse/internal/ctxhelper"
	"github.com/derWhity/hackpulse/internal/log"
	"github.com/derWhity/hackpulse/internal/models"
	"github.com/derWhity/hackpulse/internal/repos"
)

// ListingService is the CRUD and query surface for hackathon listings. It performs no authorization checks.
type ListingService interface {
	// List returns all hackathons matching the filter, soonest registration deadline first. Published hackathons
	// whose deadline has passed are marked as expired (and stored) before filtering.
	List(ctx context.Context, filter ListFilter) ([]models.Hackathon, error)
	// Get returns the hackathon with the given ID
	Get(ctx context.Context, id string) (*models.Hackathon, error)
	// Create adds a new hackathon unless one with the same title or source URL already exists
	Create(ctx context.Context, in models.HackathonInput) (*models.Hackathon, error)
	// Update merges the patch into the hackathon with the given ID
	Update(ctx context.Context, id string, patch models.HackathonPatch) (*models.Hackathon, error)
	// Delete removes the hackathon with the given ID. Deleting a non-existing hackathon is no error.
	Delete(ctx context.Context, id string) error
	// Stats counts the hackathons per status and those closing soon
	Stats(ctx context.Context) (*ListingStats, error)
	// Tags returns the tag catalog offered for editing hackathons
	Tags(ctx context.Context) []string
}

// ListFilter restricts the result of a listing. Empty fields do not filter.
type ListFilter struct {
	Status models.Status
	Mode   models.Mode
	Tag    string
	// Case-insensitive substring of the title or the organizer
	Search string
}

// ListingStats is the summary shown on the admin dashboard
type ListingStats struct {
	Total       int                   `json:"total"`
	ByStatus    map[models.Status]int `json:"byStatus"`
	ClosingSoon int                   `json:"closingSoon"`
}

// TagCatalog provides the list of tags admins can choose from
type TagCatalog interface {
	Tags(ctx context.Context) []string
}

// IDGenerator creates new unique hackathon IDs
type IDGenerator func() string

// NewHackathonID creates a random hackathon ID
func NewHackathonID() string {
	return "hack_" + uuid.New().String()
}

// -- ListingService implementation ------------------------------------------------------------------------------------

type listingService struct {
	// Serializes the read-modify-write cycles on the collection
	mtx    sync.Mutex
	repo   repos.HackathonRepo
	tags   TagCatalog
	now    func() time.Time
	newID  IDGenerator
	logger *logrus.Entry
}

// NewListingService creates a new listing service working on the given repository. If now or newID are nil,
// time.Now and NewHackathonID are used.
func NewListingService(
	repo repos.HackathonRepo,
	tags TagCatalog,
	now func() time.Time,
	newID IDGenerator,
	logger *logrus.Entry,
) ListingService {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = NewHackathonID
	}
	return &listingService{
		repo:   repo,
		tags:   tags,
		now:    now,
		newID:  newID,
		logger: logger,
	}
}

func (s *listingService) logFor(ctx context.Context) *logrus.Entry {
	return ctxhelper.LoggerOr(ctx, s.logger)
}

// load reads the collection from the repository
func (s *listingService) load(ctx context.Context) ([]models.Hackathon, error) {
	col, err := s.repo.Load()
	if err != nil {
		s.logFor(ctx).WithError(err).Error("Failed to load hackathons")
		return nil, makeRepoError("Failed to load hackathons from storage", err)
	}
	return col, nil
}

// save writes the collection to the repository
func (s *listingService) save(ctx context.Context, col []models.Hackathon) error {
	if err := s.repo.Save(col); err != nil {
		s.logFor(ctx).WithError(err).Error("Failed to save hackathons")
		return makeRepoError("Failed to write hackathons to storage", err)
	}
	return nil
}

// loadSwept loads the collection and stores it again if the expiry sweep changed anything
func (s *listingService) loadSwept(ctx context.Context) ([]models.Hackathon, error) {
	col, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	before := countStatus(col, models.StatusExpired)
	swept, changed := models.SweepExpired(col, s.now())
	if changed {
		s.logFor(ctx).WithField(log.FldCount, countStatus(swept, models.StatusExpired)-before).
			Info("Marked hackathons with passed registration deadline as expired")
		if err := s.save(ctx, swept); err != nil {
			return nil, err
		}
	}
	return swept, nil
}

func countStatus(col []models.Hackathon, status models.Status) int {
	n := 0
	for i := range col {
		if col[i].Status == status {
			n++
		}
	}
	return n
}

func indexOf(col []models.Hackathon, id string) int {
	for i := range col {
		if col[i].ID == id {
			return i
		}
	}
	return -1
}

func (f ListFilter) matches(h *models.Hackathon) bool {
	if f.Status != "" && h.Status != f.Status {
		return false
	}
	if f.Mode != "" && h.Mode != f.Mode {
		return false
	}
	if f.Tag != "" && !h.HasTag(f.Tag) {
		return false
	}
	if f.Search != "" {
		folder := cases.Fold()
		term := folder.String(f.Search)
		if !strings.Contains(folder.String(h.Title), term) && !strings.Contains(folder.String(h.Organizer), term) {
			return false
		}
	}
	return true
}

// List returns all hackathons matching the filter, soonest registration deadline first
func (s *listingService) List(ctx context.Context, filter ListFilter) ([]models.Hackathon, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	col, err := s.loadSwept(ctx)
	if err != nil {
		return nil, err
	}
	ret := []models.Hackathon{}
	for i := range col {
		if filter.matches(&col[i]) {
			ret = append(ret, col[i])
		}
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].RegistrationDeadline.Before(ret[j].RegistrationDeadline)
	})
	s.logFor(ctx).WithFields(logrus.Fields{
		log.FldStatus: filter.Status,
		log.FldMode:   filter.Mode,
		log.FldTag:    filter.Tag,
		log.FldCount:  len(ret),
	}).Debug("Listed hackathons")
	return ret, nil
}

// Get returns the hackathon with the given ID
func (s *listingService) Get(ctx context.Context, id string) (*models.Hackathon, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	col, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(col, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	h := col[idx]
	return &h, nil
}

// Create adds a new hackathon unless one with the same title or source URL already exists
func (s *listingService) Create(ctx context.Context, in models.HackathonInput) (*models.Hackathon, error) {
	logger := s.logFor(ctx).WithField(log.FldTitle, in.Title)
	if err := in.Validate(); err != nil {
		return nil, makeValidationError(err)
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	col, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range col {
		if col[i].Title == in.Title || col[i].SourceURL == in.SourceURL {
			logger.WithField(log.FldID, col[i].ID).Warn("Rejected duplicate hackathon")
			return nil, ErrDuplicateConflict
		}
	}
	if in.SourceType == "" {
		in.SourceType = models.SourceManual
	}
	if in.Status == "" {
		in.Status = models.StatusDraft
	}
	in.Tags = append([]string{}, in.Tags...)
	now := s.now()
	h := models.Hackathon{
		ID:             s.newID(),
		Slug:           models.Slugify(in.Title),
		HackathonInput: in,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.save(ctx, append(col, h)); err != nil {
		return nil, err
	}
	logger.WithField(log.FldID, h.ID).Info("Created hackathon")
	return &h, nil
}

// Update merges the patch into the hackathon with the given ID
func (s *listingService) Update(ctx context.Context, id string, patch models.HackathonPatch) (*models.Hackathon, error) {
	logger := s.logFor(ctx).WithField(log.FldID, id)
	if err := patch.Validate(); err != nil {
		return nil, makeValidationError(err)
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	col, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(col, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	h := col[idx]
	patch.Apply(&h)
	h.UpdatedAt = s.now()
	col[idx] = h
	if err := s.save(ctx, col); err != nil {
		return nil, err
	}
	logger.Info("Updated hackathon")
	return &h, nil
}

// Delete removes the hackathon with the given ID
func (s *listingService) Delete(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	col, err := s.load(ctx)
	if err != nil {
		return err
	}
	ret := make([]models.Hackathon, 0, len(col))
	for i := range col {
		if col[i].ID != id {
			ret = append(ret, col[i])
		}
	}
	if err := s.save(ctx, ret); err != nil {
		return err
	}
	if len(ret) < len(col) {
		s.logFor(ctx).WithField(log.FldID, id).Info("Deleted hackathon")
	}
	return nil
}

// Stats counts the hackathons per status and those closing soon
func (s *listingService) Stats(ctx context.Context) (*ListingStats, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	col, err := s.loadSwept(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	stats := ListingStats{
		Total: len(col),
		ByStatus: map[models.Status]int{
			models.StatusDraft:     0,
			models.StatusPublished: 0,
			models.StatusExpired:   0,
		},
	}
	for i := range col {
		stats.ByStatus[col[i].Status]++
		if col[i].Status == models.StatusPublished && col[i].ClosingSoon(now) {
			stats.ClosingSoon++
		}
	}
	return &stats, nil
}

// Tags returns the tag catalog offered for editing hackathons
func (s *listingService) Tags(ctx context.Context) []string {
	if s.tags == nil {
		return append([]string{}, models.DefaultTags...)
	}
	return s.tags.Tags(ctx)
}

// makeValidationError converts a validation result into the error returned to the client
func makeValidationError(err error) error {
	if errs, ok := err.(validation.Errors); ok {
		details := make(map[string]string, len(errs))
		for field, fieldErr := range errs {
			details[field] = fieldErr.Error()
		}
		return MakeErrorWithData(http.StatusBadRequest, ErrCodeIllegalValue, "Invalid hackathon data", details)
	}
	return MakeErrorWithData(http.StatusBadRequest, ErrCodeIllegalValue, err.Error(), nil)
}
