package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// -- Enumerations -----------------------------------------------------------------------------------------------------

// Mode describes how participants attend a hackathon
type Mode string

// Status is the lifecycle state of a hackathon listing
type Status string

// SourceType describes where a listing came from
type SourceType string

const (
	// ModeOnline is a hackathon that happens entirely remote
	ModeOnline Mode = "Online"
	// ModeOffline is a hackathon that happens at a physical venue
	ModeOffline Mode = "Offline"
	// ModeHybrid is a hackathon with both remote and on-site participation
	ModeHybrid Mode = "Hybrid"

	// StatusDraft is a listing that is not yet visible to the public
	StatusDraft Status = "draft"
	// StatusPublished is a listing visible to the public
	StatusPublished Status = "published"
	// StatusExpired is a listing whose registration deadline has passed
	StatusExpired Status = "expired"

	// SourceManual is a listing entered by an admin
	SourceManual SourceType = "manual"
	// SourceAI is a listing extracted automatically
	SourceAI SourceType = "ai"
)

// closingSoonWindow is the time before the registration deadline in which a listing counts as "closing soon"
const closingSoonWindow = 3 * 24 * time.Hour

// Valid checks if the mode is one of the known modes
func (m Mode) Valid() bool {
	switch m {
	case ModeOnline, ModeOffline, ModeHybrid:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown modes. The empty string is accepted as "not set".
func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if v := Mode(s); v == "" || v.Valid() {
		*m = v
		return nil
	}
	return fmt.Errorf("unknown mode %q", s)
}

// Valid checks if the status is one of the known states
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusExpired:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown states. The empty string is accepted as "not set".
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if v := Status(str); v == "" || v.Valid() {
		*s = v
		return nil
	}
	return fmt.Errorf("unknown status %q", str)
}

// Valid checks if the source type is one of the known types
func (t SourceType) Valid() bool {
	return t == SourceManual || t == SourceAI
}

// UnmarshalJSON rejects unknown source types. The empty string is accepted as "not set".
func (t *SourceType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if v := SourceType(s); v == "" || v.Valid() {
		*t = v
		return nil
	}
	return fmt.Errorf("unknown source type %q", s)
}

// -- Hackathon --------------------------------------------------------------------------------------------------------

// HackathonInput contains all fields of a hackathon a client is allowed to set on creation
type HackathonInput struct {
	// Name of the hackathon
	Title string `json:"title"`
	// Who runs the hackathon
	Organizer string `json:"organizer"`
	// Free-text (markdown) description
	Description string `json:"description"`
	// How participants attend
	Mode Mode `json:"mode"`
	// When does the hackathon start?
	StartDate time.Time `json:"startDate"`
	// When does the hackathon end?
	EndDate time.Time `json:"endDate"`
	// Until when is registration possible? Not checked against EndDate.
	RegistrationDeadline time.Time `json:"registrationDeadline"`
	// Free-text prize description
	Prize string `json:"prize"`
	// Tags in display order
	Tags []string `json:"tags"`
	// Where to register
	RegistrationLink string `json:"registrationLink"`
	// Where the listing was found - used for duplicate detection
	SourceURL string `json:"sourceUrl"`
	// Who entered the listing
	SourceType SourceType `json:"sourceType"`
	// Extraction confidence (0..1), only meaningful for SourceAI
	AIConfidence *float64 `json:"aiConfidence,omitempty"`
	// Lifecycle state
	Status Status `json:"status"`
}

// Hackathon is a single hackathon listing
type Hackathon struct {
	// Stable identifier assigned on creation
	ID string `json:"id"`
	// URL-safe identifier derived from the title on creation
	Slug string `json:"slug"`
	HackathonInput
	// Creation timestamp
	CreatedAt time.Time `json:"createdAt"`
	// Timestamp of the last update
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasTag checks if the hackathon carries the given tag
func (h *Hackathon) HasTag(tag string) bool {
	for _, t := range h.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DeadlinePassed checks if the registration deadline lies strictly before the given time
func (h *Hackathon) DeadlinePassed(now time.Time) bool {
	return h.RegistrationDeadline.Before(now)
}

// ClosingSoon checks if the registration deadline is still ahead, but less than three days away
func (h *Hackathon) ClosingSoon(now time.Time) bool {
	left := h.RegistrationDeadline.Sub(now)
	return left > 0 && left <= closingSoonWindow
}

// Validate checks the input for creating a new hackathon
func (in HackathonInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.By(notBlank)),
		validation.Field(&in.Mode, validation.In(ModeOnline, ModeOffline, ModeHybrid)),
		validation.Field(&in.Status, validation.In(StatusDraft, StatusPublished, StatusExpired)),
		validation.Field(&in.SourceType, validation.In(SourceManual, SourceAI)),
		validation.Field(&in.AIConfidence, validation.Min(0.0), validation.Max(1.0)),
	)
}

// HackathonPatch is a partial update of a hackathon. Nil fields stay untouched. ID, slug and the timestamps cannot
// be changed this way.
type HackathonPatch struct {
	Title                *string     `json:"title,omitempty"`
	Organizer            *string     `json:"organizer,omitempty"`
	Description          *string     `json:"description,omitempty"`
	Mode                 *Mode       `json:"mode,omitempty"`
	StartDate            *time.Time  `json:"startDate,omitempty"`
	EndDate              *time.Time  `json:"endDate,omitempty"`
	RegistrationDeadline *time.Time  `json:"registrationDeadline,omitempty"`
	Prize                *string     `json:"prize,omitempty"`
	Tags                 *[]string   `json:"tags,omitempty"`
	RegistrationLink     *string     `json:"registrationLink,omitempty"`
	SourceURL            *string     `json:"sourceUrl,omitempty"`
	SourceType           *SourceType `json:"sourceType,omitempty"`
	AIConfidence         *float64    `json:"aiConfidence,omitempty"`
	Status               *Status     `json:"status,omitempty"`
}

// Validate checks all fields present in the patch
func (p HackathonPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.By(notBlank)),
		validation.Field(&p.Mode, validation.NilOrNotEmpty, validation.In(ModeOnline, ModeOffline, ModeHybrid)),
		validation.Field(&p.Status, validation.NilOrNotEmpty, validation.In(StatusDraft, StatusPublished, StatusExpired)),
		validation.Field(&p.SourceType, validation.NilOrNotEmpty, validation.In(SourceManual, SourceAI)),
		validation.Field(&p.AIConfidence, validation.Min(0.0), validation.Max(1.0)),
	)
}

// Apply merges all set fields of the patch into the given hackathon (shallow merge)
func (p HackathonPatch) Apply(h *Hackathon) {
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Organizer != nil {
		h.Organizer = *p.Organizer
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Mode != nil {
		h.Mode = *p.Mode
	}
	if p.StartDate != nil {
		h.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		h.EndDate = *p.EndDate
	}
	if p.RegistrationDeadline != nil {
		h.RegistrationDeadline = *p.RegistrationDeadline
	}
	if p.Prize != nil {
		h.Prize = *p.Prize
	}
	if p.Tags != nil {
		h.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.RegistrationLink != nil {
		h.RegistrationLink = *p.RegistrationLink
	}
	if p.SourceURL != nil {
		h.SourceURL = *p.SourceURL
	}
	if p.SourceType != nil {
		h.SourceType = *p.SourceType
	}
	if p.AIConfidence != nil {
		v := *p.AIConfidence
		h.AIConfidence = &v
	}
	if p.Status != nil {
		h.Status = *p.Status
	}
}

var errBlank = errors.New("cannot be blank")

func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if strings.TrimSpace(s) == "" {
		return errBlank
	}
	return nil
}

// -- Derived values ---------------------------------------------------------------------------------------------------

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL-safe slug from a title: lowercased, every run of non-alphanumerics collapsed into a single
// hyphen and no hyphens at either end
func Slugify(title string) string {
	s := cases.Lower(language.Und).String(title)
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SweepExpired returns a copy of the collection in which every published hackathon whose registration deadline lies
// before now has been marked as expired. The second return value reports if anything changed. The input collection
// is left untouched.
func SweepExpired(collection []Hackathon, now time.Time) ([]Hackathon, bool) {
	ret := make([]Hackathon, len(collection))
	changed := false
	for i, h := range collection {
		if h.Status == StatusPublished && h.DeadlinePassed(now) {
			h.Status = StatusExpired
			changed = true
		}
		ret[i] = h
	}
	return ret, changed
}
