package internal

import (
	"fmt"
	"io/ioutil"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/hackpulse/internal/ctxhelper"
	"github.com/derWhity/hackpulse/internal/models"
	hackathonrepo "github.com/derWhity/hackpulse/internal/repos/hackathon/kv"
	"github.com/derWhity/hackpulse/internal/repos/kv/inmem"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.Out = ioutil.Discard
	return logrus.NewEntry(l)
}

func testContext() context.Context {
	return context.WithValue(context.Background(), ctxhelper.KeyLogger, testLogger())
}

// fakeClock is a manually advanced clock
type fakeClock struct {
	mtx sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.now = c.now.Add(d)
}

// sequentialIDs returns an ID generator producing hack_1, hack_2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("hack_%d", n)
	}
}

// fixedTags is a static tag catalog
type fixedTags []string

func (t fixedTags) Tags(_ context.Context) []string {
	return append([]string{}, t...)
}

func newTestListingService(clock *fakeClock) (ListingService, *inmem.KVRepo) {
	store := inmem.New()
	repo := hackathonrepo.New(store, "hackpulse_data", clock.Now, testLogger())
	return NewListingService(repo, fixedTags{"Go", "AI"}, clock.Now, sequentialIDs(), testLogger()), store
}

func newInput(title, sourceURL string) models.HackathonInput {
	return models.HackathonInput{
		Title:                title,
		Organizer:            "Gopher Guild",
		Mode:                 models.ModeOnline,
		RegistrationDeadline: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Tags:                 []string{"Go"},
		SourceURL:            sourceURL,
		SourceType:           models.SourceManual,
		Status:               models.StatusPublished,
	}
}
