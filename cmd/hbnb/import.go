package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
	"github.com/hbnb/rental-api/internal/core/service"
	"github.com/hbnb/rental-api/internal/infrastructure/queue"
	"github.com/hbnb/rental-api/pkg/logger"
)

// fixture is the bulk-import file format. Places point at their owner by
// email; reviews point at their place by title and their author by email.
type fixture struct {
	Users     []fixtureUser   `json:"users"`
	Amenities []string        `json:"amenities"`
	Places    []fixturePlace  `json:"places"`
	Reviews   []fixtureReview `json:"reviews"`
}

type fixtureUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
}

type fixturePlace struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	MaxPerson   int      `json:"max_person"`
	OwnerEmail  string   `json:"owner_email"`
	Amenities   []string `json:"amenities"`
}

type fixtureReview struct {
	Text        string `json:"text"`
	Rating      int    `json:"rating"`
	PlaceTitle  string `json:"place_title"`
	AuthorEmail string `json:"author_email"`
}

type importReport struct {
	Users     int
	Amenities int
	Places    int
	Reviews   int
	Skipped   int
	Failed    int
}

func importCommand(c *cli.Context) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	log := logger.Component("import")

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	b, err := openBackend(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	report, err := importFixture(c.Context, service.NewFacade(b.repos, logger.Component("facade")), f, c.Int("workers"), log)
	if err != nil {
		return err
	}
	log.Info().
		Int("users", report.Users).
		Int("amenities", report.Amenities).
		Int("places", report.Places).
		Int("reviews", report.Reviews).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("import finished")
	if report.Failed > 0 {
		return fmt.Errorf("import: %d records failed", report.Failed)
	}
	return nil
}

// importFixture loads r phase by phase. Inside a phase records are spread
// over workers; records sharing an owner or a place go to the same worker so
// their writes never interleave. Records already present (same email or
// amenity name) are skipped.
func importFixture(ctx context.Context, facade *service.Facade, r io.Reader, workers int, log zerolog.Logger) (importReport, error) {
	var fx fixture
	if err := json.NewDecoder(r).Decode(&fx); err != nil {
		return importReport{}, fmt.Errorf("decode fixture: %w", err)
	}

	var (
		report           importReport
		created, skipped atomic.Int64
	)
	finish := func(d interface{ Wait() int }) int {
		failed := d.Wait()
		report.Failed += failed
		report.Skipped += int(skipped.Swap(0))
		return int(created.Swap(0))
	}

	users := queue.NewDispatcher(workers, func(u fixtureUser) string { return domain.NormalizeEmail(u.Email) },
		func(ctx context.Context, u fixtureUser) error {
			_, err := facade.CreateUser(ctx, ports.UserInput(u))
			if errors.Is(err, domain.ErrEmailTaken) {
				skipped.Add(1)
				return nil
			}
			if err == nil {
				created.Add(1)
			}
			return err
		}, log)
	users.Start(ctx)
	for _, u := range fx.Users {
		users.Enqueue(u)
	}
	report.Users = finish(users)

	for _, name := range fx.Amenities {
		_, err := facade.CreateAmenity(ctx, name)
		switch {
		case errors.Is(err, domain.ErrAmenityExists):
			report.Skipped++
		case err != nil:
			log.Error().Err(err).Str("amenity", name).Msg("amenity import failed")
			report.Failed++
		default:
			report.Amenities++
		}
	}
	// Names only referenced by places are created here, before places fan out
	// over workers.
	for _, p := range fx.Places {
		for _, name := range p.Amenities {
			if _, err := facade.FindOrCreateAmenity(ctx, name); err != nil && !errors.Is(err, domain.ErrValidation) {
				log.Error().Err(err).Str("amenity", name).Str("place", p.Title).Msg("amenity import failed")
				report.Failed++
			}
		}
	}

	var (
		mu       sync.Mutex
		placeIDs = make(map[string]string, len(fx.Places))
	)
	places := queue.NewDispatcher(workers, func(p fixturePlace) string { return domain.NormalizeEmail(p.OwnerEmail) },
		func(ctx context.Context, p fixturePlace) error {
			owner, err := facade.GetUserByEmail(ctx, p.OwnerEmail)
			if err != nil {
				return fmt.Errorf("place %q owner: %w", p.Title, err)
			}
			refs := make([]ports.AmenityRef, 0, len(p.Amenities))
			for _, name := range p.Amenities {
				refs = append(refs, ports.AmenityRef{Name: name})
			}
			place, err := facade.CreatePlace(ctx, ports.PlaceInput{
				Title:       &p.Title,
				Description: &p.Description,
				Price:       &p.Price,
				Latitude:    &p.Latitude,
				Longitude:   &p.Longitude,
				MaxPerson:   &p.MaxPerson,
				Amenities:   refs,
			}, owner.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			placeIDs[p.Title] = place.ID
			mu.Unlock()
			created.Add(1)
			return nil
		}, log)
	places.Start(ctx)
	for _, p := range fx.Places {
		places.Enqueue(p)
	}
	report.Places = finish(places)

	type reviewJob struct {
		fixtureReview
		placeID string
	}
	reviews := queue.NewDispatcher(workers, func(j reviewJob) string { return j.placeID },
		func(ctx context.Context, j reviewJob) error {
			author, err := facade.GetUserByEmail(ctx, j.AuthorEmail)
			if err != nil {
				return fmt.Errorf("review author: %w", err)
			}
			_, err = facade.CreateReview(ctx, ports.ReviewInput{Text: j.Text, Rating: j.Rating, PlaceID: j.placeID}, author.ID)
			if err == nil {
				created.Add(1)
			}
			return err
		}, log)
	reviews.Start(ctx)
	for _, rv := range fx.Reviews {
		placeID, ok := placeIDs[rv.PlaceTitle]
		if !ok {
			log.Error().Str("place_title", rv.PlaceTitle).Msg("review points at an unknown place")
			report.Failed++
			continue
		}
		reviews.Enqueue(reviewJob{fixtureReview: rv, placeID: placeID})
	}
	report.Reviews = finish(reviews)

	return report, nil
}
