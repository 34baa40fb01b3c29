package domain

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const maxTitleLen = 100

// Place is a rental listing. OwnerID is fixed at creation; Owner, Amenities
// and Reviews are relationship fields populated by the facade and the
// repositories, never by the entity itself.
type Place struct {
	Base
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	MaxPerson   int        `json:"max_person"`
	OwnerID     string     `json:"owner_id"`
	Owner       *User      `json:"owner,omitempty"`
	Amenities   []*Amenity `json:"amenities"`
	Reviews     []*Review  `json:"reviews"`
}

func NewPlace(title, description string, price, latitude, longitude float64, maxPerson int, ownerID string) (*Place, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateLatitude(latitude); err != nil {
		return nil, err
	}
	if err := validateLongitude(longitude); err != nil {
		return nil, err
	}
	if err := validateMaxPerson(maxPerson); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, invalid("owner_id", "is required")
	}
	return &Place{
		Base:        newBase(),
		Title:       title,
		Description: description,
		Price:       price,
		Latitude:    latitude,
		Longitude:   longitude,
		MaxPerson:   maxPerson,
		OwnerID:     ownerID,
		Amenities:   []*Amenity{},
		Reviews:     []*Review{},
	}, nil
}

// SetAmenities replaces the association wholesale. Duplicate ids collapse to
// the first occurrence.
func (p *Place) SetAmenities(amenities []*Amenity) {
	seen := make(map[string]struct{}, len(amenities))
	out := make([]*Amenity, 0, len(amenities))
	for _, a := range amenities {
		if a == nil {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	p.Amenities = out
}

func (p *Place) HasAmenity(id string) bool {
	for _, a := range p.Amenities {
		if a.ID == id {
			return true
		}
	}
	return false
}

// RemoveAmenity drops the association with amenity id, reporting whether it
// existed. Relationship edits count as updates and advance UpdatedAt.
func (p *Place) RemoveAmenity(id string) bool {
	for i, a := range p.Amenities {
		if a.ID == id {
			p.Amenities = append(p.Amenities[:i:i], p.Amenities[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

// AddReview appends r to the review collection, which stays ordered by creation.
func (p *Place) AddReview(r *Review) {
	p.Reviews = append(p.Reviews, r)
	SortReviews(p.Reviews)
	p.touch()
}

func (p *Place) RemoveReview(id string) bool {
	for i, r := range p.Reviews {
		if r.ID == id {
			p.Reviews = append(p.Reviews[:i:i], p.Reviews[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

// SortReviews orders reviews by creation time.
func SortReviews(reviews []*Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
	})
}

func (p *Place) Attribute(name string) (any, bool) {
	switch name {
	case "title":
		return p.Title, true
	case "description":
		return p.Description, true
	case "price":
		return p.Price, true
	case "latitude":
		return p.Latitude, true
	case "longitude":
		return p.Longitude, true
	case "max_person":
		return p.MaxPerson, true
	case "owner_id":
		return p.OwnerID, true
	}
	return p.attribute(name)
}

// PlacePatch is a partial update of a Place. A non-nil Amenities replaces the
// whole association, an empty slice clears it.
type PlacePatch struct {
	Title       *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
	MaxPerson   *int
	Amenities   *[]*Amenity
}

func (p PlacePatch) Validate() error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Price != nil {
		if err := validatePrice(*p.Price); err != nil {
			return err
		}
	}
	if p.Latitude != nil {
		if err := validateLatitude(*p.Latitude); err != nil {
			return err
		}
	}
	if p.Longitude != nil {
		if err := validateLongitude(*p.Longitude); err != nil {
			return err
		}
	}
	if p.MaxPerson != nil {
		if err := validateMaxPerson(*p.MaxPerson); err != nil {
			return err
		}
	}
	return nil
}

func (p PlacePatch) Apply(pl *Place) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Title != nil {
		pl.Title = *p.Title
	}
	if p.Description != nil {
		pl.Description = *p.Description
	}
	if p.Price != nil {
		pl.Price = *p.Price
	}
	if p.Latitude != nil {
		pl.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		pl.Longitude = *p.Longitude
	}
	if p.MaxPerson != nil {
		pl.MaxPerson = *p.MaxPerson
	}
	if p.Amenities != nil {
		pl.SetAmenities(*p.Amenities)
	}
	pl.touch()
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("title", "is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return invalid("title", "must be at most %d characters", maxTitleLen)
	}
	return nil
}

// The negated comparisons below also reject NaN.

func validatePrice(price float64) error {
	if !(price >= 0) {
		return invalid("price", "must be a non-negative number")
	}
	return nil
}

func validateLatitude(lat float64) error {
	if !(lat >= -90 && lat <= 90) {
		return invalid("latitude", "must be between -90 and 90")
	}
	return nil
}

func validateLongitude(lon float64) error {
	if !(lon >= -180 && lon <= 180) {
		return invalid("longitude", "must be between -180 and 180")
	}
	return nil
}

func validateMaxPerson(n int) error {
	if n < 1 {
		return invalid("max_person", "must be at least 1")
	}
	return nil
}
