package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
)

// GeocodeResult is a resolved address.
type GeocodeResult struct {
	Lat               float64 `json:"lat"`
	Lng               float64 `json:"lng"`
	NormalizedAddress string  `json:"normalizedAddress"`
}

// Geocode resolves a user-supplied address with the same geocoder used for
// ticket locations, so a searched address lands where its tickets do.
func (s *Service) Geocode(address string) (GeocodeResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return GeocodeResult{}, fmt.Errorf("%w: address parameter is required", ErrMissingParameter)
	}
	c, ok := s.geocoder.Resolve(address)
	if !ok {
		return GeocodeResult{}, ErrUnresolvable
	}
	s.recordMemo()
	return GeocodeResult{Lat: c.Lat, Lng: c.Lng, NormalizedAddress: address}, nil
}

// Statistics returns ticket totals straight from the source.
func (s *Service) Statistics(ctx context.Context) (domain.Statistics, error) {
	var stats domain.Statistics
	err := s.observe("statistics", func() error {
		var err error
		stats, err = s.source.Statistics(ctx)
		return err
	})
	return stats, err
}

// LocationDetails returns the weekday/hour and violation-type breakdown for one location.
func (s *Service) LocationDetails(ctx context.Context, location string) (domain.LocationDetails, error) {
	if strings.TrimSpace(location) == "" {
		return domain.LocationDetails{}, fmt.Errorf("%w: location is required", ErrMissingParameter)
	}
	var details domain.LocationDetails
	err := s.observe("details", func() error {
		var err error
		details, err = s.source.LocationDetails(ctx, location)
		return err
	})
	return details, err
}
