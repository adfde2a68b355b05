package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/atlas/internal/domain/aggregate"
	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
)

const maxYear = 9999

// yearParam reads ?year=. Absent means 0, the service default.
func yearParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	if raw == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y <= 0 || y > maxYear {
		return 0, fmt.Errorf("%w: invalid year %q", ErrBadRequest, raw)
	}
	return y, nil
}

// sectorID validates a sector id and returns its canonical form.
func sectorID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: invalid sector id %q", ErrBadRequest, raw)
	}
	return id.String(), nil
}

// regionFilter reads ?income= and ?regulatory=.
func regionFilter(r *http.Request) (aggregate.RegionFilter, error) {
	var f aggregate.RegionFilter
	q := r.URL.Query()
	if raw := q.Get("income"); raw != "" {
		lvl, err := model.ParseIncomeLevel(raw)
		if err != nil {
			return f, fmt.Errorf("%w: income %q", ErrBadRequest, raw)
		}
		f.Income = lvl
	}
	if raw := q.Get("regulatory"); raw != "" {
		band, err := scoring.ParseRegulatoryBand(raw)
		if err != nil {
			return f, fmt.Errorf("%w: regulatory %q", ErrBadRequest, raw)
		}
		f.Band = band
	}
	return f, nil
}
