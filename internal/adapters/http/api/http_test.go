package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/atlas/internal/adapters/http/api"
	"github.com/okian/atlas/internal/adapters/repository"
	"github.com/okian/atlas/internal/domain/aggregate"
	"github.com/okian/atlas/internal/domain/dashboard"
	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
	"github.com/okian/atlas/internal/domain/viewmode"
)

const (
	healthID = "5f1c8a52-0f7e-5d39-9a43-3c1d2b6e7a10"
	govID    = "0b7d2e44-8c3a-5f61-b2d9-6a4e1f9c3b21"
)

// mockDeps records the arguments it was called with and returns canned data.
type mockDeps struct {
	err      error
	lastYear int
	lastID   string
	filter   aggregate.RegionFilter
	summary  *model.GlobalSummary
}

func (m *mockDeps) Sectors(_ context.Context, year int) ([]dashboard.Card, error) {
	m.lastYear = year
	if m.err != nil {
		return nil, m.err
	}
	return []dashboard.Card{
		{
			Sector:    model.Sector{ID: healthID, Name: "Healthcare"},
			Aggregate: &aggregate.SectorAggregate{SectorID: healthID, StabilityScore: 60, CapitalInflow: 8.2e9, TotalDeployments: 17240},
			Scores:    &dashboard.Scores{Opportunity: scoring.Opportunity{Score: 73}},
		},
		{Sector: model.Sector{ID: govID, Name: "Governance"}},
	}, nil
}

func (m *mockDeps) Sector(_ context.Context, id string, year int) (dashboard.Card, error) {
	m.lastID, m.lastYear = id, year
	if m.err != nil {
		return dashboard.Card{}, m.err
	}
	return dashboard.Card{Sector: model.Sector{ID: id, Name: "Healthcare"}}, nil
}

func (m *mockDeps) RegionalBreakdown(_ context.Context, id string, year int, f aggregate.RegionFilter) ([]aggregate.RegionAggregate, error) {
	m.lastID, m.lastYear, m.filter = id, year, f
	return nil, m.err
}

func (m *mockDeps) Heatmap(_ context.Context, year int) ([]dashboard.HeatmapRow, error) {
	m.lastYear = year
	if m.err != nil {
		return nil, m.err
	}
	return []dashboard.HeatmapRow{
		{SectorID: govID, Name: "Governance", OpportunityScore: 88, Heat: scoring.HeatCritical},
		{SectorID: healthID, Name: "Healthcare", OpportunityScore: 73, Heat: scoring.HeatHigh},
	}, nil
}

func (m *mockDeps) Quadrant(_ context.Context, year int) ([]dashboard.QuadrantPoint, error) {
	m.lastYear = year
	return nil, m.err
}

func (m *mockDeps) Risks(_ context.Context, year int) ([]dashboard.RiskRow, error) {
	m.lastYear = year
	return []dashboard.RiskRow{{SectorID: govID, Score: 15, Tier: scoring.RiskCritical}}, m.err
}

func (m *mockDeps) Compare(_ context.Context, a, b string, year int) (dashboard.Comparison, error) {
	m.lastYear = year
	if m.err != nil {
		return dashboard.Comparison{}, m.err
	}
	return dashboard.Comparison{
		A:     dashboard.Card{Sector: model.Sector{ID: a}},
		B:     dashboard.Card{Sector: model.Sector{ID: b}},
		Delta: dashboard.Delta{UnmetNeedIndex: -14},
	}, nil
}

func (m *mockDeps) Regions(_ context.Context, year int, f aggregate.RegionFilter) ([]dashboard.RegionSummary, error) {
	m.lastYear, m.filter = year, f
	return nil, m.err
}

func (m *mockDeps) Summary(context.Context) (dashboard.SummaryView, error) {
	if m.err != nil {
		return dashboard.SummaryView{}, m.err
	}
	return dashboard.SummaryView{Summary: m.summary, Stale: true}, nil
}

func (m *mockDeps) Flows(_ context.Context, year int) ([]dashboard.FlowTotal, error) {
	m.lastYear = year
	return []dashboard.FlowTotal{{SectorID: healthID, Stage: "seed", AmountUSD: 1.5e7}}, m.err
}

func (m *mockDeps) ViewMode(name string) (viewmode.Config, error) {
	if name == "" {
		name = string(viewmode.Public)
	}
	mode, err := viewmode.Parse(name)
	if err != nil {
		return viewmode.Config{}, err
	}
	return viewmode.Lookup(mode)
}

func (m *mockDeps) Modes() []viewmode.Config { return viewmode.Configs() }

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "year": 2024}
}

func newMux(deps *mockDeps, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}, opts...).Register(mux)
	return mux
}

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestSectorEndpoints(t *testing.T) {
	convey.Convey("Given an API server", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		convey.Convey("When listing sectors for a year", func() {
			w := get(mux, "/v1/sectors?year=2023")

			convey.Convey("Then cards carry display values and defaults", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/json; charset=utf-8")
				convey.So(deps.lastYear, convey.ShouldEqual, 2023)

				var body []struct {
					Aggregate *aggregate.SectorAggregate `json:"aggregate"`
					Display   map[string]string          `json:"display"`
				}
				convey.So(decode(w, &body), convey.ShouldBeNil)
				convey.So(len(body), convey.ShouldEqual, 2)
				convey.So(body[0].Display["capital"], convey.ShouldEqual, "$8.2B")
				convey.So(body[0].Display["deployments"], convey.ShouldEqual, "17,240")
				convey.So(body[0].Display["opportunity"], convey.ShouldEqual, "73/100")
				convey.So(body[1].Aggregate, convey.ShouldBeNil)
				convey.So(body[1].Display["capital"], convey.ShouldEqual, "$0")
				convey.So(body[1].Display["opportunity"], convey.ShouldEqual, "No data")
			})
		})

		convey.Convey("When the year is omitted", func() {
			w := get(mux, "/v1/sectors")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(deps.lastYear, convey.ShouldEqual, 0)
		})

		convey.Convey("When the year is malformed", func() {
			for _, y := range []string{"abc", "0", "-5", "100000"} {
				w := get(mux, "/v1/sectors?year="+y)
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			}
		})

		convey.Convey("When fetching one sector by id", func() {
			w := get(mux, "/v1/sectors/"+healthID)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(deps.lastID, convey.ShouldEqual, healthID)
		})

		convey.Convey("When the sector id is not a uuid", func() {
			w := get(mux, "/v1/sectors/healthcare")

			var body errorBody
			convey.So(decode(w, &body), convey.ShouldBeNil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			convey.So(body.Code, convey.ShouldEqual, "bad_request")
		})

		convey.Convey("When the sector does not exist", func() {
			deps.err = dashboard.ErrNotFound
			w := get(mux, "/v1/sectors/"+healthID)

			var body errorBody
			convey.So(decode(w, &body), convey.ShouldBeNil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			convey.So(body.Code, convey.ShouldEqual, "not_found")
		})

		convey.Convey("When asking for a regional breakdown with filters", func() {
			w := get(mux, "/v1/sectors/"+healthID+"/regions?income=upper-middle&regulatory=HIGH")

			convey.Convey("Then the filter reaches the service and empty results are []", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(deps.filter.Income, convey.ShouldEqual, model.IncomeUpperMiddle)
				convey.So(deps.filter.Band, convey.ShouldEqual, scoring.BandHigh)
				convey.So(w.Body.String(), convey.ShouldStartWith, "[]")
			})
		})

		convey.Convey("When a filter value is unknown", func() {
			w := get(mux, "/v1/sectors/"+healthID+"/regions?regulatory=extreme")
			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			w = get(mux, "/v1/regions?income=rich")
			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When a non-GET method is used", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/sectors", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestRankingEndpoints(t *testing.T) {
	convey.Convey("Given an API server", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		convey.Convey("The heatmap keeps service order", func() {
			w := get(mux, "/v1/heatmap?year=2024")
			var rows []dashboard.HeatmapRow
			convey.So(decode(w, &rows), convey.ShouldBeNil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(rows[0].OpportunityScore, convey.ShouldEqual, 88)
			convey.So(rows[0].Heat, convey.ShouldEqual, scoring.HeatCritical)
		})

		convey.Convey("An empty quadrant encodes as an empty array", func() {
			w := get(mux, "/v1/quadrant")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldStartWith, "[]")
		})

		convey.Convey("Risks are returned", func() {
			w := get(mux, "/v1/risks")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"tier":"Critical"`)
		})

		convey.Convey("Compare requires both ids", func() {
			w := get(mux, "/v1/compare?a="+healthID)
			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("Compare returns the delta", func() {
			w := get(mux, "/v1/compare?a="+healthID+"&b="+govID)
			var cmp dashboard.Comparison
			convey.So(decode(w, &cmp), convey.ShouldBeNil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(cmp.Delta.UnmetNeedIndex, convey.ShouldEqual, -14)
		})

		convey.Convey("Compare of a sector without rows is no_data", func() {
			deps.err = dashboard.ErrNoData
			w := get(mux, "/v1/compare?a="+healthID+"&b="+govID)
			var body errorBody
			convey.So(decode(w, &body), convey.ShouldBeNil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			convey.So(body.Code, convey.ShouldEqual, "no_data")
		})
	})
}

func TestErrorMapping(t *testing.T) {
	convey.Convey("Given service failures", t, func() {
		cases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{"store failure", &repository.QueryError{Query: repository.QueryListSectors, Err: errors.New("dial tcp 10.0.0.5:5432: refused")}, http.StatusBadGateway, "store_unavailable"},
			{"loading state", dashboard.ErrNotLoaded, http.StatusServiceUnavailable, "not_loaded"},
			{"invalid year", repository.ErrInvalidYear, http.StatusBadRequest, "bad_request"},
			{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
			{"timed-out query", &repository.QueryError{Query: repository.QueryListSectors, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout, "timeout"},
			{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		}

		for _, tc := range cases {
			convey.Convey("Then a "+tc.name+" maps to "+tc.code, func() {
				mux := newMux(&mockDeps{err: tc.err})
				w := get(mux, "/v1/heatmap")

				var body errorBody
				convey.So(decode(w, &body), convey.ShouldBeNil)
				convey.So(w.Code, convey.ShouldEqual, tc.status)
				convey.So(body.Code, convey.ShouldEqual, tc.code)
			})
		}

		convey.Convey("Then store failures do not leak driver details", func() {
			mux := newMux(&mockDeps{err: &repository.QueryError{Query: "q", Err: errors.New("password authentication failed")}})
			w := get(mux, "/v1/flows")
			convey.So(w.Body.String(), convey.ShouldNotContainSubstring, "password")
		})
	})
}

func TestOverviewEndpoints(t *testing.T) {
	convey.Convey("Given an API server", t, func() {
		deps := &mockDeps{summary: &model.GlobalSummary{
			GlobalReadinessScore: model.Ptr(57.5),
			TotalCapitalInflow:   model.Ptr(184.2e9),
		}}
		mux := newMux(deps)

		convey.Convey("The summary fills absent fields with display defaults", func() {
			w := get(mux, "/v1/summary")
			var body struct {
				Stale   bool `json:"stale"`
				Display struct {
					Readiness   int    `json:"readiness"`
					Deployments string `json:"deployments"`
					Capital     string `json:"capital"`
					UnmetNeed   int    `json:"unmetNeed"`
				} `json:"display"`
			}
			convey.So(decode(w, &body), convey.ShouldBeNil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(body.Stale, convey.ShouldBeTrue)
			convey.So(body.Display.Readiness, convey.ShouldEqual, 58)
			convey.So(body.Display.Capital, convey.ShouldEqual, "$184.2B")
			convey.So(body.Display.Deployments, convey.ShouldEqual, "0")
			convey.So(body.Display.UnmetNeed, convey.ShouldEqual, 50)
		})

		convey.Convey("A missing summary is no_data", func() {
			deps.err = dashboard.ErrNoData
			w := get(mux, "/v1/summary")
			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
		})

		convey.Convey("Regions pass the filter through", func() {
			w := get(mux, "/v1/regions?year=2023&income=high")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(deps.lastYear, convey.ShouldEqual, 2023)
			convey.So(deps.filter.Income, convey.ShouldEqual, model.IncomeHigh)
		})

		convey.Convey("Flows are returned", func() {
			w := get(mux, "/v1/flows")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"stage":"seed"`)
		})
	})
}

func TestModeEndpoints(t *testing.T) {
	convey.Convey("Given an API server", t, func() {
		mux := newMux(&mockDeps{})

		convey.Convey("All four modes are listed", func() {
			var modes []viewmode.Config
			w := get(mux, "/v1/modes")
			convey.So(decode(w, &modes), convey.ShouldBeNil)
			convey.So(len(modes), convey.ShouldEqual, 4)
		})

		convey.Convey("A mode is fetched by name", func() {
			var cfg viewmode.Config
			w := get(mux, "/v1/modes/policy")
			convey.So(decode(w, &cfg), convey.ShouldBeNil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(cfg.ID, convey.ShouldEqual, viewmode.Policy)
		})

		convey.Convey("The default alias resolves to the default mode", func() {
			var cfg viewmode.Config
			w := get(mux, "/v1/modes/default")
			convey.So(decode(w, &cfg), convey.ShouldBeNil)
			convey.So(cfg.ID, convey.ShouldEqual, viewmode.Public)
		})

		convey.Convey("An unknown mode is not found", func() {
			w := get(mux, "/v1/modes/kiosk")
			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	convey.Convey("Given an API server", t, func() {
		mux := newMux(&mockDeps{})

		convey.Convey("Stats are served as JSON", func() {
			w := get(mux, "/stats")
			var stats map[string]interface{}
			convey.So(decode(w, &stats), convey.ShouldBeNil)
			convey.So(stats["started"], convey.ShouldEqual, true)
		})

		convey.Convey("Metrics are exposed on both paths", func() {
			get(mux, "/v1/heatmap")
			for _, path := range []string{"/healthz", "/metrics"} {
				w := get(mux, path)
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "atlas_dashboard_http_requests_total")
			}
		})
	})
}

func TestRateLimit(t *testing.T) {
	convey.Convey("Given a server limited to a burst of two", t, func() {
		mux := newMux(&mockDeps{}, api.WithRateLimit(0.001, 2))

		codes := []int{
			get(mux, "/v1/heatmap").Code,
			get(mux, "/v1/heatmap").Code,
			get(mux, "/v1/heatmap").Code,
		}

		convey.Convey("Then the third request is rejected", func() {
			convey.So(codes, convey.ShouldResemble, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests})
		})

		convey.Convey("And operational endpoints are not limited", func() {
			convey.So(get(mux, "/stats").Code, convey.ShouldEqual, http.StatusOK)
		})
	})

	convey.Convey("Given a rate limiter", t, func() {
		l := api.NewRateLimiter(0.001, 1)

		convey.Convey("Then clients have separate budgets", func() {
			convey.So(l.Allow("10.0.0.1"), convey.ShouldBeTrue)
			convey.So(l.Allow("10.0.0.1"), convey.ShouldBeFalse)
			convey.So(l.Allow("10.0.0.2"), convey.ShouldBeTrue)
		})
	})
}
