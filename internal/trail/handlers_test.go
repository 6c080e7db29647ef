package trail

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/rikshrestha/freshair-hikes/internal/hike"
	"github.com/rikshrestha/freshair-hikes/internal/profile"
	"github.com/rikshrestha/freshair-hikes/internal/recommend"
)

func testApp(mock pgxmock.PgxPoolIface) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/trails"), NewService(mock, nil), profile.NewService(mock), hike.NewService(mock), func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	})
	return app
}

func TestTrailsEndpoint(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name, difficulty`).
		WillReturnRows(trailRows().
			AddRow("t1", "Lake Loop", "Easy", 2.2, 50.0, nil, nil, ""))
	mock.ExpectQuery(`SELECT id, COALESCE\(name,''\), coords`).
		WillReturnRows(pathRows())

	app := testApp(mock)
	req := httptest.NewRequest(http.MethodGet, "/trails/", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("trails status: %v %d", err, resp.StatusCode)
	}

	var trails []recommend.Trail
	if err := json.NewDecoder(resp.Body).Decode(&trails); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(trails) != 1 || trails[0].Difficulty != recommend.Easy {
		t.Fatalf("unexpected trails %+v", trails)
	}
}

func TestRecommendedEndpoint(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT age_range, pace, distance_band, weekly_activity`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"age_range", "pace", "distance_band", "weekly_activity"}).
			AddRow("25-34", "slow", "1-2", "0-1"))
	mock.ExpectQuery(`SELECT id, started_at, ended_at, duration_min`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "started_at", "ended_at", "duration_min", "trail_id", "trail_name", "distance_mi", "effort", "enjoyment", "tags", "notes"}))
	mock.ExpectQuery(`SELECT id, name, difficulty`).
		WillReturnRows(trailRows().
			AddRow("t1", "Lake Loop", "Easy", 2.2, 50.0, nil, nil, "").
			AddRow("t2", "Forest Path", "Easy", 3.0, 70.0, nil, nil, "").
			AddRow("t3", "Ridge View", "Moderate", 4.1, 95.0, nil, nil, "").
			AddRow("t4", "Meadow Walk", "Easy", 1.8, 40.0, nil, nil, "").
			AddRow("t5", "Sunset Loop", "Easy", 2.9, 65.0, nil, nil, ""))
	mock.ExpectQuery(`SELECT id, COALESCE\(name,''\), coords`).
		WillReturnRows(pathRows())

	app := testApp(mock)
	req := httptest.NewRequest(http.MethodGet, "/trails/recommended", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("recommended status: %v %d", err, resp.StatusCode)
	}

	var body struct {
		Readiness     int                     `json:"readiness"`
		MaxDifficulty int                     `json:"max_difficulty"`
		Recommended   []recommend.RankedTrail `json:"recommended"`
		Others        []recommend.RankedTrail `json:"others"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Readiness != 1 || body.MaxDifficulty != 1 {
		t.Fatalf("expected beginner readiness, got %+v", body)
	}
	if len(body.Recommended) != 3 || len(body.Others) != 1 {
		t.Fatalf("expected 3 picks and 1 other easy trail, got %d/%d", len(body.Recommended), len(body.Others))
	}
	for _, rt := range append(body.Recommended, body.Others...) {
		if rt.Difficulty != recommend.Easy {
			t.Fatalf("difficulty ceiling violated: %+v", rt)
		}
		if rt.Why == "" {
			t.Fatalf("missing justification for %s", rt.ID)
		}
	}
}

func TestRecommendedRequiresProfile(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT age_range, pace, distance_band, weekly_activity`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"age_range", "pace", "distance_band", "weekly_activity"}))

	app := testApp(mock)
	req := httptest.NewRequest(http.MethodGet, "/trails/recommended", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusPreconditionFailed {
		t.Fatalf("expected precondition failed, got %d", resp.StatusCode)
	}
}

func TestFavoriteEndpoints(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO favorites`).
		WithArgs("user-1", "t1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT trail_id FROM favorites`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"trail_id"}).AddRow("t1"))

	app := testApp(mock)

	req := httptest.NewRequest(http.MethodPut, "/trails/t1/favorite", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("favorite status: %v %d", err, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/trails/favorites", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("favorites status: %v %d", err, resp.StatusCode)
	}
}
