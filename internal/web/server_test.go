package web

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/JonMunkholm/pmadmin/internal/config"
	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/JonMunkholm/pmadmin/internal/core/reconcile"
	"github.com/JonMunkholm/pmadmin/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, extra map[string]string) *config.Config {
	t.Helper()
	vars := map[string]string{
		"DB_DRIVER":          "sqlite",
		"SQLITE_PATH":        ":memory:",
		"RATE_LIMIT_ENABLED": "false",
	}
	for k, v := range extra {
		vars[k] = v
	}
	cfg, err := config.LoadFrom(func(k string) string { return vars[k] })
	require.NoError(t, err)
	return cfg
}

func newTestServer(t *testing.T, extra map[string]string) (*Server, *core.Service) {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	cfg := testConfig(t, extra)
	svc := core.NewService(db, cfg)
	srv := NewServer(svc, cfg)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, svc
}

func do(t *testing.T, srv *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, srv, httptest.NewRequest(http.MethodGet, target, nil))
}

func post(t *testing.T, srv *Server, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, srv, req)
}

func seedProjects(t *testing.T, svc *core.Service, names ...string) []int64 {
	t.Helper()
	var ids []int64
	for _, name := range names {
		res, err := svc.CreateProject(context.Background(), core.ProjectSubmission{
			Project: core.Project{Name: name},
		})
		require.NoError(t, err)
		ids = append(ids, res.ID)
	}
	return ids
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","exports":{"active":0,"available":4,"maxConcurrent":4}}`, rec.Body.String())
}

func TestUnknownKind(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := get(t, srv, "/widgets")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NF001")
}

func TestListRedirects(t *testing.T) {
	srv, svc := newTestServer(t, nil)

	t.Run("empty list renders page 1", func(t *testing.T) {
		rec := get(t, srv, "/projects")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "0 records")
	})

	t.Run("empty list opted into create", func(t *testing.T) {
		rec := get(t, srv, "/requests")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/requests/new", rec.Header().Get("Location"))
	})

	seedProjects(t, svc, "Alpha", "Bravo", "Charlie")

	t.Run("page past end keeps sort", func(t *testing.T) {
		rec := get(t, srv, "/projects?page=9&sort=2&asc=0")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/projects?asc=0&sort=2", rec.Header().Get("Location"))
	})

	t.Run("page zero", func(t *testing.T) {
		rec := get(t, srv, "/projects?page=0")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/projects", rec.Header().Get("Location"))
	})
}

func TestListRendersSortedRows(t *testing.T) {
	srv, svc := newTestServer(t, nil)
	ids := seedProjects(t, svc, "Bravo", "Alpha", "Charlie")

	rec := get(t, srv, "/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "3 records")
	assert.Less(t, strings.Index(body, "Alpha"), strings.Index(body, "Bravo"))
	assert.Less(t, strings.Index(body, "Bravo"), strings.Index(body, "Charlie"))
	// Alpha is at position 0 of the default ordering.
	assert.Contains(t, body, "/projects/"+strconv.FormatInt(ids[1], 10)+"?pos=0")

	rec = get(t, srv, "/projects?sort=1&asc=0")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Less(t, strings.Index(body, "Charlie"), strings.Index(body, "Alpha"))
}

func TestCreateEditFlow(t *testing.T) {
	srv, svc := newTestServer(t, nil)
	ctx := context.Background()

	rec := get(t, srv, "/projects/new")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="children[0].id" value="new-`)

	rec = post(t, srv, "/projects", url.Values{
		"name":                {"Apollo"},
		"budget":              {"1500"},
		"children[0].id":      {newRowKey()},
		"children[0].title":   {"Spec"},
		"children[0].kind":    {"specification"},
		"children[1].id":      {newRowKey()},
		"children[1].title":   {""},
		"children[1].remove":  {""},
		"children[1].kind":    {""},
		"children[2].id":      {newRowKey()},
		"children[2].title":   {"Dropped"},
		"children[2].remove":  {"1"},
		"children[2].kind":    {"other"},
		"children[2].notes":   {"never saved"},
		"children[2].unknown": {"ignored"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/projects/"), location)

	id, err := strconv.ParseInt(strings.TrimPrefix(location, "/projects/"), 10, 64)
	require.NoError(t, err)

	detail, err := svc.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", detail.Project.Name)
	assert.Equal(t, int64(150000), detail.Project.Budget)
	require.Len(t, detail.Documents, 1)
	docID := detail.Documents[0].ID

	rec = get(t, srv, location)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Spec")
	assert.Contains(t, rec.Body.String(), "History")

	rec = get(t, srv, location+"/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="`+strconv.FormatInt(docID, 10)+`"`)

	rec = post(t, srv, location, url.Values{
		"name":              {"Apollo 2"},
		"budget":            {"1500.00"},
		"version":           {strconv.FormatInt(detail.Project.Version, 10)},
		"children[0].id":    {strconv.FormatInt(docID, 10)},
		"children[0].title": {"Spec v2"},
		"children[0].kind":  {"specification"},
		"children[1].id":    {newRowKey()},
		"children[1].title": {"Report"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, location, rec.Header().Get("Location"))

	detail, err = svc.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Apollo 2", detail.Project.Name)
	require.Len(t, detail.Documents, 2)
	assert.Equal(t, docID, detail.Documents[0].ID)
	assert.Equal(t, "Spec v2", detail.Documents[0].Title)
	assert.Equal(t, "Report", detail.Documents[1].Title)
}

func TestCreateValidationRerendersForm(t *testing.T) {
	srv, svc := newTestServer(t, nil)

	t.Run("required parent field", func(t *testing.T) {
		rec := post(t, srv, "/projects", url.Values{
			"name":              {""},
			"description":       {"kept on re-render"},
			"children[0].id":    {newRowKey()},
			"children[0].title": {"Spec"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `role="alert"`)
		assert.Contains(t, body, "VAL003")
		assert.Contains(t, body, "kept on re-render")
		assert.Contains(t, body, `value="Spec"`)
	})

	t.Run("unparseable value", func(t *testing.T) {
		rec := post(t, srv, "/projects", url.Values{
			"name":       {"Apollo"},
			"start_date": {"someday"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "VAL001")
	})

	t.Run("invalid child row", func(t *testing.T) {
		rec := post(t, srv, "/projects", url.Values{
			"name":              {"Apollo"},
			"children[0].id":    {newRowKey()},
			"children[0].title": {""},
			"children[0].notes": {"no title"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "row 1: title")
	})

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts[core.KindProjects])
}

func TestUpdateConflict(t *testing.T) {
	srv, svc := newTestServer(t, nil)
	ctx := context.Background()
	id := seedProjects(t, svc, "Alpha")[0]

	detail, err := svc.GetProject(ctx, id)
	require.NoError(t, err)
	stale := detail.Project.Version

	detail.Project.Name = "Alpha (edited elsewhere)"
	_, err = svc.UpdateProject(ctx, core.ProjectSubmission{
		Project:   detail.Project,
		Documents: []reconcile.ChildOp[core.DocumentFields]{},
	})
	require.NoError(t, err)

	rec := post(t, srv, "/projects/"+strconv.FormatInt(id, 10), url.Values{
		"name":    {"Alpha (mine)"},
		"version": {strconv.FormatInt(stale, 10)},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "CON001")

	detail, err = svc.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alpha (edited elsewhere)", detail.Project.Name)
}

func TestUpdateMissingRecord(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := post(t, srv, "/projects/999", url.Values{"name": {"Ghost"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNeighbors(t *testing.T) {
	srv, svc := newTestServer(t, nil)
	ids := seedProjects(t, svc, "Alpha", "Bravo", "Charlie")

	t.Run("middle", func(t *testing.T) {
		rec := get(t, srv, "/api/projects/"+strconv.FormatInt(ids[1], 10)+"/neighbors?pos=1")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp neighborsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, ids[0], resp.PreviousID)
		assert.Equal(t, ids[2], resp.NextID)
		assert.Equal(t, int64(3), resp.Total)
		assert.Equal(t, "/projects/"+strconv.FormatInt(ids[2], 10)+"?pos=2", resp.NextURL)
	})

	t.Run("first omits previous", func(t *testing.T) {
		rec := get(t, srv, "/api/projects/"+strconv.FormatInt(ids[0], 10)+"/neighbors?pos=0")
		require.Equal(t, http.StatusOK, rec.Code)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		assert.NotContains(t, raw, "previousId")
		assert.Contains(t, raw, "nextId")
	})

	t.Run("descending", func(t *testing.T) {
		rec := get(t, srv, "/api/projects/"+strconv.FormatInt(ids[2], 10)+"/neighbors?pos=0&sort=1&asc=0")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp neighborsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(0), resp.PreviousID)
		assert.Equal(t, ids[1], resp.NextID)
	})

	t.Run("detail page links", func(t *testing.T) {
		rec := get(t, srv, "/projects/"+strconv.FormatInt(ids[1], 10)+"?pos=1")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `rel="prev"`)
		assert.Contains(t, body, `rel="next"`)
		assert.Contains(t, body, "2 of 3")
	})
}

func TestExportCSV(t *testing.T) {
	srv, svc := newTestServer(t, nil)
	seedProjects(t, svc, "Bravo", "Alpha")

	rec := get(t, srv, "/projects/export.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "projects_")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Name", records[0][0])
	assert.Equal(t, "Alpha", records[1][0])
	assert.Equal(t, "Bravo", records[2][0])
}

func TestExportBusy(t *testing.T) {
	srv, svc := newTestServer(t, map[string]string{
		"EXPORT_MAX_CONCURRENT": "1",
		"EXPORT_MAX_WAIT":       "20ms",
	})

	release, err := svc.BeginExport(context.Background())
	require.NoError(t, err)

	rec := get(t, srv, "/projects/export.csv")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE002")

	release()
	rec = get(t, srv, "/projects/export.csv")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDelete(t *testing.T) {
	srv, svc := newTestServer(t, nil)
	id := seedProjects(t, svc, "Alpha")[0]

	rec := post(t, srv, "/projects/"+strconv.FormatInt(id, 10)+"/delete?q=alp", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/projects?q=alp", rec.Header().Get("Location"))

	_, err := svc.GetProject(context.Background(), id)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestTaskFormUsesStoreOptions(t *testing.T) {
	srv, svc := newTestServer(t, nil)
	ctx := context.Background()
	projectID := seedProjects(t, svc, "Alpha")[0]

	req, err := svc.CreateRequest(ctx, core.RequestSubmission{
		Request: core.ProjectRequest{ProjectID: projectID, Title: "Onboarding", Status: "open"},
	})
	require.NoError(t, err)

	rec := get(t, srv, "/tasks/new?request_id="+strconv.FormatInt(req.ID, 10))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `selected>Onboarding</option>`)
}

func TestDashboard(t *testing.T) {
	srv, svc := newTestServer(t, nil)
	seedProjects(t, svc, "Alpha", "Bravo")

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Projects")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestWriteRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"RATE_LIMIT_ENABLED": "true",
		"RATE_LIMIT_WRITE":   "1",
	})

	rec := post(t, srv, "/projects", url.Values{"name": {"Alpha"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = post(t, srv, "/projects", url.Values{"name": {"Bravo"}})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE001")

	// Reads have their own budget.
	rec = get(t, srv, "/projects")
	assert.Equal(t, http.StatusOK, rec.Code)
}
