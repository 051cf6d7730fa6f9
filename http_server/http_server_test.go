package http_server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/server"
)

func testServer(t *testing.T) *HTTPServer {
	t.Helper()
	eng := server.NewEngine(nil)

	videoSchema := record.NewSchema()
	videoSchema.AddStringField("id")
	videoSchema.AddStringField("title")
	videoSchema.AddIntField("likes")
	_, err := eng.CreateDataset("videos", videoSchema, []record.Row{
		record.NewRow("V1", "T1", 10),
		record.NewRow("V2", "T2", 50),
	}, 2)
	require.NoError(t, err)

	commentSchema := record.NewSchema()
	commentSchema.AddStringField("id")
	commentSchema.AddStringField("comment")
	_, err = eng.CreateDataset("comments", commentSchema, []record.Row{
		record.NewRow("V1", "great"),
		record.NewRow("V2", "nice"),
	}, 2)
	require.NoError(t, err)

	return NewHTTPServer(eng)
}

func doJSON(s *HTTPServer, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

const demoQueryBody = `{
	"left": "videos",
	"right": "comments",
	"left_key": "id",
	"right_key": "id",
	"filter": {"column": "likes", "aggregate": "mean", "comparator": ">"}
}`

func TestHealthCheck(t *testing.T) {
	rec := doJSON(testServer(t), http.MethodGet, "/hc", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestQueryHandler(t *testing.T) {
	rec := doJSON(testServer(t), http.MethodPost, "/query", demoQueryBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res QueryResBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Handle)
	assert.Equal(t, "videos_join_comments", res.Result)
	assert.Equal(t, []string{"id", "title", "likes", "comment"}, res.Columns)
	assert.Equal(t, 1, res.Rows)
}

func TestPlanThenExecuteThenExplain(t *testing.T) {
	s := testServer(t)

	// 1. Plan.
	rec := doJSON(s, http.MethodPost, "/plan", demoQueryBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var planned PlanResBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &planned))
	require.NotEmpty(t, planned.Handle)

	// 2. The logical plan is explainable before execution, physical is not.
	rec = doJSON(s, http.MethodGet, "/query/"+planned.Handle+"/explain", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var explained ExplainResBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &explained))
	assert.Equal(t, "logical", explained.Mode)
	assert.Contains(t, explained.Plan, "Join(videos.id = comments.id)")

	rec = doJSON(s, http.MethodGet, "/query/"+planned.Handle+"/explain?mode=physical", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 3. Execute.
	rec = doJSON(s, http.MethodPost, "/query/"+planned.Handle+"/execute", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var executed QueryResBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &executed))
	assert.Equal(t, planned.Handle, executed.Handle)
	assert.Equal(t, 1, executed.Rows)

	// 4. Both plans render after execution.
	rec = doJSON(s, http.MethodGet, "/query/"+planned.Handle+"/explain?mode=both", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &explained))
	assert.Contains(t, explained.Plan, "== Physical Plan ==")
}

func TestQueryHandler_ValidationFailures(t *testing.T) {
	s := testServer(t)

	// Missing required fields.
	rec := doJSON(s, http.MethodPost, "/query", `{"left": "videos"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Comparator outside the allowed set.
	bad := strings.Replace(demoQueryBody, `">"`, `"="`, 1)
	rec = doJSON(s, http.MethodPost, "/query", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown dataset name fails planning with a client error.
	bad = strings.Replace(demoQueryBody, `"videos"`, `"nope"`, 1)
	rec = doJSON(s, http.MethodPost, "/query", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteHandler_UnknownHandle(t *testing.T) {
	rec := doJSON(testServer(t), http.MethodPost, "/query/bogus/execute", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
