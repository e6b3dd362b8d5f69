package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/townreach/ownermatch/internal/config"
	"github.com/townreach/ownermatch/internal/run"
	"github.com/townreach/ownermatch/internal/store"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	docs map[string]json.RawMessage
}

func (m *memStore) Load(ctx context.Context, id string) (json.RawMessage, error) {
	body, ok := m.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return body, nil
}

func (m *memStore) Save(ctx context.Context, id string, body json.RawMessage) error {
	m.docs[id] = body
	return nil
}

func (m *memStore) Close() error { return nil }

func newTestServer(t *testing.T, docs ...*run.Document) *Server {
	t.Helper()
	st := &memStore{docs: make(map[string]json.RawMessage)}
	for _, doc := range docs {
		body, err := json.Marshal(doc)
		require.NoError(t, err)
		st.docs["run:"+doc.RunID] = body
	}
	return NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0}, st, zerolog.Nop())
}

func sampleDoc() *run.Document {
	return &run.Document{
		RunID:  "r1",
		Counts: run.Counts{PrimaryRecords: 2, SecondaryRecords: 1, Classified: 3, Groups: 2},
		Groups: []run.GroupDoc{
			{
				Index:             0,
				FoundingMemberKey: "assessor:A1",
				MemberKeys:        []string{"assessor:A1", "donor:D1"},
				NearMissKeys:      []string{"donor:D7"},
				Consensus:         json.RawMessage(`{"kind":"individual","fields":{}}`),
			},
			{
				Index:             1,
				FoundingMemberKey: "assessor:A2",
				MemberKeys:        []string{"assessor:A2"},
				Consensus:         json.RawMessage(`{"kind":"individual","fields":{}}`),
			},
		},
	}
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRunCountsEndpoint(t *testing.T) {
	s := newTestServer(t, sampleDoc())
	rec := get(t, s, "/api/runs/r1/counts")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts run.Counts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 2, counts.PrimaryRecords)
	assert.Equal(t, 2, counts.Groups)
}

func TestRunGroupsEndpoint(t *testing.T) {
	s := newTestServer(t, sampleDoc())
	rec := get(t, s, "/api/runs/r1/groups")
	require.Equal(t, http.StatusOK, rec.Code)

	var groups []run.GroupDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "assessor:A1", groups[0].FoundingMemberKey)
}

func TestRunGroupByIndex(t *testing.T) {
	s := newTestServer(t, sampleDoc())

	rec := get(t, s, "/api/runs/r1/groups/1")
	require.Equal(t, http.StatusOK, rec.Code)
	var g run.GroupDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, 1, g.Index)

	rec = get(t, s, "/api/runs/r1/groups/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunNearMissesEndpoint(t *testing.T) {
	s := newTestServer(t, sampleDoc())
	rec := get(t, s, "/api/runs/r1/near-misses")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []NearMissEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].GroupIndex)
	assert.Equal(t, "donor:D7", entries[0].NearMissKey)
}

func TestUnknownRunReturns404(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/runs/absent/counts")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
