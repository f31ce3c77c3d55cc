package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/JonMunkholm/pmadmin/internal/web/templates"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(t *testing.T, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRowID(t *testing.T) {
	tests := []struct {
		key     string
		id      int64
		insert  bool
		wantErr bool
	}{
		{key: "", insert: true},
		{key: "0", insert: true},
		{key: "-3", insert: true},
		{key: "new-" + uuid.NewString(), insert: true},
		{key: "42", id: 42},
		{key: " 7 ", id: 7},
		{key: "new-123", wantErr: true},
		{key: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			id, insert, err := rowID(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.insert, insert)
		})
	}
}

func TestParseForm(t *testing.T) {
	fields := projectResource.fields
	childFields := projectResource.childFields()

	form := url.Values{
		"name":    {"  Apollo "},
		"budget":  {"1,500.00"},
		"version": {"3"},
		// Kept row, posted out of index order.
		"children[1].id":    {"12"},
		"children[1].title": {"Spec"},
		// Removed row.
		"children[0].id":     {"11"},
		"children[0].title":  {"Old"},
		"children[0].remove": {"1"},
		// Blank new row.
		"children[2].id":    {newRowKey()},
		"children[2].title": {""},
		// Filled new row.
		"children[3].id":    {newRowKey()},
		"children[3].title": {"Report"},
		// Unknown child field is dropped.
		"children[3].secret": {"x"},
	}

	fd, err := parseForm(postForm(t, form), fields, childFields)
	require.NoError(t, err)

	assert.Equal(t, "Apollo", fd.Values["name"])
	assert.Equal(t, "1,500.00", fd.Values["budget"])
	assert.Equal(t, int64(3), fd.Version)

	require.Len(t, fd.Rows, 2)
	assert.Equal(t, "12", fd.Rows[0].Key)
	assert.Equal(t, "Spec", fd.Rows[0].Values["title"])
	assert.Equal(t, "Report", fd.Rows[1].Values["title"])
	assert.NotContains(t, fd.Rows[1].Values, "secret")
}

func TestParseFormInvalidVersionKeepsValues(t *testing.T) {
	form := url.Values{"name": {"Apollo"}, "version": {"x"}}

	fd, err := parseForm(postForm(t, form), projectResource.fields, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrValidation))
	assert.Equal(t, "Apollo", fd.Values["name"])
}

func TestChildOps(t *testing.T) {
	rows := []templates.Row{
		{Key: "5", Values: map[string]string{"title": "Keep", "due_date": "2024-02-01"}},
		{Key: newRowKey(), Values: map[string]string{"title": "New", "estimated_hours": "abc"}},
		{Key: "bogus", Values: map[string]string{"title": "Bad key"}},
	}

	ops, problems := childOps(rows, func(p *fieldParser, v map[string]string) core.TaskFields {
		return core.TaskFields{
			Title:          v["title"],
			DueDate:        p.date("due date", v["due_date"]),
			EstimatedHours: p.hours("estimated hours", v["estimated_hours"]),
		}
	})

	require.Len(t, ops, 3)
	assert.Equal(t, int64(5), ops[0].ID)
	assert.Equal(t, core.NewDate(2024, 2, 1), ops[0].Fields.DueDate)
	assert.Equal(t, int64(0), ops[1].ID)

	require.Len(t, problems, 2)
	assert.Equal(t, 2, problems[0].Row)
	assert.Equal(t, "estimated hours", problems[0].Field)
	assert.Equal(t, 3, problems[1].Row)
	assert.Equal(t, "id", problems[1].Field)
}

func TestWithBlankRows(t *testing.T) {
	rows := withBlankRows([]templates.Row{{Key: "1"}}, blankRows)
	require.Len(t, rows, 1+blankRows)
	assert.Equal(t, "1", rows[0].Key)
	for _, r := range rows[1:] {
		assert.True(t, isNewKey(r.Key), r.Key)
	}
	assert.NotEqual(t, rows[1].Key, rows[2].Key)
}
