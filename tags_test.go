package itm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	itm "github.com/drizzo-tech/proofpoint-itm"
)

func TestTagService_List(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/depot/tags", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("includes"))

		err := json.NewEncoder(w).Encode(map[string]any{
			"data": []any{
				map[string]any{"id": "tag-1", "name": "Flight Risk"},
			},
		})
		assert.NoError(t, err)
	})

	tags, err := client.Tags.List(context.Background())
	require.NoError(t, err)

	require.Len(t, tags, 1)
	assert.Equal(t, "Flight Risk", tags[0].Str("name"))
}

func TestTagService_Get(t *testing.T) {
	t.Run("looks up by ID through the search API", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/depot/queries", r.URL.Path)
			assert.Equal(t, "tag", r.URL.Query().Get("entityTypes"))

			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.Equal(t, "tag-123", gjson.GetBytes(body, "query.bool.filter.term.id").String())

			err = json.NewEncoder(w).Encode(map[string]any{
				"data": []any{
					map[string]any{"id": "tag-123", "name": "Flight Risk"},
				},
			})
			assert.NoError(t, err)
		})

		tag, err := client.Tags.Get(context.Background(), "tag-123")
		require.NoError(t, err)

		assert.Equal(t, "tag-123", tag.ID())
		assert.Equal(t, "Flight Risk", tag.Str("name"))
	})

	t.Run("not found on empty result", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			err := json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
			assert.NoError(t, err)
		})

		_, err := client.Tags.Get(context.Background(), "nonexistent")
		require.Error(t, err)

		var notFoundErr *itm.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "tag", notFoundErr.ResourceType)
		assert.Equal(t, "nonexistent", notFoundErr.ResourceID)
	})

	t.Run("empty ID returns validation error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not make API call with empty ID")
		})

		_, err := client.Tags.Get(context.Background(), "")
		require.Error(t, err)

		var validationErr *itm.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestTagService_Create(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/depot/tags", r.URL.Path)

		var reqBody map[string]any
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "Flight Risk", reqBody["name"])
		assert.Equal(t, "tenant", reqBody["extent"])

		w.WriteHeader(http.StatusCreated)
		err = json.NewEncoder(w).Encode(itm.Record{"id": "tag-new"})
		assert.NoError(t, err)
	})

	created, err := client.Tags.Create(context.Background(), itm.NewTag(itm.Record{
		"name":   "Flight Risk",
		"extent": "public",
	}))
	require.NoError(t, err)

	assert.Equal(t, "tag-new", created.ID())
}

func TestTagService_Update(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/depot/tags/tag-1", r.URL.Path)

		err := json.NewEncoder(w).Encode(itm.Record{"id": "tag-1"})
		assert.NoError(t, err)
	})

	_, err := client.Tags.Update(context.Background(), "tag-1", &itm.Tag{Status: "disabled"})
	require.NoError(t, err)
}

func TestTagService_Delete(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/depot/tags/tag-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Tags.Delete(context.Background(), "tag-1")
	require.NoError(t, err)
}
