package itm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	itm "github.com/drizzo-tech/proofpoint-itm"
)

func TestPredicateService_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/depot/predicates", r.URL.Path)
			assert.Equal(t, "*", r.URL.Query().Get("includes"))
			assert.Empty(t, r.Header.Get("Content-Type"))

			w.Header().Set("Content-Type", "application/json")
			err := json.NewEncoder(w).Encode(map[string]any{
				"data": []any{
					map[string]any{"id": "pred-1", "kind": "it:predicate:custom:match"},
					map[string]any{"id": "pred-2", "kind": "it:predicate:builtin"},
				},
			})
			assert.NoError(t, err)
		})

		predicates, err := client.Predicates.List(context.Background())
		require.NoError(t, err)

		require.Len(t, predicates, 2)
		assert.Equal(t, "pred-1", predicates[0].ID())
	})

	t.Run("includes override", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "id,alias", r.URL.Query().Get("includes"))
			err := json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
			assert.NoError(t, err)
		})

		_, err := client.Predicates.List(context.Background(), itm.WithIncludes("id", "alias"))
		require.NoError(t, err)
	})
}

func TestPredicateService_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/depot/predicates/pred-123", r.URL.Path)
			assert.Equal(t, "*", r.URL.Query().Get("includes"))

			err := json.NewEncoder(w).Encode(itm.Record{"id": "pred-123", "alias": "usb-write"})
			assert.NoError(t, err)
		})

		pred, err := client.Predicates.Get(context.Background(), "pred-123")
		require.NoError(t, err)

		assert.Equal(t, "pred-123", pred.ID())
		assert.Equal(t, "usb-write", pred.Alias())
	})

	t.Run("not found", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.Predicates.Get(context.Background(), "nonexistent")
		require.Error(t, err)

		var notFoundErr *itm.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "predicate", notFoundErr.ResourceType)
		assert.Equal(t, "nonexistent", notFoundErr.ResourceID)
	})

	t.Run("empty ID returns validation error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not make API call with empty ID")
		})

		_, err := client.Predicates.Get(context.Background(), "")
		require.Error(t, err)

		var validationErr *itm.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestPredicateService_Conditions(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		err := json.NewEncoder(w).Encode(map[string]any{
			"data": []any{
				map[string]any{"id": "pred-1", "kind": "it:predicate:custom:match"},
				map[string]any{"id": "pred-2", "kind": "it:predicate:builtin"},
				map[string]any{"id": "pred-3", "kind": "it:predicate:custom:match"},
			},
		})
		assert.NoError(t, err)
	})

	conditions, err := client.Predicates.Conditions(context.Background())
	require.NoError(t, err)

	require.Len(t, conditions, 2)
	assert.Equal(t, "pred-1", conditions[0].ID())
	assert.Equal(t, "pred-3", conditions[1].ID())
}

func TestPredicateService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/depot/predicates", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var reqBody map[string]any
			err := json.NewDecoder(r.Body).Decode(&reqBody)
			assert.NoError(t, err)
			assert.Equal(t, "new-cond", reqBody["alias"])
			assert.Equal(t, "it:predicate:custom:match", reqBody["kind"])

			w.WriteHeader(http.StatusCreated)
			err = json.NewEncoder(w).Encode(itm.Record{"id": "pred-new", "alias": "new-cond"})
			assert.NoError(t, err)
		})

		created, err := client.Predicates.Create(context.Background(), &itm.Predicate{
			Alias: "new-cond",
			Kind:  itm.KindCustomMatch,
			Patterns: []itm.Pattern{
				{Key: "phrase", Value: "confidential"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "pred-new", created.ID())
	})

	t.Run("validation error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, err := w.Write([]byte(`{"message":"invalid predicate","fields":{"alias":"required"}}`))
			assert.NoError(t, err)
		})

		_, err := client.Predicates.Create(context.Background(), &itm.Predicate{})
		require.Error(t, err)

		var validationErr *itm.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "invalid predicate", validationErr.Message)
		assert.Equal(t, "required", validationErr.Fields["alias"])
	})
}

func TestPredicateService_Update(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/depot/predicates/pred-1", r.URL.Path)

		err := json.NewEncoder(w).Encode(itm.Record{"id": "pred-1"})
		assert.NoError(t, err)
	})

	_, err := client.Predicates.Update(context.Background(), "pred-1", &itm.Predicate{Alias: "renamed"})
	require.NoError(t, err)
}

func TestPredicateService_Overwrite(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/depot/predicates/pred-1", r.URL.Path)

		err := json.NewEncoder(w).Encode(itm.Record{"id": "pred-1"})
		assert.NoError(t, err)
	})

	_, err := client.Predicates.Overwrite(context.Background(), "pred-1", &itm.Predicate{Alias: "replaced"})
	require.NoError(t, err)
}

func TestPredicateService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/depot/predicates/pred-1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		err := client.Predicates.Delete(context.Background(), "pred-1")
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		err := client.Predicates.Delete(context.Background(), "nonexistent")
		require.Error(t, err)

		var notFoundErr *itm.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("empty ID returns validation error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not make API call with empty ID")
		})

		err := client.Predicates.Delete(context.Background(), "")
		require.Error(t, err)

		var validationErr *itm.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestPredicateService_DryRun(t *testing.T) {
	t.Run("create skips the API call", func(t *testing.T) {
		callCount := 0
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			callCount++
		})

		created, err := client.Predicates.Create(context.Background(),
			&itm.Predicate{Alias: "new-cond"},
			itm.WithDryRun(),
		)
		require.NoError(t, err)

		assert.Len(t, created.ID(), 36, "dry run should return a generated UUID")
		assert.Equal(t, 0, callCount)
	})

	t.Run("delete skips the API call", func(t *testing.T) {
		callCount := 0
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			callCount++
		})

		err := client.Predicates.Delete(context.Background(), "pred-1", itm.WithDryRun())
		require.NoError(t, err)
		assert.Equal(t, 0, callCount)
	})
}

func TestPredicateService_ErrorParsing(t *testing.T) {
	t.Run("authentication error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, err := w.Write([]byte(`{"message":"token expired"}`))
			assert.NoError(t, err)
		})

		_, err := client.Predicates.List(context.Background())
		require.Error(t, err)

		var authErr *itm.AuthenticationError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "token expired", authErr.Message)
	})

	t.Run("message from error key", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, err := w.Write([]byte(`{"error":"insufficient scope"}`))
			assert.NoError(t, err)
		})

		_, err := client.Predicates.List(context.Background())
		require.Error(t, err)

		var authErr *itm.AuthenticationError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "insufficient scope", authErr.Message)
	})

	t.Run("rate limit with retry-after", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.Predicates.List(context.Background())
		require.Error(t, err)

		var rateLimitErr *itm.RateLimitError
		require.ErrorAs(t, err, &rateLimitErr)
		assert.Equal(t, 30*time.Second, rateLimitErr.RetryAfter)
	})

	t.Run("server error with request ID", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Request-ID", "req-abc")
			w.WriteHeader(http.StatusInternalServerError)
			_, err := w.Write([]byte("internal error"))
			assert.NoError(t, err)
		})

		_, err := client.Predicates.List(context.Background())
		require.Error(t, err)

		var serverErr *itm.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, "internal error", serverErr.Message)
		assert.Equal(t, "req-abc", serverErr.RequestID)
	})
}
