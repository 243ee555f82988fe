package http

import (
	"net/http"
	"testing"

	"notekeep/internal/domain"
)

func (e *testEnv) tokenFor(t *testing.T, user domain.User) string {
	t.Helper()
	token, err := e.tokens.Generate(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestNotes_CRUDFlow(t *testing.T) {
	env := newTestEnv()
	token := env.signup(t, "Alice", "alice@x.com", "pass123")

	rec := performRequest(env.router, http.MethodPost, "/api/notes", token, map[string]any{
		"title":    "Groceries",
		"content":  "milk, eggs",
		"keywords": []string{"food", " home "},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	noteID, _ := created["id"].(string)
	if noteID == "" {
		t.Fatalf("expected note id in response")
	}

	rec = performRequest(env.router, http.MethodGet, "/api/notes", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}

	rec = performRequest(env.router, http.MethodPut, "/api/notes/"+noteID, token, map[string]any{
		"title":   "Groceries v2",
		"content": "milk, eggs, bread",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["title"] != "Groceries v2" {
		t.Fatalf("unexpected updated note: %s", rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodPatch, "/api/notes/"+noteID+"/pin", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pin: expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["pinned"] != true {
		t.Fatalf("expected pinned note: %s", rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodPatch, "/api/notes/"+noteID+"/archive", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("archive: expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["archived"] != true {
		t.Fatalf("expected archived note: %s", rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodDelete, "/api/notes/"+noteID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["message"] != "Note removed" {
		t.Fatalf("unexpected delete response: %s", rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodGet, "/api/notes", token, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "[]" {
		t.Fatalf("expected empty list after delete, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestNotes_RequireToken(t *testing.T) {
	env := newTestEnv()

	rec := performRequest(env.router, http.MethodGet, "/api/notes", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("list: expected 401, got %d", rec.Code)
	}
	rec = performRequest(env.router, http.MethodPost, "/api/notes", "", map[string]string{
		"title": "t", "content": "c",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("create: expected 401, got %d", rec.Code)
	}
}

func TestNotes_NonOwnerSeesNotFound(t *testing.T) {
	env := newTestEnv()
	owner := env.signup(t, "Alice", "alice@x.com", "pass123")
	intruder := env.signup(t, "Bob", "bob@x.com", "pass456")

	rec := performRequest(env.router, http.MethodPost, "/api/notes", owner, map[string]string{
		"title": "mine", "content": "secret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}
	noteID, _ := decodeBody(t, rec)["id"].(string)

	rec = performRequest(env.router, http.MethodPut, "/api/notes/"+noteID, intruder, map[string]string{
		"title": "theirs", "content": "stolen",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update: expected 404 for non-owner, got %d", rec.Code)
	}
	rec = performRequest(env.router, http.MethodDelete, "/api/notes/"+noteID, intruder, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete: expected 404 for non-owner, got %d", rec.Code)
	}
	rec = performRequest(env.router, http.MethodPatch, "/api/notes/"+noteID+"/pin", intruder, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("pin: expected 404 for non-owner, got %d", rec.Code)
	}

	// El dueño sigue viendo su nota intacta.
	rec = performRequest(env.router, http.MethodGet, "/api/notes", owner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner list: expected 200, got %d", rec.Code)
	}
}

func TestNotes_UnknownNote(t *testing.T) {
	env := newTestEnv()
	token := env.tokenFor(t, domain.User{ID: "u1", Name: "Test"})

	rec := performRequest(env.router, http.MethodPut, "/api/notes/missing", token, map[string]string{
		"title": "t", "content": "c",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestNotes_CreateValidation(t *testing.T) {
	env := newTestEnv()
	token := env.signup(t, "Alice", "alice@x.com", "pass123")

	rec := performRequest(env.router, http.MethodPost, "/api/notes", token, map[string]string{
		"title": "no content",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
