package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/anglisano/nametag/classifier"
	"github.com/anglisano/nametag/ner"
	"github.com/anglisano/nametag/ner/model"
)

func newTestHandler(t *testing.T) *TagHandler {
	t.Helper()
	m := ner.NewModel()
	m.Entities.Parse("person", true)
	if err := m.AddProcessor("Form 0"); err != nil {
		t.Fatalf("AddProcessor: %v", err)
	}
	dec := classifier.NewLabelScheme(map[byte]classifier.LabelEntry{}, m.Entities)
	return &TagHandler{Model: m, Classifier: classifier.Zero{}, Decoder: dec}
}

func TestTagHandlerRejectsNonPost(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/tag", nil)
	rec := httptest.NewRecorder()
	h.Tag(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestTagHandlerRejectsMalformedBody(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/tag", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	h.Tag(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// fixedClassifier predicts the same label for every token, enough to
// drive a BILOU decode without a trained model.
type fixedClassifier byte

func (c fixedClassifier) Predict([]int32) byte { return byte(c) }

// TestTagHandlerResponseMatchesExpectedEntityJSON compares the handler's
// JSON body against an expected document via a merge patch, the way the
// teacher's default_clinical_test.go merges/diffs JSON response layers
// with jsonpatch: an empty patch means the two documents agree.
func TestTagHandlerResponseMatchesExpectedEntityJSON(t *testing.T) {
	m := ner.NewModel()
	personID, _ := m.Entities.Parse("person", true)
	if err := m.AddProcessor("Form 0"); err != nil {
		t.Fatalf("AddProcessor: %v", err)
	}
	dec := classifier.NewLabelScheme(map[byte]classifier.LabelEntry{
		'U': {BILOU: model.U, Entity: personID},
	}, m.Entities)
	h := &TagHandler{Model: m, Classifier: fixedClassifier('U'), Decoder: dec}

	body, err := json.Marshal(map[string]any{
		"words": []model.Word{{Form: "Novak", RawLemma: "Novak", Tag: "NNP"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/tag", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Tag(rec, req)

	// CreateMergePatch (RFC 7386) only carries meaning between two JSON
	// objects, so both the expected and actual entity arrays are wrapped
	// in an object before diffing.
	var got []model.NamedEntity
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("could not parse response body: %v", err)
	}
	want, err := json.Marshal(map[string]any{"entities": []model.NamedEntity{{Start: 0, Length: 1, Type: "person"}}})
	if err != nil {
		t.Fatal(err)
	}
	gotWrapped, err := json.Marshal(map[string]any{"entities": got})
	if err != nil {
		t.Fatal(err)
	}
	patch, err := jsonpatch.CreateMergePatch(want, gotWrapped)
	if err != nil {
		t.Fatalf("CreateMergePatch: %v", err)
	}
	if string(patch) != "{}" {
		t.Fatalf("response body diverges from expected: patch %s, body %s", patch, rec.Body.String())
	}
}

func TestTagHandlerReturnsEntitiesForWellFormedRequest(t *testing.T) {
	h := newTestHandler(t)
	body, err := json.Marshal(map[string]any{
		"words": []model.Word{
			{Form: "Jan", RawLemma: "Jan", Tag: "NNP"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/tag", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Tag(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body %q", rec.Code, http.StatusOK, rec.Body.String())
	}
	var entities []model.NamedEntity
	if err := json.Unmarshal(rec.Body.Bytes(), &entities); err != nil {
		t.Fatalf("could not parse response body: %v", err)
	}
	if len(entities) != 0 {
		t.Fatalf("got %d entities from Zero classifier, want 0", len(entities))
	}
}
