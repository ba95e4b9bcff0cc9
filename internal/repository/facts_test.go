package repository

import (
	"encoding/json"
	"testing"
)

func TestFactsFromModelDegradesMalformedJSON(t *testing.T) {
	model := userFactsModel{
		UserID:       "7d444840-9dc0-11d1-b245-5ffdce74fd2e",
		CharacterKey: "lexi",
		Occupation:   "nurse",
		Favorites:    json.RawMessage(`{"food": not-json`),
		Tags:         json.RawMessage(`["gamer"]`),
	}
	facts := factsFromModel(model)
	// The unparseable field degrades to empty; the rest of the row survives.
	if facts.Favorites != nil {
		t.Fatalf("expected malformed favorites to decode as empty, got %v", facts.Favorites)
	}
	if len(facts.Tags) != 1 || facts.Tags[0] != "gamer" {
		t.Fatalf("expected tags to survive, got %v", facts.Tags)
	}
	if facts.Occupation != "nurse" {
		t.Fatalf("expected scalar fields to survive, got %q", facts.Occupation)
	}
}

func TestFactsModelRoundTripFields(t *testing.T) {
	model, err := factsToModel(factsFromModel(userFactsModel{
		UserID:       "u",
		CharacterKey: "c",
		DisplayName:  "Alex",
		Favorites:    json.RawMessage(`{"music":["jazz"]}`),
	}))
	if err != nil {
		t.Fatalf("conversion returned error: %v", err)
	}
	if model.DisplayName != "Alex" {
		t.Fatalf("display name lost: %+v", model)
	}
	if string(model.Favorites) != `{"music":["jazz"]}` {
		t.Fatalf("favorites lost: %s", model.Favorites)
	}
}
