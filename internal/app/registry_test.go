package app_test

import (
	"testing"

	"github.com/voiceroom/server/internal/app"
	"github.com/voiceroom/server/internal/domain"
)

func TestRegistryCreateAndLookup(t *testing.T) {
	r := app.NewRegistry()
	host := user("h")
	room := r.Create(host, "demo", []string{"music"}, domain.VisibilityPrivate, "code-1")

	if room.ID == "" {
		t.Fatal("Create must assign an id")
	}
	if got, ok := r.Get(room.ID); !ok || got.ID != room.ID {
		t.Fatal("Get failed to find created room")
	}
	if got, ok := r.ByCode("code-1"); !ok || got.ID != room.ID {
		t.Fatal("ByCode failed to find created room")
	}
	if _, ok := r.ByCode(""); ok {
		t.Error("empty code must never match")
	}
}

func TestRegistryFreshIDs(t *testing.T) {
	r := app.NewRegistry()
	a := r.Create(user("h1"), "one", nil, domain.VisibilityPublic, "")
	b := r.Create(user("h2"), "two", nil, domain.VisibilityPublic, "")
	if a.ID == b.ID {
		t.Error("ids must be unique per room")
	}
}

func TestRegistryDeleteIsPermanent(t *testing.T) {
	r := app.NewRegistry()
	room := r.Create(user("h"), "gone", nil, domain.VisibilityPublic, "")
	r.Delete(room.ID)

	if _, ok := r.Get(room.ID); ok {
		t.Error("deleted room still fetchable")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d after delete, want 0", r.Len())
	}
	if len(r.List(nil)) != 0 {
		t.Error("deleted room still listed")
	}
}

func TestRegistrySummaryOmitsMessages(t *testing.T) {
	r := app.NewRegistry()
	room := r.Create(user("h"), "talk", nil, domain.VisibilityPublic, "")
	room.AppendMessage(&domain.ChatMessage{ID: "m1", Text: "hi"})

	list := r.List(nil)
	if len(list) != 1 {
		t.Fatalf("list has %d rooms, want 1", len(list))
	}
	// RoomSummary carries no message or access-code fields at all; check
	// the participant projection instead.
	if list[0].ParticipantCount != 1 || list[0].Participants[0].ID != "h" {
		t.Errorf("summary participants wrong: %+v", list[0])
	}
}
