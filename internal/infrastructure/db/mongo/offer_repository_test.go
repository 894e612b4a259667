package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sixcities/rental-api/internal/core/domain"
)

func TestPatchToSet_OnlyProvidedFields(t *testing.T) {
	title := "Renovated loft by the river"
	price := 480
	premium := false

	set := patchToSet(domain.OfferPatch{Title: &title, Price: &price, IsPremium: &premium})

	if len(set) != 3 {
		t.Fatalf("expected 3 fields, got %v", set)
	}
	if set["title"] != title || set["price"] != price || set["isPremium"] != false {
		t.Fatalf("unexpected $set document: %v", set)
	}
}

func TestPatchToSet_Empty(t *testing.T) {
	if set := patchToSet(domain.OfferPatch{}); len(set) != 0 {
		t.Fatalf("expected empty $set, got %v", set)
	}
}

func TestOfferDocument_RoundTrip(t *testing.T) {
	in := &domain.Offer{
		Title:       "Canal house",
		City:        domain.CityAmsterdam,
		AuthorID:    " 65F1C0FFEE0000000000ABCD ",
		Coordinates: domain.Coordinates{Latitude: 52.37, Longitude: 4.89},
	}

	doc := newOfferDocument(in)
	if doc.AuthorID != "65f1c0ffee0000000000abcd" {
		t.Errorf("author id not normalised: %q", doc.AuthorID)
	}
	if doc.Favorites == nil {
		t.Error("favorites must be stored as an empty array")
	}

	out := doc.toDomain()
	if out.ID != doc.ID.Hex() || out.City != domain.CityAmsterdam || out.Coordinates != in.Coordinates {
		t.Fatalf("unexpected offer: %+v", out)
	}
}

func TestObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	if got, ok := objectID(id.Hex()); !ok || got != id {
		t.Fatalf("objectID(%q) = %v, %v", id.Hex(), got, ok)
	}
	if _, ok := objectID("not-an-id"); ok {
		t.Fatal("expected invalid id to be rejected")
	}
}
