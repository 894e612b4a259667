package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
)

type recordingEnqueuer struct {
	ids []string
}

func (r *recordingEnqueuer) Enqueue(offerID string) {
	r.ids = append(r.ids, offerID)
}

func TestCommentService_Create_SchedulesStats(t *testing.T) {
	offers := newStubOfferRepo()
	comments := &stubCommentRepo{}
	stats := &recordingEnqueuer{}
	svc := NewCommentService(comments, offers, stats, discardLogger)

	offer, _ := offers.Create(context.Background(), &domain.Offer{Title: "x"})

	comment, err := svc.Create(context.Background(), ports.CreateCommentInput{
		Text: "Lovely place, would stay again", Rating: 5, AuthorID: "user-a", OfferID: offer.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if comment.AuthorID != "user-a" || comment.OfferID != offer.ID || comment.CreatedAt.IsZero() {
		t.Fatalf("unexpected comment: %+v", comment)
	}
	if len(stats.ids) != 1 || stats.ids[0] != offer.ID {
		t.Fatalf("expected stats recalculation for %s, got %v", offer.ID, stats.ids)
	}
}

func TestCommentService_Create_UnknownOffer(t *testing.T) {
	stats := &recordingEnqueuer{}
	svc := NewCommentService(&stubCommentRepo{}, newStubOfferRepo(), stats, discardLogger)

	_, err := svc.Create(context.Background(), ports.CreateCommentInput{Text: "hello there", Rating: 3, AuthorID: "u", OfferID: "missing"})
	if !errors.Is(err, domain.ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
	if len(stats.ids) != 0 {
		t.Fatal("no stats job expected for a rejected comment")
	}
}

func TestCommentService_Create_RequiresAuthor(t *testing.T) {
	svc := NewCommentService(&stubCommentRepo{}, newStubOfferRepo(), &recordingEnqueuer{}, discardLogger)

	_, err := svc.Create(context.Background(), ports.CreateCommentInput{Text: "hello there", Rating: 3, OfferID: "x"})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCommentService_ListByOffer_DefaultLimit(t *testing.T) {
	comments := &stubCommentRepo{}
	svc := NewCommentService(comments, newStubOfferRepo(), &recordingEnqueuer{}, discardLogger)
	for i := 0; i < defaultCommentLimit+5; i++ {
		_, _ = comments.Create(context.Background(), &domain.Comment{OfferID: "o1", Rating: 3})
	}

	got, err := svc.ListByOffer(context.Background(), "o1", 0)
	if err != nil {
		t.Fatalf("ListByOffer: %v", err)
	}
	if len(got) != defaultCommentLimit {
		t.Fatalf("expected %d comments, got %d", defaultCommentLimit, len(got))
	}
}

func TestCommentService_ListByOffer_RejectsLimitOutOfRange(t *testing.T) {
	comments := &stubCommentRepo{}
	svc := NewCommentService(comments, newStubOfferRepo(), &recordingEnqueuer{}, discardLogger)

	for _, limit := range []int{-1, maxCommentLimit + 1, 100} {
		_, err := svc.ListByOffer(context.Background(), "o1", limit)
		if domain.KindOf(err) != domain.KindBadRequest {
			t.Fatalf("limit %d: expected bad request, got %v", limit, err)
		}
	}

	if _, err := svc.ListByOffer(context.Background(), "o1", maxCommentLimit); err != nil {
		t.Fatalf("limit %d must be accepted: %v", maxCommentLimit, err)
	}
}
