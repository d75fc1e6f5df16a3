package service

import (
	"context"
	"errors"
	"testing"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
)

func newMergeSvc(repo *stubCartRepo, guard *stubGuard) *mergeService {
	return NewMergeService(repo, inlineQueue{}, guard, discardLogger).(*mergeService)
}

func quantityByProduct(t *testing.T, repo *stubCartRepo, cartID string) map[string]int {
	t.Helper()
	out := make(map[string]int)
	for _, item := range repo.itemsIn(cartID) {
		out[item.ProductID] = item.Quantity
	}
	return out
}

func TestMergeService_SumsAndMoves(t *testing.T) {
	repo := newStubCartRepo()
	guest := repo.addCart(domain.OwnerGuest, "tok_1")
	repo.addItem(guest.ID, "prod_a", 2)
	repo.addItem(guest.ID, "prod_b", 1)
	user := repo.addCart(domain.OwnerUser, "user_1")
	repo.addItem(user.ID, "prod_a", 3)

	svc := newMergeSvc(repo, newStubGuard())
	result, err := svc.Merge(context.Background(), "user_1", "tok_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Summed != 1 || result.Moved != 1 || !result.Retired || result.Skipped {
		t.Errorf("unexpected result: %+v", result)
	}
	got := quantityByProduct(t, repo, user.ID)
	if got["prod_a"] != 5 {
		t.Errorf("expected prod_a summed to 5, got %d", got["prod_a"])
	}
	if got["prod_b"] != 1 {
		t.Errorf("expected prod_b moved with quantity 1, got %d", got["prod_b"])
	}
	if len(repo.itemsIn(guest.ID)) != 0 {
		t.Errorf("expected guest cart retired (emptied)")
	}
}

func TestMergeService_SecondRunIsNoop(t *testing.T) {
	repo := newStubCartRepo()
	guest := repo.addCart(domain.OwnerGuest, "tok_1")
	repo.addItem(guest.ID, "prod_a", 2)
	user := repo.addCart(domain.OwnerUser, "user_1")

	svc := newMergeSvc(repo, newStubGuard())
	ctx := context.Background()
	if _, err := svc.Merge(ctx, "user_1", "tok_1"); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	second, err := svc.Merge(ctx, "user_1", "tok_1")
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}

	if !second.Skipped {
		t.Errorf("expected second merge to be skipped")
	}
	if got := quantityByProduct(t, repo, user.ID)["prod_a"]; got != 2 {
		t.Errorf("expected prod_a still 2 after re-run, got %d", got)
	}
}

func TestMergeService_RerunWithoutGuardStillNoop(t *testing.T) {
	repo := newStubCartRepo()
	guest := repo.addCart(domain.OwnerGuest, "tok_1")
	repo.addItem(guest.ID, "prod_a", 2)
	user := repo.addCart(domain.OwnerUser, "user_1")

	// A guard that always errors forces every run through the full path,
	// so idempotence has to come from the retired guest cart alone.
	guard := newStubGuard()
	guard.checkErr = errors.New("redis down")
	guard.markErr = errors.New("redis down")

	svc := newMergeSvc(repo, guard)
	ctx := context.Background()
	if _, err := svc.Merge(ctx, "user_1", "tok_1"); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	second, err := svc.Merge(ctx, "user_1", "tok_1")
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}

	if !second.Skipped {
		t.Errorf("expected empty guest cart to make the re-run a no-op")
	}
	if got := quantityByProduct(t, repo, user.ID)["prod_a"]; got != 2 {
		t.Errorf("expected prod_a still 2, got %d", got)
	}
}

func TestMergeService_EmptyGuestCartSkips(t *testing.T) {
	repo := newStubCartRepo()
	repo.addCart(domain.OwnerGuest, "tok_1")
	user := repo.addCart(domain.OwnerUser, "user_1")
	repo.addItem(user.ID, "prod_a", 4)

	svc := newMergeSvc(repo, newStubGuard())
	result, err := svc.Merge(context.Background(), "user_1", "tok_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Errorf("expected empty guest cart to skip")
	}
	if got := quantityByProduct(t, repo, user.ID)["prod_a"]; got != 4 {
		t.Errorf("expected user cart untouched, prod_a=%d", got)
	}
}

func TestMergeService_MissingGuestCartSkips(t *testing.T) {
	repo := newStubCartRepo()
	svc := newMergeSvc(repo, newStubGuard())

	result, err := svc.Merge(context.Background(), "user_1", "tok_never_seen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Errorf("expected merge without a guest cart to skip")
	}
}

func TestMergeService_EmptyTokenSkips(t *testing.T) {
	repo := newStubCartRepo()
	svc := newMergeSvc(repo, newStubGuard())

	result, err := svc.Merge(context.Background(), "user_1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Errorf("expected empty token to skip")
	}
	if len(repo.carts) != 0 {
		t.Errorf("expected no cart created for an empty token")
	}
}

func TestMergeService_CreatesUserCartWhenMissing(t *testing.T) {
	repo := newStubCartRepo()
	guest := repo.addCart(domain.OwnerGuest, "tok_1")
	repo.addItem(guest.ID, "prod_a", 2)

	svc := newMergeSvc(repo, newStubGuard())
	result, err := svc.Merge(context.Background(), "user_new", "tok_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Moved != 1 {
		t.Errorf("expected one moved item, got %d", result.Moved)
	}

	userCart, err := repo.FindByOwner(context.Background(), domain.OwnerUser, "user_new")
	if err != nil {
		t.Fatalf("expected user cart to exist: %v", err)
	}
	if got := quantityByProduct(t, repo, userCart.ID)["prod_a"]; got != 2 {
		t.Errorf("expected prod_a=2 in new user cart, got %d", got)
	}
}

func TestMergeService_WriteFailureReportsIncomplete(t *testing.T) {
	repo := newStubCartRepo()
	guest := repo.addCart(domain.OwnerGuest, "tok_1")
	repo.addItem(guest.ID, "prod_a", 2)
	user := repo.addCart(domain.OwnerUser, "user_1")
	repo.addItem(user.ID, "prod_a", 1)
	repo.updateErr = domain.ErrStoreUnavailable

	guard := newStubGuard()
	svc := newMergeSvc(repo, guard)
	_, err := svc.Merge(context.Background(), "user_1", "tok_1")
	if !errors.Is(err, domain.ErrMergeIncomplete) {
		t.Fatalf("expected ErrMergeIncomplete, got %v", err)
	}
	if guard.merged["user_1:tok_1"] {
		t.Errorf("a partial merge must not be marked as done")
	}
	if len(repo.itemsIn(guest.ID)) != 1 {
		t.Errorf("expected guest items kept for retry")
	}
}

func TestMergeService_RetireFailureReportsIncomplete(t *testing.T) {
	repo := newStubCartRepo()
	guest := repo.addCart(domain.OwnerGuest, "tok_1")
	repo.addItem(guest.ID, "prod_a", 2)
	repo.addCart(domain.OwnerUser, "user_1")
	repo.retireErr = domain.ErrStoreUnavailable

	guard := newStubGuard()
	svc := newMergeSvc(repo, guard)
	_, err := svc.Merge(context.Background(), "user_1", "tok_1")
	if !errors.Is(err, domain.ErrMergeIncomplete) {
		t.Fatalf("expected ErrMergeIncomplete when retirement fails, got %v", err)
	}
	if guard.merged["user_1:tok_1"] {
		t.Errorf("a merge that could not retire the guest cart must stay retryable")
	}
}

func TestMergeService_GuardDeduplicatesSignInEvent(t *testing.T) {
	repo := newStubCartRepo()
	guest := repo.addCart(domain.OwnerGuest, "tok_1")
	repo.addItem(guest.ID, "prod_a", 2)

	guard := newStubGuard()
	guard.merged["user_1:tok_1"] = true

	svc := newMergeSvc(repo, guard)
	result, err := svc.Merge(context.Background(), "user_1", "tok_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Errorf("expected guard hit to skip the merge")
	}
	if len(repo.itemsIn(guest.ID)) != 1 {
		t.Errorf("expected guest cart untouched on a deduplicated event")
	}
}

func TestMergeService_GuardCheckErrorProceeds(t *testing.T) {
	repo := newStubCartRepo()
	guest := repo.addCart(domain.OwnerGuest, "tok_1")
	repo.addItem(guest.ID, "prod_a", 2)

	guard := newStubGuard()
	guard.checkErr = errors.New("redis down")

	svc := newMergeSvc(repo, guard)
	result, err := svc.Merge(context.Background(), "user_1", "tok_1")
	if err != nil {
		t.Fatalf("expected merge to proceed past a guard error, got: %v", err)
	}
	if result.Moved != 1 || !result.Retired {
		t.Errorf("unexpected result: %+v", result)
	}
}
