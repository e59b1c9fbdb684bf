package block

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type fakeBlockRepo struct {
	blocks map[[2]uuid.UUID]*Block
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocks: make(map[[2]uuid.UUID]*Block)}
}

func (f *fakeBlockRepo) Create(ctx context.Context, blk *Block) error {
	f.blocks[[2]uuid.UUID{blk.BlockerUserID, blk.BlockedUserID}] = blk
	return nil
}

func (f *fakeBlockRepo) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	delete(f.blocks, [2]uuid.UUID{blockerID, blockedID})
	return nil
}

func (f *fakeBlockRepo) has(blockerID, blockedID uuid.UUID) bool {
	_, ok := f.blocks[[2]uuid.UUID{blockerID, blockedID}]
	return ok
}

func (f *fakeBlockRepo) HasBlockBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return f.has(a, b) || f.has(b, a), nil
}

func (f *fakeBlockRepo) List(ctx context.Context, userID uuid.UUID) ([]*Block, error) {
	var out []*Block
	for key, blk := range f.blocks {
		if key[0] == userID {
			out = append(out, blk)
		}
	}
	return out, nil
}

type fakeSeverer struct {
	calls [][2]uuid.UUID
}

func (f *fakeSeverer) DeleteBetween(ctx context.Context, a, b uuid.UUID) error {
	f.calls = append(f.calls, [2]uuid.UUID{a, b})
	return nil
}

func TestBlockUserSeversFollows(t *testing.T) {
	repo := newFakeBlockRepo()
	severer := &fakeSeverer{}
	svc := NewService(repo, severer)

	blocker, target := uuid.New(), uuid.New()
	if err := svc.BlockUser(context.Background(), blocker, target); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	if blocked, _ := svc.HasBlockBetween(context.Background(), blocker, target); !blocked {
		t.Fatal("expected block recorded")
	}
	if blocked, _ := svc.HasBlockBetween(context.Background(), target, blocker); !blocked {
		t.Fatal("block must be visible in both directions")
	}
	if len(severer.calls) != 1 {
		t.Fatalf("expected one sever call, got %d", len(severer.calls))
	}
	if severer.calls[0] != [2]uuid.UUID{blocker, target} {
		t.Fatalf("sever called with wrong pair: %v", severer.calls[0])
	}
}

func TestBlockSelfIsRejected(t *testing.T) {
	repo := newFakeBlockRepo()
	svc := NewService(repo, &fakeSeverer{})

	id := uuid.New()
	if err := svc.BlockUser(context.Background(), id, id); err != ErrSelfBlock {
		t.Fatalf("expected ErrSelfBlock, got %v", err)
	}
	if len(repo.blocks) != 0 {
		t.Fatal("self-block must not create a row")
	}
}

func TestUnblockRemovesOnlyOwnDirection(t *testing.T) {
	repo := newFakeBlockRepo()
	svc := NewService(repo, &fakeSeverer{})
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	if err := svc.BlockUser(ctx, a, b); err != nil {
		t.Fatalf("block a->b failed: %v", err)
	}
	if err := svc.BlockUser(ctx, b, a); err != nil {
		t.Fatalf("block b->a failed: %v", err)
	}

	if err := svc.UnblockUser(ctx, a, b); err != nil {
		t.Fatalf("unblock failed: %v", err)
	}

	// b's block of a survives a's unblock
	if blocked, _ := svc.HasBlockBetween(ctx, a, b); !blocked {
		t.Fatal("expected b's block to remain")
	}
	if list, _ := svc.ListMyBlocks(ctx, a); len(list) != 0 {
		t.Fatalf("expected a's block list empty, got %d", len(list))
	}
	if list, _ := svc.ListMyBlocks(ctx, b); len(list) != 1 {
		t.Fatalf("expected b's block list to keep one entry, got %d", len(list))
	}
}
