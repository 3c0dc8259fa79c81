package sessiontokens

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nkarpov/authd/internal/common"
)

func TestInMemory_PutReplaces(t *testing.T) {
	t.Parallel()

	repo := NewInMemoryRepository()
	ctx := context.Background()

	if err := repo.Put(ctx, "acc-1", "tok-a"); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := repo.Put(ctx, "acc-1", "tok-b"); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	// The first token is gone: put never appends.
	if _, err := repo.FindByValue(ctx, "tok-a"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("stale token still stored: %v", err)
	}
	got, err := repo.FindByValue(ctx, "tok-b")
	if err != nil {
		t.Fatalf("FindByValue error: %v", err)
	}
	if got.AccountID != "acc-1" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestInMemory_CompareAndReplace(t *testing.T) {
	t.Parallel()

	repo := NewInMemoryRepository()
	ctx := context.Background()

	if err := repo.Put(ctx, "acc-1", "tok-a"); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	replaced, err := repo.CompareAndReplace(ctx, "acc-1", "tok-a", "tok-b")
	if err != nil || !replaced {
		t.Fatalf("first replace: replaced=%v err=%v", replaced, err)
	}

	// Stale expected value must leave the slot untouched.
	replaced, err = repo.CompareAndReplace(ctx, "acc-1", "tok-a", "tok-c")
	if err != nil || replaced {
		t.Fatalf("stale replace: replaced=%v err=%v", replaced, err)
	}
	if _, err := repo.FindByValue(ctx, "tok-b"); err != nil {
		t.Fatalf("current token lost: %v", err)
	}

	// Unknown account.
	replaced, err = repo.CompareAndReplace(ctx, "acc-2", "x", "y")
	if err != nil || replaced {
		t.Fatalf("unknown account replace: replaced=%v err=%v", replaced, err)
	}
}

func TestInMemory_Remove(t *testing.T) {
	t.Parallel()

	repo := NewInMemoryRepository()
	ctx := context.Background()

	if err := repo.Put(ctx, "acc-1", "tok-a"); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	removed, err := repo.Remove(ctx, "tok-a")
	if err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	removed, err = repo.Remove(ctx, "tok-a")
	if err != nil || removed {
		t.Fatalf("second remove: removed=%v err=%v", removed, err)
	}
}

func TestInMemory_ConcurrentCompareAndReplace_OneWinner(t *testing.T) {
	t.Parallel()

	repo := NewInMemoryRepository()
	ctx := context.Background()

	const iterations = 200
	for i := 0; i < iterations; i++ {
		if err := repo.Put(ctx, "acc-1", "tok-old"); err != nil {
			t.Fatalf("Put error: %v", err)
		}

		var wg sync.WaitGroup
		wins := make(chan bool, 2)
		for _, next := range []string{"tok-x", "tok-y"} {
			wg.Add(1)
			go func(next string) {
				defer wg.Done()
				replaced, err := repo.CompareAndReplace(ctx, "acc-1", "tok-old", next)
				if err != nil {
					t.Errorf("CompareAndReplace error: %v", err)
					return
				}
				wins <- replaced
			}(next)
		}
		wg.Wait()
		close(wins)

		winners := 0
		for w := range wins {
			if w {
				winners++
			}
		}
		if winners != 1 {
			t.Fatalf("iteration %d: %d winners, want exactly 1", i, winners)
		}
	}
}
