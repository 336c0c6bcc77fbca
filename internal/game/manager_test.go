package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/deviousname/Turtle-Pool/internal/config"
)

func testManager() *GameManager {
	return NewGameManager(nil, nil, &config.Config{SessionExpiryMinutes: 10})
}

func TestCreateAndJoinSession(t *testing.T) {
	gm := testManager()

	s, p1ID, err := gm.CreateSession("alice")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if s.Status != StatusWaiting {
		t.Errorf("new session status = %s, want %s", s.Status, StatusWaiting)
	}
	if s.Player1 == nil || s.Player1.ID != p1ID || s.Player1.Number != 1 {
		t.Errorf("player 1 not seated correctly: %+v", s.Player1)
	}

	got, err := gm.GetSessionByToken(s.Token)
	if err != nil || got != s {
		t.Fatalf("GetSessionByToken: got %v, err %v", got, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	joined, p2ID, err := gm.JoinSession(ctx, s.Token, "bob")
	if err != nil {
		t.Fatalf("JoinSession failed: %v", err)
	}
	defer joined.Stop()

	_, p2, status := joined.Seats()
	if status != StatusInProgress {
		t.Errorf("joined session status = %s, want %s", status, StatusInProgress)
	}
	if p2 == nil || p2.Number != 2 {
		t.Errorf("player 2 not seated correctly: %+v", p2)
	}

	for _, pid := range []string{p1ID, p2ID} {
		byPlayer, err := gm.GetSessionForPlayer(pid)
		if err != nil || byPlayer != s {
			t.Errorf("GetSessionForPlayer(%s): got %v, err %v", pid, byPlayer, err)
		}
	}
}

func TestJoinSessionRejectsThirdPlayer(t *testing.T) {
	gm := testManager()

	s, _, err := gm.CreateSession("alice")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	joined, _, err := gm.JoinSession(ctx, s.Token, "bob")
	if err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	defer joined.Stop()

	if _, _, err := gm.JoinSession(ctx, s.Token, "carol"); err == nil {
		t.Error("third player joined a full session")
	}
}

func TestJoinSessionUnknownToken(t *testing.T) {
	gm := testManager()
	if _, _, err := gm.JoinSession(context.Background(), "no-such-token", "bob"); err == nil {
		t.Error("join with an unknown token should fail")
	}
}

func TestSessionLoopDeliversFrames(t *testing.T) {
	gm := testManager()

	s, _, err := gm.CreateSession("alice")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	frames := make(chan *StepResult, 8)
	s.SetFrameFunc(func(res *StepResult) {
		select {
		case frames <- res:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, _, err := gm.JoinSession(ctx, s.Token, "bob"); err != nil {
		t.Fatalf("JoinSession failed: %v", err)
	}
	defer s.Stop()

	var first, second *StepResult
	select {
	case first = <-frames:
	case <-time.After(3 * time.Second):
		t.Fatal("no frame within 3s of the loop starting")
	}
	select {
	case second = <-frames:
	case <-time.After(3 * time.Second):
		t.Fatal("loop stalled after the first frame")
	}

	if second.Tick <= first.Tick {
		t.Errorf("ticks not advancing: %d then %d", first.Tick, second.Tick)
	}
	if lf := s.LastFrame(); lf == nil {
		t.Error("LastFrame still nil after frames were delivered")
	}
}

func TestEndSessionRemovesAllLookups(t *testing.T) {
	gm := testManager()

	s, p1ID, err := gm.CreateSession("alice")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if gm.ActiveSessionCount() != 1 {
		t.Fatalf("active count = %d, want 1", gm.ActiveSessionCount())
	}

	gm.EndSession(s.ID, StatusCompleted)

	if gm.ActiveSessionCount() != 0 {
		t.Errorf("active count = %d after end, want 0", gm.ActiveSessionCount())
	}
	if _, err := gm.GetSessionByToken(s.Token); err == nil {
		t.Error("token lookup should fail after EndSession")
	}
	if _, err := gm.GetSessionForPlayer(p1ID); err == nil {
		t.Error("player lookup should fail after EndSession")
	}

	// Ending twice is harmless.
	gm.EndSession(s.ID, StatusCompleted)
}

func TestEndSessionDuringJoinLeavesNoOrphan(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Race a join against the expiry path. Whatever the interleaving, a
	// joiner must never stay registered against a removed session.
	for i := 0; i < 20; i++ {
		gm := testManager()
		s, _, err := gm.CreateSession("alice")
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		var (
			wg      sync.WaitGroup
			p2ID    string
			joinErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, p2ID, joinErr = gm.JoinSession(ctx, s.Token, "bob")
		}()
		go func() {
			defer wg.Done()
			gm.EndSession(s.ID, StatusExpired)
		}()
		wg.Wait()

		// The join may have landed before the end; finish tearing down.
		gm.EndSession(s.ID, StatusExpired)
		s.Stop()

		if gm.ActiveSessionCount() != 0 {
			t.Fatalf("iteration %d: session survived EndSession", i)
		}
		if joinErr == nil {
			if _, err := gm.GetSessionForPlayer(p2ID); err == nil {
				t.Fatalf("iteration %d: joiner %s still registered against an ended session", i, p2ID)
			}
		}
	}
}

func TestExpireIdleSessions(t *testing.T) {
	gm := NewGameManager(nil, nil, &config.Config{SessionExpiryMinutes: 0})

	if _, _, err := gm.CreateSession("alice"); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Zero-minute expiry: any session is instantly idle.
	time.Sleep(10 * time.Millisecond)
	gm.expireIdleSessions()

	if gm.ActiveSessionCount() != 0 {
		t.Errorf("idle session survived the expiry sweep: %d active", gm.ActiveSessionCount())
	}
}

func TestSubmitReportsFullBuffer(t *testing.T) {
	s, err := NewTableSession("table_test", "tok", "p1", "alice")
	if err != nil {
		t.Fatalf("NewTableSession failed: %v", err)
	}

	// Loop never started, so the buffer only drains when it overflows.
	var failed bool
	for i := 0; i < 128; i++ {
		if err := s.Submit(Command{Kind: "rotate", PlayerID: "p1"}); err != nil {
			failed = true
			break
		}
	}
	if !failed {
		t.Error("Submit never reported a full buffer")
	}
}
