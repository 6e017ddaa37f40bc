package services

import (
	"math/rand"
	"sync"
	"testing"
)

func TestDetectSmallTalk(t *testing.T) {
	tests := []struct {
		text     string
		category SmallTalkCategory
		ok       bool
	}{
		{"quem é você?", SmallTalkWhoAmI, true},
		{"voce e um robo?", SmallTalkWhoAmI, true},
		{"obrigado", SmallTalkThanks, true},
		{"muito obrigada!", SmallTalkThanks, true},
		{"valeu", SmallTalkThanks, true},
		{"quero uma reserva", "", false},
	}

	for _, tt := range tests {
		category, ok := DetectSmallTalk(tt.text)
		if ok != tt.ok || category != tt.category {
			t.Errorf("DetectSmallTalk(%q) = (%q, %v), want (%q, %v)",
				tt.text, category, ok, tt.category, tt.ok)
		}
	}
}

func TestPickStaysInsidePool(t *testing.T) {
	r := NewSmallTalkResponder(rand.NewSource(1))

	pool := smallTalkPools[SmallTalkWhoAmI]
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		reply := r.Pick(SmallTalkWhoAmI)
		found := false
		for _, candidate := range pool {
			if reply == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Pick returned %q, not in the pool", reply)
		}
		seen[reply] = true
	}

	// 100 draws over a pool of 3 should hit every entry.
	if len(seen) != len(pool) {
		t.Errorf("Pick covered %d of %d pool entries", len(seen), len(pool))
	}
}

func TestPickIsSafeForConcurrentUse(t *testing.T) {
	r := NewSmallTalkResponder(rand.NewSource(1))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if reply := r.Pick(SmallTalkThanks); reply == "" {
					t.Error("Pick returned empty reply")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestPickUnknownCategory(t *testing.T) {
	r := NewSmallTalkResponder(rand.NewSource(1))
	if got := r.Pick(SmallTalkCategory("inexistente")); got != "" {
		t.Errorf("Pick on unknown category = %q, want empty", got)
	}
}
