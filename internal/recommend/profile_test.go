// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/peoplelink/peoplelink/internal/cache"
	"github.com/peoplelink/peoplelink/internal/models"
	"github.com/peoplelink/peoplelink/internal/storage/memory"
)

var profileBase = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newProfileBuilder(store *memory.Store, c *cache.Cache) *ProfileBuilder {
	return NewProfileBuilder(store, c, DefaultProfileConfig(), zerolog.Nop())
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercases and splits", "Go Concurrency!", []string{"go", "concurrency"}},
		{"strips punctuation", "tips, tricks & more...", []string{"tips", "tricks", "more"}},
		{"keeps digits", "http2 vs http3", []string{"http2", "vs", "http3"}},
		{"empty text", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestProfileBuilder_Build(t *testing.T) {
	store := memory.New()
	store.AddPost(memory.PostSeed{ID: "p1", AuthorID: "alice", Text: "golang concurrency and golang generics", Public: true, CreatedAt: profileBase})
	store.AddPost(memory.PostSeed{ID: "p2", AuthorID: "bob", Text: "concurrency patterns explained", Public: true, CreatedAt: profileBase})
	store.Follow("alice", "bob", profileBase)
	store.Like("alice", "p2", profileBase.Add(time.Minute))

	pb := newProfileBuilder(store, nil)
	profile, err := pb.Build(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Build() err = %v", err)
	}

	if profile.UserID != "alice" {
		t.Errorf("UserID = %q, want alice", profile.UserID)
	}
	if !profile.Follows("bob") {
		t.Error("profile missing bob in following set")
	}
	if len(profile.InterestTerms) == 0 {
		t.Fatal("no interest terms extracted")
	}

	// "golang" appears twice in authored text, "concurrency" twice across
	// authored and liked text; stopword "and" must be dropped.
	weights := map[string]float64{}
	for _, term := range profile.InterestTerms {
		weights[term.Term] = term.Weight
	}
	if weights["golang"] != 2 {
		t.Errorf("golang weight = %v, want 2", weights["golang"])
	}
	if weights["concurrency"] != 2 {
		t.Errorf("concurrency weight = %v, want 2", weights["concurrency"])
	}
	if _, ok := weights["and"]; ok {
		t.Error("stopword 'and' extracted as interest term")
	}

	// Ordering: weight descending, term ascending.
	for i := 1; i < len(profile.InterestTerms); i++ {
		prev, cur := profile.InterestTerms[i-1], profile.InterestTerms[i]
		if cur.Weight > prev.Weight {
			t.Errorf("terms not ordered by weight: %v before %v", prev, cur)
		}
		if cur.Weight == prev.Weight && cur.Term < prev.Term {
			t.Errorf("equal-weight terms not ordered by term: %v before %v", prev, cur)
		}
	}
}

func TestProfileBuilder_EmptyUser(t *testing.T) {
	pb := newProfileBuilder(memory.New(), nil)

	profile, err := pb.Build(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Build() for unknown user err = %v, want nil", err)
	}
	if !profile.IsEmpty() {
		t.Errorf("profile = %+v, want empty", profile)
	}
	if profile.InterestTerms == nil {
		// Empty is fine, nil slice is fine too; terms must just be zero.
		t.Log("empty profile has nil terms")
	}
	if len(profile.InterestTerms) != 0 {
		t.Errorf("InterestTerms = %v, want none", profile.InterestTerms)
	}
}

func TestProfileBuilder_MaxTerms(t *testing.T) {
	store := memory.New()
	store.AddPost(memory.PostSeed{
		ID: "p1", AuthorID: "alice", Public: true, CreatedAt: profileBase,
		Text: "alpha bravo charlie delta echo foxtrot",
	})

	cfg := DefaultProfileConfig()
	cfg.MaxTerms = 3
	pb := NewProfileBuilder(store, nil, cfg, zerolog.Nop())

	profile, err := pb.Build(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Build() err = %v", err)
	}
	if len(profile.InterestTerms) != 3 {
		t.Errorf("got %d terms, want 3 (capped)", len(profile.InterestTerms))
	}
	// Equal weights: alphabetical order decides the cut.
	want := []string{"alpha", "bravo", "charlie"}
	for i, term := range profile.InterestTerms {
		if term.Term != want[i] {
			t.Errorf("term[%d] = %q, want %q", i, term.Term, want[i])
		}
	}
}

func TestProfileBuilder_CacheAndInvalidate(t *testing.T) {
	store := memory.New()
	store.AddPost(memory.PostSeed{ID: "p1", AuthorID: "alice", Text: "golang tips", Public: true, CreatedAt: profileBase})

	c := cache.New(0)
	defer c.Close()
	pb := newProfileBuilder(store, c)

	first, err := pb.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get() err = %v", err)
	}

	// New content arrives, but the cached profile is served until
	// invalidation: staleness up to TTL is by design.
	store.AddPost(memory.PostSeed{ID: "p2", AuthorID: "alice", Text: "sourdough sourdough sourdough", Public: true, CreatedAt: profileBase.Add(time.Minute)})

	cached, err := pb.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get() err = %v", err)
	}
	if !cached.ComputedAt.Equal(first.ComputedAt) {
		t.Error("expected cached profile before invalidation")
	}

	pb.Invalidate("alice")
	rebuilt, err := pb.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get() after Invalidate err = %v", err)
	}
	found := false
	for _, term := range rebuilt.InterestTerms {
		if term.Term == "sourdough" {
			found = true
		}
	}
	if !found {
		t.Error("rebuilt profile missing terms from new post")
	}
}

func TestContentScore(t *testing.T) {
	profile := &models.UserInterestProfile{
		UserID: "u1",
		InterestTerms: []models.InterestTerm{
			{Term: "golang", Weight: 3},
			{Term: "concurrency", Weight: 2},
			{Term: "baking", Weight: 1},
		},
		FollowingSet: map[string]struct{}{"alice": {}},
	}

	tests := []struct {
		name string
		fact models.EngagementFact
		want float64
	}{
		{
			"two term matches",
			models.EngagementFact{SubjectID: "p1", AuthorID: "bob", Text: "Golang concurrency explained"},
			2,
		},
		{
			"match plus follow bonus",
			models.EngagementFact{SubjectID: "p2", AuthorID: "alice", Text: "new golang release"},
			3,
		},
		{
			"follow bonus only",
			models.EngagementFact{SubjectID: "p3", AuthorID: "alice", Text: "holiday photos"},
			2,
		},
		{
			"no signal",
			models.EngagementFact{SubjectID: "p4", AuthorID: "bob", Text: "holiday photos"},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, components := contentScore(profile, &tt.fact, 2.0)
			if got != tt.want {
				t.Errorf("contentScore() = %v, want %v", got, tt.want)
			}
			if tt.want == 0 && components != nil {
				t.Errorf("zero score carries components %v, want nil", components)
			}
		})
	}
}

func TestContentScore_EmptyProfile(t *testing.T) {
	empty := &models.UserInterestProfile{UserID: "u1"}
	fact := models.EngagementFact{SubjectID: "p1", AuthorID: "alice", Text: "anything at all"}

	got, _ := contentScore(empty, &fact, 2.0)
	if got != 0 {
		t.Errorf("contentScore with empty profile = %v, want 0", got)
	}
}
