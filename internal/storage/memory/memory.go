// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

// Package memory provides an in-memory storage.Store implementation used
// by tests and by dev mode. It keeps per-interaction timestamps so
// window-scoped aggregates are exact.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/peoplelink/peoplelink/internal/models"
	"github.com/peoplelink/peoplelink/internal/storage"
)

type event struct {
	userID string
	at     time.Time
}

type post struct {
	id             string
	authorID       string
	text           string
	public         bool
	hashtags       []string
	createdAt      time.Time
	lastActivityAt time.Time

	likes    []event
	comments []event
	shares   []event
	views    []event
}

type hashtag struct {
	tag            string
	category       string
	uses           int
	createdAt      time.Time
	lastActivityAt time.Time

	likes    int
	comments int
	shares   int
	views    int
}

// Store is an in-memory implementation of storage.Store.
// Safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	posts        map[string]*post
	hashtags     map[string]*hashtag
	follows      map[string]map[string]struct{}
	followers    map[string]map[string]struct{}
	lastActiveAt map[string]time.Time
}

var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		posts:        make(map[string]*post),
		hashtags:     make(map[string]*hashtag),
		follows:      make(map[string]map[string]struct{}),
		followers:    make(map[string]map[string]struct{}),
		lastActiveAt: make(map[string]time.Time),
	}
}

// PostSeed describes a post to seed into the store.
type PostSeed struct {
	ID        string
	AuthorID  string
	Text      string
	Public    bool
	Hashtags  []string
	Category  string
	CreatedAt time.Time
}

// AddPost seeds a post and registers its hashtag uses.
func (s *Store) AddPost(p PostSeed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts[p.ID] = &post{
		id:             p.ID,
		authorID:       p.AuthorID,
		text:           p.Text,
		public:         p.Public,
		hashtags:       append([]string(nil), p.Hashtags...),
		createdAt:      p.CreatedAt,
		lastActivityAt: p.CreatedAt,
	}

	for _, tag := range p.Hashtags {
		h := s.hashtags[tag]
		if h == nil {
			h = &hashtag{tag: tag, category: p.Category, createdAt: p.CreatedAt}
			s.hashtags[tag] = h
		}
		h.uses++
		if p.CreatedAt.After(h.lastActivityAt) {
			h.lastActivityAt = p.CreatedAt
		}
	}

	s.touchLocked(p.AuthorID, p.CreatedAt)
}

// Follow records that follower follows followee.
func (s *Store) Follow(follower, followee string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.follows[follower] == nil {
		s.follows[follower] = make(map[string]struct{})
	}
	s.follows[follower][followee] = struct{}{}

	if s.followers[followee] == nil {
		s.followers[followee] = make(map[string]struct{})
	}
	s.followers[followee][follower] = struct{}{}

	s.touchLocked(follower, at)
}

// Like records a like by userID on postID.
func (s *Store) Like(userID, postID string, at time.Time) {
	s.interact(userID, postID, at, func(p *post) { p.likes = append(p.likes, event{userID, at}) },
		func(h *hashtag) { h.likes++ })
}

// Comment records a comment by userID on postID.
func (s *Store) Comment(userID, postID string, at time.Time) {
	s.interact(userID, postID, at, func(p *post) { p.comments = append(p.comments, event{userID, at}) },
		func(h *hashtag) { h.comments++ })
}

// Share records a share by userID of postID.
func (s *Store) Share(userID, postID string, at time.Time) {
	s.interact(userID, postID, at, func(p *post) { p.shares = append(p.shares, event{userID, at}) },
		func(h *hashtag) { h.shares++ })
}

// View records a view of postID by userID.
func (s *Store) View(userID, postID string, at time.Time) {
	s.interact(userID, postID, at, func(p *post) { p.views = append(p.views, event{userID, at}) },
		func(h *hashtag) { h.views++ })
}

func (s *Store) interact(userID, postID string, at time.Time, onPost func(*post), onTag func(*hashtag)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return
	}

	onPost(p)
	if at.After(p.lastActivityAt) {
		p.lastActivityAt = at
	}

	for _, tag := range p.hashtags {
		if h := s.hashtags[tag]; h != nil {
			onTag(h)
			if at.After(h.lastActivityAt) {
				h.lastActivityAt = at
			}
		}
	}

	s.touchLocked(userID, at)
}

func (s *Store) touchLocked(userID string, at time.Time) {
	if userID == "" {
		return
	}
	if at.After(s.lastActiveAt[userID]) {
		s.lastActiveAt[userID] = at
	}
}

// EngagementFacts returns facts whose last activity falls inside window,
// sorted by subject ID for deterministic iteration.
func (s *Store) EngagementFacts(ctx context.Context, subjectType models.SubjectType, filter storage.Filter, window models.Window) ([]models.EngagementFact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var facts []models.EngagementFact
	switch subjectType {
	case models.SubjectHashtag:
		for _, h := range s.hashtags {
			if filter.Category != "" && h.category != filter.Category {
				continue
			}
			if !window.Contains(h.lastActivityAt) {
				continue
			}
			facts = append(facts, models.EngagementFact{
				SubjectID:   h.tag,
				SubjectType: models.SubjectHashtag,
				Counts: map[models.InteractionKind]int{
					models.KindUse:     h.uses,
					models.KindLike:    h.likes,
					models.KindComment: h.comments,
					models.KindShare:   h.shares,
					models.KindView:    h.views,
				},
				LastActivityAt: h.lastActivityAt,
				CreatedAt:      h.createdAt,
			})
		}
	case models.SubjectPost:
		for _, p := range s.posts {
			if filter.PublicOnly && !p.public {
				continue
			}
			if !window.Contains(p.lastActivityAt) {
				continue
			}
			facts = append(facts, models.EngagementFact{
				SubjectID:   p.id,
				SubjectType: models.SubjectPost,
				AuthorID:    p.authorID,
				Text:        p.text,
				Counts: map[models.InteractionKind]int{
					models.KindLike:    len(p.likes),
					models.KindComment: len(p.comments),
					models.KindShare:   len(p.shares),
					models.KindView:    len(p.views),
				},
				LastActivityAt: p.lastActivityAt,
				CreatedAt:      p.createdAt,
			})
		}
	}

	sort.Slice(facts, func(i, j int) bool { return facts[i].SubjectID < facts[j].SubjectID })
	return facts, nil
}

// UserAuthoredAndLikedText returns the text of posts the user authored or
// liked, authored first, each group ordered by post ID.
func (s *Store) UserAuthoredAndLikedText(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var authored, liked []string
	for _, id := range s.sortedPostIDsLocked() {
		p := s.posts[id]
		if p.authorID == userID {
			authored = append(authored, p.text)
			continue
		}
		for _, e := range p.likes {
			if e.userID == userID {
				liked = append(liked, p.text)
				break
			}
		}
	}

	return append(authored, liked...), nil
}

// FollowSet returns a copy of the user's following set.
func (s *Store) FollowSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]struct{}, len(s.follows[userID]))
	for id := range s.follows[userID] {
		out[id] = struct{}{}
	}
	return out, nil
}

// LikedContentIDs returns the set of post IDs the user has liked.
func (s *Store) LikedContentIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]struct{})
	for id, p := range s.posts {
		for _, e := range p.likes {
			if e.userID == userID {
				out[id] = struct{}{}
				break
			}
		}
	}
	return out, nil
}

// SeenContentIDs returns post IDs the user has liked or commented on.
func (s *Store) SeenContentIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]struct{})
	for id, p := range s.posts {
		for _, e := range p.likes {
			if e.userID == userID {
				out[id] = struct{}{}
				break
			}
		}
		if _, seen := out[id]; seen {
			continue
		}
		for _, e := range p.comments {
			if e.userID == userID {
				out[id] = struct{}{}
				break
			}
		}
	}
	return out, nil
}

// RecentlyActiveUsers returns up to limit user IDs ordered by most recent
// activity, ties broken by ID for determinism.
func (s *Store) RecentlyActiveUsers(ctx context.Context, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.lastActiveAt))
	for id := range s.lastActiveAt {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := s.lastActiveAt[ids[i]], s.lastActiveAt[ids[j]]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return ids[i] < ids[j]
	})

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// UserEngagementCounts aggregates window-scoped counts for one user.
func (s *Store) UserEngagementCounts(ctx context.Context, userID string, window models.Window) (models.EngagementCounts, error) {
	if err := ctx.Err(); err != nil {
		return models.EngagementCounts{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts models.EngagementCounts
	for _, p := range s.posts {
		if p.authorID == userID {
			if window.Contains(p.createdAt) {
				counts.Posts++
			}
			counts.LikesReceived += countInWindow(p.likes, window)
			counts.Comments += countInWindow(p.comments, window)
			counts.Shares += countInWindow(p.shares, window)
			counts.Views += countInWindow(p.views, window)
		}
		for _, e := range p.likes {
			if e.userID == userID && window.Contains(e.at) {
				counts.LikesGiven++
			}
		}
	}

	counts.Followers = len(s.followers[userID])
	counts.Following = len(s.follows[userID])
	return counts, nil
}

func countInWindow(events []event, window models.Window) int {
	n := 0
	for _, e := range events {
		if window.Contains(e.at) {
			n++
		}
	}
	return n
}

func (s *Store) sortedPostIDsLocked() []string {
	ids := make([]string, 0, len(s.posts))
	for id := range s.posts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
