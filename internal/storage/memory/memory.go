// Package memory is an in-process implementation of storage interface.
// It keeps the same uniqueness indexes as the postgres implementation and is used for development and tests.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/storage"
)

var errNotConnected = errors.New("storage is not connected")

// Store implements storage.Storage in memory.
// The mutex guards maps only, it does not make read-modify-write sequences of callers atomic.
type Store struct {
	mu        sync.RWMutex
	connected bool
	now       func() time.Time

	posts     *table[entities.Post]
	comments  *table[entities.Comment]
	likes     *table[entities.Interaction]
	favorites *table[entities.Interaction]
	followers *table[entities.Follower]
	contacts  *table[entities.Contact]
	profiles  *table[entities.Profile]
}

// New creates new instance of Store.
func New() *Store {
	return &Store{
		now:       func() time.Time { return time.Now().UTC() },
		posts:     newPostTable(),
		comments:  newCommentTable(),
		likes:     newInteractionTable(),
		favorites: newInteractionTable(),
		followers: newFollowerTable(),
		contacts:  newContactTable(),
		profiles:  newProfileTable(),
	}
}

// Connect ...
func (s *Store) Connect(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = true

	return nil
}

// Close ...
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = false

	return nil
}

// Ping ...
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return errNotConnected
	}

	return nil
}

// LastWrite ...
func (s *Store) LastWrite(_ context.Context, c storage.Collection, wallet string, f storage.TimeField) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch c {
	case storage.PostCollection:
		return s.posts.lastWrite(wallet, f), nil
	case storage.CommentCollection:
		return s.comments.lastWrite(wallet, f), nil
	case storage.LikeCollection:
		return s.likes.lastWrite(wallet, f), nil
	case storage.FavoriteCollection:
		return s.favorites.lastWrite(wallet, f), nil
	case storage.FollowerCollection:
		return s.followers.lastWrite(wallet, f), nil
	case storage.ContactCollection:
		return s.contacts.lastWrite(wallet, f), nil
	case storage.ProfileCollection:
		return s.profiles.lastWrite(wallet, f), nil
	default:
		return time.Time{}, errUnknownCollection(c)
	}
}

// Delete ...
func (s *Store) Delete(_ context.Context, c storage.Collection, b *entities.Base) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	switch c {
	case storage.PostCollection:
		return s.posts.tombstone(b, now)
	case storage.CommentCollection:
		return s.comments.tombstone(b, now)
	case storage.LikeCollection:
		return s.likes.tombstone(b, now)
	case storage.FavoriteCollection:
		return s.favorites.tombstone(b, now)
	case storage.FollowerCollection:
		return s.followers.tombstone(b, now)
	case storage.ContactCollection:
		return s.contacts.tombstone(b, now)
	case storage.ProfileCollection:
		return s.profiles.tombstone(b, now)
	default:
		return errUnknownCollection(c)
	}
}

// SetCounter ...
func (s *Store) SetCounter(_ context.Context, c storage.Collection, id uuid.UUID, counter entities.Counter, expected, value int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c {
	case storage.PostCollection:
		p := s.posts.byID(id)
		if p == nil {
			return false, nil
		}
		if v, ok := p.Counter(counter); !ok {
			return false, storage.ErrUnknownCounter
		} else if v != expected {
			return false, nil
		}
		p.SetCounter(counter, value)
		p.UpdatedAt = s.now()
	case storage.CommentCollection:
		cm := s.comments.byID(id)
		if cm == nil {
			return false, nil
		}
		if v, ok := cm.Counter(counter); !ok {
			return false, storage.ErrUnknownCounter
		} else if v != expected {
			return false, nil
		}
		cm.SetCounter(counter, value)
		cm.UpdatedAt = s.now()
	default:
		return false, storage.ErrUnknownCounter
	}

	return true, nil
}

// CreatePost ...
func (s *Store) CreatePost(_ context.Context, p *entities.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.posts.insert(p)
}

// GetPost ...
func (s *Store) GetPost(_ context.Context, f storage.Filter) (*entities.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.posts.get(f)
}

// ListPosts ...
func (s *Store) ListPosts(_ context.Context, p *storage.ListParams) ([]*entities.Post, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out, total := s.posts.selectRows(p)
	return out, total, nil
}

// CreateComment ...
func (s *Store) CreateComment(_ context.Context, c *entities.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.comments.insert(c)
}

// GetComment ...
func (s *Store) GetComment(_ context.Context, f storage.Filter) (*entities.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.comments.get(f)
}

// ListComments ...
func (s *Store) ListComments(_ context.Context, p *storage.ListParams) ([]*entities.Comment, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out, total := s.comments.selectRows(p)
	return out, total, nil
}

func (s *Store) interactions(c storage.Collection) (*table[entities.Interaction], error) {
	switch c {
	case storage.LikeCollection:
		return s.likes, nil
	case storage.FavoriteCollection:
		return s.favorites, nil
	default:
		return nil, errUnknownCollection(c)
	}
}

// CreateInteraction ...
func (s *Store) CreateInteraction(_ context.Context, c storage.Collection, i *entities.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.interactions(c)
	if err != nil {
		return err
	}

	cp := *i
	cp.RefData = nil

	return t.insert(&cp)
}

// GetInteraction ...
func (s *Store) GetInteraction(_ context.Context, c storage.Collection, f storage.Filter) (*entities.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.interactions(c)
	if err != nil {
		return nil, err
	}

	return t.get(f)
}

// ListInteractions ...
func (s *Store) ListInteractions(_ context.Context, c storage.Collection, p *storage.ListParams) ([]*entities.Interaction, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.interactions(c)
	if err != nil {
		return nil, 0, err
	}

	out, total := t.selectRows(p)
	return out, total, nil
}

// CreateFollower ...
func (s *Store) CreateFollower(_ context.Context, f *entities.Follower) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.followers.insert(f)
}

// GetFollower ...
func (s *Store) GetFollower(_ context.Context, f storage.Filter) (*entities.Follower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.followers.get(f)
}

// ListFollowers ...
func (s *Store) ListFollowers(_ context.Context, p *storage.ListParams) ([]*entities.Follower, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out, total := s.followers.selectRows(p)
	return out, total, nil
}

// CreateContact ...
func (s *Store) CreateContact(_ context.Context, c *entities.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.contacts.insert(c)
}

// UpdateContact ...
func (s *Store) UpdateContact(_ context.Context, c *entities.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.contacts.byID(c.ID)
	if r == nil {
		return storage.ErrNotFound
	}

	r.Remark = c.Remark
	r.Hash = c.Hash
	r.Signature = c.Signature
	r.UpdatedAt = s.now()

	return nil
}

// GetContact ...
func (s *Store) GetContact(_ context.Context, f storage.Filter) (*entities.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.contacts.get(f)
}

// ListContacts ...
func (s *Store) ListContacts(_ context.Context, p *storage.ListParams) ([]*entities.Contact, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out, total := s.contacts.selectRows(p)
	return out, total, nil
}

// CreateProfile ...
func (s *Store) CreateProfile(_ context.Context, p *entities.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.profiles.insert(p)
}

// UpdateProfile ...
func (s *Store) UpdateProfile(_ context.Context, p *entities.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.profiles.byID(p.ID)
	if r == nil {
		return storage.ErrNotFound
	}

	r.Nickname = p.Nickname
	r.Avatar = p.Avatar
	r.Bio = p.Bio
	r.Hash = p.Hash
	r.Signature = p.Signature
	r.UpdatedAt = s.now()

	return nil
}

// GetProfile ...
func (s *Store) GetProfile(_ context.Context, f storage.Filter) (*entities.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.profiles.get(f)
}

// ListProfiles ...
func (s *Store) ListProfiles(_ context.Context, p *storage.ListParams) ([]*entities.Profile, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out, total := s.profiles.selectRows(p)
	return out, total, nil
}
