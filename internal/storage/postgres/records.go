package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Decentr-net/agora/internal/entities"
	"github.com/Decentr-net/agora/internal/storage"
)

func (s *pg) CreatePost(ctx context.Context, p *entities.Post) error {
	return s.insert(ctx, storage.PostCollection, toPostDTO(p))
}

func (s *pg) GetPost(ctx context.Context, f storage.Filter) (*entities.Post, error) {
	var p postDTO
	if err := s.get(ctx, storage.PostCollection, f, &p); err != nil {
		return nil, err
	}

	return p.toEntity(), nil
}

func (s *pg) ListPosts(ctx context.Context, params *storage.ListParams) ([]*entities.Post, uint64, error) {
	var pp []*postDTO
	total, err := s.list(ctx, storage.PostCollection, params, &pp)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Post, len(pp))
	for i, v := range pp {
		out[i] = v.toEntity()
	}

	return out, total, nil
}

func (s *pg) CreateComment(ctx context.Context, c *entities.Comment) error {
	return s.insert(ctx, storage.CommentCollection, toCommentDTO(c))
}

func (s *pg) GetComment(ctx context.Context, f storage.Filter) (*entities.Comment, error) {
	var c commentDTO
	if err := s.get(ctx, storage.CommentCollection, f, &c); err != nil {
		return nil, err
	}

	return c.toEntity(), nil
}

func (s *pg) ListComments(ctx context.Context, params *storage.ListParams) ([]*entities.Comment, uint64, error) {
	var cc []*commentDTO
	total, err := s.list(ctx, storage.CommentCollection, params, &cc)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Comment, len(cc))
	for i, v := range cc {
		out[i] = v.toEntity()
	}

	return out, total, nil
}

func checkInteractionCollection(c storage.Collection) error {
	if c != storage.LikeCollection && c != storage.FavoriteCollection {
		return fmt.Errorf("unknown interaction collection %q", c)
	}
	return nil
}

func (s *pg) CreateInteraction(ctx context.Context, c storage.Collection, i *entities.Interaction) error {
	if err := checkInteractionCollection(c); err != nil {
		return err
	}

	return s.insert(ctx, c, toInteractionDTO(i))
}

func (s *pg) GetInteraction(ctx context.Context, c storage.Collection, f storage.Filter) (*entities.Interaction, error) {
	if err := checkInteractionCollection(c); err != nil {
		return nil, err
	}

	var i interactionDTO
	if err := s.get(ctx, c, f, &i); err != nil {
		return nil, err
	}

	return i.toEntity(), nil
}

func (s *pg) ListInteractions(ctx context.Context, c storage.Collection, params *storage.ListParams) ([]*entities.Interaction, uint64, error) {
	if err := checkInteractionCollection(c); err != nil {
		return nil, 0, err
	}

	var ii []*interactionDTO
	total, err := s.list(ctx, c, params, &ii)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Interaction, len(ii))
	for i, v := range ii {
		out[i] = v.toEntity()
	}

	return out, total, nil
}

func (s *pg) CreateFollower(ctx context.Context, f *entities.Follower) error {
	return s.insert(ctx, storage.FollowerCollection, toFollowerDTO(f))
}

func (s *pg) GetFollower(ctx context.Context, f storage.Filter) (*entities.Follower, error) {
	var v followerDTO
	if err := s.get(ctx, storage.FollowerCollection, f, &v); err != nil {
		return nil, err
	}

	return v.toEntity(), nil
}

func (s *pg) ListFollowers(ctx context.Context, params *storage.ListParams) ([]*entities.Follower, uint64, error) {
	var ff []*followerDTO
	total, err := s.list(ctx, storage.FollowerCollection, params, &ff)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Follower, len(ff))
	for i, v := range ff {
		out[i] = v.toEntity()
	}

	return out, total, nil
}

func (s *pg) CreateContact(ctx context.Context, c *entities.Contact) error {
	return s.insert(ctx, storage.ContactCollection, toContactDTO(c))
}

func (s *pg) UpdateContact(ctx context.Context, c *entities.Contact) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contact SET remark = $1, hash = $2, signature = $3, updated_at = $4 WHERE id = $5 AND deleted = $6`,
		c.Remark, c.Hash, c.Signature, time.Now().UTC(), c.ID.String(), entities.Active.String(),
	)
	if err != nil {
		return wrapExecErr(err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *pg) GetContact(ctx context.Context, f storage.Filter) (*entities.Contact, error) {
	var c contactDTO
	if err := s.get(ctx, storage.ContactCollection, f, &c); err != nil {
		return nil, err
	}

	return c.toEntity(), nil
}

func (s *pg) ListContacts(ctx context.Context, params *storage.ListParams) ([]*entities.Contact, uint64, error) {
	var cc []*contactDTO
	total, err := s.list(ctx, storage.ContactCollection, params, &cc)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Contact, len(cc))
	for i, v := range cc {
		out[i] = v.toEntity()
	}

	return out, total, nil
}

func (s *pg) CreateProfile(ctx context.Context, p *entities.Profile) error {
	return s.insert(ctx, storage.ProfileCollection, toProfileDTO(p))
}

func (s *pg) UpdateProfile(ctx context.Context, p *entities.Profile) error {
	res, err := s.db.ExecContext(ctx,
		`
			UPDATE profile SET nickname = $1, avatar = $2, bio = $3, hash = $4, signature = $5, updated_at = $6
			WHERE id = $7 AND deleted = $8
		`,
		p.Nickname, p.Avatar, p.Bio, p.Hash, p.Signature, time.Now().UTC(), p.ID.String(), entities.Active.String(),
	)
	if err != nil {
		return wrapExecErr(err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *pg) GetProfile(ctx context.Context, f storage.Filter) (*entities.Profile, error) {
	var p profileDTO
	if err := s.get(ctx, storage.ProfileCollection, f, &p); err != nil {
		return nil, err
	}

	return p.toEntity(), nil
}

func (s *pg) ListProfiles(ctx context.Context, params *storage.ListParams) ([]*entities.Profile, uint64, error) {
	var pp []*profileDTO
	total, err := s.list(ctx, storage.ProfileCollection, params, &pp)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Profile, len(pp))
	for i, v := range pp {
		out[i] = v.toEntity()
	}

	return out, total, nil
}
