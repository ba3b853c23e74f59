package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Decentr-net/agora/internal/entities"
)

type baseDTO struct {
	ID        uuid.UUID `db:"id"`
	Hash      string    `db:"hash"`
	Wallet    string    `db:"wallet"`
	Signature string    `db:"signature"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	Deleted   uuid.UUID `db:"deleted"`
}

type statisticsDTO struct {
	View     int64 `db:"statistic_view"`
	Repost   int64 `db:"statistic_repost"`
	Quote    int64 `db:"statistic_quote"`
	Like     int64 `db:"statistic_like"`
	Favorite int64 `db:"statistic_favorite"`
}

type postDTO struct {
	baseDTO
	statisticsDTO

	Content string         `db:"content"`
	Images  pq.StringArray `db:"images"`
	Reply   int64          `db:"statistic_reply"`
}

type commentDTO struct {
	baseDTO
	statisticsDTO

	PostHash      string `db:"post_hash"`
	ParentHash    string `db:"parent_hash"`
	Content       string `db:"content"`
	ChildrenCount int64  `db:"children_count"`
}

type interactionDTO struct {
	baseDTO

	RefKind string `db:"ref_kind"`
	RefHash string `db:"ref_hash"`
}

type followerDTO struct {
	baseDTO

	Address string `db:"address"`
}

type contactDTO struct {
	baseDTO

	Address string `db:"address"`
	Remark  string `db:"remark"`
}

type profileDTO struct {
	baseDTO

	Nickname string `db:"nickname"`
	Avatar   string `db:"avatar"`
	Bio      string `db:"bio"`
}

func toBaseDTO(b entities.Base) baseDTO {
	return baseDTO{
		ID:        b.ID,
		Hash:      b.Hash,
		Wallet:    b.Wallet,
		Signature: b.Signature,
		CreatedAt: b.CreatedAt.UTC(),
		UpdatedAt: b.UpdatedAt.UTC(),
		Deleted:   b.Deleted,
	}
}

func (b baseDTO) toEntity() entities.Base {
	return entities.Base{
		ID:        b.ID,
		Hash:      b.Hash,
		Wallet:    b.Wallet,
		Signature: b.Signature,
		CreatedAt: b.CreatedAt.UTC(),
		UpdatedAt: b.UpdatedAt.UTC(),
		Deleted:   b.Deleted,
	}
}

func toStatisticsDTO(s entities.Statistics) statisticsDTO {
	return statisticsDTO{
		View:     s.View,
		Repost:   s.Repost,
		Quote:    s.Quote,
		Like:     s.Like,
		Favorite: s.Favorite,
	}
}

func (s statisticsDTO) toEntity() entities.Statistics {
	return entities.Statistics{
		View:     s.View,
		Repost:   s.Repost,
		Quote:    s.Quote,
		Like:     s.Like,
		Favorite: s.Favorite,
	}
}

func toPostDTO(p *entities.Post) *postDTO {
	images := p.Images
	if images == nil {
		images = []string{}
	}

	return &postDTO{
		baseDTO:       toBaseDTO(p.Base),
		statisticsDTO: toStatisticsDTO(p.Statistics),
		Content:       p.Content,
		Images:        images,
		Reply:         p.Reply,
	}
}

func (p *postDTO) toEntity() *entities.Post {
	return &entities.Post{
		Base:       p.baseDTO.toEntity(),
		Statistics: p.statisticsDTO.toEntity(),
		Content:    p.Content,
		Images:     p.Images,
		Reply:      p.Reply,
	}
}

func toCommentDTO(c *entities.Comment) *commentDTO {
	return &commentDTO{
		baseDTO:       toBaseDTO(c.Base),
		statisticsDTO: toStatisticsDTO(c.Statistics),
		PostHash:      c.PostHash,
		ParentHash:    c.ParentHash,
		Content:       c.Content,
		ChildrenCount: c.ChildrenCount,
	}
}

func (c *commentDTO) toEntity() *entities.Comment {
	return &entities.Comment{
		Base:          c.baseDTO.toEntity(),
		Statistics:    c.statisticsDTO.toEntity(),
		PostHash:      c.PostHash,
		ParentHash:    c.ParentHash,
		Content:       c.Content,
		ChildrenCount: c.ChildrenCount,
	}
}

func toInteractionDTO(i *entities.Interaction) *interactionDTO {
	return &interactionDTO{
		baseDTO: toBaseDTO(i.Base),
		RefKind: string(i.RefKind),
		RefHash: i.RefHash,
	}
}

func (i *interactionDTO) toEntity() *entities.Interaction {
	return &entities.Interaction{
		Base:    i.baseDTO.toEntity(),
		RefKind: entities.RefKind(i.RefKind),
		RefHash: i.RefHash,
	}
}

func toFollowerDTO(f *entities.Follower) *followerDTO {
	return &followerDTO{
		baseDTO: toBaseDTO(f.Base),
		Address: f.Address,
	}
}

func (f *followerDTO) toEntity() *entities.Follower {
	return &entities.Follower{
		Base:    f.baseDTO.toEntity(),
		Address: f.Address,
	}
}

func toContactDTO(c *entities.Contact) *contactDTO {
	return &contactDTO{
		baseDTO: toBaseDTO(c.Base),
		Address: c.Address,
		Remark:  c.Remark,
	}
}

func (c *contactDTO) toEntity() *entities.Contact {
	return &entities.Contact{
		Base:    c.baseDTO.toEntity(),
		Address: c.Address,
		Remark:  c.Remark,
	}
}

func toProfileDTO(p *entities.Profile) *profileDTO {
	return &profileDTO{
		baseDTO:  toBaseDTO(p.Base),
		Nickname: p.Nickname,
		Avatar:   p.Avatar,
		Bio:      p.Bio,
	}
}

func (p *profileDTO) toEntity() *entities.Profile {
	return &entities.Profile{
		Base:     p.baseDTO.toEntity(),
		Nickname: p.Nickname,
		Avatar:   p.Avatar,
		Bio:      p.Bio,
	}
}
