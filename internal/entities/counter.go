package entities

// Counter is a name of statistics field.
type Counter string

const (
	// ViewCounter ...
	ViewCounter Counter = "statisticView"
	// RepostCounter ...
	RepostCounter Counter = "statisticRepost"
	// QuoteCounter ...
	QuoteCounter Counter = "statisticQuote"
	// LikeCounter ...
	LikeCounter Counter = "statisticLike"
	// FavoriteCounter ...
	FavoriteCounter Counter = "statisticFavorite"
	// ReplyCounter is defined only for posts.
	ReplyCounter Counter = "statisticReply"
	// ChildrenCounter is defined only for comments and holds count of direct replies.
	ChildrenCounter Counter = "childrenCount"
)

func (s *Statistics) field(c Counter) *int64 {
	switch c {
	case ViewCounter:
		return &s.View
	case RepostCounter:
		return &s.Repost
	case QuoteCounter:
		return &s.Quote
	case LikeCounter:
		return &s.Like
	case FavoriteCounter:
		return &s.Favorite
	default:
		return nil
	}
}

func (p *Post) field(c Counter) *int64 {
	if c == ReplyCounter {
		return &p.Reply
	}
	return p.Statistics.field(c)
}

func (c *Comment) field(name Counter) *int64 {
	if name == ChildrenCounter {
		return &c.ChildrenCount
	}
	return c.Statistics.field(name)
}

// Counter returns value of the counter and false if the post has no such counter.
func (p *Post) Counter(c Counter) (int64, bool) {
	if f := p.field(c); f != nil {
		return *f, true
	}
	return 0, false
}

// SetCounter sets counter value and returns false if the post has no such counter.
func (p *Post) SetCounter(c Counter, v int64) bool {
	if f := p.field(c); f != nil {
		*f = v
		return true
	}
	return false
}

// Counter returns value of the counter and false if the comment has no such counter.
func (c *Comment) Counter(name Counter) (int64, bool) {
	if f := c.field(name); f != nil {
		return *f, true
	}
	return 0, false
}

// SetCounter sets counter value and returns false if the comment has no such counter.
func (c *Comment) SetCounter(name Counter, v int64) bool {
	if f := c.field(name); f != nil {
		*f = v
		return true
	}
	return false
}
