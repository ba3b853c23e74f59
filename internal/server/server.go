// Package server Agora
//
// The Agora is a service which stores community content (posts, comments, likes, favorites, follows,
// contacts and profiles) signed by wallets.
//
//     Schemes: https
//     BasePath: /v1
//     Version: 1.0.0
//
//     Produces:
//     - application/json
//     Consumes:
//     - application/json
package server

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/agora/internal/entities"
	mm "github.com/Decentr-net/agora/internal/middleware"
	"github.com/Decentr-net/agora/internal/service"
)

// nolint:gochecknoglobals
var log = logrus.WithField("layer", "api").WithField("package", "server")

const maxBodySize = 64 * 1024

// SetupRouter setups handlers to chi router.
func SetupRouter(s *service.Services, r chi.Router, timeout time.Duration) {
	r.Use(
		mm.Logger,
		middleware.StripSlashes,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		mm.BodyLimiter(maxBodySize),
	)

	r.Route("/v1", func(r chi.Router) {
		mount[service.PostData, service.CounterPatch, *entities.Post](r, "post", s.Post)
		mount[service.CommentData, service.CounterPatch, *entities.Comment](r, "comment", s.Comment)
		mount[service.InteractionData, service.FieldPatch, *entities.Interaction](r, "like", s.Like)
		mount[service.InteractionData, service.FieldPatch, *entities.Interaction](r, "favorite", s.Favorite)
		mount[service.FollowerData, service.FieldPatch, *entities.Follower](r, "follower", s.Follower)
		mount[service.ContactData, service.FieldPatch, *entities.Contact](r, "contact", s.Contact)
		mount[service.ProfileData, service.FieldPatch, *entities.Profile](r, "profile", s.Profile)
	})
}
