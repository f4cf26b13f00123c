package middleware

import (
	"context"
	"net/http"
	"strings"

	"blogapi/internal/authz"
)

type actorKey struct{}

// ActorResolver turns a bearer token into the actor behind it.
type ActorResolver func(ctx context.Context, token string) (authz.Actor, error)

// ErrorWriter renders a failed authentication.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Auth resolves the bearer token once per request and stores the actor in
// the request context. A missing token leaves the anonymous actor in place so
// the authorization engine reports it.
func Auth(resolve ActorResolver, fail ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := resolve(r.Context(), token)
			if err != nil {
				fail(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func WithActor(ctx context.Context, actor authz.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the request actor, or authz.Anonymous when none was
// resolved.
func ActorFrom(ctx context.Context) authz.Actor {
	if actor, ok := ctx.Value(actorKey{}).(authz.Actor); ok {
		return actor
	}
	return authz.Anonymous
}
