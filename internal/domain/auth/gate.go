package auth

import "context"

// Identity is the caller as resolved from a valid session.
type Identity struct {
	UserID    string
	Username  string
	Role      Role
	Active    bool
	SessionID string
}

type Outcome int

const (
	Permitted Outcome = iota
	Unauthenticated
	Forbidden
)

type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

func (d Decision) Err() error {
	switch d.Outcome {
	case Unauthenticated:
		return ErrUnauthenticated
	case Forbidden:
		return ErrForbidden
	default:
		return nil
	}
}

// Authorize decides whether identity may reach a route open to allowed.
// It is pure: account activity is enforced when the session is resolved.
func Authorize(identity *Identity, allowed RoleSet) Decision {
	if identity == nil {
		return Decision{Outcome: Unauthenticated, RedirectTo: LoginPath}
	}
	if identity.Role.Privileged() || allowed.Contains(identity.Role) {
		return Decision{Outcome: Permitted}
	}
	return Decision{Outcome: Forbidden, RedirectTo: HomePath(identity.Role)}
}

type ctxKey struct{}

func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(Identity)
	return identity, ok
}
