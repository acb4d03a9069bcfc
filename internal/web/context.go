package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/datetable/internal/core"
)

// requestSession returns the session the session middleware attached.
func requestSession(r *http.Request) (*core.Session, error) {
	sess := core.SessionFromContext(r.Context())
	if sess == nil {
		return nil, fmt.Errorf("%w: no session on request", core.ErrSessionNotFound)
	}
	return sess, nil
}
