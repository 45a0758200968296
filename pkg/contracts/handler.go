package contracts

import "github.com/julienschmidt/httprouter"

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Guard wraps routes with session checks.
type Guard interface {
	RequireSession(next httprouter.Handle) httprouter.Handle
	RequireUser(next httprouter.Handle) httprouter.Handle
	RequireAdmin(next httprouter.Handle) httprouter.Handle
}

// Limiter throttles a single route.
type Limiter interface {
	Limit(next httprouter.Handle) httprouter.Handle
}
