package realtime

// Router resolves a room id to the live sessions that should receive an
// event. It only knows which sessions are subscribed right now; who is
// durably a participant of a chat is the record store's concern. That split
// is what makes reconnects and multi-tab delivery work without special
// cases.
type Router struct {
	registry *Registry
}

// NewRouter builds a Router over the given registry.
func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// ResolveTargets returns the sessions subscribed to roomID whose bound
// identity is not in exclude.
func (rt *Router) ResolveTargets(roomID string, exclude map[string]struct{}) []Session {
	sessions := rt.registry.SessionsFor(roomID)

	if len(exclude) == 0 {
		return sessions
	}

	targets := sessions[:0]
	for _, s := range sessions {
		if _, skip := exclude[s.Identity()]; !skip {
			targets = append(targets, s)
		}
	}

	return targets
}
