package estimator

// KnownRoute is a curated city pair with fixed driving figures.
type KnownRoute struct {
	Origin        string
	Destination   string
	DistanceKm    float64
	DurationHours float64
	TollCost      float64
}

// RouteTable looks up known routes in either direction.
// It is immutable after construction and safe for concurrent use.
type RouteTable struct {
	routes map[routeKey]KnownRoute
}

type routeKey struct {
	from string
	to   string
}

// NewRouteTable indexes routes under both (origin, destination) and (destination, origin).
func NewRouteTable(routes []KnownRoute) *RouteTable {
	t := &RouteTable{routes: make(map[routeKey]KnownRoute, len(routes)*2)}
	for _, r := range routes {
		a, b := NormalizeName(r.Origin), NormalizeName(r.Destination)
		if a == "" || b == "" {
			continue
		}
		t.routes[routeKey{a, b}] = r
		t.routes[routeKey{b, a}] = r
	}
	return t
}

// Lookup returns the known route between from and to, regardless of direction.
func (t *RouteTable) Lookup(from, to string) (KnownRoute, bool) {
	r, ok := t.routes[routeKey{NormalizeName(from), NormalizeName(to)}]
	return r, ok
}

// Len returns the number of distinct routes.
func (t *RouteTable) Len() int {
	return len(t.routes) / 2
}
