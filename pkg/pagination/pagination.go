package pagination

const (
	// DefaultTake is the standard page size when take is not provided.
	DefaultTake = 25
	// MaxTake caps how many rows any list query can request.
	MaxTake = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Skip int
	Take int
}

// Normalize clamps skip and take into their allowed ranges.
func Normalize(p Params) Params {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Take <= 0 {
		p.Take = DefaultTake
	}
	if p.Take > MaxTake {
		p.Take = MaxTake
	}
	return p
}
