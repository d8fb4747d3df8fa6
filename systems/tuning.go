package systems

// Tuning holds the movement constants of an actor. Distances are in world
// units (pixels), times in seconds.
type Tuning struct {
	Gravity           float64 // downward acceleration
	TerminalVelocity  float64 // maximum fall speed
	MoveSpeed         float64 // horizontal speed from input
	AirControl        float64 // horizontal input scale while airborne
	JumpImpulse       float64 // upward speed of a ground jump
	DoubleJumpImpulse float64 // upward speed of an air jump
	FrictionGain      float64 // scales surface friction
	StopEpsilon       float64 // |vx| below this snaps to zero on the ground
	WallBounce        float64 // vx multiplier when an airborne slide hits a wall
	SlideBoost        float64 // vx multiplier on slide entry
	FlySpeed          float64 // speed in every direction while flying
	MaxStep           float64 // largest displacement per sub-step; 0 disables sub-stepping
	MaxSubsteps       int     // sub-step cap per frame
	ScrollFollow      bool    // keep the actor's Y fixed and move the world instead; off by default, see DESIGN.md
}

// DefaultTuning returns the stock movement constants.
func DefaultTuning() Tuning {
	return Tuning{
		Gravity:           1800,
		TerminalVelocity:  1200,
		MoveSpeed:         300,
		AirControl:        0.45,
		JumpImpulse:       750,
		DoubleJumpImpulse: 560,
		FrictionGain:      1,
		StopEpsilon:       5,
		WallBounce:        -0.3,
		SlideBoost:        1.6,
		FlySpeed:          400,
		MaxStep:           8,
		MaxSubsteps:       64,
	}
}
