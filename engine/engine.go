package engine

import "context"

type Engine interface {
	// Run plays until the game or session is over, or ctx is done
	Run(ctx context.Context) error
}
