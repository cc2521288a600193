package graph

import (
	"fmt"

	"github.com/ttpr0/go-cityroutes/comps"
)

//*******************************************
// graph io
//*******************************************

func StoreTransitGraph(graph *TransitGraph, path string) error {
	if err := comps.Store(graph.transit, path); err != nil {
		return fmt.Errorf("failed to store transit graph: %w", err)
	}
	return nil
}

func LoadTransitGraph(path string) (*TransitGraph, error) {
	transit, err := comps.Load[*comps.Transit](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load transit graph: %w", err)
	}
	return NewTransitGraph(transit), nil
}

func RemoveTransitGraph(path string) {
	comps.Remove[*comps.Transit](path)
}
