// Package orderref generates display order numbers. The uniqueness comes
// from a snowflake ID, not the date prefix; treat the whole string as an
// opaque identifier.
package orderref

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Generator struct {
	node *snowflake.Node
}

// New creates a generator for the given node id. Replicas must use
// distinct node ids or order numbers can collide.
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("init snowflake node: %w", err)
	}
	return &Generator{node: node}, nil
}

// Next returns an order number like ORD-20250301-1834989137559552001.
func (g *Generator) Next() string {
	return fmt.Sprintf("ORD-%s-%d", time.Now().Format("20060102"), g.node.Generate())
}
