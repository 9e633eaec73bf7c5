// Package idgen provides the record id strategies. UUID is the default;
// Snowflake ids sort by creation time; Sequence gives short readable ids.
package idgen

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"storefront/pkg/collection/domain/model"
)

const (
	StrategyUUID      = "uuid"
	StrategySnowflake = "snowflake"
	StrategySequence  = "sequence"
)

var ErrUnknownStrategy = errors.New("unknown id strategy")

type UUID struct{}

func (UUID) NextID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type Snowflake struct {
	node *snowflake.Node
}

func NewSnowflake(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, errors.Wrapf(err, "snowflake node %d", node)
	}
	return &Snowflake{node: n}, nil
}

func (s *Snowflake) NextID() (string, error) {
	return s.node.Generate().String(), nil
}

// Sequence issues prefix-1, prefix-2, ... Each collection should own its own
// Sequence.
type Sequence struct {
	prefix string
	next   uint64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NextID() (string, error) {
	s.next++
	if s.prefix == "" {
		return fmt.Sprintf("%d", s.next), nil
	}
	return fmt.Sprintf("%s-%d", s.prefix, s.next), nil
}

// New builds a generator for one collection. prefix is only used by the
// sequence strategy.
func New(strategy string, node int64, prefix string) (model.IDGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyUUID:
		return UUID{}, nil
	case StrategySnowflake:
		g, err := NewSnowflake(node)
		if err != nil {
			return nil, err
		}
		return g, nil
	case StrategySequence:
		return NewSequence(prefix), nil
	}
	return nil, errors.Wrapf(ErrUnknownStrategy, "%q", strategy)
}
