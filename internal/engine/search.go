package engine

import (
	"math"

	"github.com/benbeisheim/solochess-backend/internal/model"
)

const (
	DefaultDepth = 2
	mateScore    = 1000
)

// Stats counts the work done by the last search.
type Stats struct {
	Nodes  int // positions visited, leaves included
	Leaves int // static evaluations
}

// Searcher is a fixed-depth minimax player with alpha-beta pruning. Every
// branch works on its own clone of the position, so a search never changes
// the state it was given.
type Searcher struct {
	Depth int
	Side  model.Color
	Stats Stats
}

func NewSearcher(depth int, side model.Color) *Searcher {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Searcher{Depth: depth, Side: side}
}

// perspective turns the white-positive evaluation into the searching side's.
func (s *Searcher) perspective() float64 {
	return sign(s.Side)
}

// FindBestMove returns the move of s.Side with the highest minimax value. Ties
// go to the first move in row-major board order, then generation order.
func (s *Searcher) FindBestMove(bs model.BoardState) (model.Move, float64, bool) {
	s.Stats = Stats{}
	var (
		bestMove  model.Move
		bestValue = math.Inf(-1)
		found     bool
	)
	for _, move := range model.AllLegalMoves(&bs, s.Side) {
		child := bs.Clone()
		child.Apply(move)
		value := s.Minimax(child, s.Depth-1, math.Inf(-1), math.Inf(1), false)
		if !found || value > bestValue {
			bestMove, bestValue, found = move, value, true
		}
	}
	return bestMove, bestValue, found
}

// Minimax scores bs with depth plies left. maximizing means s.Side is to move.
func (s *Searcher) Minimax(bs model.BoardState, depth int, alpha, beta float64, maximizing bool) float64 {
	s.Stats.Nodes++
	if depth <= 0 {
		s.Stats.Leaves++
		return s.perspective() * Evaluate(&bs)
	}

	toMove := s.Side
	if !maximizing {
		toMove = s.Side.Opponent()
	}
	moves := model.AllLegalMoves(&bs, toMove)
	if len(moves) == 0 {
		if !bs.InCheck(toMove) {
			return 0
		}
		if maximizing {
			return -(mateScore - float64(depth))
		}
		return mateScore - float64(depth)
	}

	if maximizing {
		maxEval := math.Inf(-1)
		for _, move := range moves {
			child := bs.Clone()
			child.Apply(move)
			eval := s.Minimax(child, depth-1, alpha, beta, false)
			maxEval = math.Max(maxEval, eval)
			alpha = math.Max(alpha, eval)
			if beta <= alpha {
				break
			}
		}
		return maxEval
	}

	minEval := math.Inf(1)
	for _, move := range moves {
		child := bs.Clone()
		child.Apply(move)
		eval := s.Minimax(child, depth-1, alpha, beta, true)
		minEval = math.Min(minEval, eval)
		beta = math.Min(beta, eval)
		if beta <= alpha {
			break
		}
	}
	return minEval
}
