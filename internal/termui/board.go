// Package termui draws games for a terminal.
package termui

import (
	"fmt"
	"strings"

	"github.com/benbeisheim/solochess-backend/internal/model"
	"github.com/fatih/color"
)

var pieceLetters = [...]byte{
	model.NoPiece: '.',
	model.Pawn:    'p',
	model.Knight:  'n',
	model.Bishop:  'b',
	model.Rook:    'r',
	model.Queen:   'q',
	model.King:    'k',
}

// Renderer turns positions into colored text. White is drawn at the bottom
// unless Flipped is set.
type Renderer struct {
	Flipped bool

	lightSquare color.Attribute
	darkSquare  color.Attribute
	highlight   color.Attribute
	whitePiece  color.Attribute
	blackPiece  color.Attribute
}

func NewRenderer() *Renderer {
	return &Renderer{
		lightSquare: color.BgHiBlack,
		darkSquare:  color.BgBlack,
		highlight:   color.BgYellow,
		whitePiece:  color.FgHiWhite,
		blackPiece:  color.FgRed,
	}
}

// Letter is the single-character label for p: upper case for white, lower
// case for black, '.' for an empty square.
func Letter(p model.Piece) string {
	c := pieceLetters[p.Type]
	if p.Type != model.NoPiece && p.Color == model.White {
		c -= 'a' - 'A'
	}
	return string(c)
}

// Board renders bs with rank and file labels. The squares of last, if any,
// are highlighted.
func (r *Renderer) Board(bs *model.BoardState, last *model.SimpleMove) string {
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		row := i
		if r.Flipped {
			row = 7 - i
		}
		fmt.Fprintf(&sb, "%d ", 8-row)
		for j := 0; j < 8; j++ {
			col := j
			if r.Flipped {
				col = 7 - j
			}
			pos := model.Position{Row: row, Col: col}
			sb.WriteString(r.square(bs.Board.At(pos), pos, last))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  ")
	for j := 0; j < 8; j++ {
		col := j
		if r.Flipped {
			col = 7 - j
		}
		fmt.Fprintf(&sb, " %c ", 'a'+col)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func (r *Renderer) square(p model.Piece, pos model.Position, last *model.SimpleMove) string {
	bg := r.darkSquare
	if (pos.Row+pos.Col)%2 == 0 {
		bg = r.lightSquare
	}
	if last != nil && (last.From == pos || last.To == pos) {
		bg = r.highlight
	}
	fg := r.whitePiece
	if p.Color == model.Black {
		fg = r.blackPiece
	}
	return color.New(bg, fg, color.Bold).Sprint(" " + Letter(p) + " ")
}

// Status is the one-line summary printed under the board.
func (r *Renderer) Status(state model.GameState) string {
	line := state.Status
	if state.GameOver {
		return color.New(color.FgYellow, color.Bold).Sprint(line)
	}
	if state.IsCheck {
		return color.New(color.FgRed).Sprint(line)
	}
	return line
}

// History renders the move list as numbered pairs.
func (r *Renderer) History(pairs []model.MovePair) string {
	var sb strings.Builder
	for _, mp := range pairs {
		fmt.Fprintf(&sb, "%d. %s", mp.Number, mp.WhitePly.Notation)
		if mp.BlackPly != nil {
			fmt.Fprintf(&sb, " %s", mp.BlackPly.Notation)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
