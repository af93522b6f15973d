// Command chessterm plays against the engine in a terminal.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/benbeisheim/solochess-backend/internal/engine"
	"github.com/benbeisheim/solochess-backend/internal/model"
	"github.com/benbeisheim/solochess-backend/internal/termui"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/fatih/color"
)

type session struct {
	game     *model.Game
	depth    int
	renderer *termui.Renderer
	out      io.Writer
}

func main() {
	var (
		fen     = flag.String("fen", "", "start from this position")
		depth   = flag.Int("depth", engine.DefaultDepth, "engine search depth in plies")
		side    = flag.String("color", "white", "the color you play")
		noColor = flag.Bool("no-color", false, "disable colored output")
	)
	flag.Parse()
	log.SetPrefix("chessterm: ")
	log.SetFlags(0)

	if *noColor {
		color.NoColor = true
	}
	human, err := model.ParseColor(*side)
	if err != nil {
		log.Fatal(err)
	}

	opts := []model.GameOption{
		model.WithEngineSide(human.Opponent()),
		model.WithName(petname.Generate(2, "-")),
	}
	if *fen != "" {
		setup, err := model.ParseFEN(*fen)
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, model.WithSetup(setup))
	}

	s := &session{
		game:     model.NewGame("local", opts...),
		depth:    *depth,
		renderer: termui.NewRenderer(),
		out:      os.Stdout,
	}
	s.renderer.Flipped = human == model.Black
	if err := s.run(os.Stdin); err != nil {
		log.Fatal(err)
	}
}

func (s *session) run(in io.Reader) error {
	fmt.Fprintf(s.out, "game %s: enter moves like e2e4, or new, undo, fen, quit\n", s.game.Name)
	s.engineReply()
	s.show()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		switch cmd := strings.TrimSpace(strings.ToLower(scanner.Text())); cmd {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "fen":
			fmt.Fprintln(s.out, s.game.FEN())
			continue
		case "new":
			s.game.Reset()
		case "undo":
			if err := s.game.Undo(); err != nil {
				fmt.Fprintln(s.out, err)
				continue
			}
		default:
			move, err := parseMove(cmd)
			if err != nil {
				fmt.Fprintln(s.out, err)
				continue
			}
			if _, err := s.game.MakeMove(move); err != nil {
				fmt.Fprintln(s.out, err)
				continue
			}
		}
		s.engineReply()
		s.show()
	}
}

// engineReply lets the engine move while it is the engine's turn.
func (s *session) engineReply() {
	bs, side, version, ok := s.game.EngineTurn()
	if !ok {
		return
	}
	start := time.Now()
	searcher := engine.NewSearcher(s.depth, side)
	move, _, found := searcher.FindBestMove(bs)
	if !found {
		return
	}
	ply, err := s.game.ApplyEngineMove(version, move)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	fmt.Fprintf(s.out, "engine plays %s (%d nodes, %s)\n",
		ply.Notation, searcher.Stats.Nodes, time.Since(start).Round(time.Millisecond))
}

func (s *session) show() {
	state := s.game.GetState()
	fmt.Fprint(s.out, s.renderer.Board(&state.Board, state.LastMove))
	fmt.Fprintln(s.out, s.renderer.Status(state))
}

// parseMove reads coordinate notation such as "e2e4" or "e7e8q".
func parseMove(text string) (model.WSMove, error) {
	if len(text) != 4 && len(text) != 5 {
		return model.WSMove{}, errors.New("moves look like e2e4")
	}
	from, err := model.ParseSquare(text[:2])
	if err != nil {
		return model.WSMove{}, err
	}
	to, err := model.ParseSquare(text[2:4])
	if err != nil {
		return model.WSMove{}, err
	}
	return model.WSMove{From: from, To: to}, nil
}
