package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/kvistberg/chess-table/internal/domain"
	"github.com/kvistberg/chess-table/internal/session"
	"github.com/kvistberg/chess-table/internal/theme"
)

// Renderer draws a session view into a PNG frame: board, highlights, piece
// sprites, coordinates and a status panel on the right.
type Renderer struct {
	th         *theme.Theme
	squareSize int
	margin     int
	panelWidth int
}

func New(th *theme.Theme, boardPixels int) *Renderer {
	sq := boardPixels / 8
	if sq < 24 {
		sq = 24
	}
	return &Renderer{
		th:         th,
		squareSize: sq,
		margin:     sq / 2,
		panelWidth: sq * 3,
	}
}

// FrameSize reports the full frame dimensions in pixels.
func (r *Renderer) FrameSize() (int, int) {
	board := r.squareSize * 8
	return r.margin*2 + board + r.panelWidth, r.margin*2 + board
}

func (r *Renderer) boardOrigin() image.Point {
	return image.Point{X: r.margin, Y: r.margin}
}

// SquareAt maps frame pixel coordinates to a board square. ok is false when
// the point falls outside the board, including the margins and panel.
func (r *Renderer) SquareAt(x, y int) (domain.Square, bool) {
	origin := r.boardOrigin()
	col := (x - origin.X) / r.squareSize
	row := (y - origin.Y) / r.squareSize
	if x < origin.X || y < origin.Y || col < 0 || col > 7 || row < 0 || row > 7 {
		return domain.Square{}, false
	}
	sq, err := domain.NewSquare(col, 7-row)
	if err != nil {
		return domain.Square{}, false
	}
	return sq, true
}

func (r *Renderer) squareRect(sq domain.Square, origin image.Point) image.Rectangle {
	col := int(sq.File)
	row := 7 - int(sq.Rank)
	x := origin.X + col*r.squareSize
	y := origin.Y + row*r.squareSize
	return image.Rect(x, y, x+r.squareSize, y+r.squareSize)
}

// RenderPNG draws the view into an encoded PNG.
func (r *Renderer) RenderPNG(ctx context.Context, v session.View) ([]byte, error) {
	if v.Board == nil {
		return nil, fmt.Errorf("view has no board")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	w, h := r.FrameSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	origin := r.boardOrigin()

	imagedraw.Draw(img, img.Bounds(), image.NewUniform(r.th.Color("board.background")), image.Point{}, imagedraw.Src)

	r.drawSquares(img, origin)
	r.drawHighlights(img, v, origin)
	if err := r.drawPieces(img, v.Board, origin); err != nil {
		return nil, err
	}
	r.drawCoordinates(img, origin)
	r.drawPanel(img, v)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawSquares(img *image.RGBA, origin image.Point) {
	light := r.th.Color("board.light")
	dark := r.th.Color("board.dark")
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			sq := domain.MustSquare(file, rank)
			clr := dark
			if (file+rank)%2 == 1 {
				clr = light
			}
			imagedraw.Draw(img, r.squareRect(sq, origin), image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func (r *Renderer) drawHighlights(img *image.RGBA, v session.View, origin image.Point) {
	if v.Grabbed != nil {
		r.overlaySquare(img, *v.Grabbed, origin, r.th.Color("highlight.grabbed"))
	}
	for _, sq := range v.Destinations.Squares() {
		r.overlaySquare(img, sq, origin, r.th.Color("highlight.destination"))
	}
}

func (r *Renderer) overlaySquare(img *image.RGBA, sq domain.Square, origin image.Point, clr color.Color) {
	imagedraw.Draw(img, r.squareRect(sq, origin), image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func (r *Renderer) drawPieces(img *image.RGBA, board domain.Board, origin image.Point) error {
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			sq := domain.MustSquare(file, rank)
			side, kind, ok := board.PieceAt(sq)
			if !ok {
				continue
			}
			sprite, err := renderPieceImage(side, kind, r.squareSize)
			if err != nil {
				return err
			}
			imagedraw.Draw(img, r.squareRect(sq, origin), sprite, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func (r *Renderer) drawCoordinates(img *image.RGBA, origin image.Point) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Face: face,
		Src:  image.NewUniform(r.th.Color("panel.text")),
	}
	ascent := face.Metrics().Ascent.Ceil()
	boardEndY := origin.Y + 8*r.squareSize

	for row := 0; row < 8; row++ {
		rankLabel := fmt.Sprintf("%d", 8-row)
		baseline := origin.Y + row*r.squareSize + r.squareSize/2 + ascent/2
		drawCenteredText(drawer, rankLabel, origin.X-r.margin/2, baseline)
	}
	for col := 0; col < 8; col++ {
		fileLabel := string(rune('a' + col))
		centerX := origin.X + col*r.squareSize + r.squareSize/2
		drawCenteredText(drawer, fileLabel, centerX, boardEndY+r.margin/2+ascent/2)
	}
}

func (r *Renderer) drawPanel(img *image.RGBA, v session.View) {
	boardEndX := r.margin*2 + 8*r.squareSize
	rect := image.Rect(boardEndX, r.margin, boardEndX+r.panelWidth-r.margin, r.margin+8*r.squareSize)
	drawRoundedPanel(img, rect, 12, r.th.Color("panel.background"))

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Face: face,
		Src:  image.NewUniform(r.th.Color("panel.text")),
	}
	lineHeight := face.Metrics().Height.Ceil() + 8
	y := rect.Min.Y + 24
	for _, line := range r.panelLines(v) {
		if line == "" {
			y += lineHeight / 2
			continue
		}
		drawer.Dot = fixed.P(rect.Min.X+16, y)
		drawer.DrawString(line)
		y += lineHeight
	}
}

func (r *Renderer) panelLines(v session.View) []string {
	var lines []string
	switch v.Phase {
	case session.PhaseTerminal:
		key := "label.checkmate_white"
		if v.SideToMove == domain.Black {
			key = "label.checkmate_black"
		}
		lines = append(lines, r.th.Label(key), "", r.th.Label("label.new_game"))
	case session.PhaseReplay:
		lines = append(lines,
			r.th.Label("label.replay"),
			fmt.Sprintf("%d / %d", v.ReplayCursor, v.ReplayLength-1),
			"",
			r.th.Label("label.replay_hint"),
		)
	default:
		key := "label.white_to_move"
		if v.SideToMove == domain.Black {
			key = "label.black_to_move"
		}
		lines = append(lines, r.th.Label(key))
		if v.Grabbed != nil {
			lines = append(lines, "", strings.ToUpper((*v.Grabbed).String()))
		}
	}
	return lines
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if img == nil || rect.Empty() {
		return
	}
	if radius < 0 {
		radius = 0
	}
	maxRadius := rect.Dx() / 2
	if r := rect.Dy() / 2; r < maxRadius {
		maxRadius = r
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	core := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	if core.Dx() > 0 {
		imagedraw.Draw(img, core, fill, image.Point{}, imagedraw.Over)
	}
	left := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius)
	if left.Dx() > 0 {
		imagedraw.Draw(img, left, fill, image.Point{}, imagedraw.Over)
	}
	right := image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	if right.Dx() > 0 {
		imagedraw.Draw(img, right, fill, image.Point{}, imagedraw.Over)
	}

	corners := []image.Point{
		{rect.Min.X + radius, rect.Min.Y + radius},
		{rect.Max.X - radius - 1, rect.Min.Y + radius},
		{rect.Min.X + radius, rect.Max.Y - radius - 1},
		{rect.Max.X - radius - 1, rect.Max.Y - radius - 1},
	}
	for _, center := range corners {
		drawDisc(img, center, radius, clr)
	}
}

func drawDisc(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	if radius <= 0 {
		return
	}
	fill := image.NewUniform(clr)
	rSquared := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			pt := image.Rect(center.X+x, center.Y+y, center.X+x+1, center.Y+y+1)
			imagedraw.Draw(img, pt, fill, image.Point{}, imagedraw.Over)
		}
	}
}
