// Package render draws a one-day gigs table as a PNG, for posting the
// day's listings as a static image.
package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"sort"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/dbell559/gigsinbrighton/pkg/domain"
)

const (
	imgWidth    = 800
	margin      = 20
	headerPad   = 20
	rowPad      = 10
	lineSpacing = 8
	cellPad     = 10
)

var colNames = [4]string{"Date", "Title", "Location", "Genre"}
var colWidths = [4]int{100, 250, 200, 210}

// TableRenderer draws the table with a fixed bitmap face. The face is a
// parameter only so tests could substitute one; the default is
// basicfont.Face7x13.
type TableRenderer struct {
	face font.Face
}

func NewTableRenderer() *TableRenderer {
	return &TableRenderer{face: basicfont.Face7x13}
}

// Render picks today's gigs from the snapshot records, or the nearest
// future day when today has none, and draws them as a table image.
// With no current-or-future day in the data there is nothing to draw and
// domain.ErrNoUpcomingGigs is returned.
func (r *TableRenderer) Render(gigs []domain.Gig, now time.Time) (image.Image, error) {
	day, rows, err := SelectDay(gigs, now)
	if err != nil {
		return nil, err
	}

	lineHeight := r.face.Metrics().Height.Ceil() + lineSpacing
	headerHeight := r.face.Metrics().Height.Ceil() + headerPad

	// Wrap every cell first so row heights are known before drawing.
	type tableRow struct {
		cells  [4][]string
		height int
	}
	tableRows := make([]tableRow, 0, len(rows))
	for _, gig := range rows {
		row := tableRow{cells: [4][]string{
			r.wrap(gig.DisplayDate, colWidths[0]-cellPad),
			r.wrap(gig.Title, colWidths[1]-cellPad),
			r.wrap(gig.Location, colWidths[2]-cellPad),
			r.wrap(orNA(gig.Genre), colWidths[3]-cellPad),
		}}
		maxLines := 1
		for _, lines := range row.cells {
			if len(lines) > maxLines {
				maxLines = len(lines)
			}
		}
		row.height = maxLines*lineHeight + rowPad
		tableRows = append(tableRows, row)
	}

	totalRows := 0
	for _, row := range tableRows {
		totalRows += row.height
	}
	imgHeight := 2*margin + headerHeight + totalRows

	img := image.NewRGBA(image.Rect(0, 0, imgWidth, imgHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	// Header band with the selected day's full date.
	headerRect := image.Rect(margin, margin, imgWidth-margin, margin+headerHeight)
	draw.Draw(img, headerRect, image.Black, image.Point{}, draw.Src)
	label := fmt.Sprintf("%s %d", domain.FormatFullDate(day), day.Year())
	r.drawCentered(img, label, margin, imgWidth-2*margin, margin, headerHeight, image.White)

	xPositions := [5]int{margin}
	for i, w := range colWidths {
		xPositions[i+1] = xPositions[i] + w
	}

	currentY := margin + headerHeight
	for _, row := range tableRows {
		r.hline(img, currentY)
		for i, lines := range row.cells {
			textHeight := len(lines) * lineHeight
			startY := currentY + (row.height-textHeight)/2
			for _, line := range lines {
				r.drawCentered(img, line, xPositions[i], colWidths[i], startY, lineHeight, image.Black)
				startY += lineHeight
			}
		}
		currentY += row.height
	}
	r.hline(img, currentY)
	for _, x := range xPositions {
		draw.Draw(img, image.Rect(x, margin, x+2, currentY), image.Black, image.Point{}, draw.Src)
	}

	return img, nil
}

// WritePNG encodes a rendered table image.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SelectDay groups the records by calendar date and returns today's
// group, or the nearest future day's when today has none.
func SelectDay(gigs []domain.Gig, now time.Time) (time.Time, []domain.Gig, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	groups := make(map[time.Time][]domain.Gig)
	for _, gig := range gigs {
		date, err := parseDisplayDate(gig.DisplayDate, now)
		if err != nil {
			continue
		}
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		groups[day] = append(groups[day], gig)
	}

	if rows, ok := groups[today]; ok {
		return today, rows, nil
	}

	var future []time.Time
	for day := range groups {
		if day.After(today) {
			future = append(future, day)
		}
	}
	if len(future) == 0 {
		return time.Time{}, nil, domain.ErrNoUpcomingGigs
	}
	sort.Slice(future, func(i, j int) bool { return future[i].Before(future[j]) })
	return future[0], groups[future[0]], nil
}

// parseDisplayDate understands the snapshot's display form, which is the
// source date text behind a "Mon, " weekday prefix.
func parseDisplayDate(display string, now time.Time) (time.Time, error) {
	if t, err := domain.ParseListingDate(display, now); err == nil {
		return t, nil
	}
	if _, rest, found := strings.Cut(display, ", "); found {
		return domain.ParseListingDate(rest, now)
	}
	return time.Time{}, fmt.Errorf("unrecognized display date %q", display)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func (r *TableRenderer) wrap(text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(r.face, candidate).Ceil() <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

func (r *TableRenderer) drawCentered(img *image.RGBA, text string, left, width, top, height int, src image.Image) {
	textWidth := font.MeasureString(r.face, text).Ceil()
	ascent := r.face.Metrics().Ascent.Ceil()
	lineHeight := r.face.Metrics().Height.Ceil()

	d := font.Drawer{
		Dst:  img,
		Src:  src,
		Face: r.face,
		Dot: fixed.P(
			left+(width-textWidth)/2,
			top+(height-lineHeight)/2+ascent,
		),
	}
	d.DrawString(text)
}

func (r *TableRenderer) hline(img *image.RGBA, y int) {
	draw.Draw(img, image.Rect(margin, y, imgWidth-margin, y+2), image.Black, image.Point{}, draw.Src)
}
