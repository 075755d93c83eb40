package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"time"

	"quina/domain/entities"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Palette runs from the lightest shade to the Quina purple (#260184)
var Palette = []string{
	"#ede6ff", "#dbcdfe", "#c9b3fe", "#b69afe", "#a481fe",
	"#9268fd", "#804efd", "#6e35fd", "#5c1cfd", "#4903fc",
	"#4202e3", "#3b02ca", "#3302b1", "#2c0297", "#260184",
}

// darkFrom is the first palette index that needs light text
const darkFrom = 7

// HeatmapStyle defines the grid geometry
type HeatmapStyle struct {
	Columns      int
	CellSize     int
	CellGap      int
	Padding      int
	HeaderHeight int
}

// HeatmapGenerator renders number frequency grids
type HeatmapGenerator struct {
	style HeatmapStyle
}

// NewHeatmapGenerator creates a generator with the default 10-column layout
func NewHeatmapGenerator() *HeatmapGenerator {
	return &HeatmapGenerator{
		style: HeatmapStyle{
			Columns:      10,
			CellSize:     56,
			CellGap:      4,
			Padding:      16,
			HeaderHeight: 40,
		},
	}
}

// FrequencyHeatmap renders the 80 numbers as an 8x10 PNG coloured by frequency
func FrequencyHeatmap(stats *entities.Statistics) ([]byte, error) {
	return NewHeatmapGenerator().Generate(stats)
}

// Size returns the image width and height
func (g *HeatmapGenerator) Size() (int, int) {
	rows := g.rows()
	width := 2*g.style.Padding + g.style.Columns*g.style.CellSize
	height := g.style.HeaderHeight + rows*g.style.CellSize + g.style.Padding
	return width, height
}

// CellOrigin returns the top-left corner of the cell holding number n
func (g *HeatmapGenerator) CellOrigin(n int) (int, int) {
	index := n - entities.MinNumber
	col := index % g.style.Columns
	row := index / g.style.Columns
	return g.style.Padding + col*g.style.CellSize, g.style.HeaderHeight + row*g.style.CellSize
}

// Generate draws the heatmap for stats
func (g *HeatmapGenerator) Generate(stats *entities.Statistics) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			Debug("Frequency heatmap generation completed")
	}()

	width, height := g.Size()
	dc := gg.NewContext(width, height)

	dc.SetColor(color.White)
	dc.Clear()

	titleFace, err := loadFont(gobold.TTF, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	numberFace, err := loadFont(gobold.TTF, 15)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	countFace, err := loadFont(goregular.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	totalDraws := 0
	if stats != nil {
		totalDraws = stats.TotalDraws
	}

	dc.SetColor(mustParseHex(Palette[len(Palette)-1]))
	dc.SetFontFace(titleFace)
	dc.DrawStringAnchored(fmt.Sprintf("Quina number frequency (%d draws)", totalDraws),
		float64(width)/2, float64(g.style.HeaderHeight)/2, 0.5, 0.5)

	counts, maxCount := frequencyCounts(stats)

	size := float64(g.style.CellSize - g.style.CellGap)
	for n := entities.MinNumber; n <= entities.MaxNumber; n++ {
		x0, y0 := g.CellOrigin(n)
		x, y := float64(x0)+float64(g.style.CellGap)/2, float64(y0)+float64(g.style.CellGap)/2

		level := PaletteIndex(counts[n], maxCount)
		dc.SetColor(mustParseHex(Palette[level]))
		dc.DrawRectangle(x, y, size, size)
		dc.Fill()

		if level >= darkFrom {
			dc.SetColor(color.White)
		} else {
			dc.SetColor(mustParseHex(Palette[len(Palette)-1]))
		}

		dc.SetFontFace(numberFace)
		dc.DrawStringAnchored(fmt.Sprintf("%02d", n), x+size/2, y+size*0.4, 0.5, 0.5)
		dc.SetFontFace(countFace)
		dc.DrawStringAnchored(strconv.Itoa(counts[n]), x+size/2, y+size*0.75, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *HeatmapGenerator) rows() int {
	return (entities.MaxNumber - entities.MinNumber + g.style.Columns) / g.style.Columns
}

// PaletteIndex maps a count to a palette shade relative to the largest count
func PaletteIndex(count, maxCount int) int {
	if maxCount <= 0 || count <= 0 {
		return 0
	}
	if count >= maxCount {
		return len(Palette) - 1
	}
	ratio := float64(count) / float64(maxCount)
	return int(math.Round(ratio * float64(len(Palette)-1)))
}

func frequencyCounts(stats *entities.Statistics) (map[int]int, int) {
	counts := make(map[int]int, entities.MaxNumber)
	maxCount := 0
	if stats == nil {
		return counts, 0
	}
	for _, f := range stats.Frequency {
		counts[f.Number] = f.Frequency
		if f.Frequency > maxCount {
			maxCount = f.Frequency
		}
	}
	return counts, maxCount
}

// mustParseHex converts "#rrggbb" into a colour; palette entries are constants
func mustParseHex(hex string) color.RGBA {
	value, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		panic(fmt.Sprintf("invalid palette colour %q", hex))
	}
	return color.RGBA{R: uint8(value >> 16), G: uint8(value >> 8), B: uint8(value), A: 0xff}
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
