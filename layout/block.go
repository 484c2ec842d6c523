package layout

import (
	"math"
	"strings"
	"unicode"

	"github.com/tsawler/pdfextract/model"
)

// Block is a run of consecutive lines that belong together, such as a
// paragraph, a heading or a single list item.
type Block struct {
	BBox  model.BBox
	Lines []Line

	// Column is the index of the text column the block was found in
	Column int
}

// BlockConfig holds configuration for block detection
type BlockConfig struct {
	// MaxLineSpacing is the largest baseline-to-baseline distance, as a
	// multiple of the median line height, between lines of one block
	// (default: 1.5)
	MaxLineSpacing float64

	// FontSizeTolerance is the largest relative font size difference between
	// lines of one block (default: 0.15)
	FontSizeTolerance float64
}

// DefaultBlockConfig returns sensible default configuration
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		MaxLineSpacing:    1.5,
		FontSizeTolerance: 0.15,
	}
}

// BlockDetector groups lines into blocks
type BlockDetector struct {
	config BlockConfig
}

// NewBlockDetector creates a new block detector with default configuration
func NewBlockDetector() *BlockDetector {
	return &BlockDetector{config: DefaultBlockConfig()}
}

// NewBlockDetectorWithConfig creates a block detector with custom configuration
func NewBlockDetectorWithConfig(config BlockConfig) *BlockDetector {
	return &BlockDetector{config: config}
}

// Detect groups lines, given top to bottom, into blocks
func (d *BlockDetector) Detect(lines []Line) []Block {
	if len(lines) == 0 {
		return nil
	}

	heights := make([]float64, len(lines))
	for i, l := range lines {
		heights[i] = l.Height
	}
	maxSpacing := median(heights) * d.config.MaxLineSpacing

	var blocks []Block
	current := Block{Lines: []Line{lines[0]}, BBox: lines[0].BBox}
	for _, line := range lines[1:] {
		if d.continuesBlock(current, line, maxSpacing) {
			current.Lines = append(current.Lines, line)
			current.BBox = current.BBox.Union(line.BBox)
			continue
		}
		blocks = append(blocks, current)
		current = Block{Lines: []Line{line}, BBox: line.BBox}
	}
	blocks = append(blocks, current)
	return blocks
}

// continuesBlock reports whether line belongs to the block above it
func (d *BlockDetector) continuesBlock(b Block, line Line, maxSpacing float64) bool {
	prev := b.Lines[len(b.Lines)-1]

	if prev.Baseline-line.Baseline > maxSpacing {
		return false
	}

	larger := math.Max(prev.AverageFontSize, line.AverageFontSize)
	if larger > 0 && math.Abs(prev.AverageFontSize-line.AverageFontSize)/larger > d.config.FontSizeTolerance {
		return false
	}

	if prev.Bold != line.Bold {
		return false
	}

	if line.BBox.Left() > b.BBox.Right() || line.BBox.Right() < b.BBox.Left() {
		return false
	}

	// Each list item starts its own block
	if _, ok := DetectListMarker(line.Text); ok {
		return false
	}

	return true
}

// Text returns the block text with lines joined by spaces. A word hyphenated
// across a line break is rejoined.
func (b *Block) Text() string {
	var sb strings.Builder
	for i, line := range b.Lines {
		text := strings.TrimSpace(line.Text)
		if i > 0 && sb.Len() > 0 {
			prev := sb.String()
			if hyphenated(prev) && startsLower(text) {
				sb.Reset()
				sb.WriteString(prev[:len(prev)-1])
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(text)
	}
	return sb.String()
}

func hyphenated(s string) bool {
	if len(s) < 2 || s[len(s)-1] != '-' {
		return false
	}
	return unicode.IsLetter(rune(s[len(s)-2]))
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}

// Fragments returns all fragments of the block in reading order
func (b *Block) Fragments() []model.Fragment {
	var out []model.Fragment
	for _, l := range b.Lines {
		out = append(out, l.Fragments...)
	}
	return out
}

// AverageFontSize returns the mean font size of the block's lines
func (b *Block) AverageFontSize() float64 {
	if len(b.Lines) == 0 {
		return 0
	}
	var sum float64
	for _, l := range b.Lines {
		sum += l.AverageFontSize
	}
	return sum / float64(len(b.Lines))
}

// Bold reports whether most lines of the block are bold
func (b *Block) Bold() bool {
	n := 0
	for _, l := range b.Lines {
		if l.Bold {
			n++
		}
	}
	return n*2 > len(b.Lines)
}

// Centered reports whether every line of the block is centered
func (b *Block) Centered() bool {
	for _, l := range b.Lines {
		if l.Alignment != AlignCenter {
			return false
		}
	}
	return len(b.Lines) > 0
}

// WordCount returns the number of words in the block
func (b *Block) WordCount() int {
	n := 0
	for _, l := range b.Lines {
		n += l.WordCount()
	}
	return n
}

// Confidence returns the lowest fragment confidence in the block
func (b *Block) Confidence() float64 {
	conf := 1.0
	for _, l := range b.Lines {
		for _, f := range l.Fragments {
			conf = math.Min(conf, f.Confidence)
		}
	}
	return conf
}
