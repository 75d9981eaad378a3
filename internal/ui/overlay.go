// Package ui provides shared UI compositing helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// DimStyle applies a dim gray color to background content behind modals.
// Existing ANSI codes are stripped first because SGR 2 (faint) doesn't
// reliably combine with color codes in most terminals.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// maxLineWidth returns the maximum visual width of the given lines.
func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		w := ansi.StringWidth(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// compositeRow overlays fgLine onto bgLine at position startX. When dim is
// true the visible background segments are grayed out.
func compositeRow(bgLine, fgLine string, startX, fgWidth, totalWidth int, dim bool) string {
	var result strings.Builder

	stripped := ansi.Strip(bgLine)
	bgWidth := ansi.StringWidth(stripped)

	styleSeg := func(s string) string {
		if dim {
			return DimStyle.Render(s)
		}
		return s
	}
	bgSeg := bgLine
	if dim {
		bgSeg = stripped
	}

	// Left segment up to startX
	if startX > 0 {
		leftSeg := ansi.Truncate(bgSeg, startX, "")
		leftWidth := ansi.StringWidth(leftSeg)
		result.WriteString(styleSeg(leftSeg))
		if leftWidth < startX {
			result.WriteString(strings.Repeat(" ", startX-leftWidth))
		}
	}

	// Overlay content (never dimmed)
	result.WriteString(fgLine)

	// Right segment after the overlay
	rightStartX := startX + fgWidth
	if rightStartX < totalWidth && bgWidth > rightStartX {
		rightSeg := ansi.Cut(bgSeg, rightStartX, bgWidth)
		result.WriteString(styleSeg(rightSeg))
	}

	return result.String()
}

// OverlayModal composites a modal on top of a dimmed background.
// The modal is centered, with dimmed background visible on all sides.
func OverlayModal(background, modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")
	modalWidth := maxLineWidth(modalLines)
	startX := (width - modalWidth) / 2
	startY := (height - len(modalLines)) / 2
	if startX < 0 {
		startX = 0
	}
	if startY < 0 {
		startY = 0
	}
	return overlay(background, modalLines, startX, startY, modalWidth, width, height, true)
}

// OverlayAt composites an overlay on an undimmed background with its
// top-left corner at (x, y), clamped to stay inside the viewport. Used for
// the suggestion popover, which anchors near the text cursor.
func OverlayAt(background, content string, x, y, width, height int) string {
	lines := strings.Split(content, "\n")
	w := maxLineWidth(lines)

	if x+w > width {
		x = width - w
	}
	if x < 0 {
		x = 0
	}
	if y+len(lines) > height {
		y = height - len(lines)
	}
	if y < 0 {
		y = 0
	}
	return overlay(background, lines, x, y, w, width, height, false)
}

func overlay(background string, fgLines []string, startX, startY, fgWidth, width, height int, dim bool) string {
	bgLines := strings.Split(background, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	result := make([]string, 0, height)
	for y := 0; y < height; y++ {
		bgLine := ""
		if y < len(bgLines) {
			bgLine = bgLines[y]
		}

		fgRowIdx := y - startY
		if fgRowIdx >= 0 && fgRowIdx < len(fgLines) {
			result = append(result, compositeRow(bgLine, fgLines[fgRowIdx], startX, fgWidth, width, dim))
		} else if dim {
			result = append(result, DimStyle.Render(ansi.Strip(bgLine)))
		} else {
			result = append(result, bgLine)
		}
	}

	return strings.Join(result, "\n")
}

// PadToWidth truncates or pads a plain-text line to an exact visual width.
// Used to give popover rows a uniform width before styling.
func PadToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	truncated := runewidth.Truncate(s, width, "…")
	return truncated + strings.Repeat(" ", width-runewidth.StringWidth(truncated))
}
