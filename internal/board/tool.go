package board

import (
	"fmt"
	"strings"

	"inkboard/internal/shape"
)

// Tool is the active drawing mode.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPen
	ToolRect
	ToolCircle
	ToolStar
	ToolText
)

var toolNames = [...]string{
	ToolSelect: "select",
	ToolPen:    "pen",
	ToolRect:   "rect",
	ToolCircle: "circle",
	ToolStar:   "star",
	ToolText:   "text",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool maps a tool name to its Tool.
func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range toolNames {
		if name == s {
			return Tool(i), nil
		}
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", s)
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{ToolSelect, ToolPen, ToolRect, ToolCircle, ToolStar, ToolText}
}

// isShapeTool reports whether t draws a box-sized shape by dragging.
func (t Tool) isShapeTool() bool {
	return t == ToolRect || t == ToolCircle || t == ToolStar
}

// Style holds the drawing attributes applied to new shapes.
type Style struct {
	Stroke      string
	StrokeWidth float64
	Fill        shape.Fill
	FontSize    float64
	TextColor   string
}

// DefaultStyle returns the style used when no option overrides it.
func DefaultStyle() Style {
	return Style{
		Stroke:      shape.DefaultStroke,
		StrokeWidth: shape.DefaultStrokeWidth,
		Fill:        shape.NoFill,
		FontSize:    shape.DefaultFontSize,
		TextColor:   shape.DefaultTextFill,
	}
}
