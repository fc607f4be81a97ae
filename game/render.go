package game

type Color string

const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
	ColorWhite Color = "white"
)

type RenderGroup struct {
	Name  string       `json:"name"`
	Items []RenderItem `json:"items"`
}

// RenderItem is a 2D string; the only primitive the story overlay needs.
type RenderItem struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	ScaleX int    `json:"scale_x"`
	ScaleY int    `json:"scale_y"`
	Text   string `json:"text"`
	Color  Color  `json:"color"`
}

func TextGroup(name string, x, y, scale int, text string, color Color) RenderGroup {
	return RenderGroup{
		Name: name,
		Items: []RenderItem{
			{X: x, Y: y, ScaleX: scale, ScaleY: scale, Text: text, Color: color},
		},
	}
}
