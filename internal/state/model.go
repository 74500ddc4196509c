package state

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

type Point struct{ X, Y float32 }

// Stroke is one entry of the vector stroke log. The raster buffer is rebuilt
// from these on resize.
type Stroke struct {
	ID     string
	Points []Point
	Color  color.Color
	Width  float32
}

// Value is a backend result. The backend sends strings most of the time but
// numbers and booleans show up too.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*v = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Value(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = Value(strconv.FormatBool(b))
		return nil
	}
	return fmt.Errorf("result must be a string, number or boolean, got %s", raw)
}

func (v Value) String() string { return string(v) }

// Result is one record of a /calculate response.
type Result struct {
	Expr   string `json:"expr" validate:"required"`
	Result Value  `json:"result"`
	Assign bool   `json:"assign"`
}

// DisplayText is the plain "expr = value" form shown to the user.
func (r Result) DisplayText() string {
	return fmt.Sprintf("%s = %s", r.Expr, r.Result)
}

// Markup wraps DisplayText in inline math delimiters for the typesetter.
func (r Result) Markup() string {
	return fmt.Sprintf(`\(\LARGE{%s}\)`, r.DisplayText())
}

// Annotation is a result placed on the board.
type Annotation struct {
	ID          string
	Seq         uint64
	DisplayText string
	Markup      string
	// Position is the center of the annotation on the board.
	Position Point
	// Anchor is where the annotation was first placed. Drags never change it.
	Anchor Point
}
